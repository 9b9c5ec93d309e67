package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/tiwariParth/task-cli/internal/models"
)

const createdLayout = "2006-01-02 15:04"

// renderTasks prints a fixed-width table. Cells are padded before they are
// colored so escape codes do not shift the columns.
func (c *CLI) renderTasks(w io.Writer, tasks []models.Task) {
	fmt.Fprintf(w, "\n%-4s %-12s %-50s %-20s\n", "ID", "Status", "Description", "Created")
	fmt.Fprintln(w, strings.Repeat("-", 86))

	for _, task := range tasks {
		id := c.colors.Bold(fmt.Sprintf("%-4d", task.ID))
		status := c.colors.Status(task.Status, fmt.Sprintf("%-12s", task.Status))
		created := task.CreatedAt.Local().Format(createdLayout)
		fmt.Fprintf(w, "%s %s %-50s %-20s\n", id, status, task.Description, created)
	}
}
