package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tiwariParth/task-cli/internal/models"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// ExportFormats lists the accepted Export formats.
var ExportFormats = []string{FormatJSON, FormatYAML, FormatCSV}

// UnsupportedFormatError is returned by Export for unknown formats.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q: use %s", e.Format, strings.Join(ExportFormats, ", "))
}

// Export renders every task in the given format
func (app *TodoApp) Export(ctx context.Context, format string) ([]byte, error) {
	tasks, err := app.store.ListTasks(ctx, nil)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tasks: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(tasks)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tasks: %w", err)
		}
		return data, nil
	case FormatCSV:
		return exportToCSV(tasks)
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

func exportToCSV(tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "Description", "Status", "Created At", "Updated At"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, task := range tasks {
		record := []string{
			strconv.Itoa(task.ID),
			task.Description,
			task.Status.String(),
			task.CreatedAt.Format(time.RFC3339),
			task.UpdatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}
