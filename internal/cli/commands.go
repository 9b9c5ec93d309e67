package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiwariParth/task-cli/internal/app"
	"github.com/tiwariParth/task-cli/internal/models"
)

// minArgs fails with msg when fewer than n positional arguments are given.
// Extra arguments are ignored.
func minArgs(n int, msg string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return newArgumentError(msg)
		}
		return nil
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, newArgumentError("Task ID must be a number")
	}
	return id, nil
}

func (c *CLI) newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <description>",
		Short: "Add a new task",
		Args:  minArgs(1, "Please provide a task description"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			todo, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			task, err := todo.AddTask(ctx, joinArgs(args))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "%s (ID: %s)\n", c.colors.Green("Task added successfully"), c.colors.Bold(strconv.Itoa(task.ID)))
			return nil
		},
	}
}

func (c *CLI) newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <description>",
		Short: "Update task description",
		Args:  minArgs(2, "Please provide task ID and new description"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			todo, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			if _, err := todo.UpdateTask(ctx, id, joinArgs(args[1:])); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Task %s updated successfully\n", c.colors.Bold(strconv.Itoa(id)))
			return nil
		},
	}
}

func (c *CLI) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  minArgs(1, "Please provide task ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			todo, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			if err := todo.DeleteTask(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Task %s deleted successfully\n", c.colors.Bold(strconv.Itoa(id)))
			return nil
		},
	}
}

type markFunc func(todo *app.TodoApp, ctx context.Context, id int) (models.Task, error)

func (c *CLI) newMarkCommand(name, short string, mark markFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  minArgs(1, "Please provide task ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			todo, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			task, err := mark(todo, ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Task %s marked as %s\n", c.colors.Bold(strconv.Itoa(id)), c.colors.Status(task.Status, task.Status.String()))
			return nil
		},
	}
}

func (c *CLI) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [status]",
		Short: "List tasks, optionally filtered by status",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter string
			if len(args) > 0 {
				status, err := models.ParseStatus(args[0])
				if err != nil {
					return newArgumentError("Invalid status filter. Use: todo, in-progress, or done")
				}
				filter = status.String()
			}

			ctx := cmd.Context()
			todo, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			result, err := todo.ListTasks(ctx, filter)
			if err != nil {
				return err
			}

			switch {
			case result.Total == 0:
				fmt.Fprintln(c.stdout, "No tasks found")
			case len(result.Tasks) == 0:
				fmt.Fprintf(c.stdout, "No tasks found with status '%s'\n", filter)
			default:
				c.renderTasks(c.stdout, result.Tasks)
			}
			return nil
		},
	}
}

func (c *CLI) newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [json|yaml|csv]",
		Short: "Print all tasks in a structured format",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := app.FormatJSON
			if len(args) > 0 {
				format = strings.ToLower(strings.TrimSpace(args[0]))
			}
			switch format {
			case app.FormatJSON, app.FormatYAML, "yml", app.FormatCSV:
			default:
				return newArgumentError(fmt.Sprintf("Invalid export format '%s'. Use: %s", args[0], strings.Join(app.ExportFormats, ", ")))
			}

			ctx := cmd.Context()
			todo, err := c.openApp(ctx)
			if err != nil {
				return err
			}
			data, err := todo.Export(ctx, format)
			if err != nil {
				return err
			}
			_, err = c.stdout.Write(data)
			return err
		},
	}
}
