package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tiwariParth/task-cli/internal/app"
	"github.com/tiwariParth/task-cli/internal/config"
	"github.com/tiwariParth/task-cli/internal/logger"
	"github.com/tiwariParth/task-cli/internal/storage"
	"github.com/tiwariParth/task-cli/internal/storage/file"
	"github.com/tiwariParth/task-cli/internal/storage/memory"
)

const usageText = `
Usage: task-cli [flags] <command> [arguments]

Commands:
  add <description>              Add a new task
  update <id> <description>      Update task description
  delete <id>                    Delete a task
  mark-in-progress <id>          Mark task as in progress
  mark-done <id>                 Mark task as done
  list [status]                  List tasks (optionally filter by status)
                                 Status options: todo, in-progress, done
  export [format]                Print all tasks as json, yaml or csv

Flags:
  -f, --file <path>              Task file (default "tasks.json")
      --config <path>            Config file
      --color <mode>             auto, always or never (default "auto")
      --log-level <level>        debug, info, warn or error (default "error")

Examples:
  task-cli add "Buy groceries"
  task-cli update 1 "Buy groceries and cook dinner"
  task-cli delete 1
  task-cli mark-in-progress 1
  task-cli mark-done 1
  task-cli list
  task-cli list done
  task-cli export yaml

`

// Options configures a CLI. Zero values fall back to the process streams, a
// logger built from configuration and the wall clock.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *logger.Logger
	Clock  func() time.Time
}

// CLI represents the command-line interface.
type CLI struct {
	stdout     io.Writer
	stderr     io.Writer
	clock      func() time.Time
	baseLog    *logger.Logger
	log        *logger.Logger
	cfg        *config.Config
	colors     palette
	configPath string
	helpShown  bool
}

// NewCLI initializes a new CLI.
func NewCLI(opts Options) *CLI {
	c := &CLI{
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		clock:   opts.Clock,
		baseLog: opts.Logger,
		log:     logger.NewNop(),
		colors:  newPalette(config.ColorNever),
	}
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
	return c
}

// Run executes exactly one command from args (excluding argv[0]), prints its
// outcome and returns the process exit code.
func (c *CLI) Run(ctx context.Context, args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("unexpected panic", "panic", r, "stack", string(debug.Stack()))
			fmt.Fprintf(c.stderr, "An unexpected error occurred: %v\n", r)
			code = ExitFailure
		}
	}()

	c.helpShown = false
	root := c.newRootCommand()
	root.SetArgs(commandArgs(root, args))
	err := root.ExecuteContext(ctx)
	if err == nil && c.helpShown {
		err = &ArgumentError{}
	}
	c.report(err)
	_ = c.log.Sync()
	return ExitCode(err)
}

func (c *CLI) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "task-cli",
		Short:             "Track tasks in a local JSON file",
		Args:              cobra.ArbitraryArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprint(c.stdout, usageText)
				return &ArgumentError{}
			}
			return unknownCommand(args[0])
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SetUsageFunc(func(cmd *cobra.Command) error {
		fmt.Fprint(cmd.OutOrStderr(), usageText)
		return nil
	})
	// --help prints usage like a bare invocation; Run turns it into a usage exit.
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		c.helpShown = true
		fmt.Fprint(c.stdout, usageText)
	})
	root.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return unknownCommand(cmd.Name())
		},
	})
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ArgumentError{Message: err.Error(), ShowUsage: true}
	})

	pf := root.PersistentFlags()
	pf.StringP("file", "f", file.DefaultFileName, "task file")
	pf.StringVar(&c.configPath, "config", "", "config file")
	pf.String("color", config.ColorAuto, "color output: auto, always or never")
	pf.String("log-level", "error", "log level: debug, info, warn or error")

	root.AddCommand(
		c.newAddCommand(),
		c.newUpdateCommand(),
		c.newDeleteCommand(),
		c.newMarkCommand("mark-in-progress", "Mark task as in progress", (*app.TodoApp).MarkInProgress),
		c.newMarkCommand("mark-done", "Mark task as done", (*app.TodoApp).MarkDone),
		c.newListCommand(),
		c.newExportCommand(),
	)
	return root
}

// setup resolves configuration and the logger for subcommands.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if !cmd.HasParent() {
		return nil
	}

	cfg, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return &ArgumentError{Message: err.Error()}
	}
	c.cfg = cfg
	c.colors = newPalette(cfg.Color)

	log := c.baseLog
	if log == nil {
		log, err = logger.New(cfg.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	c.log = log.With("invocation_id", uuid.NewString(), "command", cmd.Name())
	return nil
}

// openApp loads the task file. A file that cannot be loaded is reported and
// the command carries on with an empty list.
func (c *CLI) openApp(ctx context.Context) (*app.TodoApp, error) {
	store := file.NewFileStore(c.cfg.File, memory.WithClock(c.clock))
	if err := store.Load(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		fmt.Fprintf(c.stderr, "%s failed to load tasks: %v\n", c.colors.Red("Warning:"), err)
		c.log.Warnw("task file rejected, starting with an empty list", "path", store.Path(), "error", err)
	}
	return app.NewTodoApp(store, c.log), nil
}

func (c *CLI) report(err error) {
	if err == nil {
		return
	}

	var argErr *ArgumentError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(c.stderr, "Operation cancelled by user")
	case errors.As(err, &argErr):
		if argErr.Message != "" {
			c.printError(argErr.Message)
		}
		if argErr.ShowUsage {
			fmt.Fprint(c.stderr, usageText)
		}
	case errors.Is(err, storage.ErrTaskNotFound),
		errors.Is(err, storage.ErrTaskValidation),
		errors.Is(err, storage.ErrPersistence):
		c.printError(err.Error())
	default:
		c.log.Errorw("unexpected error", "error", err)
		fmt.Fprintf(c.stderr, "An unexpected error occurred: %v\n", err)
	}
}

func (c *CLI) printError(msg string) {
	fmt.Fprintf(c.stderr, "%s %s\n", c.colors.Red("Error:"), upperFirst(msg))
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func unknownCommand(name string) error {
	return &ArgumentError{
		Message:   fmt.Sprintf("Unknown command '%s'", name),
		ShowUsage: true,
	}
}

// commandArgs lower-cases the command name and ends flag parsing right after
// it, so global flags are only recognized before the command and every word
// after it reaches the command verbatim ("add call mom -f x", "delete -1").
func commandArgs(root *cobra.Command, args []string) []string {
	// non-nil: cobra falls back to os.Args when given nil.
	out := make([]string, 0, len(args)+1)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return append(out, args[i:]...)
		case len(arg) > 1 && arg[0] == '-':
			out = append(out, arg)
			if flagTakesValue(root, arg) && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
		default:
			out = append(out, strings.ToLower(arg), "--")
			return append(out, args[i+1:]...)
		}
	}
	return out
}

// flagTakesValue reports whether a global flag written as arg consumes the
// next argument. Unknown flags do, matching how cobra locates the command.
func flagTakesValue(root *cobra.Command, arg string) bool {
	var f *pflag.Flag
	if strings.HasPrefix(arg, "--") {
		name := arg[2:]
		if strings.Contains(name, "=") {
			return false
		}
		f = root.PersistentFlags().Lookup(name)
		if f == nil && name == "help" {
			return false
		}
	} else {
		if len(arg) != 2 {
			return false
		}
		f = root.PersistentFlags().ShorthandLookup(arg[1:])
		if f == nil && arg == "-h" {
			return false
		}
	}
	return f == nil || f.NoOptDefVal == ""
}

// joinArgs builds a description from the remaining words.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
