package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/gtasksprint/pkg/auth"
	"github.com/harrisonrobin/gtasksprint/pkg/config"
	"github.com/harrisonrobin/gtasksprint/pkg/google"
	"github.com/harrisonrobin/gtasksprint/pkg/model"
	"github.com/harrisonrobin/gtasksprint/pkg/render"
	"github.com/harrisonrobin/gtasksprint/pkg/taskfile"
	"github.com/harrisonrobin/gtasksprint/pkg/terminal"
)

type options struct {
	width   int
	config  string
	color   string
	auth    bool
	setList string
	input   string
	verbose bool
}

// taskSource is satisfied by *google.TasksClient.
type taskSource interface {
	ListOpenTasks(ctx context.Context, dueMax time.Time) ([]model.Task, error)
}

// connect is replaced in tests.
var connect = func(ctx context.Context, listName string) (taskSource, error) {
	return google.NewClient(ctx, listName)
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "gtasksprint [width]",
		Short: "Print a Google Tasks list as a colored box in the terminal",
		Long: `gtasksprint fetches the open tasks of one Google Tasks list and prints them
in a box sized to the terminal. Overdue tasks are red, tasks due today orange,
later tasks white and notes grey.

The list is configured in gtasksprint.toml in the user config directory:

  [tasks_config]
  tasks_list_name = "My Tasks"
  max_due_future_days = 7`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				w, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid width %q: %w", args[0], err)
				}
				opts.width = w
			}
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "box width in columns (default: config, then terminal width)")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "path to the config file")
	cmd.Flags().StringVar(&opts.color, "color", "", "color output: auto, always or never (default: config, then auto)")
	cmd.Flags().BoolVar(&opts.auth, "auth", false, "discard the cached token and authorize with Google again")
	cmd.Flags().StringVar(&opts.setList, "set-list", "", "store the name of the task list to print and exit")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "print tasks saved from the Tasks API as JSON instead of fetching them (- for stdin)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log diagnostics to stderr")
	return cmd
}

func run(ctx context.Context, opts *options, stdin io.Reader, stdout, stderr io.Writer) error {
	log.SetOutput(io.Discard)
	if opts.verbose {
		log.SetOutput(stderr)
	}

	if opts.setList != "" {
		if err := config.SetList(opts.config, opts.setList); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Fprintf(stderr, "Task list set to: %s\n", opts.setList)
		return nil
	}

	if opts.auth {
		if err := auth.Authorize(ctx); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		fmt.Fprintln(stderr, "Authentication successful!")
		return nil
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		if opts.input == "" || !(errors.Is(err, config.ErrNotFound) || errors.Is(err, config.ErrNoListName)) {
			return err
		}
		log.Printf("Using default settings: %v", err)
		cfg = config.Default()
	}

	renderer, err := newRenderer(opts, cfg)
	if err != nil {
		return err
	}

	var source taskSource
	if opts.input != "" {
		source = &taskfile.Source{Path: opts.input, Stdin: stdin}
	} else if source, err = connect(ctx, cfg.Tasks.ListName); err != nil {
		return err
	}
	now := time.Now()
	tasks, err := source.ListOpenTasks(ctx, now.AddDate(0, 0, cfg.Tasks.MaxDueFutureDays))
	if err != nil {
		return err
	}
	log.Printf("Rendering %d tasks", len(tasks))

	if err := renderer.Render(stdout, tasks); err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout)
	return err
}

func newRenderer(opts *options, cfg *config.Config) (*render.Renderer, error) {
	width, err := terminal.ResolveWidth(opts.width, cfg.Display.Width, os.Stdout)
	if err != nil {
		return nil, err
	}

	mode := cfg.Display.Color
	if opts.color != "" {
		mode = opts.color
	}
	profile, err := terminal.Profile(mode, os.Stdout)
	if err != nil {
		return nil, err
	}

	policy, err := cfg.EmptyTitlePolicy()
	if err != nil {
		return nil, err
	}

	log.Printf("Width %d, color profile %s", width, profile.Name())
	return render.New(render.Config{
		Width:      width,
		Palette:    cfg.Palette(),
		Profile:    profile,
		EmptyTitle: policy,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gtasksprint: %v\n", err)
		stop()
		os.Exit(1)
	}
}
