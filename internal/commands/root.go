package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskboard/internal/collab"
	"github.com/tgienger/taskboard/internal/config"
	"github.com/tgienger/taskboard/internal/logging"
	"github.com/tgienger/taskboard/internal/projection"
	"github.com/tgienger/taskboard/internal/seed"
	"github.com/tgienger/taskboard/internal/store"
	"github.com/tgienger/taskboard/internal/ui"
	"github.com/tgienger/taskboard/internal/view"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what the persistent pre-run sets up for every command
type app struct {
	cfg      *config.Config
	data     seed.Dataset
	closeLog func() error

	seedPath string
	logFile  string
	logLevel string
	viewName string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "taskboard",
		Short: "Tasks in list, board, table and document views",
		Long: `taskboard keeps one shared task collection per session and shows it as a
grouped list, a kanban board, a sortable table or a project document.
Run without a subcommand to start the interactive UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&a.seedPath, "seed", "", "Seed dataset (TOML); defaults to the built-in dataset")
	cmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Log file; empty disables logging")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.viewName, "view", "", "Initial view (list, board, table, document)")

	cmd.AddCommand(newLsCmd(a))
	cmd.AddCommand(newProjectsCmd(a))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// setup loads config, applies flag overrides, starts logging and scopes a
// store to the command's context
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.SeedPath = a.seedPath
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("view") {
		if cfg.View, err = view.Parse(a.viewName); err != nil {
			return err
		}
	}
	a.cfg = cfg

	a.closeLog, err = logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	log.Info().Str("command", cmd.CommandPath()).Str("version", version).Msg("starting")

	if cfg.SeedPath != "" {
		a.data, err = seed.LoadFile(cfg.SeedPath)
	} else {
		a.data, err = seed.Default()
	}
	if err != nil {
		return err
	}

	st := store.New(a.data.Tasks, a.data.Projects)
	if err := st.SetCurrentView(cfg.View); err != nil {
		return err
	}
	cmd.SetContext(store.NewContext(cmd.Context(), st))
	return nil
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	log.Info().Msg("exiting")
	return a.closeLog()
}

// session builds the collaboration session for the configured mode
func (a *app) session() *collab.Session {
	var provider collab.Provider
	if a.cfg.Collab == config.CollabLocal {
		local := collab.NewLocal(a.data.ActiveUsers)
		for _, p := range a.data.Projects {
			local.Seed(collab.DocumentKey(a.cfg.Identity.OrganizationID, p.ID), projection.FilterByProject(a.data.Tasks, p.ID))
		}
		provider = local
	}
	return collab.NewSession(provider, a.cfg.Identity)
}

func (a *app) runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st := store.FromContext(ctx)
	sess := a.session()
	if p, ok := st.CurrentProject(); ok {
		sess.Start(ctx, p.ID)
	}

	m := ui.NewApp(ctx, ui.Options{
		Session:       sess,
		CloseDelay:    a.cfg.CloseDelay,
		MarkdownStyle: a.cfg.MarkdownStyle,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}
