package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/lazydb/app"
	"github.com/sheenazien8/lazydb/config"
	"github.com/sheenazien8/lazydb/drivers"
	"github.com/sheenazien8/lazydb/history"
	"github.com/sheenazien8/lazydb/logger"
	"github.com/sheenazien8/lazydb/model"
	"github.com/sheenazien8/lazydb/storage"
	"github.com/sheenazien8/lazydb/ui/theme"
	"github.com/sheenazien8/lazydb/worker"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "lazydb",
	Short: "A terminal client for PostgreSQL, MySQL, SQLite and MongoDB",
	Long: `lazydb browses projects of database connections, their tables and
routines, and runs queries without leaving the terminal.

Examples:

  lazydb
  lazydb --config ./config.yaml
  lazydb projects import ./shop.yaml
  lazydb history list --limit 20
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/lazydb/config.yaml)")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads config, starts the file logger and opens storage.
func setup() (*config.Config, *storage.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if err := logger.SetFile(cfg.Log.File); err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		logger.Warn("Unknown log level", map[string]any{"level": cfg.Log.Level})
	}

	if dir, err := config.Dir(); err == nil {
		if err := config.LoadEnv(dir, "."); err != nil {
			logger.Warn("Failed to load .env", map[string]any{"error": err.Error()})
		}
	}

	store, err := storage.Open(cfg.Storage.Path, storage.NewSecrets())
	if err != nil {
		logger.Close()
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return cfg, store, nil
}

// loadProjects returns the stored projects, seeding storage from project
// files on first run.
func loadProjects(store *storage.Store) ([]model.Project, error) {
	projects, err := store.LoadProjects()
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	if len(projects) > 0 {
		return projects, nil
	}

	dir, err := config.ProjectsDir()
	if err != nil {
		return nil, nil
	}
	projects, err = config.LoadProjectsDir(dir)
	if err != nil {
		return nil, err
	}
	if len(projects) > 0 {
		if err := store.SaveProjects(projects); err != nil {
			return nil, err
		}
		logger.Info("Imported project files", map[string]any{"count": len(projects), "dir": dir})
	}
	return projects, nil
}

func providerFactory(postgresDriver string) worker.ProviderFactory {
	return func(ctx context.Context, p drivers.Params) (drivers.Provider, error) {
		p.PostgresDriver = postgresDriver
		return drivers.Open(ctx, p)
	}
}

func runTUI() error {
	cfg, store, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()
	defer store.Close()

	if !theme.Apply(cfg.Settings.Theme) {
		logger.Warn("Unknown theme", map[string]any{"theme": cfg.Settings.Theme})
	}

	projects, err := loadProjects(store)
	if err != nil {
		return err
	}

	h := history.New(cfg.History.MaxEntries)
	if cfg.History.Persist {
		entries, err := store.LoadHistory(cfg.History.MaxEntries)
		if err != nil {
			logger.Error("Failed to load query history", map[string]any{"error": err.Error()})
		}
		h.Load(entries)
	}

	w := worker.Spawn(providerFactory(cfg.Drivers.Postgres), cfg.Worker.Timeout)
	defer w.Shutdown()

	a := app.New(app.Options{
		Projects:  projects,
		History:   h,
		Worker:    w,
		Schema:    cfg.Worker.Schema,
		PageSizes: cfg.UI.PageSizes,
	})
	openDefaultProject(a, cfg.Settings.DefaultProject)

	prog := app.NewProgram(a, app.ProgramOptions{
		Store:          store,
		TickInterval:   cfg.UI.TickInterval,
		PersistHistory: cfg.History.Persist,
		ShowRowCount:   cfg.Settings.ShowRowCount,
	})

	logger.Info("Starting", map[string]any{"projects": len(projects), "history": h.Len()})
	if _, err := tea.NewProgram(prog, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

func openDefaultProject(a *app.App, name string) {
	if name == "" {
		return
	}
	for i, p := range a.Projects {
		if p.Name == name {
			a.SelectedProject = i
			a.Update(app.Msg(app.Activate))
			return
		}
	}
	logger.Warn("Default project not found", map[string]any{"name": name})
}
