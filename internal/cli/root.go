// Package cli provides the command-line interface for optionlab.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"optionlab/internal/analyzer"
	"optionlab/internal/breakeven"
	"optionlab/internal/config"
	"optionlab/internal/logging"
	"optionlab/internal/store"
	"optionlab/internal/surface"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-19"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger
	Analyzer  *analyzer.Analyzer
	Store     store.StrategyStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}
	app.configure()

	rootCmd := &cobra.Command{
		Use:   "optionlab",
		Short: "Options strategy P/L engine",
		Long: `optionlab analyzes multi-leg options strategies.

It prices legs with Black-Scholes, aggregates Greeks, recognises common
strategies, solves break-even prices and renders P/L surfaces over price
and time. Strategies can be saved to a local library for reuse.

Legs are given with --leg POSITION,TYPE,STRIKE,PREMIUM,QTY,EXPIRY[,VOL]
where PREMIUM is the total price of one contract.

Use 'optionlab examples' to see common workflows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dir, _ := cmd.Flags().GetString("config"); dir != "" && dir != app.ConfigDir {
				loaded, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = loaded
				app.ConfigDir = dir
				app.configure()
			}

			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optionlab)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("yaml", false, "output in YAML format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)
	addDerivativesCommands(rootCmd, app)
	addStrategyCommands(rootCmd, app)
	addHelpCommands(rootCmd, app)

	return rootCmd
}

// configure rebuilds the engine from the current configuration.
func (app *App) configure() {
	sc := app.Config.Solver
	solver := breakeven.NewSolver(breakeven.Config{
		Precision:     sc.Precision,
		ScanStep:      sc.ScanStep,
		Window:        sc.Window,
		WindowStep:    sc.WindowStep,
		MaxIterations: sc.MaxIterations,
	})
	app.Analyzer = analyzer.New(solver, analyzer.Options{PriceRange: sc.PriceRange})
}

// surfaceOptions maps the surface configuration onto generator options.
func (app *App) surfaceOptions() surface.Options {
	sc := app.Config.Surface
	opts := surface.DefaultOptions()
	opts.PriceRange = sc.PriceRange
	opts.RenderHeight = sc.RenderHeight
	opts.MinCellHeight = sc.MinCellHeight
	if sc.Workers > 0 {
		opts.Workers = sc.Workers
	}

	if len(sc.Steps) > 0 {
		res := surface.DefaultResolution()
		res.Steps = make([]surface.Step, len(sc.Steps))
		for i, s := range sc.Steps {
			res.Steps[i] = surface.Step{MaxDays: s.MaxDays, Columns: s.Columns}
		}
		if sc.Fallback > 0 {
			res.Fallback = sc.Fallback
		}
		opts.Resolution = res
	}
	return opts
}

// strategies opens the saved-strategy library on first use.
func (app *App) strategies() (store.StrategyStore, error) {
	if app.Store != nil {
		return app.Store, nil
	}
	s, err := store.NewSQLiteStore(app.Config.Store.Path)
	if err != nil {
		return nil, err
	}
	app.Logger.Debug().Str("path", app.Config.Store.Path).Msg("Strategy store opened")
	app.Store = s
	return s, nil
}

// Close releases the store if it was opened.
func (app *App) Close() error {
	if app.Store == nil {
		return nil
	}
	err := app.Store.Close()
	app.Store = nil
	return err
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsStructured() {
				return output.Emit(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("optionlab v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsStructured() {
				return output.Emit(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			dir := app.ConfigDir
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if output.IsStructured() {
				return output.Emit(map[string]string{"path": dir})
			}
			output.Println(dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsStructured() {
				return output.Emit(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Market Defaults")
	output.Printf("  Rate:            %s\n", FormatRate(cfg.Market.Rate))
	output.Printf("  Volatility:      %s\n", FormatRate(cfg.Market.Volatility))
	output.Println()

	output.Bold("Break-Even Solver")
	output.Printf("  Precision:       $%g\n", cfg.Solver.Precision)
	output.Printf("  Scan Step:       $%g\n", cfg.Solver.ScanStep)
	output.Printf("  Max Iterations:  %d\n", cfg.Solver.MaxIterations)
	output.Printf("  Window:          ±$%g (step $%g)\n", cfg.Solver.Window, cfg.Solver.WindowStep)
	output.Printf("  Price Range:     ±%.0f%%\n", cfg.Solver.PriceRange*100)
	output.Println()

	output.Bold("Surface")
	output.Printf("  Price Range:     ±%.0f%%\n", cfg.Surface.PriceRange*100)
	output.Printf("  Render Height:   %d px (min cell %d px)\n", cfg.Surface.RenderHeight, cfg.Surface.MinCellHeight)
	workers := "all CPUs"
	if cfg.Surface.Workers > 0 {
		workers = fmt.Sprintf("%d", cfg.Surface.Workers)
	}
	output.Printf("  Workers:         %s\n", workers)
	for _, s := range cfg.Surface.Steps {
		output.Printf("  ≤ %3.0f days:     %d columns\n", s.MaxDays, s.Columns)
	}
	output.Printf("  Beyond:          %d columns\n", cfg.Surface.Fallback)
	output.Println()

	output.Bold("Storage & Logging")
	output.Printf("  Database:        %s\n", cfg.Store.Path)
	output.Printf("  Log Level:       %s\n", cfg.Log.Level)
	output.Printf("  Log File:        %v (%s)\n", cfg.Log.File, cfg.Log.Path)

	return nil
}
