package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Lattice-Works/Portland-PD/internal/config"
)

// Version information (set at build time).
var Version = "0.1.0"

// app is the state shared by the commands of one invocation.
type app struct {
	cfgFile    string
	envFiles   []string
	flightFile string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "flight",
		Short: "Map police records into an entity graph and launch them",
		Long: `flight maps rows of a records extract into entities and associations
(arrestees, incidents, officers and the links between them) and delivers
them to an integration sink.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			return a.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files (default: ./.env when present)")
	flags.StringVar(&a.flightFile, "flight", "", "flight definition file (default: built-in Portland PD flight)")
	flags.String("environment", "", "target environment (local|staging|production)")
	flags.String("sink", "", "sink to launch into (shuttle|sqlite|yaml)")
	flags.Int("workers", 0, "records mapped in parallel")
	flags.String("timezone", "", "time zone of dates in the input")
	flags.String("date-pattern", "", "date pattern of the input (e.g. yyyy-MM-dd)")
	flags.String("shuttle-url", "", "integration endpoint")
	flags.String("token", "", "bearer token for the integration endpoint")
	flags.Int("shuttle-batch-size", 0, "records per upload batch")
	flags.Int("shuttle-max-retries", 0, "retries per batch")
	flags.Duration("shuttle-timeout", 0, "timeout per request")
	flags.String("sqlite-path", "", "database file of the sqlite sink")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.String("log-format", "", "log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("sink", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.SinkShuttle, config.SinkSQLite, config.SinkYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newRunCommand(a),
		newValidateCommand(a),
		newInspectCommand(a),
		newGenCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the root command. An interrupt cancels the running flight.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	return nil
}

func (a *app) load(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	opts := config.LoadOptions{File: a.cfgFile, Flags: flags}
	if flags.Changed("env-file") {
		opts.EnvFiles = a.envFiles
	}

	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}
