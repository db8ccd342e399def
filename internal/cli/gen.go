package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Lattice-Works/Portland-PD/internal/gen"
	"github.com/Lattice-Works/Portland-PD/internal/mapping"
)

func newGenCommand(a *app) *cobra.Command {
	var (
		outputDir string
		cfg       = gen.DefaultGeneratorConfig()
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go code that builds a flight",
		Long: `gen turns the flight definition into a Go function returning the
compiled schema, so a flight can be vendored into another program without
its YAML file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ff, err := a.flightDefinition()
			if err != nil {
				return err
			}

			ff.Settings = ff.Settings.Or(mapping.Settings{TimeZone: a.cfg.TimeZone, DatePattern: a.cfg.DatePattern})

			cfg.OutputDir = outputDir
			if a.flightFile != "" {
				cfg.Source = filepath.Base(a.flightFile)
			}

			file, err := gen.NewGenerator(cfg).Generate(ff)
			if err != nil {
				return err
			}

			if outputDir == "" {
				_, err = cmd.OutOrStdout().Write(file.Content)
				return err
			}

			path, err := gen.WriteFile(file, outputDir)
			if err != nil {
				return err
			}

			a.logger.Info("generated flight", "flight", ff.Name, "path", path)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: stdout)")
	cmd.Flags().StringVar(&cfg.PackageName, "package", cfg.PackageName, "package of the generated file")
	cmd.Flags().StringVar(&cfg.FunctionName, "func", cfg.FunctionName, "name of the generated function")

	return cmd
}
