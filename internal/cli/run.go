package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Lattice-Works/Portland-PD/internal/config"
	"github.com/Lattice-Works/Portland-PD/internal/engine"
	"github.com/Lattice-Works/Portland-PD/internal/launch"
	"github.com/Lattice-Works/Portland-PD/internal/source"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		input    string
		flightID string
	)

	cmd := &cobra.Command{
		Use:   "run [input] [token]",
		Short: "Map a CSV payload and launch it",
		Long: `Map every row of a CSV payload with the flight and launch the resulting
entities and associations into the configured sink.

The input path and token may be given as positional arguments or with
--input and --token.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				input = args[0]
			}

			if len(args) > 1 {
				a.cfg.Shuttle.Token = args[1]
			}

			if input == "" {
				return errors.New("an input file is required (--input)")
			}

			s, err := a.schema()
			if err != nil {
				return err
			}

			src, err := source.OpenCSV(input)
			if err != nil {
				return err
			}
			defer src.Close()

			// YAML documents go to stdout, so the summary moves to stderr.
			summary := cmd.OutOrStdout()
			if a.cfg.Sink == config.SinkYAML {
				summary = cmd.ErrOrStderr()
			}

			dst, err := a.sink(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer dst.Close()

			res, err := launch.Run(cmd.Context(), src, s, dst, launch.Options{
				FlightID: flightID,
				Engine:   engine.Config{Workers: a.cfg.Workers},
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}

			return renderSummary(summary, s, res)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV payload to map")
	cmd.Flags().StringVar(&flightID, "flight-id", "", "flight identifier (default: generated)")

	return cmd
}
