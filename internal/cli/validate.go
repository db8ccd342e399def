package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Lattice-Works/Portland-PD/internal/diagnostic"
	"github.com/Lattice-Works/Portland-PD/internal/mapping"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
	"github.com/Lattice-Works/Portland-PD/internal/source"
)

func newValidateCommand(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a flight definition",
		Long: `Check that the flight definition compiles. With --input, also check that
every column the flight reads exists in the CSV header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if a.flightFile != "" {
				ff, err := mapping.LoadFile(a.flightFile)
				if err != nil {
					return err
				}

				diags := mapping.Validate(ff, nil)
				if err := printDiagnostics(out, *diags); err != nil {
					return err
				}

				if diags.HasErrors() {
					return invalid(ff.Name, len(diags.Errors))
				}
			}

			s, err := a.schema()
			if err != nil {
				return reportInvalid(out, err)
			}

			if input != "" {
				src, err := source.OpenCSV(input)
				if err != nil {
					return err
				}
				defer src.Close()

				if err := s.CheckHeader(src.Header()); err != nil {
					return reportInvalid(out, err)
				}
			}

			return writef(out, "flight %s is valid (%d entities, %d associations)\n",
				s.Name(), len(s.Entities()), len(s.Associations()))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV payload whose header is checked")

	return cmd
}

// reportInvalid prints the diagnostics of a schema error before returning it.
func reportInvalid(w io.Writer, err error) error {
	var schemaErr *schema.Error
	if !errors.As(err, &schemaErr) {
		return err
	}

	if perr := printDiagnostics(w, diagnostic.Diagnostics{Errors: schemaErr.Diagnostics.Errors}); perr != nil {
		return perr
	}

	return invalid(schemaErr.Schema, len(schemaErr.Diagnostics.Errors))
}

func invalid(name string, problems int) error {
	return fmt.Errorf("flight %s is invalid: %d problem(s)", name, problems)
}

func printDiagnostics(w io.Writer, diags diagnostic.Diagnostics) error {
	for _, d := range diags.Warnings {
		if err := writef(w, "warning: %s\n", d); err != nil {
			return err
		}
	}

	for _, d := range diags.Errors {
		if err := writef(w, "error: %s\n", d); err != nil {
			return err
		}
	}

	return nil
}
