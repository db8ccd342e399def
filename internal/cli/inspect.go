package cli

import (
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Lattice-Works/Portland-PD/internal/mapping"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
)

func newInspectCommand(a *app) *cobra.Command {
	var (
		dump   bool
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the declarations of a flight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if asYAML {
				ff, err := a.flightDefinition()
				if err != nil {
					return err
				}

				data, err := mapping.Marshal(ff)
				if err != nil {
					return err
				}

				_, err = out.Write(data)

				return err
			}

			s, err := a.schema()
			if err != nil {
				return err
			}

			if dump {
				cfg := spew.ConfigState{Indent: "  ", MaxDepth: 6, DisablePointerAddresses: true, SortKeys: true}
				cfg.Fdump(out, s)

				return nil
			}

			renderSchema(cmd, s)

			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump the compiled schema")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the flight definition as YAML")
	cmd.MarkFlagsMutuallyExclusive("dump", "yaml")

	return cmd
}

func renderSchema(cmd *cobra.Command, s *schema.Schema) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.SetTitle("Flight " + s.Name())
	t.AppendHeader(table.Row{"Declaration", "Kind", "Set", "Identity", "Properties"})

	for _, e := range s.Entities() {
		t.AppendRow(table.Row{e.Name, "entity", e.EntitySet, "key: " + strings.Join(e.Key, ", "), properties(e.Properties)})
	}

	for _, a := range s.Associations() {
		identity := a.ID.Kind.String()
		if a.ID.Kind == schema.IDDerived {
			identity += ": " + strings.Join(a.ID.Keys, ", ")
		}

		t.AppendRow(table.Row{a.Name + " (" + a.From + " -> " + a.To + ")", "association", a.EntitySet, identity, properties(a.Properties)})
	}

	t.Render()
}

func properties(bindings []schema.Binding) string {
	lines := make([]string, 0, len(bindings))

	for _, b := range bindings {
		src := strings.Join(b.Columns(), " + ")
		if b.NormalizerName != "" {
			src = b.NormalizerName + "(" + src + ")"
		}

		line := b.Key + " <- " + src
		if b.Required {
			line += " (required)"
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
