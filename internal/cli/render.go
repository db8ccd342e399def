package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Lattice-Works/Portland-PD/internal/common"
	"github.com/Lattice-Works/Portland-PD/internal/launch"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
)

// renderSummary prints per-declaration outcomes and the flight totals.
func renderSummary(w io.Writer, s *schema.Schema, res launch.Result) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Flight " + s.Name() + " (" + res.Report.FlightID + ")")
	t.AppendHeader(table.Row{"Declaration", "Kind", "Valid", "Invalid", "Empty"})

	for _, e := range s.Entities() {
		c := res.Stats.Declarations[e.Name]
		t.AppendRow(table.Row{e.Name, "entity", c.Valid, c.Invalid, c.Empty})
	}

	for _, a := range s.Associations() {
		c := res.Stats.Declarations[a.Name]
		t.AppendRow(table.Row{a.Name, "association", c.Valid, c.Invalid, c.Empty})
	}

	t.AppendFooter(table.Row{"Records", res.Report.Records, "Parse errors", res.Stats.ParseErrors, ""})
	t.Render()

	if len(res.Stats.Unmapped) == 0 {
		return nil
	}

	u := table.NewWriter()
	u.SetOutputMirror(w)
	u.SetStyle(table.StyleLight)
	u.AppendHeader(table.Row{"Unmapped value", "Count"})

	for _, key := range common.SortedKeys(res.Stats.Unmapped) {
		u.AppendRow(table.Row{key, res.Stats.Unmapped[key]})
	}

	u.Render()

	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
