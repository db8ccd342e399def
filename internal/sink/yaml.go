package sink

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jonboulle/clockwork"
	"gopkg.in/yaml.v3"

	"github.com/Lattice-Works/Portland-PD/internal/engine"
	"github.com/Lattice-Works/Portland-PD/internal/normalize"
)

// YAML writes one document per graph. Nothing is sent anywhere.
type YAML struct {
	w     io.Writer
	clock clockwork.Clock
}

// NewYAML writes to w. A nil clock means the real clock.
func NewYAML(w io.Writer, clock clockwork.Clock) *YAML {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &YAML{w: w, clock: clock}
}

func (y *YAML) Launch(ctx context.Context, flight *Flight) (Report, error) {
	report := newReport(flight, y.clock.Now())

	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)

	for g, err := range flight.Graphs {
		if err != nil {
			return report, fmt.Errorf("flight %s: %w", flight.ID, err)
		}

		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := enc.Encode(graphNode(flight, g)); err != nil {
			return report, fmt.Errorf("failed to write record %d: %w", g.Index, err)
		}

		report.add(g)
	}

	if err := enc.Close(); err != nil {
		return report, fmt.Errorf("failed to flush yaml: %w", err)
	}

	report.Batches = 1
	report.FinishedAt = y.clock.Now()

	return report, nil
}

func (y *YAML) Close() error {
	return nil
}

func graphNode(flight *Flight, g *engine.Graph) *yaml.Node {
	entities := seq()
	for _, e := range g.Entities {
		entities.Content = append(entities.Content, instanceNode(e.Type.Name, e.Type.EntitySet, e.ID, e.Status, e.Properties, e.Issues, nil))
	}

	associations := seq()
	for _, a := range g.Associations {
		ends := mapping(
			"src", scalar(a.Src.ID),
			"dst", scalar(a.Dst.ID),
		)
		associations.Content = append(associations.Content, instanceNode(a.Type.Name, a.Type.EntitySet, a.ID, a.Status, a.Properties, a.Issues, ends))
	}

	return mapping(
		"flight", scalar(flight.ID),
		"record", intScalar(int64(g.Index)),
		"entities", entities,
		"associations", associations,
	)
}

func instanceNode(
	name, set, id string,
	status engine.Status,
	props []engine.Property,
	issues []engine.Issue,
	ends *yaml.Node,
) *yaml.Node {
	values := mapping()

	for _, p := range props {
		if p.Value.IsMissing() {
			continue
		}

		values.Content = append(values.Content, scalar(p.Key), valueNode(p.Value))
	}

	node := mapping(
		"name", scalar(name),
		"set", scalar(set),
		"id", scalar(id),
		"status", scalar(status.String()),
	)

	if ends != nil {
		node.Content = append(node.Content, ends.Content...)
	}

	node.Content = append(node.Content, scalar("properties"), values)

	if len(issues) > 0 {
		list := seq()
		for _, is := range issues {
			list.Content = append(list.Content, scalar(is.Err.Error()))
		}

		node.Content = append(node.Content, scalar("issues"), list)
	}

	return node
}

func valueNode(v normalize.Value) *yaml.Node {
	if v.Kind() == normalize.KindInt {
		return intScalar(v.Any().(int64))
	}

	return scalar(v.String())
}

func mapping(pairs ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}

	for i := 0; i+1 < len(pairs); i += 2 {
		n.Content = append(n.Content, scalar(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}

	return n
}

func seq() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode}
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intScalar(n int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(n, 10)}
}
