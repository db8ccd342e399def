package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Lattice-Works/Portland-PD/internal/normalize"
	"github.com/Lattice-Works/Portland-PD/internal/record"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
)

// Config configures a Mapper.
type Config struct {
	// Workers is the number of records mapped in parallel by Stream. Values
	// below 2 map sequentially.
	Workers int
	// Window bounds how many records Stream holds at once. Defaults to 4*Workers.
	Window int
	// NewID generates identifiers for associations with a generated ID rule.
	// Defaults to random UUIDs.
	NewID func() string
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Mapper turns records into graphs. It is safe for concurrent use.
type Mapper struct {
	schema  *schema.Schema
	workers int
	window  int
	newID   func() string
	logger  *slog.Logger
	stats   *Stats
}

// New creates a mapper for s.
func New(s *schema.Schema, cfg Config) *Mapper {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	workers := max(cfg.Workers, 1)

	window := cfg.Window
	if window <= 0 {
		window = 4 * workers
	}

	return &Mapper{
		schema:  s,
		workers: workers,
		window:  max(window, workers),
		newID:   newID,
		logger:  logger,
		stats:   newStats(),
	}
}

// Schema returns the schema the mapper was created with.
func (m *Mapper) Schema() *schema.Schema {
	return m.schema
}

// Stats returns a snapshot of the counters accumulated so far.
func (m *Mapper) Stats() Snapshot {
	return m.stats.Snapshot()
}

// Map builds the graph of one record. The returned error wraps
// record.ErrUnknownColumn; every other problem is recorded on the instances.
func (m *Mapper) Map(rec record.Record) (*Graph, error) {
	b := &build{mapper: m, rec: rec}

	g := &Graph{Index: rec.Index}

	entities := make(map[string]*EntityInstance, len(m.schema.Entities()))

	for _, et := range m.schema.Entities() {
		inst, err := b.entity(et)
		if err != nil {
			return nil, fmt.Errorf("failed to map entity %s: %w", et.Name, err)
		}

		g.Entities = append(g.Entities, inst)
		entities[et.Name] = inst
	}

	for _, at := range m.schema.Associations() {
		inst, err := b.association(at, entities[at.From], entities[at.To])
		if err != nil {
			return nil, fmt.Errorf("failed to map association %s: %w", at.Name, err)
		}

		g.Associations = append(g.Associations, inst)
	}

	m.stats.record(g, b.parseErrors, b.unmapped)

	return g, nil
}

// build holds the per-record state of Map.
type build struct {
	mapper      *Mapper
	rec         record.Record
	parseErrors int
	unmapped    []string
}

func (b *build) entity(et *schema.EntityType) (*EntityInstance, error) {
	props, issues, present, err := b.bind(et.Name, et.Properties)
	if err != nil {
		return nil, err
	}

	inst := &EntityInstance{Type: et, Properties: props, Issues: issues}

	switch {
	case present == 0:
		inst.Status = StatusEmpty
	case len(blocking(issues)) > 0:
		inst.Status = StatusInvalid
	default:
		inst.Status = StatusValid
	}

	if inst.Status != StatusEmpty {
		keyValues := make([]normalize.Value, len(et.Key))
		for i, k := range et.Key {
			keyValues[i], _ = inst.Value(k)
		}

		inst.ID = DeriveID(et.EntitySet, keyValues)
	}

	return inst, nil
}

func (b *build) association(at *schema.AssociationType, src, dst *EntityInstance) (*AssociationInstance, error) {
	props, issues, _, err := b.bind(at.Name, at.Properties)
	if err != nil {
		return nil, err
	}

	inst := &AssociationInstance{Type: at, Src: src, Dst: dst, Properties: props, Issues: issues}

	for _, end := range []*EntityInstance{src, dst} {
		if end.Status != StatusValid {
			inst.Issues = append(inst.Issues, Issue{Err: &EndpointError{
				Association: at.Name,
				Entity:      end.Type.Name,
				Status:      end.Status,
			}})
		}
	}

	switch at.ID.Kind {
	case schema.IDDerived:
		keyValues := make([]normalize.Value, len(at.ID.Keys))

		for i, k := range at.ID.Keys {
			keyValues[i], _ = inst.Value(k)
			if keyValues[i].IsMissing() && !requiredKey(at.Properties, k) {
				inst.Issues = append(inst.Issues, Issue{Key: k, Err: &MissingRequiredFieldError{
					Declaration: at.Name,
					Key:         k,
					Columns:     columnsOf(at.Properties, k),
				}})
			}
		}

		// One key can link several pairs, e.g. two arrestees of one incident.
		keyValues = append(keyValues, normalize.Text(src.ID), normalize.Text(dst.ID))
		inst.ID = DeriveID(at.EntitySet, keyValues)
	default:
		inst.ID = b.mapper.newID()
	}

	inst.Status = StatusValid
	if len(blocking(inst.Issues)) > 0 {
		inst.Status = StatusInvalid
	}

	return inst, nil
}

// bind evaluates bindings in order and returns the values, the issues found
// and how many values are present.
func (b *build) bind(decl string, bindings []schema.Binding) ([]Property, []Issue, int, error) {
	props := make([]Property, 0, len(bindings))

	var issues []Issue

	present := 0

	for _, binding := range bindings {
		v, err := normalize.Apply(binding.Source(), b.rec)
		if err != nil && !normalize.IsSoft(err) {
			return nil, nil, 0, err
		}

		if err != nil {
			issues = append(issues, Issue{Key: binding.Key, Err: err})
			b.soft(decl, binding, err)
		}

		if v.IsMissing() && binding.Required {
			issues = append(issues, Issue{Key: binding.Key, Err: &MissingRequiredFieldError{
				Declaration: decl,
				Key:         binding.Key,
				Columns:     binding.Columns(),
			}})
		}

		if !v.IsMissing() {
			present++
		}

		props = append(props, Property{Key: binding.Key, Value: v})
	}

	return props, issues, present, nil
}

// soft counts a dropped value. Unmapped values are counted by normalizer
// name, or by column for unnamed normalizers.
func (b *build) soft(decl string, binding schema.Binding, err error) {
	var unmapped *normalize.UnmappedValueError
	if errors.As(err, &unmapped) {
		source := binding.NormalizerName
		if source == "" {
			source = unmapped.Column
		}

		b.unmapped = append(b.unmapped, source+": "+unmapped.Value)
	} else {
		b.parseErrors++
	}

	b.mapper.logger.Debug("value dropped",
		"record", b.rec.Index,
		"declaration", decl,
		"property", binding.Key,
		"error", err)
}

// blocking returns the issues that make an instance invalid.
func blocking(issues []Issue) []Issue {
	var out []Issue

	for _, is := range issues {
		var missing *MissingRequiredFieldError

		var endpoint *EndpointError

		if errors.As(is.Err, &missing) || errors.As(is.Err, &endpoint) {
			out = append(out, is)
		}
	}

	return out
}

// requiredKey reports whether bind already flags key when it is missing.
func requiredKey(bindings []schema.Binding, key string) bool {
	for _, b := range bindings {
		if b.Key == key {
			return b.Required
		}
	}

	return false
}

func columnsOf(bindings []schema.Binding, key string) []string {
	for _, b := range bindings {
		if b.Key == key {
			return b.Columns()
		}
	}

	return nil
}
