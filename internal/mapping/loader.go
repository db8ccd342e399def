package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML flight file from the given path.
func LoadFile(path string) (*FlightFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flight file %s: %w", path, err)
	}

	ff, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ff, nil
}

// Parse parses YAML data into a FlightFile. Unknown keys are rejected.
func Parse(data []byte) (*FlightFile, error) {
	var ff FlightFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&ff); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("failed to parse flight YAML: document is empty")
		}

		return nil, fmt.Errorf("failed to parse flight YAML: %w", err)
	}

	applyDefaults(&ff)

	return &ff, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(ff *FlightFile) {
	if ff.Version == "" {
		ff.Version = CurrentVersion
	}

	for i := range ff.Entities {
		if ff.Entities[i].Set == "" {
			ff.Entities[i].Set = ff.Entities[i].Name
		}
	}

	for i := range ff.Associations {
		if ff.Associations[i].Set == "" {
			ff.Associations[i].Set = ff.Associations[i].Name
		}
	}
}

// Marshal serializes a FlightFile to YAML.
func Marshal(ff *FlightFile) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(ff); err != nil {
		return nil, fmt.Errorf("failed to marshal flight: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal flight: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile writes a FlightFile to the given path.
func WriteFile(ff *FlightFile, path string) error {
	data, err := Marshal(ff)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write flight file %s: %w", path, err)
	}

	return nil
}
