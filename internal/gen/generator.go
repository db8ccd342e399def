package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"github.com/Lattice-Works/Portland-PD/internal/mapping"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// FunctionName is the name of the generated builder function.
	FunctionName string
	// OutputDir receives an unformatted copy of the source when formatting
	// fails. Empty disables it.
	OutputDir string
	// Source names the flight file in the generated header.
	Source string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:  "flights",
		FunctionName: "Schema",
	}
}

// Generator generates Go code from flight files.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	d := DefaultGeneratorConfig()

	if config.PackageName == "" {
		config.PackageName = d.PackageName
	}

	if config.FunctionName == "" {
		config.FunctionName = d.FunctionName
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "portland_pd_flight.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate returns the source of a function building the flight ff
// declares. The file must compile; its problems are returned otherwise.
func (g *Generator) Generate(ff *mapping.FlightFile) (*GeneratedFile, error) {
	if _, err := mapping.Compile(ff, nil); err != nil {
		return nil, fmt.Errorf("flight does not compile: %w", err)
	}

	data := g.buildTemplateData(ff)

	var buf bytes.Buffer
	if err := flightTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, data.Filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: data.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: data.Filename,
		Content:  formatted,
	}, nil
}

// Template for the flight file

var flightTemplate = template.Must(template.New("flight").Parse(`// Code generated by flight gen{{if .Source}} from {{.Source}}{{end}}. DO NOT EDIT.

package {{.PackageName}}

import (
{{if .NeedsFmt}}	"fmt"

{{end}}{{if .Normalizers}}	"github.com/Lattice-Works/Portland-PD/internal/normalize"
{{end}}	"github.com/Lattice-Works/Portland-PD/internal/schema"
)

// {{.FunctionName}} builds the {{.FlightName}} flight.
func {{.FunctionName}}() (*schema.Schema, error) {
{{range .Normalizers}}{{if .Fallible}}	{{.Var}}, err := {{.Expr}}
	if err != nil {
		return nil, fmt.Errorf({{.ErrFormat}}, err)
	}
{{else}}	{{.Var}} := {{.Expr}}
{{end}}
{{end}}	return schema.NewBuilder({{printf "%q" .FlightName}}).
{{range .Entities}}		AddEntity(schema.EntityDecl{
			Name: {{printf "%q" .Name}},
			EntitySet: {{printf "%q" .Set}},
			Properties: []schema.Binding{
{{range .Properties}}				{{.}},
{{end}}			},
{{if .Key}}			Key: {{.Key}},
{{end}}		}).
{{end}}{{range .Associations}}		AddAssociation(schema.AssociationDecl{
			Name: {{printf "%q" .Name}},
			EntitySet: {{printf "%q" .Set}},
			From: {{printf "%q" .From}},
			To: {{printf "%q" .To}},
			Properties: []schema.Binding{
{{range .Properties}}				{{.}},
{{end}}			},
			ID: {{.ID}},
		}).
{{end}}		Build()
}
`))
