package gen

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"github.com/Lattice-Works/Portland-PD/internal/common"
	"github.com/Lattice-Works/Portland-PD/internal/mapping"
)

// templateData holds all data needed for the flight template.
type templateData struct {
	PackageName  string
	FunctionName string
	FlightName   string
	Source       string
	Filename     string
	NeedsFmt     bool
	Normalizers  []normalizerData
	Entities     []declData
	Associations []declData
}

// normalizerData is one normalizer variable of the builder function.
type normalizerData struct {
	Name      string
	Var       string
	Expr      string
	Fallible  bool
	ErrFormat string
}

// declData is one entity or association declaration. Properties, Key and
// ID hold Go expressions.
type declData struct {
	Name       string
	Set        string
	From       string
	To         string
	Properties []string
	Key        string
	ID         string
}

// reserved are identifiers the generated function already uses.
var reserved = map[string]bool{"err": true, "fmt": true, "normalize": true, "schema": true}

func (g *Generator) buildTemplateData(ff *mapping.FlightFile) *templateData {
	data := &templateData{
		PackageName:  g.config.PackageName,
		FunctionName: g.config.FunctionName,
		FlightName:   ff.Name,
		Source:       g.config.Source,
		Filename:     snakeCase(ff.Name) + "_flight.go",
	}

	// Only referenced normalizers become variables, in declaration order.
	referenced := make(map[string]bool)
	for _, e := range ff.Entities {
		markReferenced(referenced, e.Properties)
	}

	for _, a := range ff.Associations {
		markReferenced(referenced, a.Properties)
	}

	vars := make(map[string]string)
	used := make(map[string]bool)

	for _, def := range ff.Normalizers {
		if !referenced[def.Name] {
			continue
		}

		n := normalizerData{
			Name:      def.Name,
			Var:       identifier(def.Name, used),
			ErrFormat: strconv.Quote("normalizer " + def.Name + ": %w"),
		}
		n.Expr, n.Fallible = normalizerExpr(def, ff.Settings)

		vars[def.Name] = n.Var
		data.NeedsFmt = data.NeedsFmt || n.Fallible
		data.Normalizers = append(data.Normalizers, n)
	}

	for _, e := range ff.Entities {
		d := declData{
			Name:       e.Name,
			Set:        setOrName(e.Set, e.Name),
			Properties: bindingExprs(e.Properties, vars),
		}

		if len(e.Key) > 0 {
			d.Key = "[]string{" + quoteList(e.Key) + "}"
		}

		data.Entities = append(data.Entities, d)
	}

	for _, a := range ff.Associations {
		d := declData{
			Name:       a.Name,
			Set:        setOrName(a.Set, a.Name),
			From:       a.From,
			To:         a.To,
			Properties: bindingExprs(a.Properties, vars),
			ID:         "schema.GeneratedID()",
		}

		if a.ID.Rule() == mapping.IDRuleDerived {
			d.ID = "schema.DerivedID(" + quoteList(a.ID.Derived) + ")"
		}

		data.Associations = append(data.Associations, d)
	}

	return data
}

func markReferenced(referenced map[string]bool, props []mapping.PropertyDef) {
	for _, p := range props {
		if p.Normalizer != "" {
			referenced[p.Normalizer] = true
		}
	}
}

// normalizerExpr returns the constructor call for def and whether it
// returns an error.
func normalizerExpr(def mapping.NormalizerDef, settings mapping.Settings) (string, bool) {
	column := strconv.Quote(def.Column.First())

	switch def.Kind {
	case mapping.KindEnum:
		var b strings.Builder

		b.WriteString("normalize.Enum(" + column + ", map[string]string{")

		for i, k := range common.SortedKeys(def.Table) {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(strconv.Quote(k) + ": " + strconv.Quote(def.Table[k]))
		}

		b.WriteString("}")

		if len(def.Missing) > 0 {
			b.WriteString(", " + quoteList(def.Missing))
		}

		b.WriteString(")")

		return b.String(), true
	case mapping.KindConcat:
		expr := "normalize.Concat([]string{" + quoteList(def.Column) + "}"
		if def.Separator != "" {
			expr += ", normalize.WithSeparator(" + strconv.Quote(def.Separator) + ")"
		}

		if def.Partial {
			expr += ", normalize.Partial()"
		}

		return expr + ")", true
	case mapping.KindDate:
		s := def.DateSettings(settings)

		return "normalize.Date(" + column + ", " + strconv.Quote(s.TimeZone) + ", " + strconv.Quote(s.DatePattern) + ")", true
	case mapping.KindInt:
		return "normalize.Int(" + column + ")", false
	case mapping.KindCase:
		return "normalize.Case(" + column + ", " + strconv.Quote(def.Mode) + ")", true
	default:
		return "normalize.Column(" + column + ")", false
	}
}

func bindingExprs(props []mapping.PropertyDef, vars map[string]string) []string {
	out := make([]string, 0, len(props))

	for _, p := range props {
		key := strconv.Quote(p.Key)

		var expr string
		if p.Normalizer != "" {
			expr = "schema.Normalized(" + key + ", " + vars[p.Normalizer] + ").Named(" + strconv.Quote(p.Normalizer) + ")"
		} else {
			expr = "schema.Column(" + key + ", " + strconv.Quote(p.Column) + ")"
		}

		if p.Required {
			expr += ".Require()"
		}

		out = append(out, expr)
	}

	return out
}

func setOrName(set, name string) string {
	if set == "" {
		return name
	}

	return set
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}

	return strings.Join(quoted, ", ")
}

// identifier turns a normalizer name into an unused lowerCamel Go identifier.
func identifier(name string, used map[string]bool) string {
	var b strings.Builder

	upper := false

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = b.Len() > 0
			continue
		}

		if b.Len() == 0 {
			r = unicode.ToLower(r)
		} else if upper {
			r = unicode.ToUpper(r)
		}

		upper = false

		b.WriteRune(r)
	}

	id := b.String()
	if id == "" || unicode.IsDigit(rune(id[0])) || token.IsKeyword(id) || reserved[id] {
		id = "n" + strings.ToUpper(id[:min(1, len(id))]) + id[min(1, len(id)):]
	}

	base := id
	for i := 2; used[id]; i++ {
		id = base + strconv.Itoa(i)
	}

	used[id] = true

	return id
}

// snakeCase turns "PortlandPD" into "portland_pd".
func snakeCase(name string) string {
	runes := []rune(name)

	var b strings.Builder

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}

			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "flight"
	}

	return out
}
