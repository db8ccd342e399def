package normalize

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// Case modes.
const (
	CaseUpper = "upper"
	CaseLower = "lower"
	CaseTitle = "title"
)

// CaseNormalizer changes the letter case of a column.
type CaseNormalizer struct {
	column string
	mode   string
}

// Case returns a case normalizer; mode is CaseUpper, CaseLower or CaseTitle.
func Case(column, mode string) (*CaseNormalizer, error) {
	switch mode {
	case CaseUpper, CaseLower, CaseTitle:
	default:
		return nil, fmt.Errorf("case %q: unknown mode %q", column, mode)
	}

	return &CaseNormalizer{column: column, mode: mode}, nil
}

func (c *CaseNormalizer) Columns() []string {
	return []string{c.column}
}

// Mode returns the case mode.
func (c *CaseNormalizer) Mode() string {
	return c.mode
}

func (c *CaseNormalizer) Normalize(fields []record.Field) (Value, error) {
	f, err := single(c.column, fields)
	if err != nil || !f.Present {
		return Missing(), err
	}

	// Casers keep state and are not shared between goroutines.
	var caser cases.Caser

	switch c.mode {
	case CaseUpper:
		caser = cases.Upper(language.English)
	case CaseLower:
		caser = cases.Lower(language.English)
	default:
		caser = cases.Title(language.English)
	}

	return Text(caser.String(strings.TrimSpace(f.Value))), nil
}
