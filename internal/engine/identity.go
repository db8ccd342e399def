package engine

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Lattice-Works/Portland-PD/internal/normalize"
)

// Namespace is the UUIDv5 namespace of derived identifiers.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Lattice-Works/Portland-PD"))

// DeriveID returns a stable identifier for the given set and values. Equal
// inputs always produce the same identifier; missing values are encoded
// distinctly from empty strings.
func DeriveID(entitySet string, values []normalize.Value) string {
	var b strings.Builder

	b.WriteString(entitySet)

	for _, v := range values {
		b.WriteByte(0x1f)
		b.WriteString(v.Kind().String())
		b.WriteByte(':')
		b.WriteString(v.String())
	}

	return uuid.NewSHA1(Namespace, []byte(b.String())).String()
}
