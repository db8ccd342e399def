package normalize

import (
	"errors"
	"fmt"

	"github.com/Lattice-Works/Portland-PD/internal/common"
)

// ErrDuplicateNormalizer is returned when a name is registered twice.
var ErrDuplicateNormalizer = errors.New("normalizer already registered")

// Registry maps names to normalizers.
type Registry struct {
	normalizers map[string]Normalizer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{normalizers: make(map[string]Normalizer)}
}

// Register adds a normalizer under name.
func (r *Registry) Register(name string, n Normalizer) error {
	if name == "" {
		return errors.New("normalizer name is empty")
	}

	if n == nil {
		return fmt.Errorf("normalizer %q is nil", name)
	}

	if _, ok := r.normalizers[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNormalizer, name)
	}

	r.normalizers[name] = n

	return nil
}

// MustRegister is Register that panics on error. Meant for static setup.
func (r *Registry) MustRegister(name string, n Normalizer) {
	if err := r.Register(name, n); err != nil {
		panic(err)
	}
}

// Get returns the normalizer registered under name.
func (r *Registry) Get(name string) (Normalizer, bool) {
	n, ok := r.normalizers[name]
	return n, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.normalizers[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	return common.SortedKeys(r.normalizers)
}

// Len returns the number of registered normalizers.
func (r *Registry) Len() int {
	return len(r.normalizers)
}
