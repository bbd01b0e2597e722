package regschema

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Binding ties a compiled surface to the address its link symbol resolved
// to.
type Binding struct {
	Surface *Surface
	Base    uint64
}

func (b *Binding) Get(bus Bus, register, field string) (uint64, error) {
	a, ok := b.Surface.Lookup(register, field)
	if !ok {
		return 0, fmt.Errorf("%s has no accessor %s.%s", b.Surface.Block.Name, register, field)
	}
	return a.Get(bus, b.Base)
}

func (b *Binding) Set(bus Bus, register, field string, v Value) error {
	a, ok := b.Surface.Lookup(register, field)
	if !ok {
		return fmt.Errorf("%s has no accessor %s.%s", b.Surface.Block.Name, register, field)
	}
	return a.Set(bus, b.Base, v)
}

// Registry is built once after linking and handed to drivers instead of
// having them reach for global register blocks.
type Registry struct {
	bindings map[string]*Binding
}

// NewRegistry resolves the link symbol of every surface. All unresolved
// symbols are reported together.
func NewRegistry(surfaces []*Surface, symbols map[string]uint64) (*Registry, error) {
	r := &Registry{bindings: make(map[string]*Binding, len(surfaces))}
	var errs []error
	for _, s := range surfaces {
		name := s.Block.Name
		if _, ok := r.bindings[name]; ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateBlock, name))
			continue
		}
		base, ok := symbols[s.LinkSymbol]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s (block %s)", ErrUnresolvedSymbol, s.LinkSymbol, name))
			continue
		}
		r.bindings[name] = &Binding{Surface: s, Base: base}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Lookup(block string) (*Binding, bool) {
	b, ok := r.bindings[block]
	return b, ok
}

// Blocks returns the bound block names in sorted order.
func (r *Registry) Blocks() []string {
	names := maps.Keys(r.bindings)
	slices.Sort(names)
	return names
}
