package config

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/reoring/polyjson"
)

// Catalog maps the type names used in registry files to Go types.
type Catalog struct {
	bases    map[string]reflect.Type
	variants map[string]func(polyjson.Discriminator) polyjson.Binding
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		bases:    make(map[string]reflect.Type),
		variants: make(map[string]func(polyjson.Discriminator) polyjson.Binding),
	}
}

// AddBase makes the interface type B available under name, or under its Go
// type name when name is empty.
func AddBase[B any](c *Catalog, name string) *Catalog {
	t := reflect.TypeFor[B]()
	if name == "" {
		name = t.Name()
	}
	c.bases[name] = t
	return c
}

// AddVariant makes the concrete type T available under name, or under its Go
// type name when name is empty.
func AddVariant[T any](c *Catalog, name string) *Catalog {
	if name == "" {
		t := reflect.TypeFor[T]()
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		name = t.Name()
	}
	c.variants[name] = polyjson.Variant[T]
	return c
}

// Build registers every abstract of d into a new, unfrozen factory. The
// document's ambiguity setting applies unless opts override it.
func (d *Document) Build(c *Catalog, opts ...polyjson.FactoryOption) (*polyjson.FactoryRegistry, error) {
	amb, err := d.AmbiguityPolicy()
	if err != nil {
		return nil, fmt.Errorf("config: ambiguity: %w", err)
	}
	f := polyjson.NewFactory(append([]polyjson.FactoryOption{polyjson.WithAmbiguity(amb)}, opts...)...)
	for i, a := range d.Abstracts {
		at := "abstracts[" + strconv.Itoa(i) + "]"
		base, ok := c.bases[a.Base]
		if !ok {
			return nil, fmt.Errorf("config: %s: base %q is not in the catalog", at, a.Base)
		}
		bindings := make([]polyjson.Binding, 0, len(a.Variants))
		for j, v := range a.Variants {
			mk, ok := c.variants[v.Type]
			if !ok {
				return nil, fmt.Errorf("config: %s.variants[%d]: type %q is not in the catalog", at, j, v.Type)
			}
			disc, err := v.When.Discriminator()
			if err != nil {
				return nil, fmt.Errorf("config: %s.variants[%d] (%s): %w", at, j, v.Type, err)
			}
			bindings = append(bindings, mk(disc))
		}
		r, err := polyjson.NewAbstractFor(base, bindings...)
		if err != nil {
			return nil, fmt.Errorf("config: %s (%s): %w", at, a.Base, err)
		}
		if err := f.Register(r); err != nil {
			return nil, fmt.Errorf("config: %s (%s): %w", at, a.Base, err)
		}
	}
	return f, nil
}
