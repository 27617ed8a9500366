// Package config loads discriminator registries from YAML files.
//
//	ambiguity: strict            # or first-match
//	naming: camelCase            # identity when empty
//	abstracts:
//	  - base: Animal
//	    variants:
//	      - type: Lion
//	        when: {propertyHasValue: {name: Species, value: Lion}}
//	      - type: Bear
//	        when:
//	          all:
//	            - propertyExists: Species
//	            - propertyValueKind: {name: IsHibernating, kind: bool}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/polyjson"
)

// Document is a registry file.
type Document struct {
	Ambiguity string     `yaml:"ambiguity,omitempty"`
	Naming    string     `yaml:"naming,omitempty"`
	Abstracts []Abstract `yaml:"abstracts"`
}

// Abstract lists the variants of one base type.
type Abstract struct {
	Base     string    `yaml:"base"`
	Variants []Variant `yaml:"variants"`
}

// Variant names a variant type and the criterion selecting it.
type Variant struct {
	Type string    `yaml:"type"`
	When Criterion `yaml:"when"`
}

// Criterion is one discriminator. Exactly one field must be set.
type Criterion struct {
	PropertyExists       *string     `yaml:"propertyExists,omitempty"`
	PropertiesExist      []string    `yaml:"propertiesExist,omitempty"`
	PropertyValueKind    *NameKind   `yaml:"propertyValueKind,omitempty"`
	PropertyValueKinds   []NameKind  `yaml:"propertyValueKinds,omitempty"`
	PropertyHasValue     *NameValue  `yaml:"propertyHasValue,omitempty"`
	PropertiesHaveValues []NameValue `yaml:"propertiesHaveValues,omitempty"`
	All                  []Criterion `yaml:"all,omitempty"`
	Any                  []Criterion `yaml:"any,omitempty"`
}

// NameKind is a property name with the value kind it must have.
type NameKind struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// NameValue is a property name with the literal it must equal.
type NameValue struct {
	Name  string    `yaml:"name"`
	Value yaml.Node `yaml:"value"`
}

// Load decodes a registry document from r. Unknown keys are rejected and the
// document is validated.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("config: empty document")
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse decodes a registry document from data.
func Parse(data []byte) (*Document, error) { return Load(bytes.NewReader(data)) }

// LoadFile decodes the registry document stored at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Validate checks policies, names and every criterion.
func (d *Document) Validate() error {
	if _, err := polyjson.ParseAmbiguityPolicy(d.Ambiguity); err != nil {
		return fmt.Errorf("config: ambiguity: %w", err)
	}
	if _, err := polyjson.NamingPolicyByName(d.Naming); err != nil {
		return fmt.Errorf("config: naming: %w", err)
	}
	if len(d.Abstracts) == 0 {
		return errors.New("config: no abstracts defined")
	}
	seen := make(map[string]bool, len(d.Abstracts))
	for i, a := range d.Abstracts {
		at := "abstracts[" + strconv.Itoa(i) + "]"
		if a.Base == "" {
			return fmt.Errorf("config: %s: base is required", at)
		}
		if seen[a.Base] {
			return fmt.Errorf("config: %s: base %q defined twice", at, a.Base)
		}
		seen[a.Base] = true
		if len(a.Variants) == 0 {
			return fmt.Errorf("config: %s (%s): at least one variant required", at, a.Base)
		}
		for j, v := range a.Variants {
			vat := at + ".variants[" + strconv.Itoa(j) + "]"
			if v.Type == "" {
				return fmt.Errorf("config: %s: type is required", vat)
			}
			if _, err := v.When.Discriminator(); err != nil {
				return fmt.Errorf("config: %s (%s): %w", vat, v.Type, err)
			}
		}
	}
	return nil
}

// AmbiguityPolicy returns the parsed ambiguity setting.
func (d *Document) AmbiguityPolicy() (polyjson.AmbiguityPolicy, error) {
	return polyjson.ParseAmbiguityPolicy(d.Ambiguity)
}

// NamingPolicy returns the parsed naming setting.
func (d *Document) NamingPolicy() (polyjson.NamingPolicy, error) {
	return polyjson.NamingPolicyByName(d.Naming)
}

// Discriminator compiles the criterion into a polyjson.Discriminator.
func (c Criterion) Discriminator() (polyjson.Discriminator, error) {
	set := 0
	count := func(ok bool) {
		if ok {
			set++
		}
	}
	count(c.PropertyExists != nil)
	count(c.PropertiesExist != nil)
	count(c.PropertyValueKind != nil)
	count(c.PropertyValueKinds != nil)
	count(c.PropertyHasValue != nil)
	count(c.PropertiesHaveValues != nil)
	count(c.All != nil)
	count(c.Any != nil)
	if set != 1 {
		return nil, fmt.Errorf("criterion must set exactly one key, got %d", set)
	}

	switch {
	case c.PropertyExists != nil:
		return polyjson.PropertyExists(*c.PropertyExists), nil
	case c.PropertiesExist != nil:
		return polyjson.PropertiesExist(c.PropertiesExist...)
	case c.PropertyValueKind != nil:
		nk, err := c.PropertyValueKind.parse()
		if err != nil {
			return nil, err
		}
		return polyjson.PropertyValueKind(nk.Name, nk.Kind), nil
	case c.PropertyValueKinds != nil:
		pairs := make([]polyjson.NameKind, len(c.PropertyValueKinds))
		for i, p := range c.PropertyValueKinds {
			nk, err := p.parse()
			if err != nil {
				return nil, err
			}
			pairs[i] = nk
		}
		return polyjson.PropertyValueKinds(pairs...)
	case c.PropertyHasValue != nil:
		lit, err := literalOf(&c.PropertyHasValue.Value)
		if err != nil {
			return nil, fmt.Errorf("propertyHasValue(%s): %w", c.PropertyHasValue.Name, err)
		}
		return polyjson.PropertyHasValue(c.PropertyHasValue.Name, lit)
	case c.PropertiesHaveValues != nil:
		pairs := make([]polyjson.NameValue, len(c.PropertiesHaveValues))
		for i, p := range c.PropertiesHaveValues {
			lit, err := literalOf(&p.Value)
			if err != nil {
				return nil, fmt.Errorf("propertiesHaveValues(%s): %w", p.Name, err)
			}
			pairs[i] = polyjson.NameValue{Name: p.Name, Value: lit}
		}
		return polyjson.PropertiesHaveValues(pairs...)
	case c.All != nil:
		ds, err := discriminators(c.All)
		if err != nil {
			return nil, err
		}
		return polyjson.All(ds...)
	default:
		ds, err := discriminators(c.Any)
		if err != nil {
			return nil, err
		}
		return polyjson.Any(ds...)
	}
}

func discriminators(cs []Criterion) ([]polyjson.Discriminator, error) {
	ds := make([]polyjson.Discriminator, len(cs))
	for i, c := range cs {
		d, err := c.Discriminator()
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

func (nk NameKind) parse() (polyjson.NameKind, error) {
	if nk.Name == "" {
		return polyjson.NameKind{}, errors.New("property name is required")
	}
	k, err := polyjson.ParseValueKind(nk.Kind)
	if err != nil {
		return polyjson.NameKind{}, err
	}
	return polyjson.NameKind{Name: nk.Name, Kind: k}, nil
}

// literalOf converts a YAML value into a PropertyHasValue literal: null,
// string, int64, uint64, float64, bool or []any of those.
func literalOf(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, errors.New("value is required")
	case yaml.AliasNode:
		return literalOf(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := literalOf(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			err := n.Decode(&b)
			return b, err
		case "!!int":
			var i int64
			if err := n.Decode(&i); err == nil {
				return i, nil
			}
			var u uint64
			err := n.Decode(&u)
			return u, err
		case "!!float":
			var f float64
			err := n.Decode(&f)
			return f, err
		default:
			return n.Value, nil
		}
	}
	return nil, fmt.Errorf("line %d: mappings are not supported as literals", n.Line)
}
