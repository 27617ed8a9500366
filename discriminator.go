package polyjson

import (
	"fmt"
	"strings"
)

// Predicate reports whether a node matches. Predicates are pure and may be
// called any number of times, from any goroutine.
type Predicate func(Node) bool

// Discriminator is a declarative criterion over a node. Property names are
// logical names; Compile converts them with the active naming policy.
type Discriminator interface {
	Compile(policy NamingPolicy) Predicate
	String() string
}

// NameKind pairs a logical property name with the value kind it must have.
type NameKind struct {
	Name string
	Kind ValueKind
}

// NameValue pairs a logical property name with the literal it must equal.
type NameValue struct {
	Name  string
	Value any
}

// NameKindTest pairs a logical property name with a test over its value kind.
type NameKindTest struct {
	Name string
	Test func(ValueKind) bool
}

// PropertyExists matches objects that have the property, whatever its value.
func PropertyExists(name string) Discriminator { return propertyExists{name: name} }

// PropertiesExist matches objects that have every listed property.
func PropertiesExist(names ...string) (Discriminator, error) {
	if len(names) == 0 {
		return nil, errNoCriteria("PropertiesExist")
	}
	return propertiesExist{names: append([]string(nil), names...)}, nil
}

// PropertyValueKind matches when the property is present and its value has
// kind k.
func PropertyValueKind(name string, k ValueKind) Discriminator {
	return propertyKind{name: name, kind: k}
}

// PropertyValueKinds matches when every pair matches.
func PropertyValueKinds(pairs ...NameKind) (Discriminator, error) {
	if len(pairs) == 0 {
		return nil, errNoCriteria("PropertyValueKinds")
	}
	ds := make([]Discriminator, len(pairs))
	for i, p := range pairs {
		ds[i] = propertyKind{name: p.Name, kind: p.Kind}
	}
	return allOf{ds: ds, label: "PropertyValueKinds"}, nil
}

// PropertyHasValue matches when the property is present and structurally
// equals value. Numbers compare exactly: an integer literal only matches an
// integer token, a float literal matches any number with the same value at
// the literal's precision. Slices and arrays compare element-wise, in order.
func PropertyHasValue(name string, value any) (Discriminator, error) {
	lit, err := compileLiteral(value)
	if err != nil {
		return nil, fmt.Errorf("PropertyHasValue(%s): %w", name, err)
	}
	return propertyValue{name: name, lit: lit}, nil
}

// PropertiesHaveValues matches when every pair matches.
func PropertiesHaveValues(pairs ...NameValue) (Discriminator, error) {
	if len(pairs) == 0 {
		return nil, errNoCriteria("PropertiesHaveValues")
	}
	ds := make([]Discriminator, len(pairs))
	for i, p := range pairs {
		d, err := PropertyHasValue(p.Name, p.Value)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return allOf{ds: ds, label: "PropertiesHaveValues"}, nil
}

// PropertyKindMatches matches when the property is present and test accepts
// its value kind.
func PropertyKindMatches(name string, test func(ValueKind) bool) (Discriminator, error) {
	if test == nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("PropertyKindMatches(%s): nil test", name)}
	}
	return kindTest{name: name, test: test}, nil
}

// PropertiesPassKindTests matches when every property passes its kind test.
// A missing property fails its test.
func PropertiesPassKindTests(pairs ...NameKindTest) (Discriminator, error) {
	if len(pairs) == 0 {
		return nil, errNoCriteria("PropertiesPassKindTests")
	}
	ds := make([]Discriminator, len(pairs))
	for i, p := range pairs {
		d, err := PropertyKindMatches(p.Name, p.Test)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return allOf{ds: ds, label: "PropertiesPassKindTests"}, nil
}

// All matches when every discriminator matches.
func All(ds ...Discriminator) (Discriminator, error) {
	if err := checkOperands("All", ds); err != nil {
		return nil, err
	}
	return allOf{ds: append([]Discriminator(nil), ds...), label: "All"}, nil
}

// Any matches when at least one discriminator matches.
func Any(ds ...Discriminator) (Discriminator, error) {
	if err := checkOperands("Any", ds); err != nil {
		return nil, err
	}
	return anyOf{ds: append([]Discriminator(nil), ds...)}, nil
}

// Must panics if err is non-nil. Intended for package-level setup.
func Must(d Discriminator, err error) Discriminator {
	if err != nil {
		panic(err)
	}
	return d
}

func errNoCriteria(op string) error {
	return &ConfigurationError{Reason: op + ": at least one criterion required"}
}

func checkOperands(op string, ds []Discriminator) error {
	if len(ds) == 0 {
		return errNoCriteria(op)
	}
	for i, d := range ds {
		if d == nil {
			return &ConfigurationError{Reason: fmt.Sprintf("%s: operand %d is nil", op, i)}
		}
	}
	return nil
}

func member(n Node, wire string) (Node, bool) {
	if n.Kind() != KindObject {
		return Node{}, false
	}
	return n.Lookup(wire)
}

type propertyExists struct{ name string }

func (d propertyExists) Compile(p NamingPolicy) Predicate {
	wire := convertName(p, d.name)
	return func(n Node) bool {
		_, ok := member(n, wire)
		return ok
	}
}

func (d propertyExists) String() string { return "PropertyExists(" + d.name + ")" }

type propertiesExist struct{ names []string }

func (d propertiesExist) Compile(p NamingPolicy) Predicate {
	wires := make([]string, len(d.names))
	for i, name := range d.names {
		wires[i] = convertName(p, name)
	}
	return func(n Node) bool {
		for _, w := range wires {
			if _, ok := member(n, w); !ok {
				return false
			}
		}
		return true
	}
}

func (d propertiesExist) String() string {
	return "PropertiesExist(" + strings.Join(d.names, ", ") + ")"
}

type propertyKind struct {
	name string
	kind ValueKind
}

func (d propertyKind) Compile(p NamingPolicy) Predicate {
	wire := convertName(p, d.name)
	return func(n Node) bool {
		v, ok := member(n, wire)
		return ok && v.Kind() == d.kind
	}
}

func (d propertyKind) String() string {
	return "PropertyValueKind(" + d.name + ", " + d.kind.String() + ")"
}

type propertyValue struct {
	name string
	lit  literal
}

func (d propertyValue) Compile(p NamingPolicy) Predicate {
	wire := convertName(p, d.name)
	return func(n Node) bool {
		v, ok := member(n, wire)
		return ok && d.lit.match(v)
	}
}

func (d propertyValue) String() string {
	return "PropertyHasValue(" + d.name + ", " + d.lit.desc + ")"
}

type kindTest struct {
	name string
	test func(ValueKind) bool
}

func (d kindTest) Compile(p NamingPolicy) Predicate {
	wire := convertName(p, d.name)
	return func(n Node) bool {
		v, ok := member(n, wire)
		return ok && d.test(v.Kind())
	}
}

func (d kindTest) String() string { return "PropertyKindMatches(" + d.name + ")" }

type allOf struct {
	ds    []Discriminator
	label string
}

func (d allOf) Compile(p NamingPolicy) Predicate {
	ps := compileAll(d.ds, p)
	return func(n Node) bool {
		for _, pred := range ps {
			if !pred(n) {
				return false
			}
		}
		return true
	}
}

func (d allOf) String() string { return d.label + "(" + describeAll(d.ds) + ")" }

type anyOf struct{ ds []Discriminator }

func (d anyOf) Compile(p NamingPolicy) Predicate {
	ps := compileAll(d.ds, p)
	return func(n Node) bool {
		for _, pred := range ps {
			if pred(n) {
				return true
			}
		}
		return false
	}
}

func (d anyOf) String() string { return "Any(" + describeAll(d.ds) + ")" }

func compileAll(ds []Discriminator, p NamingPolicy) []Predicate {
	ps := make([]Predicate, len(ds))
	for i, d := range ds {
		ps[i] = d.Compile(p)
	}
	return ps
}

func describeAll(ds []Discriminator) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}
