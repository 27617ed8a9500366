package polyjson

import (
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
)

// AbstractRegistry holds the ordered variant bindings of one base interface
// type. Bindings are compiled against a naming policy by Initialize; the
// compiled set is immutable and replaced as a whole when the policy changes.
type AbstractRegistry struct {
	base reflect.Type

	mu       sync.Mutex
	bindings []Binding
	frozen   atomic.Bool

	compiled atomic.Pointer[compiledSet]
}

// compiledSet is the registry bound to one naming policy.
type compiledSet struct {
	key      any
	policy   NamingPolicy
	bindings []Binding
	preds    []Predicate
}

// NewAbstract creates a registry for the interface type B.
func NewAbstract[B any](bindings ...Binding) (*AbstractRegistry, error) {
	return NewAbstractFor(reflect.TypeFor[B](), bindings...)
}

// NewAbstractFor creates a registry for base, which must be an interface
// type. Every variant must be a non-interface type assignable to base; all
// offending variants are reported in one ConfigurationError.
func NewAbstractFor(base reflect.Type, bindings ...Binding) (*AbstractRegistry, error) {
	if base == nil || base.Kind() != reflect.Interface {
		return nil, &ConfigurationError{Reason: "base type must be an interface", Types: nonNil(base)}
	}
	if len(bindings) == 0 {
		return nil, &ConfigurationError{Reason: "at least one variant binding required", Types: []reflect.Type{base}}
	}
	if err := validateBindings(base, bindings); err != nil {
		return nil, err
	}
	return &AbstractRegistry{base: base, bindings: append([]Binding(nil), bindings...)}, nil
}

func nonNil(t reflect.Type) []reflect.Type {
	if t == nil {
		return nil
	}
	return []reflect.Type{t}
}

func validateBindings(base reflect.Type, bindings []Binding) error {
	var bad []reflect.Type
	for i, b := range bindings {
		if b.variant == nil || b.decode == nil {
			return &ConfigurationError{Reason: "binding " + strconv.Itoa(i) + " was not created with Variant"}
		}
		if b.disc == nil {
			return &ConfigurationError{Reason: "variant has no discriminator", Types: []reflect.Type{b.variant}}
		}
		if b.variant.Kind() == reflect.Interface || !b.variant.AssignableTo(base) {
			bad = append(bad, b.variant)
		}
	}
	if len(bad) > 0 {
		return &ConfigurationError{Reason: "variants are not concrete types assignable to " + base.String(), Types: bad}
	}
	return nil
}

// BaseType returns the base interface type.
func (r *AbstractRegistry) BaseType() reflect.Type { return r.base }

// Bindings returns a copy of the bindings in registration order.
func (r *AbstractRegistry) Bindings() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Binding(nil), r.bindings...)
}

// Add appends a binding. It fails once the registry is frozen.
func (r *AbstractRegistry) Add(b Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return ErrFrozen
	}
	if err := validateBindings(r.base, []Binding{b}); err != nil {
		return err
	}
	r.bindings = append(r.bindings, b)
	r.compiled.Store(nil)
	return nil
}

// Freeze makes the binding list read-only. Initialize stays usable: a frozen
// registry may still compile its fixed bindings for another naming policy.
// The compiled set is swapped atomically and resolvers keep the set they were
// created with, so recompilation never changes an in-flight resolution.
func (r *AbstractRegistry) Freeze() {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (r *AbstractRegistry) Frozen() bool { return r.frozen.Load() }

// Initialize compiles every discriminator for policy. Calling it again with
// the same policy is a no-op; a different policy discards the previous
// predicates and compiles fresh ones.
func (r *AbstractRegistry) Initialize(policy NamingPolicy) {
	r.compile(policy)
}

func (r *AbstractRegistry) compile(policy NamingPolicy) *compiledSet {
	key := policyKey(policy)
	if cs := r.compiled.Load(); cs != nil && cs.key == key {
		return cs
	}
	bindings := r.Bindings()
	cs := &compiledSet{key: key, policy: policy, bindings: bindings, preds: make([]Predicate, len(bindings))}
	for i, b := range bindings {
		cs.preds[i] = b.disc.Compile(policy)
	}
	r.compiled.Store(cs)
	return cs
}
