package polyjson

import (
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
)

// FactoryRegistry maps base interface types to their AbstractRegistry. It is
// filled during setup and frozen before decoding starts; a frozen factory is
// read without locks.
type FactoryRegistry struct {
	mu         sync.Mutex
	registries map[reflect.Type]*AbstractRegistry
	order      []reflect.Type
	frozen     atomic.Bool

	ambiguity AmbiguityPolicy
	logger    *slog.Logger
}

// NewFactory returns an empty, unfrozen factory.
func NewFactory(opts ...FactoryOption) *FactoryRegistry {
	f := &FactoryRegistry{registries: make(map[reflect.Type]*AbstractRegistry)}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Register adds r under its exact base type. Registering a base type twice
// fails with a ConfigurationError; so does registering after Freeze.
func (f *FactoryRegistry) Register(r *AbstractRegistry) error {
	if r == nil {
		return &ConfigurationError{Reason: "nil registry"}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.frozen.Load() {
		return ErrFrozen
	}
	if _, dup := f.registries[r.base]; dup {
		return &ConfigurationError{Reason: "base type already registered", Types: []reflect.Type{r.base}}
	}
	f.registries[r.base] = r
	f.order = append(f.order, r.base)
	return nil
}

// RegisterAbstract builds a registry for the interface type B and registers it.
func RegisterAbstract[B any](f *FactoryRegistry, bindings ...Binding) error {
	r, err := NewAbstract[B](bindings...)
	if err != nil {
		return err
	}
	return f.Register(r)
}

// Freeze ends setup. The factory and every registered registry become
// read-only. Freeze is idempotent.
func (f *FactoryRegistry) Freeze() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.frozen.Load() {
		return
	}
	for _, t := range f.order {
		f.registries[t].Freeze()
	}
	f.frozen.Store(true)
	f.logger.Debug("polyjson: factory frozen", "abstracts", len(f.order), "ambiguity", f.ambiguity.String())
}

// Frozen reports whether Freeze was called.
func (f *FactoryRegistry) Frozen() bool { return f.frozen.Load() }

// Ambiguity returns the configured ambiguity policy.
func (f *FactoryRegistry) Ambiguity() AmbiguityPolicy { return f.ambiguity }

func (f *FactoryRegistry) lookup(t reflect.Type) (*AbstractRegistry, bool) {
	if !f.frozen.Load() {
		f.mu.Lock()
		defer f.mu.Unlock()
	}
	r, ok := f.registries[t]
	return r, ok
}

// Registry returns the registry for exactly t.
func (f *FactoryRegistry) Registry(t reflect.Type) (*AbstractRegistry, bool) { return f.lookup(t) }

// CanHandle reports whether a registry exists for exactly t. Supertypes and
// embedded interfaces are not searched.
func (f *FactoryRegistry) CanHandle(t reflect.Type) bool {
	_, ok := f.lookup(t)
	return ok
}

// BaseTypes lists the registered base types in registration order.
func (f *FactoryRegistry) BaseTypes() []reflect.Type {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]reflect.Type(nil), f.order...)
}

// CreateResolver returns a resolver for t bound to policy, compiling the
// registry for policy unless it is already compiled for it. The factory must
// be frozen.
func (f *FactoryRegistry) CreateResolver(t reflect.Type, policy NamingPolicy) (*Resolver, error) {
	if !f.frozen.Load() {
		return nil, ErrNotFrozen
	}
	r, ok := f.registries[t]
	if !ok {
		return nil, &UnregisteredTypeError{BaseType: t}
	}
	return &Resolver{base: t, set: r.compile(policy), ambiguity: f.ambiguity, logger: f.logger}, nil
}

// TryResolve selects the variant type of t for n under policy.
func (f *FactoryRegistry) TryResolve(t reflect.Type, n Node, policy NamingPolicy) (reflect.Type, error) {
	res, err := f.CreateResolver(t, policy)
	if err != nil {
		return nil, err
	}
	b, err := res.Resolve(n)
	if err != nil {
		return nil, err
	}
	return b.Type(), nil
}
