package polyjson

import (
	"log/slog"
	"reflect"
)

// Resolver selects the variant of one base type for a node. It is bound to a
// compiled predicate set and safe for concurrent use.
type Resolver struct {
	base      reflect.Type
	set       *compiledSet
	ambiguity AmbiguityPolicy
	logger    *slog.Logger
}

// BaseType returns the base interface type.
func (r *Resolver) BaseType() reflect.Type { return r.base }

// NamingPolicy returns the policy the predicates were compiled with.
func (r *Resolver) NamingPolicy() NamingPolicy { return r.set.policy }

// Match evaluates every binding and returns those that match, in
// registration order.
func (r *Resolver) Match(n Node) []Binding {
	var out []Binding
	for i, pred := range r.set.preds {
		if pred(n) {
			out = append(out, r.set.bindings[i])
		}
	}
	return out
}

// Resolve returns the single binding matching n. With AmbiguityStrict several
// matches fail with AmbiguousMatchError; with AmbiguityFirstMatch the first
// one in registration order wins.
func (r *Resolver) Resolve(n Node) (Binding, error) {
	matches := r.Match(n)
	switch {
	case len(matches) == 0:
		return Binding{}, &NoMatchError{BaseType: r.base, Node: n.String()}
	case len(matches) == 1:
		r.logger.Debug("polyjson: resolved", "base", r.base.String(), "variant", matches[0].variant.String())
		return matches[0], nil
	}
	candidates := make([]reflect.Type, len(matches))
	for i, m := range matches {
		candidates[i] = m.variant
	}
	if r.ambiguity != AmbiguityFirstMatch {
		return Binding{}, &AmbiguousMatchError{BaseType: r.base, Candidates: candidates, Node: n.String()}
	}
	r.logger.Warn("polyjson: ambiguous discriminators, using first match",
		"base", r.base.String(), "variant", matches[0].variant.String(), "candidates", typeNames(candidates))
	return matches[0], nil
}

// Decode resolves n and decodes it as the selected variant with dec.
func (r *Resolver) Decode(dec NodeDecoder, n Node) (any, error) {
	b, err := r.Resolve(n)
	if err != nil {
		return nil, err
	}
	return b.Decode(dec, n)
}
