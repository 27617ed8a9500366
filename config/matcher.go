package config

import (
	"fmt"

	"github.com/reoring/polyjson"
)

// Matcher classifies nodes against a registry document by variant name,
// without Go types.
type Matcher struct {
	ambiguity polyjson.AmbiguityPolicy
	bases     []baseMatcher
}

type baseMatcher struct {
	name     string
	variants []string
	preds    []polyjson.Predicate
}

// Result is the classification of one node for one base.
type Result struct {
	Base string
	// Matches lists every matching variant in declaration order.
	Matches []string
	// Selected is the chosen variant, empty on no match or strict ambiguity.
	Selected string
}

// Status is "ok", "no match" or "ambiguous".
func (r Result) Status() string {
	switch {
	case len(r.Matches) == 0:
		return "no match"
	case len(r.Matches) > 1:
		return "ambiguous"
	}
	return "ok"
}

// Matcher compiles every criterion of d for policy.
func (d *Document) Matcher(policy polyjson.NamingPolicy) (*Matcher, error) {
	amb, err := d.AmbiguityPolicy()
	if err != nil {
		return nil, fmt.Errorf("config: ambiguity: %w", err)
	}
	m := &Matcher{ambiguity: amb}
	for _, a := range d.Abstracts {
		bm := baseMatcher{name: a.Base}
		for _, v := range a.Variants {
			disc, err := v.When.Discriminator()
			if err != nil {
				return nil, fmt.Errorf("config: %s/%s: %w", a.Base, v.Type, err)
			}
			bm.variants = append(bm.variants, v.Type)
			bm.preds = append(bm.preds, disc.Compile(policy))
		}
		m.bases = append(m.bases, bm)
	}
	return m, nil
}

// Bases lists the base names in declaration order.
func (m *Matcher) Bases() []string {
	out := make([]string, len(m.bases))
	for i, b := range m.bases {
		out[i] = b.name
	}
	return out
}

// Classify evaluates n against the variants of base.
func (m *Matcher) Classify(base string, n polyjson.Node) (Result, error) {
	for _, b := range m.bases {
		if b.name == base {
			return b.classify(n, m.ambiguity), nil
		}
	}
	return Result{}, fmt.Errorf("config: unknown base %q", base)
}

// ClassifyAll evaluates n against every base.
func (m *Matcher) ClassifyAll(n polyjson.Node) []Result {
	out := make([]Result, len(m.bases))
	for i, b := range m.bases {
		out[i] = b.classify(n, m.ambiguity)
	}
	return out
}

func (b baseMatcher) classify(n polyjson.Node, amb polyjson.AmbiguityPolicy) Result {
	r := Result{Base: b.name}
	for i, pred := range b.preds {
		if pred(n) {
			r.Matches = append(r.Matches, b.variants[i])
		}
	}
	if len(r.Matches) == 1 || (len(r.Matches) > 1 && amb == polyjson.AmbiguityFirstMatch) {
		r.Selected = r.Matches[0]
	}
	return r
}
