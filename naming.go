package polyjson

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reoring/polyjson/internal/naming"
)

// NamingPolicy maps a logical property name (usually a Go field name) to its
// on-wire spelling. Implementations must be pure. A nil NamingPolicy leaves
// names unchanged.
type NamingPolicy interface {
	ConvertName(name string) string
}

// NamingFunc adapts a function to NamingPolicy. Two NamingFunc values are the
// same policy only when they wrap the same function.
type NamingFunc func(name string) string

func (f NamingFunc) ConvertName(name string) string { return f(name) }

type namingPolicy struct {
	name    string
	convert func(string) string
}

func (p *namingPolicy) ConvertName(name string) string { return p.convert(name) }
func (p *namingPolicy) String() string                 { return p.name }

// Built-in naming policies.
var (
	// CamelCase lower-cases the leading upper-case run: "Species" -> "species",
	// "URLValue" -> "urlValue", "ID" -> "id".
	CamelCase NamingPolicy = &namingPolicy{name: "camelCase", convert: toCamel}
	// SnakeCaseLower: "HornLengths" -> "horn_lengths".
	SnakeCaseLower NamingPolicy = &namingPolicy{name: "snake_case_lower", convert: separated("_", false)}
	// SnakeCaseUpper: "HornLengths" -> "HORN_LENGTHS".
	SnakeCaseUpper NamingPolicy = &namingPolicy{name: "snake_case_upper", convert: separated("_", true)}
	// KebabCaseLower: "HornLengths" -> "horn-lengths".
	KebabCaseLower NamingPolicy = &namingPolicy{name: "kebab-case-lower", convert: separated("-", false)}
	// KebabCaseUpper: "HornLengths" -> "HORN-LENGTHS".
	KebabCaseUpper NamingPolicy = &namingPolicy{name: "kebab-case-upper", convert: separated("-", true)}
)

var namingPoliciesByName = map[string]NamingPolicy{
	"":               nil,
	"identity":       nil,
	"none":           nil,
	"camelcase":      CamelCase,
	"snakecaselower": SnakeCaseLower,
	"snakecase":      SnakeCaseLower,
	"snakecaseupper": SnakeCaseUpper,
	"kebabcaselower": KebabCaseLower,
	"kebabcase":      KebabCaseLower,
	"kebabcaseupper": KebabCaseUpper,
}

// NamingPolicyByName looks a built-in policy up by name. Case, '_' and '-'
// are ignored, so "camelCase", "snake_case_lower" and "KebabCaseUpper" all
// work. "", "identity" and "none" yield the nil (identity) policy.
func NamingPolicyByName(name string) (NamingPolicy, error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
	p, ok := namingPoliciesByName[key]
	if !ok {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown naming policy %q", name)}
	}
	return p, nil
}

// NamingPolicyName returns a display name for p.
func NamingPolicyName(p NamingPolicy) string {
	switch v := p.(type) {
	case nil:
		return "identity"
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T", p)
	}
}

func convertName(p NamingPolicy, name string) string {
	if p == nil {
		return name
	}
	return p.ConvertName(name)
}

type identityKey struct{}

type funcKey struct{ ptr uintptr }

// policyKey returns a comparable identity for p. Policies of non-comparable
// types get a fresh key, so they never reuse a compiled predicate set.
func policyKey(p NamingPolicy) any {
	if p == nil {
		return identityKey{}
	}
	if f, ok := p.(NamingFunc); ok {
		return funcKey{ptr: reflect.ValueOf(f).Pointer()}
	}
	if reflect.TypeOf(p).Comparable() {
		return p
	}
	return new(struct{ _ byte })
}

func toCamel(name string) string {
	if name == "" {
		return name
	}
	if r, _ := utf8.DecodeRuneInString(name); !unicode.IsUpper(r) {
		return name
	}
	runes := []rune(name)
	for i := range runes {
		if i == 1 && !unicode.IsUpper(runes[i]) {
			break
		}
		hasNext := i+1 < len(runes)
		// Keep the upper-case rune that starts the next word: "URLValue" -> "urlValue".
		if i > 0 && hasNext && !unicode.IsUpper(runes[i+1]) {
			if runes[i+1] == ' ' {
				runes[i] = unicode.ToLower(runes[i])
			}
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func separated(sep string, upper bool) func(string) string {
	return func(name string) string {
		return naming.Join(naming.Words(name), sep, upper)
	}
}
