package polyjson

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Issue codes.
const (
	CodeInvalidType          = "invalid_type"
	CodeDuplicateKey         = "duplicate_key"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeUnionAmbiguous       = "union_ambiguous"
	CodeUnregisteredType     = "unregistered_type"
	CodeConfiguration        = "configuration"
	CodeParseError           = "parse_error"
	CodeOverflow             = "overflow"
	CodeTruncated            = "truncated"
)

// Issue represents a single decode failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /animals/2/species).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, candidate names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters for i18n and observability.
	Params map[string]any
}

// Issues is a collection of decode errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. discriminator_unknown at /animals/1: ...
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, ": %s", it.Hint)
		}
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is and errors.As see the typed
// resolution errors carried by the issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Sentinels matched by the typed errors through errors.Is.
var (
	ErrConfiguration    = errors.New("polyjson: configuration error")
	ErrUnregisteredType = errors.New("polyjson: unregistered abstract type")
	ErrNoMatch          = errors.New("polyjson: no discriminator matched")
	ErrAmbiguousMatch   = errors.New("polyjson: ambiguous discriminator match")

	// ErrFrozen is returned when a frozen registry is modified.
	ErrFrozen = fmt.Errorf("%w: registry is frozen", ErrConfiguration)
	// ErrNotFrozen is returned when resolvers are requested before setup ended.
	ErrNotFrozen = fmt.Errorf("%w: registry must be frozen before resolving", ErrConfiguration)
)

// ConfigurationError reports a setup-time defect: empty criteria lists,
// variants not assignable to their base, duplicate registrations.
type ConfigurationError struct {
	Reason string
	// Types lists every offending type, when the defect concerns types.
	Types []reflect.Type
	Err   error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("polyjson: configuration: ")
	b.WriteString(e.Reason)
	if len(e.Types) > 0 {
		b.WriteString(": ")
		b.WriteString(typeNames(e.Types))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
func (e *ConfigurationError) Unwrap() error        { return e.Err }

// Code returns the issue code for this error.
func (e *ConfigurationError) Code() string { return CodeConfiguration }

// UnregisteredTypeError reports an abstract type without a registry.
type UnregisteredTypeError struct {
	BaseType reflect.Type
}

func (e *UnregisteredTypeError) Error() string {
	return "polyjson: no discriminators registered for " + typeName(e.BaseType)
}

func (e *UnregisteredTypeError) Is(target error) bool { return target == ErrUnregisteredType }
func (e *UnregisteredTypeError) Code() string         { return CodeUnregisteredType }

// NoMatchError reports that no binding's discriminator matched the node.
type NoMatchError struct {
	BaseType reflect.Type
	// Node is a compact rendering of the offending node.
	Node string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("polyjson: no discriminator of %s matched %s", typeName(e.BaseType), e.Node)
}

func (e *NoMatchError) Is(target error) bool { return target == ErrNoMatch }
func (e *NoMatchError) Code() string         { return CodeDiscriminatorUnknown }

// AmbiguousMatchError reports that several bindings matched under strict
// ambiguity handling. It signals a discriminator configuration defect.
type AmbiguousMatchError struct {
	BaseType   reflect.Type
	Candidates []reflect.Type
	Node       string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("polyjson: %d discriminators of %s matched %s: %s",
		len(e.Candidates), typeName(e.BaseType), e.Node, typeNames(e.Candidates))
}

func (e *AmbiguousMatchError) Is(target error) bool { return target == ErrAmbiguousMatch }
func (e *AmbiguousMatchError) Code() string         { return CodeUnionAmbiguous }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func typeNames(ts []reflect.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = typeName(t)
	}
	return strings.Join(names, ", ")
}

// coded is implemented by every typed error of this package.
type coded interface {
	error
	Code() string
}

// issueFor converts an error raised at path into an Issue.
func issueFor(path PathRef, err error) Issue {
	code := CodeParseError
	var c coded
	if errors.As(err, &c) {
		code = c.Code()
	}
	it := Issue{Path: path.Pointer(), Code: code, Message: message(code), Hint: err.Error(), Cause: err}
	var amb *AmbiguousMatchError
	if errors.As(err, &amb) {
		it.Params = map[string]any{"candidates": typeNames(amb.Candidates)}
	}
	return it
}
