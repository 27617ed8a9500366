package polyjson

import (
	"fmt"
	"strings"

	eng "github.com/reoring/polyjson/internal/engine"
)

// ValueKind classifies a node value.
type ValueKind int

const (
	KindInvalid ValueKind = iota // Missing node (failed lookup).
	KindString
	KindNumber
	KindBool
	KindNull
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindNumber:  "number",
	KindBool:    "bool",
	KindNull:    "null",
	KindArray:   "array",
	KindObject:  "object",
}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseValueKind parses a kind name as written in configuration files.
func ParseValueKind(s string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string":
		return KindString, nil
	case "number", "integer", "float":
		return KindNumber, nil
	case "bool", "boolean", "true", "false":
		return KindBool, nil
	case "null":
		return KindNull, nil
	case "array":
		return KindArray, nil
	case "object":
		return KindObject, nil
	}
	return KindInvalid, &ConfigurationError{Reason: fmt.Sprintf("unknown value kind %q", s)}
}

// UnmarshalText lets kinds be decoded from YAML and environment values.
func (k *ValueKind) UnmarshalText(b []byte) error {
	v, err := ParseValueKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MarshalText renders the kind name.
func (k ValueKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func kindFromEngine(k eng.ValueKind) ValueKind {
	switch k {
	case eng.ValueString:
		return KindString
	case eng.ValueNumber:
		return KindNumber
	case eng.ValueBool:
		return KindBool
	case eng.ValueNull:
		return KindNull
	case eng.ValueArray:
		return KindArray
	case eng.ValueObject:
		return KindObject
	default:
		return KindInvalid
	}
}

// AmbiguityPolicy decides what happens when more than one discriminator
// matches a node.
type AmbiguityPolicy int

const (
	// AmbiguityStrict evaluates every binding and fails with
	// AmbiguousMatchError when two or more match.
	AmbiguityStrict AmbiguityPolicy = iota
	// AmbiguityFirstMatch picks the first matching binding in registration
	// order. It must be chosen explicitly.
	AmbiguityFirstMatch
)

func (p AmbiguityPolicy) String() string {
	switch p {
	case AmbiguityStrict:
		return "strict"
	case AmbiguityFirstMatch:
		return "first-match"
	default:
		return fmt.Sprintf("AmbiguityPolicy(%d)", int(p))
	}
}

// ParseAmbiguityPolicy parses "strict" or "first-match".
func ParseAmbiguityPolicy(s string) (AmbiguityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return AmbiguityStrict, nil
	case "first-match", "first", "firstmatch":
		return AmbiguityFirstMatch, nil
	}
	return AmbiguityStrict, &ConfigurationError{Reason: fmt.Sprintf("unknown ambiguity policy %q", s)}
}

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ParseSeverity parses "ignore", "warn" or "error".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return Ignore, nil
	case "warn":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Ignore, &ConfigurationError{Reason: fmt.Sprintf("unknown severity %q", s)}
}

// ParseOpt bundles the limits applied while reading documents into nodes.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	FailFast   bool
}

func (o ParseOpt) enforceOptions(sink func(eng.SimpleIssue)) eng.EnforceOptions {
	return eng.EnforceOptions{
		OnDuplicate: toEngineDup(o.Strictness.OnDuplicateKey),
		MaxDepth:    o.MaxDepth,
		MaxBytes:    o.MaxBytes,
		IssueSink:   sink,
		FailFast:    o.FailFast,
	}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}
