package engine

import (
	"errors"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ValueKind classifies a materialized value.
type ValueKind int

const (
	ValueInvalid ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueNull
	ValueArray
	ValueObject
)

// Value is one materialized JSON-like value. Trees are built once and never
// mutated afterwards, so they can be shared between goroutines.
type Value struct {
	Kind ValueKind
	// Text holds the string value or the literal number text.
	Text string
	Bool bool
	// Keys preserves first-seen key order; Fields holds the last value seen
	// for each key.
	Keys   []string
	Fields map[string]*Value
	Elems  []*Value
}

// ErrUnexpectedToken reports a token that cannot start or continue a value.
var ErrUnexpectedToken = errors.New("engine: unexpected token")

// BuildTree reads exactly one value from src and materializes it. Tokens after
// the value are left unread.
func BuildTree(src TokenSource) (*Value, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return BuildTreeFrom(src, tok)
}

// BuildTreeFrom materializes the value that starts with first, which the
// caller has already taken from src.
func BuildTreeFrom(src TokenSource, first Token) (*Value, error) {
	switch first.Kind {
	case KindBeginObject:
		return buildObject(src)
	case KindBeginArray:
		return buildArray(src)
	case KindString:
		return &Value{Kind: ValueString, Text: first.String}, nil
	case KindNumber:
		return &Value{Kind: ValueNumber, Text: first.Number}, nil
	case KindBool:
		return &Value{Kind: ValueBool, Bool: first.Bool}, nil
	case KindNull:
		return &Value{Kind: ValueNull}, nil
	default:
		return nil, ErrUnexpectedToken
	}
}

func buildObject(src TokenSource) (*Value, error) {
	v := &Value{Kind: ValueObject, Fields: make(map[string]*Value)}
	for {
		tok, err := next(src)
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return v, nil
		}
		if tok.Kind != KindKey {
			return nil, ErrUnexpectedToken
		}
		vt, err := next(src)
		if err != nil {
			return nil, err
		}
		child, err := BuildTreeFrom(src, vt)
		if err != nil {
			return nil, err
		}
		if _, seen := v.Fields[tok.String]; !seen {
			v.Keys = append(v.Keys, tok.String)
		}
		v.Fields[tok.String] = child
	}
}

func buildArray(src TokenSource) (*Value, error) {
	v := &Value{Kind: ValueArray}
	for {
		tok, err := next(src)
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			if v.Elems == nil {
				v.Elems = []*Value{}
			}
			return v, nil
		}
		child, err := BuildTreeFrom(src, tok)
		if err != nil {
			return nil, err
		}
		v.Elems = append(v.Elems, child)
	}
}

// next treats EOF inside a container as truncated input.
func next(src TokenSource) (Token, error) {
	tok, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}
