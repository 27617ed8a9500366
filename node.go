package polyjson

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"unicode/utf8"

	gojson "github.com/goccy/go-json"

	eng "github.com/reoring/polyjson/internal/engine"
)

// Node is an immutable, re-readable view of one document value. Reading a
// Node never consumes anything, so discrimination and decoding can inspect the
// same snapshot as often as they need. The zero Node is the missing value
// returned by failed lookups; its Kind is KindInvalid.
type Node struct {
	v *eng.Value
}

func nodeOf(v *eng.Value) Node { return Node{v: v} }

// IsValid reports whether the node refers to a value.
func (n Node) IsValid() bool { return n.v != nil }

// Kind classifies the value.
func (n Node) Kind() ValueKind {
	if n.v == nil {
		return KindInvalid
	}
	return kindFromEngine(n.v.Kind)
}

// Lookup returns the member stored under the exact on-wire name.
func (n Node) Lookup(wireName string) (Node, bool) {
	if n.v == nil || n.v.Kind != eng.ValueObject {
		return Node{}, false
	}
	c, ok := n.v.Fields[wireName]
	if !ok {
		return Node{}, false
	}
	return nodeOf(c), true
}

// Has reports whether the object has a member named wireName.
func (n Node) Has(wireName string) bool {
	_, ok := n.Lookup(wireName)
	return ok
}

// Keys returns the object member names in first-seen order.
func (n Node) Keys() []string {
	if n.v == nil || n.v.Kind != eng.ValueObject {
		return nil
	}
	return append([]string(nil), n.v.Keys...)
}

// Len returns the number of array elements or object members.
func (n Node) Len() int {
	if n.v == nil {
		return 0
	}
	switch n.v.Kind {
	case eng.ValueArray:
		return len(n.v.Elems)
	case eng.ValueObject:
		return len(n.v.Keys)
	}
	return 0
}

// Index returns the i-th array element, or the zero Node when out of range.
func (n Node) Index(i int) Node {
	if n.v == nil || n.v.Kind != eng.ValueArray || i < 0 || i >= len(n.v.Elems) {
		return Node{}
	}
	return nodeOf(n.v.Elems[i])
}

// Text returns the string value, or the literal text of a number.
func (n Node) Text() (string, bool) {
	if n.v == nil || (n.v.Kind != eng.ValueString && n.v.Kind != eng.ValueNumber) {
		return "", false
	}
	return n.v.Text, true
}

// Bool returns the boolean value.
func (n Node) Bool() (bool, bool) {
	if n.v == nil || n.v.Kind != eng.ValueBool {
		return false, false
	}
	return n.v.Bool, true
}

// Int64 returns the number as int64 when its literal is an integer in range.
func (n Node) Int64() (int64, bool) {
	if n.v == nil || n.v.Kind != eng.ValueNumber {
		return 0, false
	}
	i, err := strconv.ParseInt(n.v.Text, 10, 64)
	return i, err == nil
}

// Uint64 returns the number as uint64 when its literal is a non-negative
// integer in range.
func (n Node) Uint64() (uint64, bool) {
	if n.v == nil || n.v.Kind != eng.ValueNumber {
		return 0, false
	}
	u, err := strconv.ParseUint(n.v.Text, 10, 64)
	return u, err == nil
}

// Float64 returns the number as float64.
func (n Node) Float64() (float64, bool) {
	if n.v == nil || n.v.Kind != eng.ValueNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.v.Text, 64)
	return f, err == nil && !math.IsInf(f, 0)
}

// Float32 returns the number rounded to float32.
func (n Node) Float32() (float32, bool) {
	if n.v == nil || n.v.Kind != eng.ValueNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.v.Text, 32)
	return float32(f), err == nil && !math.IsInf(f, 0)
}

// Interface converts the node into generic Go values: map[string]any, []any,
// string, json.Number, bool and nil.
func (n Node) Interface() any {
	if n.v == nil {
		return nil
	}
	return toInterface(n.v)
}

func toInterface(v *eng.Value) any {
	switch v.Kind {
	case eng.ValueString:
		return v.Text
	case eng.ValueNumber:
		return json.Number(v.Text)
	case eng.ValueBool:
		return v.Bool
	case eng.ValueArray:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = toInterface(e)
		}
		return out
	case eng.ValueObject:
		out := make(map[string]any, len(v.Keys))
		for _, k := range v.Keys {
			out[k] = toInterface(v.Fields[k])
		}
		return out
	}
	return nil
}

// MarshalJSON renders the node compactly, keeping member order.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, n.v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v *eng.Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case eng.ValueString:
		return writeString(buf, v.Text)
	case eng.ValueNumber:
		buf.WriteString(v.Text)
	case eng.ValueBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case eng.ValueArray:
		buf.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case eng.ValueObject:
		buf.WriteByte('{')
		for i, k := range v.Keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, v.Fields[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

const summaryLimit = 128

// String renders a compact, length-limited summary for diagnostics.
func (n Node) String() string {
	if n.v == nil {
		return "<missing>"
	}
	b, err := n.MarshalJSON()
	if err != nil {
		return "<" + n.Kind().String() + ">"
	}
	if len(b) > summaryLimit {
		cut := summaryLimit
		for cut > 0 && !utf8.RuneStart(b[cut]) {
			cut--
		}
		return string(b[:cut]) + "..."
	}
	return string(b)
}
