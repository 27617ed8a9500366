package polyjson

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	eng "github.com/reoring/polyjson/internal/engine"
)

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

const maxEncodeDepth = 1000

// encodeState collects issues while one value is encoded.
type encodeState struct {
	s      *Serializer
	issues Issues
	depth  int
}

func (st *encodeState) fail(at PathRef, code, hint string) *eng.Value {
	st.issues = append(st.issues, IssueAt(at, code, hint))
	return &eng.Value{Kind: eng.ValueNull}
}

// value encodes rv. Interface values are encoded by their dynamic type.
func (st *encodeState) value(rv reflect.Value, at PathRef) *eng.Value {
	if !rv.IsValid() {
		return &eng.Value{Kind: eng.ValueNull}
	}
	st.depth++
	defer func() { st.depth-- }()
	if st.depth > maxEncodeDepth {
		return st.fail(at, CodeInvalidType, "value nesting too deep; cyclic reference?")
	}

	if v, ok := st.marshaler(rv, at); ok {
		return v
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return &eng.Value{Kind: eng.ValueNull}
		}
		return st.value(rv.Elem(), at)
	case reflect.Struct:
		return st.object(rv, at)
	case reflect.Map:
		return st.mapValue(rv, at)
	case reflect.Slice:
		if rv.IsNil() {
			return &eng.Value{Kind: eng.ValueNull}
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return &eng.Value{Kind: eng.ValueString, Text: base64.StdEncoding.EncodeToString(rv.Bytes())}
		}
		return st.array(rv, at)
	case reflect.Array:
		return st.array(rv, at)
	case reflect.String:
		if rv.Type() == jsonNumberType {
			return st.number(rv.String(), at)
		}
		return &eng.Value{Kind: eng.ValueString, Text: rv.String()}
	case reflect.Bool:
		return &eng.Value{Kind: eng.ValueBool, Bool: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &eng.Value{Kind: eng.ValueNumber, Text: strconv.FormatInt(rv.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &eng.Value{Kind: eng.ValueNumber, Text: strconv.FormatUint(rv.Uint(), 10)}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return st.fail(at, CodeInvalidType, fmt.Sprintf("unsupported number %v", f))
		}
		return &eng.Value{Kind: eng.ValueNumber, Text: strconv.FormatFloat(f, 'g', -1, rv.Type().Bits())}
	}
	return st.fail(at, CodeInvalidType, fmt.Sprintf("unsupported type %s", rv.Type()))
}

// marshaler runs json.Marshaler or encoding.TextMarshaler when rv, or its
// address, implements one.
func (st *encodeState) marshaler(rv reflect.Value, at PathRef) (*eng.Value, bool) {
	if rv.Kind() == reflect.Interface {
		return nil, false
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}
	target := rv
	if !rv.Type().Implements(jsonMarshalerType) && !rv.Type().Implements(textMarshalerType) {
		if rv.Kind() == reflect.Pointer || !rv.CanAddr() {
			return nil, false
		}
		target = rv.Addr()
	}
	if !target.CanInterface() {
		return nil, false
	}
	switch m := target.Interface().(type) {
	case json.Marshaler:
		raw, err := m.MarshalJSON()
		if err != nil {
			return st.fail(at, CodeInvalidType, err.Error()), true
		}
		n, err := parseNode(st.s.driver, raw, ParseOpt{}, nil)
		if err != nil {
			return st.fail(at, CodeInvalidType, fmt.Sprintf("%s.MarshalJSON: %v", rv.Type(), err)), true
		}
		return n.v, true
	case encoding.TextMarshaler:
		text, err := m.MarshalText()
		if err != nil {
			return st.fail(at, CodeInvalidType, err.Error()), true
		}
		return &eng.Value{Kind: eng.ValueString, Text: string(text)}, true
	}
	return nil, false
}

func (st *encodeState) number(text string, at PathRef) *eng.Value {
	if text == "" {
		text = "0"
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return st.fail(at, CodeInvalidType, fmt.Sprintf("invalid number literal %q", text))
	}
	return &eng.Value{Kind: eng.ValueNumber, Text: text}
}

func (st *encodeState) object(rv reflect.Value, at PathRef) *eng.Value {
	p := st.s.plan(rv.Type())
	out := &eng.Value{Kind: eng.ValueObject, Fields: make(map[string]*eng.Value, len(p.fields))}
	for _, f := range p.fields {
		fv, ok := fieldForRead(rv, f.index)
		if !ok {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if st.s.omitNull && isNilValue(fv) {
			continue
		}
		out.Keys = append(out.Keys, f.wire)
		out.Fields[f.wire] = st.value(fv, at.Field(f.wire))
	}
	return out
}

func (st *encodeState) mapValue(rv reflect.Value, at PathRef) *eng.Value {
	if rv.IsNil() {
		return &eng.Value{Kind: eng.ValueNull}
	}
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		k, err := mapKeyString(it.Key())
		if err != nil {
			return st.fail(at, CodeInvalidType, err.Error())
		}
		entries = append(entries, entry{key: k, val: it.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	out := &eng.Value{Kind: eng.ValueObject, Keys: make([]string, 0, len(entries)), Fields: make(map[string]*eng.Value, len(entries))}
	for _, e := range entries {
		if st.s.omitNull && isNilValue(e.val) {
			continue
		}
		out.Keys = append(out.Keys, e.key)
		out.Fields[e.key] = st.value(e.val, at.Field(e.key))
	}
	return out
}

func mapKeyString(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		return string(b), err
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("unsupported map key type %s", k.Type())
}

func (st *encodeState) array(rv reflect.Value, at PathRef) *eng.Value {
	out := &eng.Value{Kind: eng.ValueArray, Elems: make([]*eng.Value, rv.Len())}
	for i := range out.Elems {
		out.Elems[i] = st.value(rv.Index(i), at.Index(i))
	}
	return out
}
