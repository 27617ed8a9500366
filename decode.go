package polyjson

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// decodeState collects issues while one document is decoded.
type decodeState struct {
	s      *Serializer
	issues Issues
}

func (st *decodeState) fail(at PathRef, code, hint string) {
	st.issues = append(st.issues, IssueAt(at, code, hint))
}

func (st *decodeState) failErr(at PathRef, err error) {
	if iss, ok := AsIssues(err); ok {
		st.issues = append(st.issues, iss...)
		return
	}
	st.issues = append(st.issues, issueFor(at, err))
}

func (st *decodeState) mismatch(n Node, t reflect.Type, at PathRef) {
	st.fail(at, CodeInvalidType, fmt.Sprintf("cannot decode %s into %s", n.Kind(), t))
}

// value decodes n into rv, which must be settable.
func (st *decodeState) value(n Node, rv reflect.Value, at PathRef) {
	if n.Kind() == KindNull {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
		}
		return
	}
	if rv.Kind() != reflect.Pointer && rv.Type().Name() != "" && rv.CanAddr() {
		if done := st.unmarshaler(n, rv.Addr(), at); done {
			return
		}
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		st.value(n, rv.Elem(), at)
	case reflect.Interface:
		st.iface(n, rv, at)
	case reflect.Struct:
		st.object(n, rv, at)
	case reflect.Map:
		st.mapValue(n, rv, at)
	case reflect.Slice:
		st.slice(n, rv, at)
	case reflect.Array:
		if n.Kind() != KindArray {
			st.mismatch(n, rv.Type(), at)
			return
		}
		for i := 0; i < rv.Len(); i++ {
			if i < n.Len() {
				st.value(n.Index(i), rv.Index(i), at.Index(i))
			} else {
				rv.Index(i).Set(reflect.Zero(rv.Type().Elem()))
			}
		}
	case reflect.String:
		if rv.Type() == jsonNumberType {
			if t, ok := n.Text(); ok && n.Kind() == KindNumber {
				rv.SetString(t)
				return
			}
			st.mismatch(n, rv.Type(), at)
			return
		}
		t, ok := n.Text()
		if !ok || n.Kind() != KindString {
			st.mismatch(n, rv.Type(), at)
			return
		}
		rv.SetString(t)
	case reflect.Bool:
		b, ok := n.Bool()
		if !ok {
			st.mismatch(n, rv.Type(), at)
			return
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		st.intValue(n, rv, at)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		st.uintValue(n, rv, at)
	case reflect.Float32, reflect.Float64:
		t, ok := n.Text()
		if !ok || n.Kind() != KindNumber {
			st.mismatch(n, rv.Type(), at)
			return
		}
		f, err := strconv.ParseFloat(t, rv.Type().Bits())
		if err != nil || rv.OverflowFloat(f) {
			st.fail(at, CodeOverflow, fmt.Sprintf("%s overflows %s", t, rv.Type()))
			return
		}
		rv.SetFloat(f)
	default:
		st.fail(at, CodeInvalidType, fmt.Sprintf("unsupported type %s", rv.Type()))
	}
}

// unmarshaler runs json.Unmarshaler or encoding.TextUnmarshaler on p when
// implemented and reports whether it did.
func (st *decodeState) unmarshaler(n Node, p reflect.Value, at PathRef) bool {
	if p.Type().Implements(jsonUnmarshalerType) {
		raw, err := n.MarshalJSON()
		if err == nil {
			err = p.Interface().(json.Unmarshaler).UnmarshalJSON(raw)
		}
		if err != nil {
			st.failErr(at, err)
		}
		return true
	}
	if p.Type().Implements(textUnmarshalerType) && n.Kind() == KindString {
		t, _ := n.Text()
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(t)); err != nil {
			st.fail(at, CodeInvalidType, err.Error())
		}
		return true
	}
	return false
}

func (st *decodeState) iface(n Node, rv reflect.Value, at PathRef) {
	t := rv.Type()
	if st.s.factory.CanHandle(t) {
		r, err := st.s.Resolver(t)
		if err != nil {
			st.failErr(at, err)
			return
		}
		v, err := r.Decode(pathDecoder{s: st.s, at: at}, n)
		if err != nil {
			st.failErr(at, err)
			return
		}
		rv.Set(reflect.ValueOf(v))
		return
	}
	if t.NumMethod() > 0 {
		st.failErr(at, &UnregisteredTypeError{BaseType: t})
		return
	}
	if x := n.Interface(); x != nil {
		rv.Set(reflect.ValueOf(x))
	} else {
		rv.Set(reflect.Zero(t))
	}
}

// pathDecoder decodes variants below a path of the enclosing document.
type pathDecoder struct {
	s  *Serializer
	at PathRef
}

func (d pathDecoder) DecodeNode(n Node, target any) error { return d.s.decodeAt(n, target, d.at) }

func (st *decodeState) object(n Node, rv reflect.Value, at PathRef) {
	if n.Kind() != KindObject {
		st.mismatch(n, rv.Type(), at)
		return
	}
	p := st.s.plan(rv.Type())
	for _, key := range n.Keys() {
		i, ok := p.byWire[key]
		if !ok {
			continue
		}
		fv := fieldForWrite(rv, p.fields[i].index)
		if !fv.IsValid() || !fv.CanSet() {
			continue
		}
		child, _ := n.Lookup(key)
		st.value(child, fv, at.Field(key))
	}
}

func (st *decodeState) mapValue(n Node, rv reflect.Value, at PathRef) {
	if n.Kind() != KindObject {
		st.mismatch(n, rv.Type(), at)
		return
	}
	t := rv.Type()
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(t, n.Len()))
	}
	for _, key := range n.Keys() {
		kv, err := mapKey(t.Key(), key)
		if err != nil {
			st.fail(at.Field(key), CodeInvalidType, err.Error())
			continue
		}
		child, _ := n.Lookup(key)
		ev := reflect.New(t.Elem()).Elem()
		before := len(st.issues)
		st.value(child, ev, at.Field(key))
		if len(st.issues) == before {
			rv.SetMapIndex(kv, ev)
		}
	}
}

func mapKey(t reflect.Type, key string) (reflect.Value, error) {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		kv := reflect.New(t)
		if err := kv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(key)); err != nil {
			return reflect.Value{}, err
		}
		return kv.Elem(), nil
	}
	kv := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		kv.SetString(key)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(key, 10, 64)
		if err != nil || kv.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("invalid %s map key %q", t, key)
		}
		kv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(key, 10, 64)
		if err != nil || kv.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("invalid %s map key %q", t, key)
		}
		kv.SetUint(u)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported map key type %s", t)
	}
	return kv, nil
}

func (st *decodeState) slice(n Node, rv reflect.Value, at PathRef) {
	if rv.Type().Elem().Kind() == reflect.Uint8 && n.Kind() == KindString {
		t, _ := n.Text()
		b, err := base64.StdEncoding.DecodeString(t)
		if err != nil {
			st.fail(at, CodeInvalidType, err.Error())
			return
		}
		rv.SetBytes(b)
		return
	}
	if n.Kind() != KindArray {
		st.mismatch(n, rv.Type(), at)
		return
	}
	out := reflect.MakeSlice(rv.Type(), n.Len(), n.Len())
	for i := 0; i < n.Len(); i++ {
		st.value(n.Index(i), out.Index(i), at.Index(i))
	}
	rv.Set(out)
}

func (st *decodeState) intValue(n Node, rv reflect.Value, at PathRef) {
	t, ok := n.Text()
	if !ok || n.Kind() != KindNumber {
		st.mismatch(n, rv.Type(), at)
		return
	}
	i, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		st.numberError(t, rv.Type(), err, at)
		return
	}
	if rv.OverflowInt(i) {
		st.fail(at, CodeOverflow, fmt.Sprintf("%s overflows %s", t, rv.Type()))
		return
	}
	rv.SetInt(i)
}

func (st *decodeState) uintValue(n Node, rv reflect.Value, at PathRef) {
	t, ok := n.Text()
	if !ok || n.Kind() != KindNumber {
		st.mismatch(n, rv.Type(), at)
		return
	}
	u, err := strconv.ParseUint(t, 10, 64)
	if err != nil {
		st.numberError(t, rv.Type(), err, at)
		return
	}
	if rv.OverflowUint(u) {
		st.fail(at, CodeOverflow, fmt.Sprintf("%s overflows %s", t, rv.Type()))
		return
	}
	rv.SetUint(u)
}

func (st *decodeState) numberError(text string, t reflect.Type, err error, at PathRef) {
	if errors.Is(err, strconv.ErrRange) {
		st.fail(at, CodeOverflow, fmt.Sprintf("%s overflows %s", text, t))
		return
	}
	st.fail(at, CodeInvalidType, fmt.Sprintf("%s is not a valid %s", text, t))
}
