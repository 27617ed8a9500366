package polyjson

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// literal is a compiled PropertyHasValue operand.
type literal struct {
	match func(Node) bool
	desc  string
}

var jsonNumberType = reflect.TypeOf(json.Number(""))

// compileLiteral validates x once and returns its matcher. Supported: nil,
// strings, booleans, every integer kind, float32, float64, json.Number and
// slices or arrays of those. Pointers are followed; a nil pointer is null.
func compileLiteral(x any) (literal, error) {
	if x == nil {
		return literal{match: isNull, desc: "null"}, nil
	}
	return compileLiteralValue(reflect.ValueOf(x))
}

func compileLiteralValue(rv reflect.Value) (literal, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return literal{match: isNull, desc: "null"}, nil
		}
		rv = rv.Elem()
	}
	if rv.Type() == jsonNumberType {
		return numberLiteral(rv.String())
	}
	switch rv.Kind() {
	case reflect.String:
		s := rv.String()
		return literal{
			match: func(n Node) bool {
				t, ok := n.Text()
				return ok && n.Kind() == KindString && t == s
			},
			desc: strconv.Quote(s),
		}, nil
	case reflect.Bool:
		b := rv.Bool()
		return literal{
			match: func(n Node) bool {
				v, ok := n.Bool()
				return ok && v == b
			},
			desc: strconv.FormatBool(b),
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		return literal{
			match: func(n Node) bool {
				v, ok := n.Int64()
				return ok && v == i
			},
			desc: strconv.FormatInt(i, 10),
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		return literal{
			match: func(n Node) bool {
				v, ok := n.Uint64()
				return ok && v == u
			},
			desc: strconv.FormatUint(u, 10),
		}, nil
	case reflect.Float32:
		f := float32(rv.Float())
		return literal{
			match: func(n Node) bool {
				v, ok := n.Float32()
				return ok && v == f
			},
			desc: strconv.FormatFloat(float64(f), 'g', -1, 32),
		}, nil
	case reflect.Float64:
		f := rv.Float()
		return literal{
			match: func(n Node) bool {
				v, ok := n.Float64()
				return ok && v == f
			},
			desc: strconv.FormatFloat(f, 'g', -1, 64),
		}, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return literal{match: isNull, desc: "null"}, nil
		}
		elems := make([]literal, rv.Len())
		descs := make([]string, rv.Len())
		for i := range elems {
			e, err := compileLiteralValue(rv.Index(i))
			if err != nil {
				return literal{}, err
			}
			elems[i], descs[i] = e, e.desc
		}
		return literal{
			match: func(n Node) bool {
				if n.Kind() != KindArray || n.Len() != len(elems) {
					return false
				}
				for i, e := range elems {
					if !e.match(n.Index(i)) {
						return false
					}
				}
				return true
			},
			desc: "[" + strings.Join(descs, ",") + "]",
		}, nil
	}
	return literal{}, &ConfigurationError{
		Reason: fmt.Sprintf("unsupported literal kind %s", rv.Kind()),
		Types:  []reflect.Type{rv.Type()},
	}
}

func numberLiteral(text string) (literal, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return literal{}, &ConfigurationError{Reason: fmt.Sprintf("invalid number literal %q", text)}
	}
	return literal{
		match: func(n Node) bool {
			v, ok := n.Float64()
			return ok && v == f
		},
		desc: text,
	}, nil
}

func isNull(n Node) bool { return n.Kind() == KindNull }
