package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// FromAny materializes a generic Go value (the shapes produced by
// encoding/json, go-json and yaml.v3 when decoding into any). Map keys are
// sorted because Go maps carry no order.
func FromAny(x any) (*Value, error) {
	switch t := x.(type) {
	case nil:
		return &Value{Kind: ValueNull}, nil
	case string:
		return &Value{Kind: ValueString, Text: t}, nil
	case bool:
		return &Value{Kind: ValueBool, Bool: t}, nil
	case json.Number:
		if _, err := strconv.ParseFloat(string(t), 64); err != nil {
			return nil, fmt.Errorf("engine: invalid number %q", string(t))
		}
		return &Value{Kind: ValueNumber, Text: string(t)}, nil
	case float64:
		return floatValue(t, 64)
	case float32:
		return floatValue(float64(t), 32)
	case int:
		return &Value{Kind: ValueNumber, Text: strconv.FormatInt(int64(t), 10)}, nil
	case int64:
		return &Value{Kind: ValueNumber, Text: strconv.FormatInt(t, 10)}, nil
	case uint64:
		return &Value{Kind: ValueNumber, Text: strconv.FormatUint(t, 10)}, nil
	case []any:
		v := &Value{Kind: ValueArray, Elems: make([]*Value, 0, len(t))}
		for _, e := range t {
			c, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			v.Elems = append(v.Elems, c)
		}
		return v, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		v := &Value{Kind: ValueObject, Keys: keys, Fields: make(map[string]*Value, len(t))}
		for _, k := range keys {
			c, err := FromAny(t[k])
			if err != nil {
				return nil, err
			}
			v.Fields[k] = c
		}
		return v, nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("engine: non-string object key %v", k)
			}
			m[ks] = e
		}
		return FromAny(m)
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (*Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Value{Kind: ValueNumber, Text: strconv.FormatInt(rv.Int(), 10)}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &Value{Kind: ValueNumber, Text: strconv.FormatUint(rv.Uint(), 10)}, nil
	case reflect.Float32:
		return floatValue(rv.Float(), 32)
	case reflect.Float64:
		return floatValue(rv.Float(), 64)
	case reflect.String:
		return &Value{Kind: ValueString, Text: rv.String()}, nil
	case reflect.Bool:
		return &Value{Kind: ValueBool, Bool: rv.Bool()}, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return &Value{Kind: ValueNull}, nil
		}
		v := &Value{Kind: ValueArray, Elems: make([]*Value, 0, rv.Len())}
		for i := 0; i < rv.Len(); i++ {
			c, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			v.Elems = append(v.Elems, c)
		}
		return v, nil
	}
	return nil, fmt.Errorf("engine: unsupported value of type %T", rv.Interface())
}

func floatValue(f float64, bits int) (*Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("engine: unsupported number %v", f)
	}
	return &Value{Kind: ValueNumber, Text: strconv.FormatFloat(f, 'g', -1, bits)}, nil
}
