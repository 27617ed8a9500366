package polyjson

import (
	"reflect"
	"sort"
	"strings"
)

// fieldTag is the parsed wire naming of one struct field.
type fieldTag struct {
	name      string // explicit wire name; empty means derive it
	skip      bool
	omitEmpty bool
}

// parseFieldTag applies the field naming rule.
// Priority: polyjson:"name=..." > json tag name > naming policy applied to the
// field name; "-" disables the field.
func parseFieldTag(sf reflect.StructField) fieldTag {
	var ft fieldTag
	if pt := sf.Tag.Get("polyjson"); pt != "" {
		if pt == "-" {
			return fieldTag{skip: true}
		}
		for _, p := range strings.Split(pt, ",") {
			p = strings.TrimSpace(p)
			switch {
			case strings.HasPrefix(p, "name="):
				ft.name = strings.TrimPrefix(p, "name=")
			case p == "omitempty":
				ft.omitEmpty = true
			}
		}
	}
	if jt, ok := sf.Tag.Lookup("json"); ok {
		if jt == "-" {
			return fieldTag{skip: true}
		}
		name, opts, _ := strings.Cut(jt, ",")
		if ft.name == "" {
			ft.name = name
		}
		for _, o := range strings.Split(opts, ",") {
			if o == "omitempty" {
				ft.omitEmpty = true
			}
		}
	}
	return ft
}

// wireField is one field of a struct plan.
type wireField struct {
	wire      string
	index     []int
	typ       reflect.Type
	omitEmpty bool
	tagged    bool
	depth     int
}

// structPlan lists the encodable fields of a struct type in declaration
// order, embedded struct fields flattened.
type structPlan struct {
	fields []wireField
	byWire map[string]int
}

func buildStructPlan(t reflect.Type, policy NamingPolicy) *structPlan {
	var all []wireField
	collectFields(t, policy, nil, 0, map[reflect.Type]bool{t: true}, &all)

	// Shallower fields win; at equal depth a tagged field beats an untagged
	// one and two of the same standing cancel each other out.
	byName := make(map[string][]int)
	for i, f := range all {
		byName[f.wire] = append(byName[f.wire], i)
	}
	keep := make([]bool, len(all))
	for _, idx := range byName {
		sort.SliceStable(idx, func(a, b int) bool {
			fa, fb := all[idx[a]], all[idx[b]]
			if fa.depth != fb.depth {
				return fa.depth < fb.depth
			}
			return fa.tagged && !fb.tagged
		})
		if len(idx) > 1 {
			a, b := all[idx[0]], all[idx[1]]
			if a.depth == b.depth && a.tagged == b.tagged {
				continue
			}
		}
		keep[idx[0]] = true
	}

	p := &structPlan{byWire: make(map[string]int)}
	for i, f := range all {
		if !keep[i] {
			continue
		}
		p.byWire[f.wire] = len(p.fields)
		p.fields = append(p.fields, f)
	}
	return p
}

func collectFields(t reflect.Type, policy NamingPolicy, prefix []int, depth int, seen map[reflect.Type]bool, out *[]wireField) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		ft := parseFieldTag(sf)
		if ft.skip {
			continue
		}
		index := append(append(make([]int, 0, len(prefix)+1), prefix...), i)
		if sf.Anonymous && ft.name == "" {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				if !seen[et] {
					seen[et] = true
					collectFields(et, policy, index, depth+1, seen, out)
					delete(seen, et)
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		wire, tagged := ft.name, ft.name != ""
		if !tagged {
			wire = convertName(policy, sf.Name)
		}
		*out = append(*out, wireField{wire: wire, index: index, typ: sf.Type, omitEmpty: ft.omitEmpty, tagged: tagged, depth: depth})
	}
}

// fieldForWrite returns the field at index, allocating nil embedded pointers.
func fieldForWrite(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// fieldForRead returns the field at index, or false when a nil embedded
// pointer hides it.
func fieldForRead(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}
