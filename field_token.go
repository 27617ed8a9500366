package polyjson

import "reflect"

// NameOf returns the Go name of the top-level field of S that selector
// addresses. Use it to keep discriminators linked to struct fields at compile
// time:
//
//	polyjson.PropertyExists(polyjson.NameOf(func(l *Lion) *float64 { return &l.ManeImpressiveness }))
//
// The result is a logical name; the naming policy converts it when the
// discriminator is compiled. It panics when selector does not return the
// address of an exported top-level field.
func NameOf[S any, F any](selector func(*S) *F) string {
	if selector == nil {
		panic("polyjson.NameOf: selector must not be nil")
	}
	var zero S
	rv := reflect.ValueOf(&zero).Elem()
	if rv.Kind() != reflect.Struct {
		panic("polyjson.NameOf: " + rv.Type().String() + " is not a struct")
	}
	fp := reflect.ValueOf(selector(&zero)).Pointer()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		// Zero-sized fields share addresses; the type check keeps them apart.
		if rv.Field(i).Addr().Pointer() == fp && sf.Type == reflect.TypeFor[F]() {
			return sf.Name
		}
	}
	panic("polyjson.NameOf: selector must return the address of an exported top-level field")
}
