package polyjson

// Package polyjson decodes JSON into Go interface types by looking at the
// content of each value instead of a type tag:
//
// - Discriminators (PropertyExists, PropertyHasValue, PropertyValueKind, ...) describe which variant a value is
// - AbstractRegistry binds the variants of one interface; FactoryRegistry collects registries and is frozen before use
// - Resolver picks the single matching variant, failing on no match or on ambiguity
// - Serializer is the decode/encode pipeline; it resolves interface-typed fields and encodes values by their runtime type
// - Errors surface as Issues (JSON Pointer, code, message) carrying typed causes
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Token drivers live under source/, YAML registry files under config/, HTTP adapters under middleware/, and the CLI under cmd/polyjson.
// - Registries are explicit values; nothing is registered globally.
//
// Typical usage:
//
//	f := polyjson.NewFactory()
//	err := polyjson.RegisterAbstract[Animal](f,
//	    polyjson.Variant[Lion](polyjson.Must(polyjson.PropertyHasValue("Species", "Lion"))),
//	    polyjson.Variant[Bear](polyjson.Must(polyjson.PropertyHasValue("Species", "Bear"))),
//	)
//	s := polyjson.NewSerializer(f, polyjson.WithNamingPolicy(polyjson.CamelCase))
//	var zoo struct{ Animals []Animal }
//	err = s.Unmarshal(data, &zoo)
