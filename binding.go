package polyjson

import "reflect"

// NodeDecoder decodes a node into the value target points to. Serializer
// implements it; resolvers use it to decode the selected variant.
type NodeDecoder interface {
	DecodeNode(n Node, target any) error
}

// Binding pairs one variant type with the discriminator that selects it.
// Create bindings with Variant.
type Binding struct {
	variant reflect.Type
	disc    Discriminator
	decode  func(NodeDecoder, Node) (any, error)
}

// Variant binds the concrete type T to d. The decode step for T is captured
// here, so resolution never builds types at run time.
func Variant[T any](d Discriminator) Binding {
	return Binding{
		variant: reflect.TypeFor[T](),
		disc:    d,
		decode: func(dec NodeDecoder, n Node) (any, error) {
			var v T
			if err := dec.DecodeNode(n, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Type returns the variant type.
func (b Binding) Type() reflect.Type { return b.variant }

// Discriminator returns the criterion selecting the variant.
func (b Binding) Discriminator() Discriminator { return b.disc }

// Decode decodes n as the variant type with dec.
func (b Binding) Decode(dec NodeDecoder, n Node) (any, error) {
	if b.decode == nil {
		return nil, &ConfigurationError{Reason: "binding was not created with Variant"}
	}
	return b.decode(dec, n)
}

func (b Binding) String() string {
	if b.disc == nil {
		return typeName(b.variant) + " when <nil>"
	}
	return typeName(b.variant) + " when " + b.disc.String()
}
