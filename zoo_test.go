package polyjson_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/polyjson"
)

// Shared fixtures: the zoo used across the resolver and serializer tests.

type Animal interface{ common() *Common }

type Common struct {
	Name    string
	Weight  float64
	Species string
}

func (c *Common) common() *Common { return c }

type Lion struct {
	Common
	TailLengthCentimeters int
	ManeImpressiveness    float64
}

type Gazelle struct {
	Common
	HornLengths []float64
}

type Bear struct {
	Common
	IsHibernating bool
}

// Tiger is an Animal nobody registered.
type Tiger struct{ Common }

type AnimalsDocument struct {
	Animals []Animal
}

var species = polyjson.NameOf(func(c *Common) *string { return &c.Species })

func speciesIs(name string) polyjson.Discriminator {
	return polyjson.Must(polyjson.PropertyHasValue(species, name))
}

func zooBindings() []polyjson.Binding {
	return []polyjson.Binding{
		polyjson.Variant[*Lion](speciesIs("Lion")),
		polyjson.Variant[*Bear](speciesIs("Bear")),
		polyjson.Variant[*Gazelle](speciesIs("Gazelle")),
	}
}

func newZooFactory(t *testing.T, opts ...polyjson.FactoryOption) *polyjson.FactoryRegistry {
	t.Helper()
	f := polyjson.NewFactory(opts...)
	require.NoError(t, polyjson.RegisterAbstract[Animal](f, zooBindings()...))
	return f
}

func newZooSerializer(t *testing.T, opts ...polyjson.SerializerOption) *polyjson.Serializer {
	t.Helper()
	opts = append([]polyjson.SerializerOption{polyjson.WithNamingPolicy(polyjson.CamelCase)}, opts...)
	return polyjson.NewSerializer(newZooFactory(t), opts...)
}

func mustNode(t *testing.T, js string) polyjson.Node {
	t.Helper()
	n, err := polyjson.ParseNode([]byte(js))
	require.NoError(t, err)
	return n
}

const zooJSON = `{
  "animals": [
    {"species": "Lion", "name": "Leo", "weight": 190.5, "tailLengthCentimeters": 90, "maneImpressiveness": 0.9},
    {"species": "Bear", "name": "Baloo", "weight": 300, "isHibernating": true},
    {"species": "Gazelle", "name": "Zola", "weight": 25.2, "hornLengths": [30.5, 31]}
  ]
}`
