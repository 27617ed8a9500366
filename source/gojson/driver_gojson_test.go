package gojson_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/polyjson"
	"github.com/reoring/polyjson/source/gojson"
)

type Shape interface{ area() float64 }

type Circle struct{ Radius float64 }

type Rect struct{ Width, Height float64 }

func (c *Circle) area() float64 { return 3 * c.Radius * c.Radius }
func (r *Rect) area() float64   { return r.Width * r.Height }

func TestDriver_MatchesDefaultDriver(t *testing.T) {
	const doc = `{"s":"x","n":-12,"b":false,"z":null,"a":[{"k":[]},{}],"o":{"p":"q"}}`
	want, err := polyjson.ReadNode(polyjson.CurrentJSONDriver().NewBytes([]byte(doc)))
	require.NoError(t, err)
	got, err := polyjson.ReadNode(gojson.Driver().NewReader(strings.NewReader(doc)))
	require.NoError(t, err)
	assert.Equal(t, want.Interface(), got.Interface())
	assert.Equal(t, want.Keys(), got.Keys())
	assert.Equal(t, "go-json", gojson.Driver().Name())
}

func TestDriver_Serializer(t *testing.T) {
	f := polyjson.NewFactory()
	require.NoError(t, polyjson.RegisterAbstract[Shape](f,
		polyjson.Variant[*Circle](polyjson.PropertyExists("Radius")),
		polyjson.Variant[*Rect](polyjson.Must(polyjson.PropertiesExist("Width", "Height"))),
	))
	s := polyjson.NewSerializer(f,
		polyjson.WithJSONDriver(gojson.Driver()),
		polyjson.WithParseOpt(polyjson.ParseOpt{Strictness: polyjson.Strictness{OnDuplicateKey: polyjson.Error}}),
	)

	var shapes []Shape
	require.NoError(t, s.Unmarshal([]byte(`[{"Radius":1},{"Width":2,"Height":3}]`), &shapes))
	require.Len(t, shapes, 2)
	assert.Equal(t, 6.0, shapes[1].area())

	err := s.Unmarshal([]byte(`[{"Radius":1,"Radius":2}]`), &shapes)
	iss, ok := polyjson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, polyjson.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/0/Radius", iss[0].Path)
}

func TestDriver_SyntaxError(t *testing.T) {
	_, err := polyjson.ReadNode(gojson.Driver().NewBytes([]byte(`{"a":`)))
	iss, ok := polyjson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, polyjson.CodeParseError, iss[0].Code)
}
