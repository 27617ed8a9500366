package polyjson_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/polyjson"
)

func TestNode_Accessors(t *testing.T) {
	n := mustNode(t, `{"s":"x","i":42,"f":1.5,"b":true,"z":null,"a":[1,2],"o":{}}`)
	assert.Equal(t, polyjson.KindObject, n.Kind())
	assert.Equal(t, []string{"s", "i", "f", "b", "z", "a", "o"}, n.Keys())
	assert.Equal(t, 7, n.Len())

	s, _ := n.Lookup("s")
	text, ok := s.Text()
	assert.True(t, ok)
	assert.Equal(t, "x", text)

	i, _ := n.Lookup("i")
	iv, ok := i.Int64()
	assert.True(t, ok)
	assert.EqualValues(t, 42, iv)

	f, _ := n.Lookup("f")
	_, ok = f.Int64()
	assert.False(t, ok, "1.5 is not an integer")
	fv, _ := f.Float64()
	assert.Equal(t, 1.5, fv)

	z, _ := n.Lookup("z")
	assert.Equal(t, polyjson.KindNull, z.Kind())

	a, _ := n.Lookup("a")
	assert.Equal(t, polyjson.KindArray, a.Kind())
	assert.Equal(t, polyjson.KindNumber, a.Index(1).Kind())
	assert.False(t, a.Index(5).IsValid())

	missing, ok := n.Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, polyjson.KindInvalid, missing.Kind())
	assert.Equal(t, "<missing>", missing.String())
}

func TestNode_LookupIsCaseSensitive(t *testing.T) {
	n := mustNode(t, `{"Species":"Lion"}`)
	assert.True(t, n.Has("Species"))
	assert.False(t, n.Has("species"))
}

func TestNode_Interface(t *testing.T) {
	n := mustNode(t, `{"a":[1,"x",false,null],"b":{"c":2.5}}`)
	want := map[string]any{
		"a": []any{json.Number("1"), "x", false, nil},
		"b": map[string]any{"c": json.Number("2.5")},
	}
	assert.Equal(t, want, n.Interface())
}

func TestNode_MarshalKeepsOrder(t *testing.T) {
	n := mustNode(t, `{ "z" : 1, "a" : "q\"uote" }`)
	b, err := n.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"q\"uote"}`, string(b))
}

func TestNode_StringIsTruncated(t *testing.T) {
	n := mustNode(t, `{"payload":"`+strings.Repeat("x", 500)+`"}`)
	s := n.String()
	assert.True(t, strings.HasSuffix(s, "..."))
	assert.Less(t, len(s), 140)
}

func TestNodeOf(t *testing.T) {
	n, err := polyjson.NodeOf(map[string]any{"species": "Lion", "age": 3, "tags": []any{"a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "species", "tags"}, n.Keys())
	age, _ := n.Lookup("age")
	v, ok := age.Int64()
	assert.True(t, ok)
	assert.EqualValues(t, 3, v)
}

func TestParseYAMLNode(t *testing.T) {
	n, err := polyjson.ParseYAMLNode([]byte(`
species: Lion
count: 3
quoted: "3"
ratio: 0.5
alive: true
gone: ~
tags: [a, b]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"species", "count", "quoted", "ratio", "alive", "gone", "tags"}, n.Keys())

	count, _ := n.Lookup("count")
	assert.Equal(t, polyjson.KindNumber, count.Kind())
	quoted, _ := n.Lookup("quoted")
	assert.Equal(t, polyjson.KindString, quoted.Kind())
	alive, _ := n.Lookup("alive")
	assert.Equal(t, polyjson.KindBool, alive.Kind())
	gone, _ := n.Lookup("gone")
	assert.Equal(t, polyjson.KindNull, gone.Kind())
	tags, _ := n.Lookup("tags")
	assert.Equal(t, 2, tags.Len())
}

func TestParseYAMLNode_Errors(t *testing.T) {
	_, err := polyjson.ParseYAMLNode([]byte("a: [1, 2"))
	iss, ok := polyjson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, polyjson.CodeParseError, iss[0].Code)

	_, err = polyjson.ParseYAMLNode([]byte("a:\n  b: .inf\n"))
	iss, ok = polyjson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/a/b", iss[0].Path)

	n, err := polyjson.ParseYAMLNode(nil)
	require.NoError(t, err)
	assert.Equal(t, polyjson.KindNull, n.Kind())
}

func TestParseYAMLNode_ResolvesLikeJSON(t *testing.T) {
	s := newZooSerializer(t)
	n, err := polyjson.ParseYAMLNode([]byte("species: Bear\nname: Baloo\nisHibernating: true\n"))
	require.NoError(t, err)
	a, err := polyjson.DecodeAs[Animal](s, n)
	require.NoError(t, err)
	bear, ok := a.(*Bear)
	require.True(t, ok)
	assert.True(t, bear.IsHibernating)
}

func TestParseValueKind(t *testing.T) {
	k, err := polyjson.ParseValueKind("Boolean")
	require.NoError(t, err)
	assert.Equal(t, polyjson.KindBool, k)
	_, err = polyjson.ParseValueKind("tuple")
	assert.ErrorIs(t, err, polyjson.ErrConfiguration)
}
