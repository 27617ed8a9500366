package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/polyjson"
	"github.com/reoring/polyjson/config"
)

type Animal interface{ sound() string }

type Lion struct {
	Species string
	Name    string
}

type Bear struct {
	Species       string
	IsHibernating bool
}

type Gazelle struct {
	Species string
	Legs    int
}

func (*Lion) sound() string    { return "roar" }
func (*Bear) sound() string    { return "growl" }
func (*Gazelle) sound() string { return "bleat" }

func zooCatalog() *config.Catalog {
	c := config.NewCatalog()
	config.AddBase[Animal](c, "")
	config.AddVariant[*Lion](c, "")
	config.AddVariant[*Bear](c, "")
	config.AddVariant[*Gazelle](c, "")
	return c
}

func mustNode(t *testing.T, js string) polyjson.Node {
	t.Helper()
	n, err := polyjson.ParseNode([]byte(js))
	require.NoError(t, err)
	return n
}

func TestLoadFile_BuildAndDecode(t *testing.T) {
	doc, err := config.LoadFile("testdata/zoo.yaml")
	require.NoError(t, err)
	require.Len(t, doc.Abstracts, 1)
	assert.Len(t, doc.Abstracts[0].Variants, 3)

	f, err := doc.Build(zooCatalog())
	require.NoError(t, err)
	assert.False(t, f.Frozen())
	assert.Equal(t, polyjson.AmbiguityStrict, f.Ambiguity())

	policy, err := doc.NamingPolicy()
	require.NoError(t, err)
	s := polyjson.NewSerializer(f, polyjson.WithNamingPolicy(policy))

	var animals []Animal
	require.NoError(t, s.Unmarshal([]byte(`[
		{"species":"Lion","name":"Leo"},
		{"species":"Bear","isHibernating":false},
		{"species":"Gazelle","legs":4}
	]`), &animals))
	require.Len(t, animals, 3)
	assert.Equal(t, "roar", animals[0].sound())
	assert.Equal(t, "growl", animals[1].sound())
	assert.Equal(t, "bleat", animals[2].sound())

	var a Animal
	err = s.Unmarshal([]byte(`{"species":"Gazelle","legs":3}`), &a)
	assert.ErrorIs(t, err, polyjson.ErrNoMatch)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want string
	}{
		"empty":           {``, "empty document"},
		"unknown key":     {"abstracts: []\nextra: 1\n", "extra"},
		"no abstracts":    {"abstracts: []\n", "no abstracts"},
		"bad ambiguity":   {"ambiguity: maybe\nabstracts: [{base: A, variants: [{type: X, when: {propertyExists: a}}]}]\n", "ambiguity"},
		"bad naming":      {"naming: Pascal\nabstracts: [{base: A, variants: [{type: X, when: {propertyExists: a}}]}]\n", "naming"},
		"duplicate base":  {"abstracts: [{base: A, variants: [{type: X, when: {propertyExists: a}}]}, {base: A, variants: [{type: Y, when: {propertyExists: b}}]}]\n", "defined twice"},
		"no variants":     {"abstracts: [{base: A, variants: []}]\n", "at least one variant"},
		"two criteria":    {"abstracts: [{base: A, variants: [{type: X, when: {propertyExists: a, propertiesExist: [b]}}]}]\n", "exactly one key"},
		"no criteria":     {"abstracts: [{base: A, variants: [{type: X, when: {}}]}]\n", "exactly one key"},
		"empty list":      {"abstracts: [{base: A, variants: [{type: X, when: {propertiesExist: []}}]}]\n", "at least one criterion"},
		"bad kind":        {"abstracts: [{base: A, variants: [{type: X, when: {propertyValueKind: {name: a, kind: tuple}}}]}]\n", "tuple"},
		"mapping literal": {"abstracts: [{base: A, variants: [{type: X, when: {propertyHasValue: {name: a, value: {b: 1}}}}]}]\n", "mappings"},
		"missing value":   {"abstracts: [{base: A, variants: [{type: X, when: {propertyHasValue: {name: a}}}]}]\n", "value is required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestBuild_UnknownCatalogNames(t *testing.T) {
	doc, err := config.Parse([]byte("abstracts: [{base: Plant, variants: [{type: Fern, when: {propertyExists: fronds}}]}]\n"))
	require.NoError(t, err)
	_, err = doc.Build(zooCatalog())
	assert.ErrorContains(t, err, `base "Plant" is not in the catalog`)

	doc, err = config.Parse([]byte("abstracts: [{base: Animal, variants: [{type: Tiger, when: {propertyExists: stripes}}]}]\n"))
	require.NoError(t, err)
	_, err = doc.Build(zooCatalog())
	assert.ErrorContains(t, err, `type "Tiger" is not in the catalog`)
}

func TestBuild_OptionsOverrideDocument(t *testing.T) {
	doc, err := config.LoadFile("testdata/zoo.yaml")
	require.NoError(t, err)
	f, err := doc.Build(zooCatalog(), polyjson.WithAmbiguity(polyjson.AmbiguityFirstMatch))
	require.NoError(t, err)
	assert.Equal(t, polyjson.AmbiguityFirstMatch, f.Ambiguity())
}

func TestMatcher(t *testing.T) {
	doc, err := config.Load(strings.NewReader(`
ambiguity: first-match
abstracts:
  - base: Shape
    variants:
      - type: Circle
        when: {propertyExists: radius}
      - type: Ring
        when: {propertiesExist: [radius, inner]}
      - type: Rect
        when:
          any:
            - propertyValueKinds: [{name: width, kind: number}, {name: height, kind: number}]
            - propertyHasValue: {name: kind, value: [rect, square]}
  - base: Flag
    variants:
      - type: On
        when: {propertyHasValue: {name: on, value: true}}
`))
	require.NoError(t, err)
	m, err := doc.Matcher(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shape", "Flag"}, m.Bases())

	r, err := m.Classify("Shape", mustNode(t, `{"radius":1}`))
	require.NoError(t, err)
	assert.Equal(t, "ok", r.Status())
	assert.Equal(t, "Circle", r.Selected)

	r, err = m.Classify("Shape", mustNode(t, `{"radius":1,"inner":0.5}`))
	require.NoError(t, err)
	assert.Equal(t, "ambiguous", r.Status())
	assert.Equal(t, []string{"Circle", "Ring"}, r.Matches)
	assert.Equal(t, "Circle", r.Selected)

	r, err = m.Classify("Shape", mustNode(t, `{"kind":["rect","square"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Rect", r.Selected)

	_, err = m.Classify("Polygon", mustNode(t, `{}`))
	assert.Error(t, err)

	all := m.ClassifyAll(mustNode(t, `{"on":true}`))
	require.Len(t, all, 2)
	assert.Equal(t, "no match", all[0].Status())
	assert.Equal(t, "On", all[1].Selected)
}

func TestMatcher_StrictLeavesAmbiguousUnselected(t *testing.T) {
	doc, err := config.Parse([]byte(`
abstracts:
  - base: Shape
    variants:
      - {type: Circle, when: {propertyExists: radius}}
      - {type: Disc, when: {propertyExists: radius}}
`))
	require.NoError(t, err)
	m, err := doc.Matcher(polyjson.CamelCase)
	require.NoError(t, err)
	r, err := m.Classify("Shape", mustNode(t, `{"radius":2}`))
	require.NoError(t, err)
	assert.Equal(t, "ambiguous", r.Status())
	assert.Empty(t, r.Selected)
}
