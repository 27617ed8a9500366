package polyjson_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/polyjson"
)

func TestSerializer_ConcurrentDecode(t *testing.T) {
	s := newZooSerializer(t)
	species := []string{"Lion", "Bear", "Gazelle"}

	var g errgroup.Group
	g.SetLimit(8)
	for i := 0; i < 200; i++ {
		g.Go(func() error {
			sp := species[i%len(species)]
			js := fmt.Sprintf(`{"species":%q,"name":"n%d"}`, sp, i)
			var a Animal
			if err := s.Unmarshal([]byte(js), &a); err != nil {
				return err
			}
			if got := a.common().Species; got != sp {
				return fmt.Errorf("element %d: want %s, got %s", i, sp, got)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestResolver_ConcurrentPolicies(t *testing.T) {
	f := newZooFactory(t)
	f.Freeze()
	policies := []polyjson.NamingPolicy{nil, polyjson.CamelCase, polyjson.SnakeCaseLower, polyjson.KebabCaseUpper}
	docs := []string{
		`{"Species":"Bear"}`,
		`{"species":"Bear"}`,
		`{"species":"Bear"}`,
		`{"SPECIES":"Bear"}`,
	}

	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			k := i % len(policies)
			r, err := f.CreateResolver(reflect.TypeFor[Animal](), policies[k])
			if err != nil {
				return err
			}
			n, err := polyjson.ParseNode([]byte(docs[k]))
			if err != nil {
				return err
			}
			b, err := r.Resolve(n)
			if err != nil {
				return err
			}
			if b.Type().String() != "*polyjson_test.Bear" {
				return fmt.Errorf("policy %s resolved %s", polyjson.NamingPolicyName(policies[k]), b.Type())
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}
