package polyjson_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/polyjson"
)

const zooArray = `[
  {"species":"Lion","name":"Leo","tailLengthCentimeters":90},
  {"species":"Bear","name":"Baloo","isHibernating":true},
  {"species":"Gazelle","name":"Gina","hornLengths":[30.5,31]}
]`

func TestStreamArray_Success(t *testing.T) {
	s := newZooSerializer(t)
	var got []string
	err := polyjson.StreamArray(context.Background(), s, polyjson.JSONReader(strings.NewReader(zooArray)),
		func(i int, a Animal) error {
			got = append(got, a.common().Name)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"Leo", "Baloo", "Gina"}, got)
}

func TestStreamArray_ConcreteElements(t *testing.T) {
	s := polyjson.NewSerializer(nil)
	sum := 0
	err := polyjson.StreamArray(context.Background(), s, polyjson.JSONBytes([]byte(`[1,2,3]`)),
		func(_ int, v int) error {
			sum += v
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 6, sum)
}

func TestStreamArray_NoMatchReportsElementPath(t *testing.T) {
	s := newZooSerializer(t)
	src := `[{"species":"Lion","name":"Leo"},{"species":"Tiger","name":"Shere Khan"}]`
	seen := 0
	err := polyjson.StreamArray(context.Background(), s, polyjson.JSONBytes([]byte(src)),
		func(int, Animal) error {
			seen++
			return nil
		})
	require.Error(t, err)
	assert.ErrorIs(t, err, polyjson.ErrNoMatch)
	iss, ok := polyjson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/1", iss[0].Path)
	assert.Equal(t, polyjson.CodeDiscriminatorUnknown, iss[0].Code)
	assert.Equal(t, 1, seen)
}

func TestStreamArray_CallbackErrorStops(t *testing.T) {
	s := newZooSerializer(t)
	stop := errors.New("stop")
	calls := 0
	err := polyjson.StreamArray(context.Background(), s, polyjson.JSONBytes([]byte(zooArray)),
		func(i int, _ Animal) error {
			calls++
			if i == 1 {
				return stop
			}
			return nil
		})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestStreamArray_Cancelled(t *testing.T) {
	s := newZooSerializer(t)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := polyjson.StreamArray(ctx, s, polyjson.JSONBytes([]byte(zooArray)),
		func(int, Animal) error {
			calls++
			cancel()
			return nil
		})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestStreamArray_NotAnArray(t *testing.T) {
	s := newZooSerializer(t)
	err := polyjson.StreamArray(context.Background(), s, polyjson.JSONBytes([]byte(`{"species":"Lion"}`)),
		func(int, Animal) error { return nil })
	iss, ok := polyjson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, polyjson.CodeInvalidType, iss[0].Code)
	assert.Equal(t, "/", iss[0].Path)
}

func TestStreamArray_MaxBytes_Truncated(t *testing.T) {
	s := newZooSerializer(t, polyjson.WithParseOpt(polyjson.ParseOpt{MaxBytes: 16}))
	err := polyjson.StreamArray(context.Background(), s, polyjson.JSONReader(strings.NewReader(zooArray)),
		func(int, Animal) error { return nil })
	iss, ok := polyjson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, polyjson.CodeTruncated, iss[0].Code)
}

func TestStreamArray_TrailingData(t *testing.T) {
	s := polyjson.NewSerializer(nil)
	err := polyjson.StreamArray(context.Background(), s, polyjson.JSONBytes([]byte(`[1] [2]`)),
		func(int, int) error { return nil })
	iss, ok := polyjson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, polyjson.CodeParseError, iss[0].Code)
}
