package naming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reoring/polyjson/internal/naming"
)

func TestWords(t *testing.T) {
	cases := map[string][]string{
		"":                nil,
		"Species":         {"Species"},
		"OrderID":         {"Order", "ID"},
		"XMLParser":       {"XML", "Parser"},
		"getHTTPResponse": {"get", "HTTP", "Response"},
		"horn_lengths":    {"horn", "lengths"},
		"is-hibernating":  {"is", "hibernating"},
		"Version2Beta":    {"Version2", "Beta"},
	}
	for in, want := range cases {
		assert.Equal(t, want, naming.Words(in), in)
	}
}

func TestJoin(t *testing.T) {
	words := naming.Words("ManeImpressiveness")
	assert.Equal(t, "mane_impressiveness", naming.Join(words, "_", false))
	assert.Equal(t, "MANE-IMPRESSIVENESS", naming.Join(words, "-", true))
}
