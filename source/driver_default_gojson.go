// Package source installs go-json as the process default JSON driver when
// imported for side effects.
package source

import (
	"github.com/reoring/polyjson"
	drvgojson "github.com/reoring/polyjson/source/gojson"
)

// init lives in a separate package to avoid an import cycle in root.
func init() { polyjson.SetJSONDriver(drvgojson.Driver()) }
