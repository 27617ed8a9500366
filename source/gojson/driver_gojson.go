// Package gojson is the token driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/polyjson"
	eng "github.com/reoring/polyjson/internal/engine"
)

// Driver returns a polyjson.JSONDriver backed by goccy/go-json.
func Driver() polyjson.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) polyjson.Source {
	return polyjson.SourceFromEngine(NewReader(r))
}
func (driverGoJSON) NewBytes(b []byte) polyjson.Source {
	return polyjson.SourceFromEngine(NewBytes(b))
}
func (driverGoJSON) Name() string { return "go-json" }

type source struct {
	dec  *j.Decoder
	keys eng.KeyTracker
}

// NewReader wraps an io.Reader into an engine.TokenSource using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	out := eng.Token{Offset: -1}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			out.Kind = s.keys.Begin(true)
		case '[':
			out.Kind = s.keys.Begin(false)
		case '}':
			out.Kind = s.keys.End(true)
		default:
			out.Kind = s.keys.End(false)
		}
	case string:
		out.Kind = s.keys.String()
		out.String = v
	case bool:
		s.keys.Scalar()
		out.Kind, out.Bool = eng.KindBool, v
	case j.Number:
		s.keys.Scalar()
		out.Kind, out.Number = eng.KindNumber, string(v)
	case float64:
		s.keys.Scalar()
		out.Kind, out.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		s.keys.Scalar()
		out.Kind = eng.KindNull
	}
	return out, nil
}

// Location is unknown for go-json; byte caps are applied before tokenizing.
func (s *source) Location() int64 { return -1 }
