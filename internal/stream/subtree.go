package stream

import (
	"io"

	eng "github.com/reoring/polyjson/internal/engine"
)

// PreloadedSource exposes a single value subtree of inner. It first returns
// the preloaded token (typically the first token of an array element, already
// taken by the caller) and then streams the rest of that subtree, returning
// io.EOF once the matching end token has been served. Tokens after the subtree
// stay unread in inner.
type PreloadedSource struct {
	inner     eng.TokenSource
	first     eng.Token
	served    bool
	depth     int
	done      bool
	lastToken int64
}

// NewPreloadedSource constructs a subtree source starting with first.
func NewPreloadedSource(inner eng.TokenSource, first eng.Token) *PreloadedSource {
	return &PreloadedSource{inner: inner, first: first, lastToken: -1}
}

func (p *PreloadedSource) NextToken() (eng.Token, error) {
	if p.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if !p.served {
		p.served = true
		tok = p.first
	} else {
		t, err := p.inner.NextToken()
		if err != nil {
			return eng.Token{}, err
		}
		tok = t
	}
	p.lastToken = tok.Offset
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		p.depth++
	case eng.KindEndObject, eng.KindEndArray:
		p.depth--
	}
	if p.depth <= 0 && tok.Kind != eng.KindKey {
		p.done = true
	}
	return tok, nil
}

// Done reports whether the whole subtree has been consumed.
func (p *PreloadedSource) Done() bool { return p.done }

func (p *PreloadedSource) Location() int64 {
	if loc := p.inner.Location(); loc >= 0 {
		return loc
	}
	return p.lastToken
}
