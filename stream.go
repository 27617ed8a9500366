package polyjson

import (
	"context"
	"errors"
	"io"

	eng "github.com/reoring/polyjson/internal/engine"
	"github.com/reoring/polyjson/internal/stream"
)

// StreamArray decodes a top-level JSON array one element at a time. Each
// element is read into its own Node, resolved when T is a registered
// interface, decoded as T and passed to fn with its index. Only one element
// is held in memory at a time. Decoding stops at the first error, including
// an error returned by fn or the cancellation of ctx.
func StreamArray[T any](ctx context.Context, s *Serializer, src Source, fn func(int, T) error) error {
	ts := eng.WrapWithEnforcement(engineTokenSource(src), s.parse.enforceOptions(s.warnSink()))
	tok, err := ts.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return readIssues(RootPath(), err)
	}
	if tok.Kind != eng.KindBeginArray {
		return Issues{IssueAt(RootPath(), CodeInvalidType, "expected a top-level array")}
	}
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := ts.NextToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return readIssues(RootPath(), err)
		}
		if tok.Kind == eng.KindEndArray {
			break
		}
		sub := stream.NewPreloadedSource(ts, tok)
		v, err := eng.BuildTree(sub)
		if err != nil {
			return readIssues(RootPath(), err)
		}
		var elem T
		if err := s.decodeAt(nodeOf(v), &elem, RootPath().Index(i)); err != nil {
			return err
		}
		if err := fn(i, elem); err != nil {
			return err
		}
	}
	if _, err := ts.NextToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level array")
		}
		return readIssues(RootPath(), err)
	}
	return nil
}
