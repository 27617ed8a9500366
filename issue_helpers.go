package polyjson

import (
	"errors"

	"github.com/reoring/polyjson/i18n"
	eng "github.com/reoring/polyjson/internal/engine"
)

func message(code string) string { return i18n.T(code, nil) }

// IssueAt creates an Issue at the given path with the localized message for code.
func IssueAt(p PathRef, code, hint string) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: message(code), Hint: hint}
}

// readIssues maps token-level failures onto Issues rooted at base.
func readIssues(base PathRef, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{{Path: base.Join(ie.Path).Pointer(), Code: ie.Code, Message: message(ie.Code), Hint: ie.Message, Cause: err}}
	}
	return Issues{{Path: base.Pointer(), Code: CodeParseError, Message: message(CodeParseError), Hint: err.Error(), Cause: err}}
}
