package polyjson

import (
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths while the decoder descends into a
// document. Values are immutable; Field and Index return extended copies.
type PathRef struct {
	parts []string
}

// RootPath is the path of the document root.
func RootPath() PathRef { return PathRef{} }

// ParsePath splits a JSON Pointer into a PathRef.
func ParsePath(pointer string) PathRef {
	var p PathRef
	for _, part := range strings.Split(pointer, "/") {
		if part == "" {
			continue
		}
		p.parts = append(p.parts, part)
	}
	return p
}

// Field appends an object member, escaping '~' and '/' per RFC 6901.
func (p PathRef) Field(name string) PathRef {
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return PathRef{parts: append(append(make([]string, 0, len(p.parts)+1), p.parts...), esc)}
}

// Index appends an array index.
func (p PathRef) Index(i int) PathRef {
	return PathRef{parts: append(append(make([]string, 0, len(p.parts)+1), p.parts...), strconv.Itoa(i))}
}

// Join appends another pointer below p.
func (p PathRef) Join(pointer string) PathRef {
	q := ParsePath(pointer)
	if len(q.parts) == 0 {
		return p
	}
	return PathRef{parts: append(append(make([]string, 0, len(p.parts)+len(q.parts)), p.parts...), q.parts...)}
}

// Pointer renders the JSON Pointer, "/" for the root.
func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p PathRef) String() string { return p.Pointer() }
