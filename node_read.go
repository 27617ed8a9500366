package polyjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/polyjson/internal/engine"
)

// ReadNode reads exactly one document from src into a Node. The last ParseOpt
// wins. Failures are returned as Issues.
func ReadNode(src Source, opts ...ParseOpt) (Node, error) {
	return readNode(src, lastParseOpt(opts), nil)
}

// ParseNode parses one JSON document with the process default driver.
func ParseNode(data []byte, opts ...ParseOpt) (Node, error) {
	return parseNode(CurrentJSONDriver(), data, lastParseOpt(opts), nil)
}

// NodeOf builds a Node from generic Go values such as the map[string]any and
// []any trees produced by decoding into any. Map members are ordered by key.
func NodeOf(x any) (Node, error) {
	v, err := eng.FromAny(x)
	if err != nil {
		return Node{}, err
	}
	return nodeOf(v), nil
}

func lastParseOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func parseNode(d JSONDriver, data []byte, opt ParseOpt, sink func(eng.SimpleIssue)) (Node, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return Node{}, Issues{IssueAt(RootPath(), CodeTruncated, "max bytes exceeded")}
	}
	return readNode(d.NewBytes(data), opt, sink)
}

func readNode(src Source, opt ParseOpt, sink func(eng.SimpleIssue)) (Node, error) {
	ts := eng.WrapWithEnforcement(engineTokenSource(src), opt.enforceOptions(sink))
	v, err := eng.BuildTree(ts)
	if err != nil {
		return Node{}, readIssues(RootPath(), err)
	}
	if _, err := ts.NextToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return Node{}, readIssues(RootPath(), err)
	}
	return nodeOf(v), nil
}

// ParseYAMLNode parses one YAML document into a Node. Mapping key order is
// kept and scalars are typed by their resolved YAML tag, so `3` is a number
// and `"3"` a string. An empty document yields a null node.
func ParseYAMLNode(data []byte) (Node, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nodeOf(&eng.Value{Kind: eng.ValueNull}), nil
		}
		return Node{}, Issues{{Path: "/", Code: CodeParseError, Message: message(CodeParseError), Hint: err.Error(), Cause: err}}
	}
	v, err := fromYAML(&doc, RootPath(), 0)
	if err != nil {
		return Node{}, readIssues(RootPath(), err)
	}
	return nodeOf(v), nil
}

const maxYAMLDepth = 10000

func fromYAML(n *yaml.Node, at PathRef, depth int) (*eng.Value, error) {
	if depth > maxYAMLDepth {
		return nil, yamlError(at, "max depth exceeded")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &eng.Value{Kind: eng.ValueNull}, nil
		}
		return fromYAML(n.Content[0], at, depth+1)
	case yaml.AliasNode:
		return fromYAML(n.Alias, at, depth+1)
	case yaml.SequenceNode:
		v := &eng.Value{Kind: eng.ValueArray, Elems: make([]*eng.Value, 0, len(n.Content))}
		for i, c := range n.Content {
			e, err := fromYAML(c, at.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			v.Elems = append(v.Elems, e)
		}
		return v, nil
	case yaml.MappingNode:
		v := &eng.Value{Kind: eng.ValueObject, Fields: make(map[string]*eng.Value, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, yamlError(at, fmt.Sprintf("line %d: mapping keys must be scalars", k.Line))
			}
			e, err := fromYAML(n.Content[i+1], at.Field(k.Value), depth+1)
			if err != nil {
				return nil, err
			}
			if _, seen := v.Fields[k.Value]; !seen {
				v.Keys = append(v.Keys, k.Value)
			}
			v.Fields[k.Value] = e
		}
		return v, nil
	case yaml.ScalarNode:
		return yamlScalar(n, at)
	}
	return nil, yamlError(at, fmt.Sprintf("line %d: unsupported YAML node", n.Line))
}

func yamlScalar(n *yaml.Node, at PathRef) (*eng.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return &eng.Value{Kind: eng.ValueNull}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, yamlError(at, err.Error())
		}
		return &eng.Value{Kind: eng.ValueBool, Bool: b}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return &eng.Value{Kind: eng.ValueNumber, Text: strconv.FormatInt(i, 10)}, nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, yamlError(at, err.Error())
		}
		return &eng.Value{Kind: eng.ValueNumber, Text: strconv.FormatUint(u, 10)}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, yamlError(at, err.Error())
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, yamlError(at, fmt.Sprintf("line %d: %s has no JSON representation", n.Line, n.Value))
		}
		return &eng.Value{Kind: eng.ValueNumber, Text: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	default:
		return &eng.Value{Kind: eng.ValueString, Text: n.Value}, nil
	}
}

func yamlError(at PathRef, msg string) error {
	return eng.IssueError{SimpleIssue: eng.SimpleIssue{Code: CodeParseError, Path: at.Pointer(), Message: msg}}
}
