package polyjson

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"

	eng "github.com/reoring/polyjson/internal/engine"
)

// Serializer is the decode/encode pipeline of one session: one factory, one
// naming policy, one set of parse limits. It is safe for concurrent use.
type Serializer struct {
	factory  *FactoryRegistry
	naming   NamingPolicy
	parse    ParseOpt
	omitNull bool
	driver   JSONDriver
	logger   *slog.Logger

	resolvers sync.Map // reflect.Type -> *Resolver
	plans     sync.Map // reflect.Type -> *structPlan
}

// NewSerializer creates a serializer over f and freezes f. A nil factory is
// treated as an empty one.
func NewSerializer(f *FactoryRegistry, opts ...SerializerOption) *Serializer {
	if f == nil {
		f = NewFactory()
	}
	f.Freeze()
	s := &Serializer{factory: f, driver: CurrentJSONDriver()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Factory returns the frozen factory of the session.
func (s *Serializer) Factory() *FactoryRegistry { return s.factory }

// Logger returns the session logger.
func (s *Serializer) Logger() *slog.Logger { return s.logger }

// Reader wraps r as a Source using the session driver.
func (s *Serializer) Reader(r io.Reader) Source { return s.driver.NewReader(r) }

// NamingPolicy returns the session naming policy.
func (s *Serializer) NamingPolicy() NamingPolicy { return s.naming }

// Resolver returns the cached resolver for the base type t.
func (s *Serializer) Resolver(t reflect.Type) (*Resolver, error) {
	if r, ok := s.resolvers.Load(t); ok {
		return r.(*Resolver), nil
	}
	r, err := s.factory.CreateResolver(t, s.naming)
	if err != nil {
		return nil, err
	}
	actual, _ := s.resolvers.LoadOrStore(t, r)
	return actual.(*Resolver), nil
}

// Resolve selects the variant of the base type t for n.
func (s *Serializer) Resolve(t reflect.Type, n Node) (reflect.Type, error) {
	r, err := s.Resolver(t)
	if err != nil {
		return nil, err
	}
	b, err := r.Resolve(n)
	if err != nil {
		return nil, err
	}
	return b.Type(), nil
}

// ResolveFor selects the variant of the interface type B for n.
func ResolveFor[B any](s *Serializer, n Node) (reflect.Type, error) {
	return s.Resolve(reflect.TypeFor[B](), n)
}

// ParseNode parses one JSON document with the session driver and limits.
func (s *Serializer) ParseNode(data []byte) (Node, error) {
	return parseNode(s.driver, data, s.parse, s.warnSink())
}

// ReadNode reads one document from src with the session limits.
func (s *Serializer) ReadNode(src Source) (Node, error) {
	return readNode(src, s.parse, s.warnSink())
}

func (s *Serializer) warnSink() func(eng.SimpleIssue) {
	return func(si eng.SimpleIssue) {
		s.logger.Warn("polyjson: "+si.Message, "code", si.Code, "path", si.Path)
	}
}

// Unmarshal parses data and decodes it into v, which must be a non-nil
// pointer.
func (s *Serializer) Unmarshal(data []byte, v any) error {
	n, err := s.ParseNode(data)
	if err != nil {
		return err
	}
	return s.DecodeNode(n, v)
}

// Decode reads one document from src and decodes it into v.
func (s *Serializer) Decode(ctx context.Context, src Source, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := s.ReadNode(src)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.DecodeNode(n, v)
}

// DecodeNode decodes n into v, which must be a non-nil pointer. Fields whose
// declared type is a registered interface are resolved through the factory.
// All failures are collected and returned as Issues.
func (s *Serializer) DecodeNode(n Node, v any) error {
	return s.decodeAt(n, v, RootPath())
}

func (s *Serializer) decodeAt(n Node, v any, at PathRef) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &ConfigurationError{Reason: fmt.Sprintf("decode target must be a non-nil pointer, got %T", v)}
	}
	st := &decodeState{s: s}
	st.value(n, rv.Elem(), at)
	if len(st.issues) > 0 {
		return st.issues
	}
	return nil
}

// DecodeAs decodes n as T. When T is a registered interface the variant is
// resolved first.
func DecodeAs[T any](s *Serializer, n Node) (T, error) {
	var v T
	err := s.DecodeNode(n, &v)
	return v, err
}

// Marshal encodes v as compact JSON, dispatching interface values on their
// runtime type.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	n, err := s.EncodeNode(v)
	if err != nil {
		return nil, err
	}
	return n.MarshalJSON()
}

// EncodeNode encodes v into a Node.
func (s *Serializer) EncodeNode(v any) (Node, error) {
	return s.EncodeAs(v, nil)
}

// EncodeAs encodes v, which must be assignable to declared when declared is
// non-nil. The runtime type of v decides the encoding.
func (s *Serializer) EncodeAs(v any, declared reflect.Type) (Node, error) {
	if declared != nil && v != nil && !reflect.TypeOf(v).AssignableTo(declared) {
		return Node{}, Issues{IssueAt(RootPath(), CodeInvalidType,
			fmt.Sprintf("%T is not assignable to %s", v, declared))}
	}
	st := &encodeState{s: s}
	ev := st.value(reflect.ValueOf(v), RootPath())
	if len(st.issues) > 0 {
		return Node{}, st.issues
	}
	return nodeOf(ev), nil
}

func (s *Serializer) plan(t reflect.Type) *structPlan {
	if p, ok := s.plans.Load(t); ok {
		return p.(*structPlan)
	}
	p, _ := s.plans.LoadOrStore(t, buildStructPlan(t, s.naming))
	return p.(*structPlan)
}
