package polyjson

import (
	"errors"
	"log/slog"

	"github.com/joeshaw/envdecode"
)

// FactoryOption configures a FactoryRegistry.
type FactoryOption func(*FactoryRegistry)

// WithAmbiguity sets how resolvers treat several matching discriminators.
// The default is AmbiguityStrict.
func WithAmbiguity(p AmbiguityPolicy) FactoryOption {
	return func(f *FactoryRegistry) { f.ambiguity = p }
}

// WithLogger sets the logger used by the factory and its resolvers.
func WithLogger(l *slog.Logger) FactoryOption {
	return func(f *FactoryRegistry) {
		if l != nil {
			f.logger = l
		}
	}
}

// SerializerOption configures a Serializer.
type SerializerOption func(*Serializer)

// WithNamingPolicy sets the naming policy of the session. It applies both to
// discriminators and to struct fields without an explicit wire name.
func WithNamingPolicy(p NamingPolicy) SerializerOption {
	return func(s *Serializer) { s.naming = p }
}

// WithParseOpt sets the limits applied while reading documents.
func WithParseOpt(o ParseOpt) SerializerOption {
	return func(s *Serializer) { s.parse = o }
}

// WithOmitNull drops nil pointers, interfaces, maps and slices from encoded
// objects.
func WithOmitNull(on bool) SerializerOption {
	return func(s *Serializer) { s.omitNull = on }
}

// WithSerializerLogger sets the logger used for duplicate key warnings and
// decode diagnostics.
func WithSerializerLogger(l *slog.Logger) SerializerOption {
	return func(s *Serializer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithJSONDriver overrides the process default JSON driver for one serializer.
func WithJSONDriver(d JSONDriver) SerializerOption {
	return func(s *Serializer) {
		if d != nil {
			s.driver = d
		}
	}
}

// EnvConfig holds settings read from the environment by LoadEnv. Numeric and
// boolean fields are strict: a value that does not parse is an error.
type EnvConfig struct {
	// Ambiguity is "strict" or "first-match". ENV: POLYJSON_AMBIGUITY
	Ambiguity string `env:"POLYJSON_AMBIGUITY,default=strict"`
	// NamingPolicy names a built-in policy. ENV: POLYJSON_NAMING_POLICY
	NamingPolicy string `env:"POLYJSON_NAMING_POLICY"`
	// MaxDepth caps nesting; 0 disables. ENV: POLYJSON_MAX_DEPTH
	MaxDepth int `env:"POLYJSON_MAX_DEPTH,default=0,strict"`
	// MaxBytes caps document size; 0 disables. ENV: POLYJSON_MAX_BYTES
	MaxBytes int64 `env:"POLYJSON_MAX_BYTES,default=0,strict"`
	// DuplicateKeys is "ignore", "warn" or "error". ENV: POLYJSON_DUPLICATE_KEYS
	DuplicateKeys string `env:"POLYJSON_DUPLICATE_KEYS,default=ignore"`
	// OmitNull drops nil fields when encoding. ENV: POLYJSON_OMIT_NULL
	OmitNull bool `env:"POLYJSON_OMIT_NULL,default=false,strict"`
}

// LoadEnv reads EnvConfig from the environment and validates it.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return EnvConfig{}, &ConfigurationError{Reason: "environment", Err: err}
	}
	if _, err := cfg.FactoryOptions(); err != nil {
		return EnvConfig{}, err
	}
	if _, err := cfg.SerializerOptions(); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// FactoryOptions converts the settings into factory options.
func (c EnvConfig) FactoryOptions() ([]FactoryOption, error) {
	amb, err := ParseAmbiguityPolicy(c.Ambiguity)
	if err != nil {
		return nil, err
	}
	return []FactoryOption{WithAmbiguity(amb)}, nil
}

// SerializerOptions converts the settings into serializer options.
func (c EnvConfig) SerializerOptions() ([]SerializerOption, error) {
	policy, err := NamingPolicyByName(c.NamingPolicy)
	if err != nil {
		return nil, err
	}
	dup, err := ParseSeverity(c.DuplicateKeys)
	if err != nil {
		return nil, err
	}
	return []SerializerOption{
		WithNamingPolicy(policy),
		WithParseOpt(ParseOpt{Strictness: Strictness{OnDuplicateKey: dup}, MaxDepth: c.MaxDepth, MaxBytes: c.MaxBytes}),
		WithOmitNull(c.OmitNull),
	}, nil
}
