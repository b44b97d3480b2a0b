package harness

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cast"
)

// Config is the resolved run configuration. Treated as immutable once
// resolved.
type Config map[string]any

// ResolveError reports external input that could not be coerced to a
// recognized option's declared type. It marks caller error, as opposed
// to a harness failure.
type ResolveError struct {
	Option string
	Err    error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Option, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Multiplier returns the resolved workload scale factor.
func (c Config) Multiplier() float64 {
	return cast.ToFloat64(c["multiplier"])
}

// Resolver turns ambient invocation input (CLI-style key=value pairs or
// an HTTP query string) into a Config. Declared defaults define both
// the recognized option set and each option's type; unknown input keys
// are ignored, recognized ones are coerced to the default's type.
type Resolver struct {
	order    []string
	defaults map[string]any
}

func NewResolver() *Resolver {
	r := &Resolver{defaults: make(map[string]any)}
	r.Declare("multiplier", 1.0)
	return r
}

// Declare registers an option and its default before resolution,
// expanding both the recognized set and the Config shape. Redeclaring a
// name replaces its default.
func (r *Resolver) Declare(name string, def any) {
	if _, ok := r.defaults[name]; !ok {
		r.order = append(r.order, name)
	}
	r.defaults[name] = def
}

// FromValues resolves a Config from query-string parameters.
func (r *Resolver) FromValues(values url.Values) (Config, error) {
	cfg := make(Config, len(r.defaults))
	for _, name := range r.order {
		def := r.defaults[name]
		if !values.Has(name) {
			cfg[name] = def
			continue
		}
		v, err := coerce(def, values.Get(name))
		if err != nil {
			return nil, &ResolveError{Option: name, Err: err}
		}
		cfg[name] = v
	}
	return cfg, nil
}

// FromArgs resolves a Config from CLI-style "key=value" arguments.
// Arguments that are not key=value pairs are ignored, like unknown keys.
func (r *Resolver) FromArgs(args []string) (Config, error) {
	values := url.Values{}
	for _, arg := range args {
		key, val, ok := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !ok {
			continue
		}
		values.Set(key, val)
	}
	return r.FromValues(values)
}

// coerce converts raw to the type of the declared default.
func coerce(def any, raw string) (any, error) {
	switch def.(type) {
	case float64:
		return cast.ToFloat64E(raw)
	case int:
		return cast.ToIntE(raw)
	case bool:
		return cast.ToBoolE(raw)
	case string:
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported option type %T", def)
	}
}
