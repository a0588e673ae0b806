package colfmt

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Library is a registry of formatters keyed by name, with one dispatch table
// per format.
type Library struct {
	mu       sync.RWMutex
	log      logrus.FieldLogger
	defaults map[Format]Defaults
	types    map[string]reflect.Type
	cache    map[Format]map[string]formatFunc
}

// Option configures a Library.
type Option func(*Library)

// WithDefaults replaces the sentinels of a known format. It panics for an
// unknown format.
func WithDefaults(f Format, d Defaults) Option {
	return func(l *Library) {
		if _, ok := l.defaults[f]; !ok {
			panic(fmt.Sprintf("colfmt: %v: %q", ErrUnsupportedFormat, f))
		}
		l.defaults[f] = d
	}
}

// WithLogger sets the logger used for registration and substitution events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Library) { l.log = log }
}

// WithBuiltins registers Pass, Remove, Concat and Comma.
func WithBuiltins() Option {
	return func(l *Library) {
		for _, b := range Builtins() {
			l.MustRegister(b)
		}
	}
}

// New returns an empty Library with the built-in format defaults.
func New(opts ...Option) *Library {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	l := &Library{
		log:      discard,
		defaults: builtinDefaults(),
		types:    make(map[string]reflect.Type),
		cache:    make(map[Format]map[string]formatFunc),
	}
	for _, f := range formats {
		l.cache[f] = make(map[string]formatFunc)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register adds v to the library under [NameOf](v). v must embed [Base] and
// implement at least one format method. Registering a value whose type is
// already registered under the same name replaces it; a different type under
// a taken name fails with ErrAlreadyRegistered.
func (l *Library) Register(v any) error {
	if _, ok := v.(formatter); !ok {
		return fmt.Errorf("%w: %T does not embed colfmt.Base", ErrRegister, v)
	}
	ops := methods(v)
	if len(ops) == 0 {
		return fmt.Errorf("%w: %T implements no format methods", ErrRegister, v)
	}
	name := NameOf(v)
	if name == "" {
		return fmt.Errorf("%w: %T has no name", ErrRegister, v)
	}
	typ := reflect.TypeOf(v)

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.types[name]; ok && existing != typ {
		return fmt.Errorf("%w: %q is bound to %s, not %s", ErrAlreadyRegistered, name, existing, typ)
	}
	l.types[name] = typ
	for _, f := range formats {
		if fn, ok := ops[f]; ok {
			l.cache[f][name] = fn
		} else {
			delete(l.cache[f], name)
		}
	}
	l.log.WithField("formatter", name).Debugf("registered %s", typ)
	return nil
}

// MustRegister is like Register but panics on error.
func (l *Library) MustRegister(v any) {
	if err := l.Register(v); err != nil {
		panic(err)
	}
}

// Choices returns (name, name) pairs for every formatter registered for f,
// sorted by name. It returns nil for an unknown format.
func (l *Library) Choices(f Format) []Choice {
	names := l.Names(f)
	if names == nil {
		return nil
	}
	out := make([]Choice, len(names))
	for i, n := range names {
		out[i] = Choice{Value: n, Label: n}
	}
	return out
}

// Names returns the sorted names of formatters registered for f.
func (l *Library) Names(f Format) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fns, ok := l.cache[f]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fns))
	for n := range fns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Operations returns the formats the named formatter supports, in
// [Formats] order.
func (l *Library) Operations(name string) []Format {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var ops []Format
	for _, f := range formats {
		if _, ok := l.cache[f][name]; ok {
			ops = append(ops, f)
		}
	}
	return ops
}

// Has reports whether name is registered for f.
func (l *Library) Has(name string, f Format) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[f][name]
	return ok
}

// Defaults returns the sentinels of f.
func (l *Library) Defaults(f Format) (Defaults, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.defaults[f]
	return d, ok
}

func (l *Library) resolve(f Format, instructions []Instruction) ([]formatFunc, Defaults, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.defaults[f]
	if !ok {
		return nil, Defaults{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	fns := make([]formatFunc, len(instructions))
	for i, in := range instructions {
		if in.Arity <= 0 {
			return nil, Defaults{}, fmt.Errorf("%w: %q has arity %d", ErrInstruction, in.Formatter, in.Arity)
		}
		fn, ok := l.cache[f][in.Formatter]
		if !ok {
			return nil, Defaults{}, fmt.Errorf("%w: %q for format %q", ErrNotRegistered, in.Formatter, f)
		}
		fns[i] = fn
	}
	return fns, d, nil
}
