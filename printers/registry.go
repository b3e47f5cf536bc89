package printers

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/choiday/boost-container-pretty-printer/inspect"
	"github.com/choiday/boost-container-pretty-printer/typeinfo"
)

// Func decodes one value. typename is the name the printer was registered
// under; v has already been stripped of reference qualifiers.
type Func func(typename string, v inspect.Value) (*Result, error)

// printerNameRx is the grammar for registered names and for the type tags
// matched against them: a qualified identifier optionally followed by one
// template-argument group.
var printerNameRx = regexp.MustCompile(`^([a-zA-Z0-9_:]+)(<.*>)?$`)

// Subprinter is one registered decoder. Disabling it keeps the entry in
// the registry but makes dispatch skip it.
type Subprinter struct {
	Name    string
	Enabled bool
	fn      Func
}

// Invoke runs the decoder against v, dereferencing reference-typed values
// first. A disabled subprinter reports no result.
func (sp *Subprinter) Invoke(v inspect.Value) (*Result, error) {
	if !sp.Enabled {
		return nil, nil
	}
	v, err := v.Unref()
	if err != nil {
		return nil, err
	}
	return sp.fn(sp.Name, v)
}

// Registry maps container base names to subprinters and dispatches
// arbitrary concrete type names against them. A registry is built once at
// startup and only its enable flags change afterwards; dispatching runs on
// a single logical thread, so no locking is involved.
type Registry struct {
	name        string
	subprinters []*Subprinter
	lookup      map[string]*Subprinter
	// cache memoizes the concrete-tag to subprinter resolution so repeated
	// dispatches of the same instantiated type skip the pattern match.
	// Misses are cached as nil entries.
	cache map[string]*Subprinter
}

// NewRegistry returns an empty registry with the given display name.
func NewRegistry(name string) *Registry {
	return &Registry{
		name:   name,
		lookup: make(map[string]*Subprinter),
		cache:  make(map[string]*Subprinter),
	}
}

// Name returns the registry's display name.
func (r *Registry) Name() string { return r.name }

// Add registers fn under a container base name. Names that do not fit the
// identifier grammar are rejected outright, leaving the registry as it
// was; this catches registration-time typos long before first use.
func (r *Registry) Add(name string, fn Func) error {
	if !printerNameRx.MatchString(name) {
		return fmt.Errorf("printers: printer name %q does not match the identifier grammar", name)
	}
	sp := &Subprinter{Name: name, Enabled: true, fn: fn}
	r.subprinters = append(r.subprinters, sp)
	r.lookup[name] = sp
	return nil
}

// Subprinters returns the registered printers in registration order.
func (r *Registry) Subprinters() []*Subprinter {
	return r.subprinters
}

// Lookup finds a subprinter by its registered base name.
func (r *Registry) Lookup(name string) (*Subprinter, bool) {
	sp, ok := r.lookup[name]
	return sp, ok
}

// basicTag strips reference qualifiers, cv-qualifiers and typedefs from a
// type and returns its canonical name.
func basicTag(t typeinfo.Type) string {
	return typeinfo.Strip(typeinfo.Unref(t)).Name()
}

// match resolves the subprinter responsible for v's concrete type, going
// through the memoized tag resolution.
func (r *Registry) match(v inspect.Value) *Subprinter {
	tag := basicTag(v.Type())
	if sp, ok := r.cache[tag]; ok {
		return sp
	}
	var sp *Subprinter
	if m := printerNameRx.FindStringSubmatch(tag); m != nil {
		sp = r.lookup[m[1]]
	}
	r.cache[tag] = sp
	if sp == nil {
		Logger().Debug("no printer registered", zap.String("type", tag))
	}
	return sp
}

// Dispatch decodes v with the subprinter registered for its base type
// name. A (nil, nil) return means no applicable printer, which is not an
// error: callers fall back to their default formatting.
func (r *Registry) Dispatch(v inspect.Value) (*Result, error) {
	sp := r.match(v)
	if sp == nil {
		return nil, nil
	}
	return sp.Invoke(v)
}

// BuildRegistry constructs the default registry covering the supported
// Boost.Container types. It is the only registration pass; a failure here
// aborts startup.
func BuildRegistry() (*Registry, error) {
	r := NewRegistry("boost-container")
	entries := []struct {
		name string
		fn   Func
	}{
		{"boost::container::basic_string", StringPrinter},
		{"boost::container::map", MapPrinter},
		{"boost::container::multimap", MapPrinter},
		{"boost::container::list", ListPrinter},
		{"boost::container::unordered_map", UnorderedMapPrinter},
		{"boost::container::unordered_multimap", UnorderedMapPrinter},
		{"boost::container::vector", VectorPrinter},
		{"boost::container::container_detail::iterator_from_iiterator", IteratorPrinter},
		{"boost::container::container_detail::vec_iterator", VectorIteratorPrinter},
	}
	for _, e := range entries {
		if err := r.Add(e.name, e.fn); err != nil {
			return nil, err
		}
	}
	return r, nil
}
