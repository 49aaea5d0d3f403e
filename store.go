package numfmt

import (
	"sort"
	"strings"
)

// Formats maps preset names to their option sets.
type Formats map[string]Options

// FormatStore exposes read only access to named number presets.
type FormatStore interface {
	// Lookup returns the options registered under name and ok=false if missing
	Lookup(name string) (Options, bool)
	// Names returns the registered preset names
	Names() []string
}

// FormatLoader retrieves the presets used to seed a FormatRegistry.
type FormatLoader interface {
	Load() (Formats, error)
}

// FormatLoaderFunc adapts a bare function to FormatLoader.
type FormatLoaderFunc func() (Formats, error)

// Load implements FormatLoader for FormatLoaderFunc.
func (fn FormatLoaderFunc) Load() (Formats, error) {
	return fn()
}

// FormatRegistry is an in memory preset store, read only after construction.
type FormatRegistry struct {
	formats Formats
	names   []string
}

var _ FormatStore = &FormatRegistry{}

// NewFormatRegistry builds an immutable snapshot of the given presets.
// Blank names are skipped.
func NewFormatRegistry(data Formats) *FormatRegistry {
	if len(data) == 0 {
		return &FormatRegistry{formats: make(Formats)}
	}

	formats := make(Formats, len(data))
	names := make([]string, 0, len(data))

	for name, opts := range data {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := formats[name]; !exists {
			names = append(names, name)
		}
		formats[name] = opts.Clone()
	}

	sort.Strings(names)

	return &FormatRegistry{
		formats: formats,
		names:   names,
	}
}

// NewFormatRegistryFromLoader hydrates a FormatRegistry using the provided loader.
func NewFormatRegistryFromLoader(loader FormatLoader) (*FormatRegistry, error) {
	if loader == nil {
		return NewFormatRegistry(nil), nil
	}

	formats, err := loader.Load()
	if err != nil {
		return nil, err
	}

	return NewFormatRegistry(formats), nil
}

// Lookup returns a copy of the options for name.
func (r *FormatRegistry) Lookup(name string) (Options, bool) {
	if r == nil || name == "" {
		return Options{}, false
	}
	opts, ok := r.formats[name]
	if !ok {
		return Options{}, false
	}
	return opts.Clone(), true
}

// Names returns the sorted preset names.
func (r *FormatRegistry) Names() []string {
	if r == nil || len(r.names) == 0 {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Formats returns a copy of every preset.
func (r *FormatRegistry) Formats() Formats {
	if r == nil {
		return nil
	}
	out := make(Formats, len(r.formats))
	for name, opts := range r.formats {
		out[name] = opts.Clone()
	}
	return out
}

func mergeFormats(dst, src Formats) {
	for name, opts := range src {
		dst[name] = opts.Clone()
	}
}
