package rvcfg

import (
	"fmt"
	"strings"
)

// Registry is the flat, name-keyed table of every class definition seen
// during a scanning session. One logical class may collect several
// contributions when reopened; nested classes are registered alongside
// top-level ones, so any class is reachable by simple name.
//
// Population and resolution are separate phases: add every source first,
// then resolve. Resolution never mutates the registry, which is what
// makes concurrent ResolveAll calls safe.
type Registry struct {
	pp      *Preprocessor          // Session preprocessor; defines persist across sources
	entries map[string]*classEntry // Entries keyed by folded name
	names   []string               // Folded names in registration order
	forest  []*Class               // Top-level definitions in parse order
	opt     ParseOptions           // Options for the session
}

// classEntry collects the contributions of one logical class.
type classEntry struct {
	display string   // Name spelling at first registration
	parent  string   // Effective parent
	defs    []*Class // Contributions in declaration order
}

// NewRegistry creates an empty registry for one scanning session.
func NewRegistry(opt *ParseOptions) *Registry {
	popt := opt.normalize()
	return &Registry{
		pp:      NewPreprocessor(&popt),
		entries: make(map[string]*classEntry),
		opt:     popt,
	}
}

// Preprocessor exposes the session preprocessor, so callers can predefine
// macros (e.g. engine LIST_n helpers) before adding sources.
func (r *Registry) Preprocessor() *Preprocessor {
	return r.pp
}

// AddSource preprocesses and parses one buffer of config text. The name
// is used for include resolution and error context and may be empty.
func (r *Registry) AddSource(name string, data []byte) error {
	if isBinaryConfig(data) {
		return ErrBinaryConfig
	}

	text, err := r.pp.Process(string(data), name)
	if err != nil {
		return err
	}

	return r.parse(text)
}

// AddFile reads, preprocesses, and parses the file at path through the
// configured FileReader.
func (r *Registry) AddFile(path string) error {
	src, err := r.opt.Reader.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	if isBinaryConfig([]byte(src)) {
		return ErrBinaryConfig
	}

	text, err := r.pp.Process(src, path)
	if err != nil {
		return err
	}

	return r.parse(text)
}

// parse feeds preprocessed text through the parser, registering classes.
func (r *Registry) parse(text string) error {
	p := newParser(strings.NewReader(text), r, r.opt)
	forest, err := p.parseTop()
	if err != nil {
		return err
	}

	r.forest = append(r.forest, forest...)
	return nil
}

// register records one class contribution under its folded name.
func (r *Registry) register(c *Class) {
	key := r.opt.foldName(c.Name)
	e, ok := r.entries[key]
	if !ok {
		e = &classEntry{display: c.Name, parent: c.Parent}
		r.entries[key] = e
		r.names = append(r.names, key)
	} else if c.Parent != "" {
		// Explicit parent on reopening always wins; omitting one never
		// clears the parent declared earlier.
		e.parent = c.Parent
	}

	e.defs = append(e.defs, c)
}

// lookup finds the entry for a class name.
func (r *Registry) lookup(name string) (*classEntry, bool) {
	e, ok := r.entries[r.opt.foldName(name)]
	return e, ok
}

// Classes returns the display names of all registered classes in
// registration order.
func (r *Registry) Classes() []string {
	out := make([]string, 0, len(r.names))
	for _, key := range r.names {
		out = append(out, r.entries[key].display)
	}

	return out
}

// Defs returns the top-level class definitions in parse order, suitable
// for Format and Encode.
func (r *Registry) Defs() []*Class {
	return r.forest
}

// Parent returns the effective parent of a class, or "" when the class
// has none or is unknown.
func (r *Registry) Parent(name string) string {
	if e, ok := r.lookup(name); ok {
		return e.parent
	}

	return ""
}
