package rvcfg

// ParseOptions controls preprocessing and parsing behavior.
type ParseOptions struct {
	// Reader supplies raw text for #include paths. Defaults to a DirReader
	// rooted at BaseDir, so includes resolve against the local filesystem.
	Reader FileReader
	// BaseDir is the base directory for include resolution when the
	// including file's own directory does not contain the target.
	BaseDir string
	// MaxIncludeDepth bounds the #include chain (default 32).
	MaxIncludeDepth int
	// MaxMacroExpansions bounds macro expansion per line (default 100).
	// Macros may expand to other macro calls up to this bound.
	MaxMacroExpansions int
	// DisableCaseInsensitive disables case-insensitive matching for class
	// and property names.
	DisableCaseInsensitive bool
	// DisableComments disables // and /* */ comments.
	DisableComments bool
	// StrictKinds turns a scalar/array redeclaration across an ancestry
	// chain into a resolve error instead of letting the most derived
	// declaration's kind win.
	StrictKinds bool
}

// FormatOptions controls writer formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested blocks (default is four spaces).
	Indent string
}

// ValidateOptions controls registry validation rules.
type ValidateOptions struct {
	// DisableKindConflictCheck disables scalar/array conflict warnings.
	DisableKindConflictCheck bool
	// DisableParentRedeclarationCheck disables warnings for reopenings
	// that change an already declared parent.
	DisableParentRedeclarationCheck bool
}

// defaults for ParseOptions bounds.
const (
	defaultMaxIncludeDepth    = 32
	defaultMaxMacroExpansions = 100
)

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	var out ParseOptions
	if o != nil {
		out = *o
	}
	if out.MaxIncludeDepth <= 0 {
		out.MaxIncludeDepth = defaultMaxIncludeDepth
	}
	if out.MaxMacroExpansions <= 0 {
		out.MaxMacroExpansions = defaultMaxMacroExpansions
	}
	if out.Reader == nil {
		out.Reader = DirReader{Root: out.BaseDir}
	}

	return out
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "    "}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "    "
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{}
	}

	return *o
}

// foldName normalizes a class or property name for registry lookups.
func (o ParseOptions) foldName(name string) string {
	if o.DisableCaseInsensitive {
		return name
	}

	return asciiLowerString(name)
}

// asciiLowerString lowercases ASCII letters without allocating for
// already-lowercase input.
func asciiLowerString(s string) string {
	lower := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			lower = false
			break
		}
	}
	if lower {
		return s
	}

	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = asciiLower(s[i])
	}

	return string(b)
}
