package rvcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileReader supplies raw text for a logical path. It is the only I/O seam
// of the package: archive readers and virtual filesystems implement it to
// feed #include resolution.
type FileReader interface {
	ReadFile(path string) (string, error)
}

// DirReader reads files from a directory on the local filesystem.
type DirReader struct {
	// Root is prepended to every requested path. Empty means the
	// process working directory.
	Root string
}

// ReadFile implements FileReader.
func (d DirReader) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(filepath.Join(d.Root, path))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// MapReader serves file contents from memory, keyed by slash-separated
// path. Useful for tests and for callers that extract text from archives.
type MapReader map[string]string

// ReadFile implements FileReader.
func (m MapReader) ReadFile(path string) (string, error) {
	if s, ok := m[filepath.ToSlash(path)]; ok {
		return s, nil
	}

	return "", os.ErrNotExist
}

// fnMacro is a function-like macro definition.
type fnMacro struct {
	params []string
	body   string
}

// Preprocessor resolves #include directives and expands #define macros,
// producing a single token-ready buffer. It performs no I/O itself beyond
// calls to the configured FileReader.
type Preprocessor struct {
	reader FileReader
	obj    map[string]string
	fn     map[string]fnMacro
	chain  []string // active include chain, resolved paths
	opt    ParseOptions
}

// NewPreprocessor creates a preprocessor with the given options.
func NewPreprocessor(opt *ParseOptions) *Preprocessor {
	popt := opt.normalize()
	return &Preprocessor{
		reader: popt.Reader,
		obj:    map[string]string{},
		fn:     map[string]fnMacro{},
		opt:    popt,
	}
}

// Define registers an object-like macro, as #define NAME value would.
func (p *Preprocessor) Define(name, value string) {
	p.obj[name] = value
}

// DefineFunc registers a function-like macro, as #define NAME(a,b) body would.
func (p *Preprocessor) DefineFunc(name string, params []string, body string) {
	p.fn[name] = fnMacro{params: params, body: body}
}

// Preprocess runs src through a fresh preprocessor. The from path is used
// for relative include resolution and error context; it may be empty.
func Preprocess(src, from string, opt *ParseOptions) (string, error) {
	return NewPreprocessor(opt).Process(src, from)
}

// ProcessFile reads and preprocesses the file at path via the FileReader.
func (p *Preprocessor) ProcessFile(path string) (string, error) {
	src, err := p.reader.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrIncludeNotFound, path, err)
	}

	return p.Process(src, path)
}

// Process preprocesses src. Directives are recognized after comment
// stripping, so a directive may follow a /* */ block on the same line.
func (p *Preprocessor) Process(src, from string) (string, error) {
	if !p.opt.DisableComments {
		src = stripComments(src)
	}

	var out strings.Builder
	lines := strings.Split(src, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineNo := i + 1

		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "#") {
			// Join backslash continuations into one directive line.
			start := i
			for strings.HasSuffix(strings.TrimRight(line, " \t"), "\\") && i+1 < len(lines) {
				line = strings.TrimSuffix(strings.TrimRight(line, " \t"), "\\")
				i++
				line += "\n" + lines[i]
			}

			expanded, err := p.directive(strings.TrimSpace(line), from, lineNo)
			if err != nil {
				return "", err
			}
			if expanded != "" {
				out.WriteString(expanded)
				if !strings.HasSuffix(expanded, "\n") {
					out.WriteByte('\n')
				}
			} else {
				// Keep source line numbering stable for the lexer.
				for n := start; n <= i; n++ {
					out.WriteByte('\n')
				}
			}
			continue
		}

		expanded, err := p.expandLine(line, from, lineNo)
		if err != nil {
			return "", err
		}
		out.WriteString(expanded)
		if i < len(lines)-1 {
			out.WriteByte('\n')
		}
	}

	return out.String(), nil
}

// directive handles one #-line. The returned text replaces the directive
// (non-empty only for #include).
func (p *Preprocessor) directive(trim, from string, lineNo int) (string, error) {
	cmd, arg := splitDirective(trim)

	switch cmd {
	case "include":
		path, ok := parseIncludeArg(arg)
		if !ok {
			return "", fmt.Errorf("%w: bad #include syntax at %s:%d", ErrPreprocess, from, lineNo)
		}
		return p.include(path, from, lineNo)

	case "define":
		name, params, body, ok := parseDefine(arg)
		if !ok {
			return "", fmt.Errorf("%w: bad #define at %s:%d", ErrMalformedMacro, from, lineNo)
		}
		if params == nil {
			p.Define(name, body)
		} else {
			p.DefineFunc(name, params, body)
		}
		return "", nil

	case "undef":
		name := strings.TrimSpace(arg)
		delete(p.obj, name)
		delete(p.fn, name)
		return "", nil

	default:
		// Unknown directives (e.g. #ifdef blocks from engine headers) are
		// dropped rather than rejected; the dialect is not a full C
		// preprocessor.
		return "", nil
	}
}

// include resolves and inlines one #include target.
func (p *Preprocessor) include(path, from string, lineNo int) (string, error) {
	if len(p.chain) >= p.opt.MaxIncludeDepth {
		return "", fmt.Errorf("%w: depth %d at %s:%d", ErrIncludeTooDeep, len(p.chain), from, lineNo)
	}

	resolved, src, err := p.resolveInclude(path, from)
	if err != nil {
		return "", fmt.Errorf("%w: %q at %s:%d", ErrIncludeNotFound, path, from, lineNo)
	}

	for _, seen := range p.chain {
		if seen == resolved {
			return "", fmt.Errorf("%w: %q at %s:%d", ErrIncludeCycle, resolved, from, lineNo)
		}
	}

	p.chain = append(p.chain, resolved)
	out, err := p.Process(src, resolved)
	p.chain = p.chain[:len(p.chain)-1]

	return out, err
}

// resolveInclude tries the including file's directory first, then the
// path as given (which the DirReader roots at BaseDir).
func (p *Preprocessor) resolveInclude(path, from string) (string, string, error) {
	var candidates []string
	if from != "" {
		if dir := filepath.Dir(from); dir != "." {
			candidates = append(candidates, filepath.ToSlash(filepath.Join(dir, path)))
		}
	}
	candidates = append(candidates, filepath.ToSlash(filepath.Clean(path)))

	var lastErr error
	for _, cand := range candidates {
		src, err := p.reader.ReadFile(cand)
		if err == nil {
			return cand, src, nil
		}
		lastErr = err
	}

	return "", "", lastErr
}

// expandLine expands macros in one source line using a pushback stack,
// so macro bodies may invoke further macros up to the configured bound.
func (p *Preprocessor) expandLine(line, from string, lineNo int) (string, error) {
	if len(p.obj) == 0 && len(p.fn) == 0 {
		return line, nil
	}

	e := expander{p: p, stack: []chunk{{s: line}}}
	out, err := e.run()
	if err != nil {
		return "", fmt.Errorf("%w: %v at %s:%d", ErrMalformedMacro, err, from, lineNo)
	}

	return out, nil
}

// chunk is one pending piece of expansion input.
type chunk struct {
	s string
	i int
}

// expander walks bytes across the pushback stack, replacing macro
// invocations as it encounters their names.
type expander struct {
	p          *Preprocessor
	stack      []chunk
	expansions int
}

// run drains the stack into the expanded line.
func (e *expander) run() (string, error) {
	var b strings.Builder
	for {
		ch, ok := e.next()
		if !ok {
			break
		}

		if ch == '"' {
			// String contents are never expanded.
			b.WriteByte(ch)
			e.copyString(&b)
			continue
		}

		if isMacroIdentStart(ch) {
			name := e.readIdent(ch)
			if m, ok := e.p.fn[name]; ok && e.peekIs('(') {
				e.next()
				args, ok := e.readArgs()
				if !ok {
					return "", fmt.Errorf("unterminated arguments for macro %s", name)
				}
				if err := e.push(substituteParams(m, args)); err != nil {
					return "", err
				}
				continue
			}
			if val, ok := e.p.obj[name]; ok {
				if err := e.push(val); err != nil {
					return "", err
				}
				continue
			}
			b.WriteString(name)
			continue
		}

		b.WriteByte(ch)
	}

	return b.String(), nil
}

// push schedules replacement text, enforcing the expansion bound.
func (e *expander) push(s string) error {
	e.expansions++
	if e.expansions > e.p.opt.MaxMacroExpansions {
		return fmt.Errorf("expansion bound of %d exceeded", e.p.opt.MaxMacroExpansions)
	}
	if s != "" {
		e.stack = append(e.stack, chunk{s: s})
	}

	return nil
}

// next returns the next pending byte.
func (e *expander) next() (byte, bool) {
	for len(e.stack) > 0 {
		top := &e.stack[len(e.stack)-1]
		if top.i >= len(top.s) {
			e.stack = e.stack[:len(e.stack)-1]
			continue
		}
		ch := top.s[top.i]
		top.i++
		return ch, true
	}

	return 0, false
}

// peekIs checks the next pending byte without consuming it.
func (e *expander) peekIs(want byte) bool {
	for i := len(e.stack) - 1; i >= 0; i-- {
		c := e.stack[i]
		if c.i < len(c.s) {
			return c.s[c.i] == want
		}
	}

	return false
}

// readIdent reads the remainder of an identifier started by first.
func (e *expander) readIdent(first byte) string {
	var b strings.Builder
	b.WriteByte(first)
	for {
		ch, ok := e.peekByte()
		if !ok || !isMacroIdentPart(ch) {
			break
		}
		e.next()
		b.WriteByte(ch)
	}

	return b.String()
}

// peekByte returns the next pending byte without consuming it.
func (e *expander) peekByte() (byte, bool) {
	for i := len(e.stack) - 1; i >= 0; i-- {
		c := e.stack[i]
		if c.i < len(c.s) {
			return c.s[c.i], true
		}
	}

	return 0, false
}

// readArgs collects comma-separated macro arguments up to the matching ')'.
func (e *expander) readArgs() ([]string, bool) {
	var args []string
	var cur strings.Builder
	depth := 1
	for {
		ch, ok := e.next()
		if !ok {
			return nil, false
		}

		switch {
		case ch == '"':
			cur.WriteByte(ch)
			e.copyString(&cur)

		case ch == '(':
			depth++
			cur.WriteByte(ch)

		case ch == ')':
			depth--
			if depth == 0 {
				args = append(args, strings.TrimSpace(cur.String()))
				return args, true
			}
			cur.WriteByte(ch)

		case ch == ',' && depth == 1:
			args = append(args, strings.TrimSpace(cur.String()))
			cur.Reset()

		default:
			cur.WriteByte(ch)
		}
	}
}

// copyString copies a quoted string verbatim, honoring backslash escapes.
func (e *expander) copyString(b *strings.Builder) {
	for {
		ch, ok := e.next()
		if !ok {
			return
		}
		b.WriteByte(ch)
		if ch == '\\' {
			if nx, ok := e.next(); ok {
				b.WriteByte(nx)
			}
			continue
		}
		if ch == '"' {
			return
		}
	}
}

// substituteParams replaces parameter identifiers in the macro body with
// the invocation arguments, positionally. Missing arguments substitute as
// empty text; extra arguments are ignored.
func substituteParams(m fnMacro, args []string) string {
	repl := make(map[string]string, len(m.params))
	for i, param := range m.params {
		if i < len(args) {
			repl[param] = args[i]
		} else {
			repl[param] = ""
		}
	}

	var b strings.Builder
	s := m.body
	for i := 0; i < len(s); {
		ch := s[i]
		if ch == '"' {
			j := i + 1
			for j < len(s) {
				if s[j] == '\\' && j+1 < len(s) {
					j += 2
					continue
				}
				if s[j] == '"' {
					j++
					break
				}
				j++
			}
			b.WriteString(s[i:j])
			i = j
			continue
		}
		if isMacroIdentStart(ch) {
			j := i + 1
			for j < len(s) && isMacroIdentPart(s[j]) {
				j++
			}
			name := s[i:j]
			if val, ok := repl[name]; ok {
				b.WriteString(val)
			} else {
				b.WriteString(name)
			}
			i = j
			continue
		}
		b.WriteByte(ch)
		i++
	}

	return b.String()
}

// splitDirective splits a #-line into command and argument text.
func splitDirective(trim string) (cmd, arg string) {
	trim = strings.TrimSpace(trim[1:])
	if trim == "" {
		return "", ""
	}
	i := 0
	for i < len(trim) && trim[i] != ' ' && trim[i] != '\t' {
		i++
	}

	return trim[:i], strings.TrimSpace(trim[i:])
}

// parseIncludeArg extracts the path from "path" or <path> forms.
func parseIncludeArg(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if len(arg) >= 2 && arg[0] == '"' && arg[len(arg)-1] == '"' {
		return arg[1 : len(arg)-1], true
	}
	if len(arg) >= 2 && arg[0] == '<' && arg[len(arg)-1] == '>' {
		return arg[1 : len(arg)-1], true
	}

	return "", false
}

// parseDefine splits a #define argument into name, optional parameter
// list, and body. params is nil for object-like macros and non-nil
// (possibly empty) for function-like macros.
func parseDefine(arg string) (name string, params []string, body string, ok bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" || !isMacroIdentStart(arg[0]) {
		return "", nil, "", false
	}

	i := 1
	for i < len(arg) && isMacroIdentPart(arg[i]) {
		i++
	}
	name = arg[:i]
	rest := arg[i:]

	// Function-like only when '(' immediately follows the name.
	if strings.HasPrefix(rest, "(") {
		j := strings.IndexByte(rest, ')')
		if j < 0 {
			return "", nil, "", false
		}
		body = strings.TrimLeft(rest[j+1:], " \t")
		paramStr := strings.TrimSpace(rest[1:j])
		if paramStr == "" {
			return name, []string{}, body, true
		}
		raw := strings.Split(paramStr, ",")
		params = make([]string, 0, len(raw))
		for _, r := range raw {
			params = append(params, strings.TrimSpace(r))
		}
		return name, params, body, true
	}

	return name, nil, strings.TrimLeft(rest, " \t"), true
}

// stripComments blanks // and /* */ comments outside strings, preserving
// newlines so token positions keep their source lines.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); {
		ch := src[i]

		if ch == '"' {
			j := i + 1
			for j < len(src) {
				if src[j] == '\\' && j+1 < len(src) {
					j += 2
					continue
				}
				if src[j] == '"' {
					// Doubled quotes stay inside the string.
					if j+1 < len(src) && src[j+1] == '"' {
						j += 2
						continue
					}
					j++
					break
				}
				j++
			}
			b.WriteString(src[i:j])
			i = j
			continue
		}

		if ch == '/' && i+1 < len(src) && src[i+1] == '/' {
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		}

		if ch == '/' && i+1 < len(src) && src[i+1] == '*' {
			i += 2
			for i < len(src) {
				if src[i] == '*' && i+1 < len(src) && src[i+1] == '/' {
					i += 2
					break
				}
				if src[i] == '\n' {
					b.WriteByte('\n')
				}
				i++
			}
			continue
		}

		b.WriteByte(ch)
		i++
	}

	return b.String()
}

// isMacroIdentStart checks if a byte can start a macro identifier.
func isMacroIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// isMacroIdentPart checks if a byte can continue a macro identifier.
func isMacroIdentPart(b byte) bool {
	return isMacroIdentStart(b) || (b >= '0' && b <= '9')
}
