package rvcfg

import (
	"errors"
	"fmt"
)

var (
	// ErrBinaryConfig indicates the input is not a text config (likely raP binarized).
	ErrBinaryConfig = errors.New("binary config")

	// ErrLex indicates a lexer failure.
	ErrLex = errors.New("lex error")

	// ErrParse indicates a parser failure.
	ErrParse = errors.New("parse error")

	// ErrPreprocess indicates a preprocessor failure.
	ErrPreprocess = errors.New("preprocess error")

	// ErrResolve indicates an inheritance resolution failure.
	ErrResolve = errors.New("resolve error")
)

// Preprocessor error kinds. Each wraps ErrPreprocess so errors.Is matches
// both the kind and the category.
var (
	// ErrIncludeNotFound indicates an #include path could not be read.
	ErrIncludeNotFound = fmt.Errorf("%w: include not found", ErrPreprocess)

	// ErrIncludeCycle indicates a file is included again within one include chain.
	ErrIncludeCycle = fmt.Errorf("%w: include cycle", ErrPreprocess)

	// ErrIncludeTooDeep indicates the include chain exceeded MaxIncludeDepth.
	ErrIncludeTooDeep = fmt.Errorf("%w: include too deep", ErrPreprocess)

	// ErrMalformedMacro indicates a bad #define or an expansion past the bound.
	ErrMalformedMacro = fmt.Errorf("%w: malformed macro", ErrPreprocess)
)

// Resolver error kinds. Each wraps ErrResolve.
var (
	// ErrUnknownClass indicates the requested class is not registered.
	ErrUnknownClass = fmt.Errorf("%w: unknown class", ErrResolve)

	// ErrUnknownParent indicates an ancestor names a parent that is not registered.
	ErrUnknownParent = fmt.Errorf("%w: unknown parent", ErrResolve)

	// ErrCyclicInheritance indicates a class is its own ancestor.
	ErrCyclicInheritance = fmt.Errorf("%w: cyclic inheritance", ErrResolve)

	// ErrPropertyKindConflict indicates a property changes between scalar and
	// array across an ancestry chain while StrictKinds is enabled.
	ErrPropertyKindConflict = fmt.Errorf("%w: property kind conflict", ErrResolve)
)
