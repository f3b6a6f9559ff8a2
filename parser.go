package rvcfg

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Parse parses config source from bytes into a fresh registry.
func Parse(data []byte, opt *ParseOptions) (*Registry, error) {
	reg := NewRegistry(opt)
	if err := reg.AddSource("", data); err != nil {
		return nil, err
	}

	return reg, nil
}

// Decode parses config source from a reader into a fresh registry.
func Decode(r io.Reader, opt *ParseOptions) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Parse(data, opt)
}

// DecodeFile parses the config file at path into a fresh registry,
// resolving #include directives relative to the file.
func DecodeFile(path string, opt *ParseOptions) (*Registry, error) {
	reg := NewRegistry(opt)
	if err := reg.AddFile(path); err != nil {
		return nil, err
	}

	return reg, nil
}

// parser represents a parser for preprocessed config text.
type parser struct {
	l   *lexer       // Lexer for the text
	reg *Registry    // Registry receiving class definitions
	buf token        // Buffered token
	has bool         // Has buffered token
	opt ParseOptions // Options for the parser
}

// newParser creates a new parser feeding the given registry.
func newParser(r io.Reader, reg *Registry, opt ParseOptions) *parser {
	return &parser{l: newLexer(r, opt), reg: reg, opt: opt}
}

// next returns the next token.
func (p *parser) next() (token, error) {
	if p.has {
		p.has = false
		return p.buf, nil
	}

	return p.l.next()
}

// peek returns the next token without consuming it.
func (p *parser) peek() (token, error) {
	if p.has {
		return p.buf, nil
	}

	tok, err := p.l.next()
	if err != nil {
		return tok, err
	}

	p.buf = tok
	p.has = true
	return tok, nil
}

// parseTop parses the top-level scope: a forest of class definitions.
func (p *parser) parseTop() ([]*Class, error) {
	var forest []*Class
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == tokEOF {
			break
		}

		if tok.Type != tokClass {
			return nil, p.errorf(tok, "expected class, got %s", tokenName(tok.Type))
		}

		c, err := p.parseClass()
		if err != nil {
			return nil, err
		}

		forest = append(forest, c)
	}

	return forest, nil
}

// parseClass parses one class definition and registers it (and every
// nested class, as each body completes) into the flat registry.
func (p *parser) parseClass() (*Class, error) {
	kw, err := p.expect(tokClass)
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}

	// Check if class declares a parent.
	parent := ""
	if tok, _ := p.peek(); tok.Type == tokColon {
		_, _ = p.next()
		ptok, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		parent = ptok.Lit
	}

	c := &Class{Name: nameTok.Lit, Parent: parent, Line: kw.Line, Col: kw.Col}

	// External declaration form: class Name;
	if tok, _ := p.peek(); tok.Type == tokSemicolon {
		_, _ = p.next()
		p.reg.register(c)
		return c, nil
	}

	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	// Parse members in declaration order.
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if tok.Type == tokEOF {
			return nil, p.errorf(tok, "unterminated class %s", c.Name)
		}

		// Check if reached end of class body.
		if tok.Type == tokRBrace {
			_, _ = p.next()
			break
		}

		m, err := p.parseMember()
		if err != nil {
			return nil, err
		}

		c.Members = append(c.Members, m)
	}

	if _, err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}

	// The flat namespace is populated as each body closes, independent
	// of lexical nesting depth.
	p.reg.register(c)
	return c, nil
}

// parseMember parses one class body entry: a nested class, a scalar
// assignment, or an array statement.
func (p *parser) parseMember() (Member, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Type == tokClass {
		nested, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		return NestedClass{Class: nested}, nil
	}

	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}

	// Array statement when brackets follow the name.
	if tok, _ := p.peek(); tok.Type == tokLBracket {
		_, _ = p.next()
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		return p.parseArrayStatement(nameTok.Lit)
	}

	if _, err := p.expect(tokEqual); err != nil {
		return nil, err
	}

	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}

	return ScalarProperty{Name: nameTok.Lit, Value: val}, nil
}

// parseArrayStatement parses the operator and operand list of one
// name[] =/+=/-= {...}; statement.
func (p *parser) parseArrayStatement(name string) (Member, error) {
	opTok, err := p.next()
	if err != nil {
		return nil, err
	}

	var kind ArrayOpKind
	switch opTok.Type {
	case tokEqual:
		kind = OpAssign
	case tokPlusEqual:
		kind = OpAppend
	case tokMinusEqual:
		kind = OpRemove
	default:
		return nil, p.errorf(opTok, "expected '=', '+=' or '-=' after %s[]", name)
	}

	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	vals, err := p.parseValueList()
	if err != nil {
		return nil, err
	}

	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}

	return ArrayProperty{Name: name, Op: ArrayOp{Kind: kind, Values: vals}}, nil
}

// parseValueList parses comma-separated values up to the closing brace.
// Trailing commas are tolerated.
func (p *parser) parseValueList() ([]Value, error) {
	var vals []Value
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if tok.Type == tokRBrace {
			_, _ = p.next()
			break
		}

		if tok.Type == tokLBrace || tok.Type == tokEOF {
			return nil, p.errorf(tok, "malformed array literal")
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		vals = append(vals, v)
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}

		if tok.Type == tokComma {
			_, _ = p.next()
			continue
		}

		// Check if reached end of list.
		if tok.Type == tokRBrace {
			continue
		}

		return nil, p.errorf(tok, "expected ',' or '}' in array")
	}

	return vals, nil
}

// parseValue parses one scalar value.
func (p *parser) parseValue() (Value, error) {
	tok, err := p.next()
	if err != nil {
		return Value{}, err
	}

	switch tok.Type {
	case tokNumber:
		f, err := strconv.ParseFloat(tok.Lit, 64)
		if err != nil {
			// Keep odd numeric-looking words for forward compatibility.
			return Value{Kind: ValueRaw, Str: tok.Lit}, nil
		}
		return Value{Kind: ValueNumber, Num: f}, nil

	case tokString:
		return Value{Kind: ValueString, Str: tok.Lit}, nil

	case tokIdent:
		// Bare identifiers are enum-like string values.
		return Value{Kind: ValueString, Str: tok.Lit}, nil

	default:
		return Value{}, p.errorf(tok, "unexpected token %s", tokenName(tok.Type))
	}
}

// expect expects a token of the given type.
func (p *parser) expect(tt tokenType) (token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}

	if tok.Type != tt {
		return tok, p.errorf(tok, "expected %s, got %s", tokenName(tt), tokenName(tok.Type))
	}

	return tok, nil
}

// expectSemicolon expects a semicolon.
func (p *parser) expectSemicolon() error {
	_, err := p.expect(tokSemicolon)
	return err
}

// errorf formats a positioned parse error.
func (p *parser) errorf(tok token, format string, args ...any) error {
	return fmt.Errorf("%w at %d:%d: %s", ErrParse, tok.Line, tok.Col, fmt.Sprintf(format, args...))
}

// tokenName returns the display name of a token type.
func tokenName(tt tokenType) string {
	switch tt {
	case tokEOF:
		return "EOF"
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokLBrace:
		return "{"
	case tokRBrace:
		return "}"
	case tokLBracket:
		return "["
	case tokRBracket:
		return "]"
	case tokEqual:
		return "="
	case tokPlusEqual:
		return "+="
	case tokMinusEqual:
		return "-="
	case tokSemicolon:
		return ";"
	case tokColon:
		return ":"
	case tokComma:
		return ","
	case tokClass:
		return "class"
	default:
		return "token"
	}
}

// isBinaryConfig checks whether the input looks like a binarized (raP)
// config rather than text.
func isBinaryConfig(data []byte) bool {
	// Binarized configs start with \x00raP and contain zero bytes early;
	// text files do not.
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}

	return bytes.IndexByte(head, 0x00) >= 0
}

// asciiLower converts a byte to lowercase.
func asciiLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}
