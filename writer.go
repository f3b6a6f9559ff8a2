package rvcfg

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
)

// Encode writes class definitions to writer as canonical config text.
func Encode(w io.Writer, classes []*Class, opt *FormatOptions) error {
	fopt := opt.normalize()
	// Buffered writer reduces syscall overhead and short writes.
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw, indent: fopt.Indent}
	for _, c := range classes {
		if err := wr.writeClass(c); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// EncodeFile writes class definitions to a file.
func EncodeFile(path string, classes []*Class, opt *FormatOptions) error {
	b, err := Format(classes, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// Format renders class definitions to bytes.
func Format(classes []*Class, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, classes, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// FormatResolved renders a flattened class as a parentless definition
// with every property collapsed to plain assignments.
func FormatResolved(c *ResolvedClass, opt *FormatOptions) ([]byte, error) {
	def := &Class{Name: c.Name}
	for _, p := range c.Properties {
		if p.IsArray {
			def.Members = append(def.Members, ArrayProperty{
				Name: p.Name,
				Op:   ArrayOp{Kind: OpAssign, Values: p.Array},
			})
			continue
		}
		def.Members = append(def.Members, ScalarProperty{Name: p.Name, Value: p.Value})
	}

	return Format([]*Class{def}, opt)
}

// writer writes class definitions to a writer.
type writer struct {
	w      io.Writer // Writer to write to
	indent string    // Indentation string
	level  int       // Current nesting level
}

// writeClass writes one class definition with its body.
func (w *writer) writeClass(c *Class) error {
	if err := w.writeIndent(); err != nil {
		return err
	}
	if err := w.writeString("class " + c.Name); err != nil {
		return err
	}
	if c.Parent != "" {
		if err := w.writeString(" : " + c.Parent); err != nil {
			return err
		}
	}

	// External declarations have no body.
	if len(c.Members) == 0 {
		return w.writeString(" {};\n")
	}

	if err := w.writeString(" {\n"); err != nil {
		return err
	}

	w.level++
	for _, m := range c.Members {
		if err := w.writeMember(m); err != nil {
			return err
		}
	}
	w.level--

	if err := w.writeIndent(); err != nil {
		return err
	}

	return w.writeString("};\n")
}

// writeMember writes one body entry.
func (w *writer) writeMember(m Member) error {
	switch member := m.(type) {
	case ScalarProperty:
		if err := w.writeIndent(); err != nil {
			return err
		}
		if err := w.writeString(member.Name + " = "); err != nil {
			return err
		}
		if err := w.writeValue(member.Value); err != nil {
			return err
		}
		return w.writeString(";\n")

	case ArrayProperty:
		if err := w.writeIndent(); err != nil {
			return err
		}
		if err := w.writeString(member.Name + "[] " + opText(member.Op.Kind) + " {"); err != nil {
			return err
		}
		for i, v := range member.Op.Values {
			if i > 0 {
				if err := w.writeString(", "); err != nil {
					return err
				}
			}
			if err := w.writeValue(v); err != nil {
				return err
			}
		}
		return w.writeString("};\n")

	case NestedClass:
		return w.writeClass(member.Class)
	}

	return nil
}

// writeValue writes one scalar value.
func (w *writer) writeValue(v Value) error {
	switch v.Kind {
	case ValueNumber:
		return w.writeString(formatNumber(v.Num))
	case ValueString:
		return w.writeQuoted(v.Str)
	default:
		return w.writeString(v.Str)
	}
}

// writeQuoted writes a string literal with doubled-quote escaping.
func (w *writer) writeQuoted(s string) error {
	return w.writeString(`"` + strings.ReplaceAll(s, `"`, `""`) + `"`)
}

// writeIndent writes the current indentation.
func (w *writer) writeIndent() error {
	for i := 0; i < w.level; i++ {
		if err := w.writeString(w.indent); err != nil {
			return err
		}
	}

	return nil
}

// writeString writes a string to the underlying writer.
func (w *writer) writeString(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// opText returns the source operator for an array operation kind.
func opText(k ArrayOpKind) string {
	switch k {
	case OpAppend:
		return "+="
	case OpRemove:
		return "-="
	default:
		return "="
	}
}

// formatNumber renders a float in its shortest decimal form.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
