package rvcfg

// ValueKind represents the kind of a parsed scalar value.
type ValueKind int

const (
	// ValueNumber indicates a numeric literal.
	ValueNumber ValueKind = iota
	// ValueString indicates a quoted string or a bare enum-like identifier.
	ValueString
	// ValueRaw indicates unparsed token text kept for forward compatibility.
	ValueRaw
)

// Value represents one scalar value of a property or array element.
type Value struct {
	Str  string    `json:"str,omitempty" yaml:"str,omitempty"` // String or raw text
	Kind ValueKind `json:"kind" yaml:"kind"`                   // Value kind
	Num  float64   `json:"num,omitempty" yaml:"num,omitempty"` // Number value
}

// String builds a string Value.
func String(s string) Value { return Value{Kind: ValueString, Str: s} }

// Number builds a numeric Value.
func Number(f float64) Value { return Value{Kind: ValueNumber, Num: f} }

// Text renders the value as display text: the string or raw content,
// or the shortest decimal form of a number.
func (v Value) Text() string {
	if v.Kind == ValueNumber {
		return formatNumber(v.Num)
	}

	return v.Str
}

// equal reports value equality used by array remove operations.
func (v Value) equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == ValueNumber {
		return v.Num == o.Num
	}

	return v.Str == o.Str
}

// ArrayOpKind represents how an array statement combines with prior state.
type ArrayOpKind int

const (
	// OpAssign indicates name[] = {...}; the operand replaces the array.
	OpAssign ArrayOpKind = iota
	// OpAppend indicates name[] += {...}; the operand is concatenated.
	OpAppend
	// OpRemove indicates name[] -= {...}; all operand occurrences are deleted.
	OpRemove
)

// ArrayOp represents one array statement as written.
type ArrayOp struct {
	Values []Value     `json:"values" yaml:"values"` // Operand list in declared order
	Kind   ArrayOpKind `json:"kind" yaml:"kind"`     // Operation kind
}

// Member is one entry of a class body, in declaration order.
type Member interface {
	member()
}

// ScalarProperty represents name = value; assignments.
type ScalarProperty struct {
	Name  string // Property name
	Value Value  // Assigned value
}

// member implements the Member interface.
func (ScalarProperty) member() {}

// ArrayProperty represents name[] =/+=/-= {...}; statements.
type ArrayProperty struct {
	Name string  // Property name
	Op   ArrayOp // Operation as written
}

// member implements the Member interface.
func (ArrayProperty) member() {}

// NestedClass represents a class definition inside another class body.
type NestedClass struct {
	Class *Class // Nested definition
}

// member implements the Member interface.
func (NestedClass) member() {}

// Class represents one raw class definition as written in source.
// A logical class may have several Class contributions when reopened;
// the registry concatenates them in declaration order.
type Class struct {
	Name    string   // Declared name, original spelling
	Parent  string   // Declared parent, empty when omitted
	Members []Member // Body in declaration order
	Line    int      // Line of the class keyword
	Col     int      // Column of the class keyword
}
