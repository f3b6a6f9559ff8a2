package rvcfg

// ResolvedClass is the flattened view of a class: all inherited
// properties merged and all array operations collapsed. It is immutable
// once produced and holds no reference back to the registry.
type ResolvedClass struct {
	Name       string         `json:"name" yaml:"name"`                             // Display name
	Parent     string         `json:"parent,omitempty" yaml:"parent,omitempty"`     // Effective parent, "" when root
	Ancestry   []string       `json:"ancestry" yaml:"ancestry"`                     // Root to self
	Properties []Property     `json:"properties" yaml:"properties"`                 // In first-declaration order
	index      map[string]int // Folded property name to Properties offset
	exactCase  bool           // Session resolved with DisableCaseInsensitive
}

// Property is one resolved property: either a scalar value or a final
// array, never both.
type Property struct {
	Name    string  `json:"name" yaml:"name"`                           // Display name
	Value   Value   `json:"value,omitempty" yaml:"value,omitempty"`     // Scalar value
	Array   []Value `json:"array,omitempty" yaml:"array,omitempty"`     // Collapsed array
	IsArray bool    `json:"isArray,omitempty" yaml:"isArray,omitempty"` // Kind marker
}

// get finds a property by name, honoring the case rules the registry
// resolved with.
func (c *ResolvedClass) get(name string) (Property, bool) {
	if !c.exactCase {
		name = asciiLowerString(name)
	}
	if i, ok := c.index[name]; ok {
		return c.Properties[i], true
	}

	return Property{}, false
}

// GetScalar returns the scalar value of a property, or false when the
// property is absent or array-typed.
func (c *ResolvedClass) GetScalar(name string) (Value, bool) {
	p, ok := c.get(name)
	if !ok || p.IsArray {
		return Value{}, false
	}

	return p.Value, true
}

// GetArray returns the collapsed array of a property, or false when the
// property is absent or scalar-typed. Callers must not mutate the result.
func (c *ResolvedClass) GetArray(name string) ([]Value, bool) {
	p, ok := c.get(name)
	if !ok || !p.IsArray {
		return nil, false
	}

	return p.Array, true
}

// GetString returns a scalar property as text. Quoted strings and bare
// identifiers qualify; numbers do not.
func (c *ResolvedClass) GetString(name string) (string, bool) {
	v, ok := c.GetScalar(name)
	if !ok || v.Kind == ValueNumber {
		return "", false
	}

	return v.Str, true
}

// GetNumber returns a scalar property as a number.
func (c *ResolvedClass) GetNumber(name string) (float64, bool) {
	v, ok := c.GetScalar(name)
	if !ok || v.Kind != ValueNumber {
		return 0, false
	}

	return v.Num, true
}

// GetStrings returns an array property with every element rendered as
// text, the common shape for loadout-style lists.
func (c *ResolvedClass) GetStrings(name string) ([]string, bool) {
	arr, ok := c.GetArray(name)
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.Text())
	}

	return out, true
}

// Has reports whether the class resolved a property under this name.
func (c *ResolvedClass) Has(name string) bool {
	_, ok := c.get(name)
	return ok
}
