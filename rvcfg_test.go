package rvcfg

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSamples(t *testing.T) {
	files := []string{
		"weapons.hpp",
		"loadout.hpp",
	}
	for _, f := range files {
		reg, err := DecodeFile(filepath.Join("testdata", f), nil)
		if err != nil {
			t.Fatalf("parse %s: %v", f, err)
		}
		if len(reg.Classes()) == 0 {
			t.Fatalf("expected classes in %s", f)
		}
	}
}

func TestArrayOperatorScenario(t *testing.T) {
	reg, err := DecodeFile(filepath.Join("testdata", "weapons.hpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("WeaponsAddOn")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	rifles, ok := rc.GetStrings("rifles")
	if !ok {
		t.Fatalf("rifles missing")
	}
	if diff := cmp.Diff([]string{"M4", "AK47", "SCAR", "M16"}, rifles); diff != "" {
		t.Fatalf("rifles mismatch (-want +got):\n%s", diff)
	}

	pistols, ok := rc.GetStrings("pistols")
	if !ok {
		t.Fatalf("pistols missing")
	}
	if diff := cmp.Diff([]string{"Glock"}, pistols); diff != "" {
		t.Fatalf("pistols mismatch (-want +got):\n%s", diff)
	}

	shotguns, ok := rc.GetStrings("shotguns")
	if !ok {
		t.Fatalf("shotguns missing")
	}
	if diff := cmp.Diff([]string{"Remington"}, shotguns); diff != "" {
		t.Fatalf("shotguns mismatch (-want +got):\n%s", diff)
	}

	// The base class stays untouched by derived operators.
	base, err := reg.Resolve("Weapons")
	if err != nil {
		t.Fatalf("resolve base: %v", err)
	}
	pistols, _ = base.GetStrings("pistols")
	if diff := cmp.Diff([]string{"Glock", "M1911"}, pistols); diff != "" {
		t.Fatalf("base pistols mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadoutMacroExpansion(t *testing.T) {
	reg, err := DecodeFile(filepath.Join("testdata", "loadout.hpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("rm")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	wantItems := append([]string{"ACRE_PRC343"}, repeat("ACE_fieldDressing", 10)...)
	wantItems = append(wantItems, repeat("ACE_packingBandage", 5)...)
	wantItems = append(wantItems, repeat("ACE_morphine", 2)...)
	items, ok := rc.GetStrings("items")
	if !ok {
		t.Fatalf("items missing")
	}
	if diff := cmp.Diff(wantItems, items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	uniform, _ := rc.GetStrings("uniform")
	wantUniform := append(repeat("U_BG_Guerilla2_1", 2), "U_BG_leader")
	if diff := cmp.Diff(wantUniform, uniform); diff != "" {
		t.Fatalf("uniform mismatch (-want +got):\n%s", diff)
	}

	// Inherited untouched.
	linked, _ := rc.GetStrings("linkedItems")
	if diff := cmp.Diff([]string{"ItemWatch", "ItemMap", "ItemCompass"}, linked); diff != "" {
		t.Fatalf("linkedItems mismatch (-want +got):\n%s", diff)
	}
}

func TestInheritanceOverride(t *testing.T) {
	reg, err := DecodeFile(filepath.Join("testdata", "loadout.hpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("ar")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if diff := cmp.Diff([]string{"baseMan", "rm", "ar"}, rc.Ancestry); diff != "" {
		t.Fatalf("ancestry mismatch (-want +got):\n%s", diff)
	}
	if rc.Parent != "rm" {
		t.Fatalf("parent mismatch: %q", rc.Parent)
	}

	if name, _ := rc.GetString("displayName"); name != "Automatic Rifleman" {
		t.Fatalf("displayName mismatch: %q", name)
	}

	// Plain assignment replaces the inherited array wholesale.
	vest, _ := rc.GetStrings("vest")
	want := []string{"V_PlateCarrier1_rgr", "V_PlateCarrier2_rgr", "V_PlateCarrierGL_rgr"}
	if diff := cmp.Diff(want, vest); diff != "" {
		t.Fatalf("vest mismatch (-want +got):\n%s", diff)
	}

	// Items come through rm unchanged.
	items, _ := rc.GetStrings("items")
	if len(items) != 18 {
		t.Fatalf("items length mismatch: %d", len(items))
	}
}

func TestResolveDeterminism(t *testing.T) {
	reg, err := DecodeFile(filepath.Join("testdata", "loadout.hpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	a, err := reg.Resolve("ar")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	b, err := reg.Resolve("ar")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}

	if diff := cmp.Diff(a.Properties, b.Properties); diff != "" {
		t.Fatalf("properties differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(a.Ancestry, b.Ancestry); diff != "" {
		t.Fatalf("ancestry differs between runs:\n%s", diff)
	}
}

func TestReopening(t *testing.T) {
	src := []byte(`
class base { a = 1; };
class veh : base { crew = "driver"; };
class veh { crew = "gunner"; cargo = 4; };
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("veh")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Reopening without a parent keeps the declared one.
	if rc.Parent != "base" {
		t.Fatalf("parent mismatch: %q", rc.Parent)
	}
	if crew, _ := rc.GetString("crew"); crew != "gunner" {
		t.Fatalf("crew mismatch: %q", crew)
	}
	if cargo, _ := rc.GetNumber("cargo"); cargo != 4 {
		t.Fatalf("cargo mismatch: %v", cargo)
	}
	if a, _ := rc.GetNumber("a"); a != 1 {
		t.Fatalf("inherited a mismatch: %v", a)
	}
}

func TestReopeningAddsParent(t *testing.T) {
	src := []byte(`
class other { b = 2; };
class veh { x = 1; };
class veh : other {};
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("veh")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rc.Parent != "other" {
		t.Fatalf("parent mismatch: %q", rc.Parent)
	}
	if b, ok := rc.GetNumber("b"); !ok || b != 2 {
		t.Fatalf("inherited b mismatch: %v %v", b, ok)
	}
	if x, ok := rc.GetNumber("x"); !ok || x != 1 {
		t.Fatalf("own x mismatch: %v %v", x, ok)
	}
}

func TestNestedClassFlatNamespace(t *testing.T) {
	src := []byte(`
class Outer {
	class Inner { v = 1; };
	w = 2;
};
class Derived : Inner { u = 3; };
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// Inner closes before Outer, so it registers first.
	if diff := cmp.Diff([]string{"Inner", "Outer", "Derived"}, reg.Classes()); diff != "" {
		t.Fatalf("registration order mismatch (-want +got):\n%s", diff)
	}

	rc, err := reg.Resolve("Derived")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v, ok := rc.GetNumber("v"); !ok || v != 1 {
		t.Fatalf("inherited v mismatch: %v %v", v, ok)
	}
	if rc.Has("w") {
		t.Fatalf("w belongs to Outer, not Inner")
	}

	// The enclosing class does not absorb nested classes as properties.
	outer, err := reg.Resolve("Outer")
	if err != nil {
		t.Fatalf("resolve outer: %v", err)
	}
	if outer.Has("Inner") {
		t.Fatalf("nested class leaked into properties")
	}
}

func TestCaseInsensitiveLookup(t *testing.T) {
	reg, err := DecodeFile(filepath.Join("testdata", "weapons.hpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("WEAPONSADDON")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rc.Name != "WeaponsAddOn" {
		t.Fatalf("display name mismatch: %q", rc.Name)
	}
	if _, ok := rc.GetStrings("RIFLES"); !ok {
		t.Fatalf("property lookup should fold case")
	}
}

func TestCaseSensitiveOption(t *testing.T) {
	src := []byte(`class Foo { a = 1; };`)
	reg, err := Parse(src, &ParseOptions{DisableCaseInsensitive: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := reg.Resolve("foo"); !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
	rc, err := reg.Resolve("Foo")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rc.Has("A") {
		t.Fatalf("property lookup should be exact")
	}
}

func TestCyclicInheritance(t *testing.T) {
	src := []byte(`
class A : B {};
class B : A {};
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = reg.Resolve("A")
	if !errors.Is(err, ErrCyclicInheritance) {
		t.Fatalf("expected ErrCyclicInheritance, got %v", err)
	}
	if !errors.Is(err, ErrResolve) {
		t.Fatalf("cycle should also match ErrResolve")
	}
}

func TestSelfInheritance(t *testing.T) {
	src := []byte(`class S : S { a = 1; };`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := reg.Resolve("S"); !errors.Is(err, ErrCyclicInheritance) {
		t.Fatalf("expected ErrCyclicInheritance, got %v", err)
	}
}

func TestUnknownParent(t *testing.T) {
	src := []byte(`class Orphan : NoSuchBase { a = 1; };`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = reg.Resolve("Orphan")
	if !errors.Is(err, ErrUnknownParent) {
		t.Fatalf("expected ErrUnknownParent, got %v", err)
	}
}

func TestUnknownClass(t *testing.T) {
	reg, err := Parse([]byte(`class A {};`), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := reg.Resolve("missing"); !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
}

func TestExternalDeclaration(t *testing.T) {
	src := []byte(`
class Ext;
class D : Ext { a = 1; };
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("D")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff([]string{"Ext", "D"}, rc.Ancestry); diff != "" {
		t.Fatalf("ancestry mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyAccumulatorOps(t *testing.T) {
	src := []byte(`
class L {
	extra[] += {"a"};
	gone[] -= {"x"};
};
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("L")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	extra, ok := rc.GetStrings("extra")
	if !ok {
		t.Fatalf("extra missing")
	}
	if diff := cmp.Diff([]string{"a"}, extra); diff != "" {
		t.Fatalf("extra mismatch (-want +got):\n%s", diff)
	}

	gone, ok := rc.GetStrings("gone")
	if !ok || len(gone) != 0 {
		t.Fatalf("gone should resolve to an empty array: %v %v", gone, ok)
	}
}

func TestRemoveAllOccurrences(t *testing.T) {
	src := []byte(`
class B1 { xs[] = {"a", "a", "b", "a"}; };
class D1 : B1 { xs[] -= {"a"}; };
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("D1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	xs, _ := rc.GetStrings("xs")
	if diff := cmp.Diff([]string{"b"}, xs); diff != "" {
		t.Fatalf("xs mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendKeepsDuplicates(t *testing.T) {
	src := []byte(`
class B2 { xs[] = {"a", "b"}; };
class D2 : B2 { xs[] += {"b", "c"}; };
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("D2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	xs, _ := rc.GetStrings("xs")
	if diff := cmp.Diff([]string{"a", "b", "b", "c"}, xs); diff != "" {
		t.Fatalf("xs mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveThenAppendReorders(t *testing.T) {
	src := []byte(`
class B3 { xs[] = {"a", "b", "c"}; };
class D3 : B3 {
	xs[] -= {"b"};
	xs[] += {"b"};
};
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("D3")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	xs, _ := rc.GetStrings("xs")
	if diff := cmp.Diff([]string{"a", "c", "b"}, xs); diff != "" {
		t.Fatalf("xs mismatch (-want +got):\n%s", diff)
	}
}

func TestCollapseOps(t *testing.T) {
	tests := []struct {
		name string
		ops  []ArrayOp
		want []Value
	}{
		{
			name: "empty",
			ops:  nil,
			want: []Value{},
		},
		{
			name: "assign_replaces",
			ops: []ArrayOp{
				{Kind: OpAssign, Values: []Value{String("a")}},
				{Kind: OpAssign, Values: []Value{String("b")}},
			},
			want: []Value{String("b")},
		},
		{
			name: "numeric_remove",
			ops: []ArrayOp{
				{Kind: OpAssign, Values: []Value{Number(1), Number(2), Number(1)}},
				{Kind: OpRemove, Values: []Value{Number(1)}},
			},
			want: []Value{Number(2)},
		},
		{
			name: "kind_distinguishes_values",
			ops: []ArrayOp{
				{Kind: OpAssign, Values: []Value{String("1"), Number(1)}},
				{Kind: OpRemove, Values: []Value{Number(1)}},
			},
			want: []Value{String("1")},
		},
		{
			name: "idempotent_when_reassigned",
			ops: []ArrayOp{
				{Kind: OpAssign, Values: []Value{String("a"), String("b")}},
			},
			want: []Value{String("a"), String("b")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collapseOps(tt.ops)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("collapse mismatch (-want +got):\n%s", diff)
			}

			// Re-expressing the result as one assignment is a fixed point.
			again := collapseOps([]ArrayOp{{Kind: OpAssign, Values: got}})
			if diff := cmp.Diff(got, again); diff != "" {
				t.Fatalf("collapse not idempotent (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKindConflictLenient(t *testing.T) {
	src := []byte(`
class KB { p = 1; };
class KD : KB { p[] = {"x"}; };
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("KD")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	xs, ok := rc.GetStrings("p")
	if !ok {
		t.Fatalf("p should resolve as array")
	}
	if diff := cmp.Diff([]string{"x"}, xs); diff != "" {
		t.Fatalf("p mismatch (-want +got):\n%s", diff)
	}
	if _, ok := rc.GetScalar("p"); ok {
		t.Fatalf("p should no longer be scalar")
	}
}

func TestKindConflictStrict(t *testing.T) {
	src := []byte(`
class KB { p = 1; };
class KD : KB { p[] = {"x"}; };
`)
	reg, err := Parse(src, &ParseOptions{StrictKinds: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = reg.Resolve("KD")
	if !errors.Is(err, ErrPropertyKindConflict) {
		t.Fatalf("expected ErrPropertyKindConflict, got %v", err)
	}

	// The base class alone stays resolvable.
	if _, err := reg.Resolve("KB"); err != nil {
		t.Fatalf("resolve base: %v", err)
	}
}

func TestScalarShadowsArray(t *testing.T) {
	src := []byte(`
class SB { p[] = {"x"}; };
class SD : SB { p = 7; };
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("SD")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if n, ok := rc.GetNumber("p"); !ok || n != 7 {
		t.Fatalf("p should resolve as scalar 7: %v %v", n, ok)
	}
}

func TestValueKinds(t *testing.T) {
	src := []byte(`
class V {
	n = -2.5;
	s = "with ""quotes""";
	e = WEST;
	mixed[] = {1, "two", three};
};
`)
	reg, err := Parse(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("V")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if n, ok := rc.GetNumber("n"); !ok || n != -2.5 {
		t.Fatalf("n mismatch: %v %v", n, ok)
	}
	if s, ok := rc.GetString("s"); !ok || s != `with "quotes"` {
		t.Fatalf("s mismatch: %q %v", s, ok)
	}
	if e, ok := rc.GetString("e"); !ok || e != "WEST" {
		t.Fatalf("bare identifier mismatch: %q %v", e, ok)
	}

	mixed, _ := rc.GetArray("mixed")
	want := []Value{Number(1), String("two"), String("three")}
	if diff := cmp.Diff(want, mixed); diff != "" {
		t.Fatalf("mixed mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertyOrder(t *testing.T) {
	reg, err := DecodeFile(filepath.Join("testdata", "weapons.hpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rc, err := reg.Resolve("WeaponsAddOn")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var names []string
	for _, p := range rc.Properties {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"rifles", "pistols", "shotguns"}, names); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAll(t *testing.T) {
	reg, err := DecodeFile(filepath.Join("testdata", "loadout.hpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	resolved, failed := reg.ResolveAll([]string{"baseMan", "rm", "ar", "missing"})
	if len(resolved) != 3 {
		t.Fatalf("expected 3 resolved, got %d", len(resolved))
	}
	if len(failed) != 1 || !errors.Is(failed["missing"], ErrUnknownClass) {
		t.Fatalf("expected missing to fail with ErrUnknownClass: %v", failed)
	}

	resolved, failed = reg.ResolveAll([]string{"rm", "ar"})
	if failed != nil {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if resolved["ar"].Parent != "rm" {
		t.Fatalf("ar parent mismatch: %q", resolved["ar"].Parent)
	}
}

func TestPredefinedMacros(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Preprocessor().DefineFunc("LIST_2", []string{"x"}, "x,x")

	src := []byte(`class P { xs[] = {LIST_2("a")}; };`)
	if err := reg.AddSource("inline.hpp", src); err != nil {
		t.Fatalf("add: %v", err)
	}

	rc, err := reg.Resolve("P")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	xs, _ := rc.GetStrings("xs")
	if diff := cmp.Diff([]string{"a", "a"}, xs); diff != "" {
		t.Fatalf("xs mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	reg, err := DecodeFile(filepath.Join("testdata", "weapons.hpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	b, err := Format(reg.Defs(), nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	reg2, err := Parse(b, nil)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	want, err := reg.Resolve("WeaponsAddOn")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got, err := reg2.Resolve("WeaponsAddOn")
	if err != nil {
		t.Fatalf("resolve reparsed: %v", err)
	}
	if diff := cmp.Diff(want.Properties, got.Properties); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatResolved(t *testing.T) {
	reg, err := DecodeFile(filepath.Join("testdata", "weapons.hpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rc, err := reg.Resolve("WeaponsAddOn")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	b, err := FormatResolved(rc, nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	// The flattened form must resolve to the same view on its own.
	reg2, err := Parse(b, nil)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	got, err := reg2.Resolve("WeaponsAddOn")
	if err != nil {
		t.Fatalf("resolve flattened: %v", err)
	}
	if got.Parent != "" {
		t.Fatalf("flattened class should be parentless: %q", got.Parent)
	}
	if diff := cmp.Diff(rc.Properties, got.Properties); diff != "" {
		t.Fatalf("flattened mismatch (-want +got):\n%s", diff)
	}
}

func TestBinaryConfigRejected(t *testing.T) {
	data := []byte("\x00raP\x00\x00\x08\x00")
	if _, err := Parse(data, nil); !errors.Is(err, ErrBinaryConfig) {
		t.Fatalf("expected ErrBinaryConfig, got %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"top_level_statement", `foo = 1;`, ErrParse},
		{"missing_semicolon", `class A { a = 1 }`, ErrParse},
		{"unterminated_class", `class A { a = 1;`, ErrParse},
		{"nested_array_literal", `class A { xs[] = {{1}}; };`, ErrParse},
		{"bad_array_operator", `class A { xs[] : {1}; };`, ErrParse},
		{"unterminated_string", `class A { s = "oops; };`, ErrLex},
		{"stray_byte", `class A { @ };`, ErrLex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateTable(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		opt      *ValidateOptions
		wantWarn int
		wantErr  int
	}{
		{
			name:     "clean",
			src:      `class A { a = 1; }; class B : A { b = 2; };`,
			wantWarn: 0,
			wantErr:  0,
		},
		{
			name:     "unknown_parent",
			src:      `class A : Missing { a = 1; };`,
			wantWarn: 0,
			wantErr:  1,
		},
		{
			name:     "cycle_flags_every_member",
			src:      `class A : B {}; class B : A {};`,
			wantWarn: 0,
			wantErr:  2,
		},
		{
			name:     "kind_conflict",
			src:      `class A { p = 1; }; class B : A { p[] = {1}; };`,
			wantWarn: 1,
			wantErr:  0,
		},
		{
			name:     "kind_conflict_disabled",
			src:      `class A { p = 1; }; class B : A { p[] = {1}; };`,
			opt:      &ValidateOptions{DisableKindConflictCheck: true},
			wantWarn: 0,
			wantErr:  0,
		},
		{
			name:     "parent_redeclared",
			src:      `class A {}; class B {}; class X : A {}; class X : B {};`,
			wantWarn: 1,
			wantErr:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Parse([]byte(tt.src), nil)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			issues := Validate(reg, tt.opt)
			var warns, errs int
			for _, it := range issues {
				switch it.Level {
				case IssueWarning:
					warns++
				case IssueError:
					errs++
				}
			}
			if warns != tt.wantWarn || errs != tt.wantErr {
				t.Fatalf("unexpected issues: warnings=%d errors=%d issues=%v", warns, errs, issues)
			}
		})
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
