/*
Package rvcfg parses and resolves Real Virtuality class-config files
(config.cpp / .hpp dialect): nested, inheriting class records with scalar
and array properties, `+=`/`-=` array-merge operators, and preprocessor
#include and #define directives.

A Registry accumulates class definitions across one or more sources, then
answers resolution queries with the fully flattened view of a class: all
inherited properties merged root-first and all array operations collapsed
in declaration order. Populate the registry completely before resolving;
resolution never mutates it, so independent Resolve calls may run
concurrently once population is done.

Reader example:

	reg, err := rvcfg.DecodeFile("config.cpp", nil)
	if err != nil {
		// handle error
	}
	rc, err := reg.Resolve("Rifleman")
	if err != nil {
		// handle error
	}
	items, _ := rc.GetStrings("items")
	_ = items

Multi-file session with in-memory sources:

	reg := rvcfg.NewRegistry(&rvcfg.ParseOptions{
		Reader: rvcfg.MapReader{"macros.hpp": `#define LIST_2(x) x,x`},
	})
	if err := reg.AddSource("loadout.hpp", src); err != nil {
		// handle error
	}

Writer example:

	out, err := rvcfg.Format(reg.Defs(), nil)
	if err != nil {
		// handle error
	}

Validator example:

	issues := rvcfg.Validate(reg, nil)
	if len(issues) != 0 {
		// handle validation issues
	}
*/
package rvcfg
