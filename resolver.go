package rvcfg

import (
	"fmt"
	"strings"
	"sync"
)

// Resolve builds the fully flattened view of a class: the ancestry chain
// is walked root-first, scalar properties overwrite earlier values, and
// array operations accumulate in chain order before a single collapse.
// The result owns its data and stays valid if the registry is discarded.
func (r *Registry) Resolve(name string) (*ResolvedClass, error) {
	chain, err := r.ancestry(name)
	if err != nil {
		return nil, err
	}

	var order []string
	props := make(map[string]*propState)

	for _, e := range chain {
		for _, def := range e.defs {
			if err := r.foldMembers(def, props, &order); err != nil {
				return nil, err
			}
		}
	}

	leaf := chain[len(chain)-1]
	rc := &ResolvedClass{
		Name:      leaf.display,
		Parent:    r.parentDisplay(leaf),
		Ancestry:  make([]string, 0, len(chain)),
		exactCase: r.opt.DisableCaseInsensitive,
	}
	for _, e := range chain {
		rc.Ancestry = append(rc.Ancestry, e.display)
	}

	rc.Properties = make([]Property, 0, len(order))
	rc.index = make(map[string]int, len(order))
	for _, key := range order {
		st := props[key]
		prop := Property{Name: st.display, IsArray: st.isArray}
		if st.isArray {
			prop.Array = collapseOps(st.ops)
		} else {
			prop.Value = st.scalar
		}
		rc.index[key] = len(rc.Properties)
		rc.Properties = append(rc.Properties, prop)
	}

	return rc, nil
}

// ResolveAll resolves several classes concurrently. The registry must be
// fully populated first; resolution is read-only. Failed names are
// reported per name so batch callers can keep partial results.
func (r *Registry) ResolveAll(names []string) (map[string]*ResolvedClass, map[string]error) {
	resolved := make(map[string]*ResolvedClass, len(names))
	failed := make(map[string]error)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			rc, err := r.Resolve(name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[name] = err
				return
			}
			resolved[name] = rc
		}(name)
	}
	wg.Wait()

	if len(failed) == 0 {
		failed = nil
	}

	return resolved, failed
}

// propState tracks one property while folding the ancestry chain.
type propState struct {
	display string    // Name spelling at first sight
	scalar  Value     // Current scalar value
	ops     []ArrayOp // Pending array operations, root to leaf
	isArray bool      // Current kind
}

// ancestry collects the contribution entries from the root ancestor down
// to the named class, detecting unknown parents and cycles.
func (r *Registry) ancestry(name string) ([]*classEntry, error) {
	e, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}

	var chain []*classEntry
	visited := map[string]bool{}
	cur := e
	curName := name
	for {
		key := r.opt.foldName(cur.display)
		if visited[key] {
			return nil, fmt.Errorf("%w: %s", ErrCyclicInheritance, cycleString(chain, cur))
		}
		visited[key] = true
		chain = append(chain, cur)

		if cur.parent == "" {
			break
		}
		parent, ok := r.lookup(cur.parent)
		if !ok {
			return nil, fmt.Errorf("%w: class %q extends unknown %q", ErrUnknownParent, curName, cur.parent)
		}
		curName = cur.parent
		cur = parent
	}

	// Chain was collected leaf-first; resolution folds root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain, nil
}

// foldMembers merges one contribution into the property table.
func (r *Registry) foldMembers(def *Class, props map[string]*propState, order *[]string) error {
	for _, m := range def.Members {
		switch member := m.(type) {
		case ScalarProperty:
			key := r.opt.foldName(member.Name)
			st, ok := props[key]
			if !ok {
				st = &propState{display: member.Name}
				props[key] = st
				*order = append(*order, key)
			} else if st.isArray {
				if r.opt.StrictKinds {
					return fmt.Errorf("%w: %q redeclared as scalar in class %q", ErrPropertyKindConflict, member.Name, def.Name)
				}
				// Most derived declaration's kind wins.
				st.isArray = false
				st.ops = nil
			}
			st.scalar = member.Value

		case ArrayProperty:
			key := r.opt.foldName(member.Name)
			st, ok := props[key]
			if !ok {
				st = &propState{display: member.Name, isArray: true}
				props[key] = st
				*order = append(*order, key)
			} else if !st.isArray {
				if r.opt.StrictKinds {
					return fmt.Errorf("%w: %q redeclared as array in class %q", ErrPropertyKindConflict, member.Name, def.Name)
				}
				st.isArray = true
				st.scalar = Value{}
			}
			st.ops = append(st.ops, member.Op)

		case NestedClass:
			// Nested classes are independent registry entries, not
			// properties of the enclosing class.
		}
	}

	return nil
}

// parentDisplay returns the effective parent in its registered spelling.
func (r *Registry) parentDisplay(e *classEntry) string {
	if e.parent == "" {
		return ""
	}
	if pe, ok := r.lookup(e.parent); ok {
		return pe.display
	}

	return e.parent
}

// cycleString renders an inheritance cycle for error messages.
func cycleString(chain []*classEntry, repeat *classEntry) string {
	var names []string
	for _, e := range chain {
		names = append(names, e.display)
	}
	names = append(names, repeat.display)

	return strings.Join(names, " -> ")
}
