package rvcfg

import (
	"errors"
	"fmt"
)

// IssueLevel represents severity of a validation issue.
type IssueLevel string

const (
	// IssueError indicates a validation error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue represents a validation issue found in a populated registry.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                     // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"`   // Machine-readable code
	Message string     `json:"message" yaml:"message"`                 // Issue message
	Class   string     `json:"class,omitempty" yaml:"class,omitempty"` // Affected class
}

// Validate lints a populated registry without resolving on behalf of the
// caller: unknown parents, inheritance cycles, scalar/array kind
// conflicts, and reopenings that rebind an already declared parent.
func Validate(r *Registry, opt *ValidateOptions) []Issue {
	vopt := opt.normalize()
	var out []Issue

	for _, key := range r.names {
		e := r.entries[key]

		if _, err := r.ancestry(e.display); err != nil {
			switch {
			case errors.Is(err, ErrCyclicInheritance):
				out = append(out, Issue{
					Level:   IssueError,
					Code:    "cyclic_inheritance",
					Message: err.Error(),
					Class:   e.display,
				})
			case errors.Is(err, ErrUnknownParent):
				out = append(out, Issue{
					Level:   IssueError,
					Code:    "unknown_parent",
					Message: err.Error(),
					Class:   e.display,
				})
			}
			continue
		}

		if !vopt.DisableKindConflictCheck {
			out = append(out, kindConflicts(r, e)...)
		}

		if !vopt.DisableParentRedeclarationCheck {
			out = append(out, parentRedeclarations(r, e)...)
		}
	}

	return out
}

// kindConflicts reruns the property fold in strict mode to surface
// scalar/array redeclarations along the chain.
func kindConflicts(r *Registry, e *classEntry) []Issue {
	chain, err := r.ancestry(e.display)
	if err != nil {
		return nil
	}

	strict := *r
	strict.opt.StrictKinds = true

	var order []string
	props := make(map[string]*propState)
	for _, ancestor := range chain {
		for _, def := range ancestor.defs {
			if err := strict.foldMembers(def, props, &order); err != nil {
				return []Issue{{
					Level:   IssueWarning,
					Code:    "kind_conflict",
					Message: err.Error(),
					Class:   e.display,
				}}
			}
		}
	}

	return nil
}

// parentRedeclarations reports reopenings that name a different parent
// than an earlier contribution.
func parentRedeclarations(r *Registry, e *classEntry) []Issue {
	var out []Issue
	declared := ""
	for _, def := range e.defs {
		if def.Parent == "" {
			continue
		}
		if declared != "" && r.opt.foldName(def.Parent) != r.opt.foldName(declared) {
			out = append(out, Issue{
				Level: IssueWarning,
				Code:  "parent_redeclared",
				Message: fmt.Sprintf("class %q reopened with parent %q after %q",
					e.display, def.Parent, declared),
				Class: e.display,
			})
		}
		declared = def.Parent
	}

	return out
}
