// Package logic defines the symbolic model for first-order natural
// deduction: terms, formulas, structural equality, capture-checked
// substitution, and a small text syntax used by proof scripts and the
// REPL. Values are immutable once constructed; all comparisons are
// structural, never by identity.
package logic

import (
	"fmt"
	"sort"
	"strings"
)

// Term is an expression with a non-boolean value: a variable, a named
// constant, or a function application.
type Term interface {
	isTerm()

	// Equal reports structural equality with another term.
	Equal(Term) bool

	// subst replaces free variables by name. Terms contain no binders,
	// so every occurrence is replaced.
	subst(sub map[string]Term) Term

	freeVars(set map[string]struct{})

	fmt.Stringer
}

// Var is a bindable variable, identified by name.
type Var struct {
	Name string
}

// Const is a named individual, e.g. c_127.
type Const struct {
	Name string
}

// Fn is a function application: a function symbol with ordered arguments.
type Fn struct {
	Name string
	Args []Term
}

func (Var) isTerm() {}
func (Const) isTerm() {}
func (Fn) isTerm() {}

func (v Var) Equal(other Term) bool {
	o, ok := other.(Var)
	return ok && o.Name == v.Name
}

func (c Const) Equal(other Term) bool {
	o, ok := other.(Const)
	return ok && o.Name == c.Name
}

func (f Fn) Equal(other Term) bool {
	o, ok := other.(Fn)
	if !ok || o.Name != f.Name || len(o.Args) != len(f.Args) {
		return false
	}
	for i, arg := range f.Args {
		if !arg.Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func (v Var) subst(sub map[string]Term) Term {
	if t, ok := sub[v.Name]; ok {
		return t
	}
	return v
}

func (c Const) subst(map[string]Term) Term { return c }

func (f Fn) subst(sub map[string]Term) Term {
	args := make([]Term, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.subst(sub)
	}
	return Fn{Name: f.Name, Args: args}
}

func (v Var) freeVars(set map[string]struct{}) { set[v.Name] = struct{}{} }
func (Const) freeVars(map[string]struct{}) {}
func (f Fn) freeVars(set map[string]struct{}) {
	for _, arg := range f.Args {
		arg.freeVars(set)
	}
}

func (v Var) String() string { return v.Name }
func (c Const) String() string { return c.Name }

func (f Fn) String() string {
	parts := make([]string, len(f.Args))
	for i, arg := range f.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(parts, ","))
}

// TermFreeVars returns the names of variables occurring in t, sorted.
func TermFreeVars(t Term) []string {
	set := make(map[string]struct{})
	t.freeVars(set)
	return sortedNames(set)
}

// SubstTerm replaces free variables in t according to sub.
func SubstTerm(t Term, sub map[string]Term) Term {
	return t.subst(sub)
}

// ReplaceTerm returns t with every occurrence of old replaced by repl.
// Used by existential introduction, which abstracts a term into a
// bound variable.
func ReplaceTerm(t, old, repl Term) Term {
	if t.Equal(old) {
		return repl
	}
	if f, ok := t.(Fn); ok {
		args := make([]Term, len(f.Args))
		for i, arg := range f.Args {
			args[i] = ReplaceTerm(arg, old, repl)
		}
		return Fn{Name: f.Name, Args: args}
	}
	return t
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
