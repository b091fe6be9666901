package logic

import (
	"fmt"
	"strings"
)

// Formula is a symbolic boolean-valued expression. Formulas are
// compared by structure only; there is no evaluation or
// simplification anywhere in the model.
type Formula interface {
	isFormula()

	// Equal reports structural equality with another formula. Bound
	// variables are compared by name, not up to renaming: A x.P(x)
	// and A y.P(y) are distinct formulas.
	Equal(Formula) bool

	// subst replaces free variables by name, skipping occurrences
	// shadowed by a quantifier. Capture is not detected here; use
	// SubstFormula for the checked entry point.
	subst(sub map[string]Term) Formula

	freeVars(set map[string]struct{})

	fmt.Stringer
}

// Rel is an atomic relation: a predicate symbol applied to ordered
// terms. A zero-argument Rel is a propositional letter.
type Rel struct {
	Name string
	Args []Term
}

// Truth is the constant true formula.
type Truth struct{}

// Falsum is the constant false formula, derived by contradiction.
type Falsum struct{}

// Not is negation.
type Not struct {
	Body Formula
}

// And is conjunction.
type And struct {
	Left, Right Formula
}

// Or is disjunction.
type Or struct {
	Left, Right Formula
}

// Impl is implication: Left is the antecedent, Right the consequent.
type Impl struct {
	Left, Right Formula
}

// Forall is universal quantification over the named bound variable.
type Forall struct {
	Bound string
	Body  Formula
}

// Exists is existential quantification over the named bound variable.
type Exists struct {
	Bound string
	Body  Formula
}

// Text is a comment payload carried on Comment ledger lines. It has no
// logical content and never matches any rule premise.
type Text struct {
	S string
}

// Apply is the placeholder appended when a closure rule fires without
// producing new propositional content.
type Apply struct{}

func (Rel) isFormula() {}
func (Truth) isFormula() {}
func (Falsum) isFormula() {}
func (Not) isFormula() {}
func (And) isFormula() {}
func (Or) isFormula() {}
func (Impl) isFormula() {}
func (Forall) isFormula() {}
func (Exists) isFormula() {}
func (Text) isFormula() {}
func (Apply) isFormula() {}

func (r Rel) Equal(other Formula) bool {
	o, ok := other.(Rel)
	if !ok || o.Name != r.Name || len(o.Args) != len(r.Args) {
		return false
	}
	for i, arg := range r.Args {
		if !arg.Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func (Truth) Equal(other Formula) bool {
	_, ok := other.(Truth)
	return ok
}

func (Falsum) Equal(other Formula) bool {
	_, ok := other.(Falsum)
	return ok
}

func (n Not) Equal(other Formula) bool {
	o, ok := other.(Not)
	return ok && n.Body.Equal(o.Body)
}

func (a And) Equal(other Formula) bool {
	o, ok := other.(And)
	return ok && a.Left.Equal(o.Left) && a.Right.Equal(o.Right)
}

func (d Or) Equal(other Formula) bool {
	o, ok := other.(Or)
	return ok && d.Left.Equal(o.Left) && d.Right.Equal(o.Right)
}

func (i Impl) Equal(other Formula) bool {
	o, ok := other.(Impl)
	return ok && i.Left.Equal(o.Left) && i.Right.Equal(o.Right)
}

func (f Forall) Equal(other Formula) bool {
	o, ok := other.(Forall)
	return ok && o.Bound == f.Bound && f.Body.Equal(o.Body)
}

func (e Exists) Equal(other Formula) bool {
	o, ok := other.(Exists)
	return ok && o.Bound == e.Bound && e.Body.Equal(o.Body)
}

func (t Text) Equal(other Formula) bool {
	o, ok := other.(Text)
	return ok && o.S == t.S
}

func (Apply) Equal(other Formula) bool {
	_, ok := other.(Apply)
	return ok
}

func (r Rel) subst(sub map[string]Term) Formula {
	args := make([]Term, len(r.Args))
	for i, arg := range r.Args {
		args[i] = arg.subst(sub)
	}
	return Rel{Name: r.Name, Args: args}
}

func (t Truth) subst(map[string]Term) Formula { return t }
func (f Falsum) subst(map[string]Term) Formula { return f }

func (n Not) subst(sub map[string]Term) Formula {
	return Not{Body: n.Body.subst(sub)}
}

func (a And) subst(sub map[string]Term) Formula {
	return And{Left: a.Left.subst(sub), Right: a.Right.subst(sub)}
}

func (d Or) subst(sub map[string]Term) Formula {
	return Or{Left: d.Left.subst(sub), Right: d.Right.subst(sub)}
}

func (i Impl) subst(sub map[string]Term) Formula {
	return Impl{Left: i.Left.subst(sub), Right: i.Right.subst(sub)}
}

func (f Forall) subst(sub map[string]Term) Formula {
	return Forall{Bound: f.Bound, Body: f.Body.subst(without(sub, f.Bound))}
}

func (e Exists) subst(sub map[string]Term) Formula {
	return Exists{Bound: e.Bound, Body: e.Body.subst(without(sub, e.Bound))}
}

func (t Text) subst(map[string]Term) Formula { return t }
func (a Apply) subst(map[string]Term) Formula { return a }

func (r Rel) freeVars(set map[string]struct{}) {
	for _, arg := range r.Args {
		arg.freeVars(set)
	}
}

func (Truth) freeVars(map[string]struct{}) {}
func (Falsum) freeVars(map[string]struct{}) {}

func (n Not) freeVars(set map[string]struct{}) { n.Body.freeVars(set) }

func (a And) freeVars(set map[string]struct{}) {
	a.Left.freeVars(set)
	a.Right.freeVars(set)
}

func (d Or) freeVars(set map[string]struct{}) {
	d.Left.freeVars(set)
	d.Right.freeVars(set)
}

func (i Impl) freeVars(set map[string]struct{}) {
	i.Left.freeVars(set)
	i.Right.freeVars(set)
}

func (f Forall) freeVars(set map[string]struct{}) {
	inner := make(map[string]struct{})
	f.Body.freeVars(inner)
	delete(inner, f.Bound)
	for name := range inner {
		set[name] = struct{}{}
	}
}

func (e Exists) freeVars(set map[string]struct{}) {
	inner := make(map[string]struct{})
	e.Body.freeVars(inner)
	delete(inner, e.Bound)
	for name := range inner {
		set[name] = struct{}{}
	}
}

func (Text) freeVars(map[string]struct{}) {}
func (Apply) freeVars(map[string]struct{}) {}

func (r Rel) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	parts := make([]string, len(r.Args))
	for i, arg := range r.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", r.Name, strings.Join(parts, ","))
}

func (Truth) String() string { return "true" }
func (Falsum) String() string { return "false" }

func (n Not) String() string {
	return "~" + parenInfix(n.Body)
}

func (a And) String() string {
	return fmt.Sprintf("%s & %s", parenInfix(a.Left), parenInfix(a.Right))
}

func (d Or) String() string {
	return fmt.Sprintf("%s | %s", parenInfix(d.Left), parenInfix(d.Right))
}

func (i Impl) String() string {
	return fmt.Sprintf("%s -> %s", parenInfix(i.Left), parenInfix(i.Right))
}

func (f Forall) String() string {
	return fmt.Sprintf("A %s.%s", f.Bound, parenInfix(f.Body))
}

func (e Exists) String() string {
	return fmt.Sprintf("E %s.%s", e.Bound, parenInfix(e.Body))
}

func (t Text) String() string { return t.S }

func (Apply) String() string { return "Apply()" }

// parenInfix wraps binary connectives in parentheses when they appear
// as an operand; prefix and atomic operands print bare.
func parenInfix(f Formula) string {
	switch f.(type) {
	case And, Or, Impl:
		return "(" + f.String() + ")"
	}
	return f.String()
}

// FreeVars returns the names of variables occurring free in f, sorted.
func FreeVars(f Formula) []string {
	set := make(map[string]struct{})
	f.freeVars(set)
	return sortedNames(set)
}

func without(sub map[string]Term, name string) map[string]Term {
	if _, ok := sub[name]; !ok {
		return sub
	}
	trimmed := make(map[string]Term, len(sub))
	for k, v := range sub {
		if k != name {
			trimmed[k] = v
		}
	}
	return trimmed
}
