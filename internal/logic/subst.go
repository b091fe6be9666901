package logic

import "fmt"

// SubstFormula replaces free variables in f according to sub, failing
// when a replacement term would be captured by a quantifier inside f.
// The substitution is simultaneous: replacement terms are never
// re-substituted.
func SubstFormula(f Formula, sub map[string]Term) (Formula, error) {
	for name, t := range sub {
		if captured, bound := wouldCapture(f, name, t, nil); captured {
			return nil, fmt.Errorf("term %s for %s would be captured by bound variable %s", t, name, bound)
		}
	}
	return f.subst(sub), nil
}

// wouldCapture walks f looking for a free occurrence of name that sits
// under a quantifier binding one of t's free variables.
func wouldCapture(f Formula, name string, t Term, binders []string) (bool, string) {
	switch form := f.(type) {
	case Rel:
		if !occursFree(f, name) {
			return false, ""
		}
		for _, v := range TermFreeVars(t) {
			for _, b := range binders {
				if v == b {
					return true, b
				}
			}
		}
		return false, ""
	case Not:
		return wouldCapture(form.Body, name, t, binders)
	case And:
		if c, b := wouldCapture(form.Left, name, t, binders); c {
			return true, b
		}
		return wouldCapture(form.Right, name, t, binders)
	case Or:
		if c, b := wouldCapture(form.Left, name, t, binders); c {
			return true, b
		}
		return wouldCapture(form.Right, name, t, binders)
	case Impl:
		if c, b := wouldCapture(form.Left, name, t, binders); c {
			return true, b
		}
		return wouldCapture(form.Right, name, t, binders)
	case Forall:
		if form.Bound == name {
			return false, "" // shadowed, no free occurrence below
		}
		return wouldCapture(form.Body, name, t, append(binders, form.Bound))
	case Exists:
		if form.Bound == name {
			return false, ""
		}
		return wouldCapture(form.Body, name, t, append(binders, form.Bound))
	}
	return false, ""
}

func occursFree(f Formula, name string) bool {
	for _, v := range FreeVars(f) {
		if v == name {
			return true
		}
	}
	return false
}

// ReplaceInFormula returns f with every term occurrence of old
// replaced by repl. Quantifier structure is preserved; used by
// existential introduction.
func ReplaceInFormula(f Formula, old, repl Term) Formula {
	switch form := f.(type) {
	case Rel:
		args := make([]Term, len(form.Args))
		for i, arg := range form.Args {
			args[i] = ReplaceTerm(arg, old, repl)
		}
		return Rel{Name: form.Name, Args: args}
	case Not:
		return Not{Body: ReplaceInFormula(form.Body, old, repl)}
	case And:
		return And{Left: ReplaceInFormula(form.Left, old, repl), Right: ReplaceInFormula(form.Right, old, repl)}
	case Or:
		return Or{Left: ReplaceInFormula(form.Left, old, repl), Right: ReplaceInFormula(form.Right, old, repl)}
	case Impl:
		return Impl{Left: ReplaceInFormula(form.Left, old, repl), Right: ReplaceInFormula(form.Right, old, repl)}
	case Forall:
		return Forall{Bound: form.Bound, Body: ReplaceInFormula(form.Body, old, repl)}
	case Exists:
		return Exists{Bound: form.Bound, Body: ReplaceInFormula(form.Body, old, repl)}
	}
	return f
}
