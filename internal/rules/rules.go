// Package rules implements the fixed catalog of natural-deduction
// inference rules. Each rule is a pure function of a ledger snapshot,
// the cited line indices, and optional substitution arguments; it
// either yields a derived formula with its justification or a typed
// failure. Rules never mutate the ledger, so a failed application is
// always a no-op.
package rules

import (
	"errors"
	"fmt"

	"deduce/internal/ledger"
	"deduce/internal/logic"
)

// Failure taxonomy. Every rule failure wraps exactly one of these, and
// all are recoverable values: the session stays usable and the ledger
// unchanged.
var (
	// ErrArityMismatch: wrong number of cited premises or rule arguments.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrShapeMismatch: a cited premise lacks the syntactic shape the
	// rule requires (e.g. Ae cited a non-universal formula).
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrPremiseMismatch: the cited formulas are not related as the rule
	// demands (e.g. modus ponens antecedent disagrees).
	ErrPremiseMismatch = errors.New("premise mismatch")
	// ErrGoalMismatch: a closure rule's derived formula does not match
	// the goal.
	ErrGoalMismatch = errors.New("goal mismatch")
	// ErrNotComplementary: contradiction cited two formulas that are not
	// exact negations of each other.
	ErrNotComplementary = errors.New("not complementary")
	// ErrUnknownRule: a rule name from a script or the REPL did not
	// resolve against the catalog. Inside the catalog the Kind
	// enumeration makes this unrepresentable.
	ErrUnknownRule = errors.New("unknown rule")
)

// Kind enumerates the rule catalog. The closed enumeration replaces
// dispatch by rule-name string, so an unknown rule is impossible past
// the script/REPL boundary.
type Kind int

const (
	// Ae is universal elimination: A x.B(x) with term t yields B(t).
	Ae Kind = iota
	// Ei is existential introduction: B(t) with {t:v} yields E v.B(v).
	Ei
	// AndIntro joins two premises into a conjunction.
	AndIntro
	// AndElimLeft takes the left conjunct of a conjunction.
	AndElimLeft
	// AndElimRight takes the right conjunct of a conjunction.
	AndElimRight
	// OrIntroLeft weakens a premise P to P | Q for a supplied Q.
	OrIntroLeft
	// OrIntroRight weakens a premise P to Q | P for a supplied Q.
	OrIntroRight
	// ImplElim is modus ponens: P -> Q and P yield Q.
	ImplElim
	// TruthIntro derives true from no premises.
	TruthIntro
	// Refl certifies goal closure when a derived line matches the goal.
	Refl
	// Contradiction derives false from P and ~P.
	Contradiction
)

var kindNames = map[Kind]string{
	Ae:            "Ae",
	Ei:            "Ei",
	AndIntro:      "AndIntro",
	AndElimLeft:   "AndElimLeft",
	AndElimRight:  "AndElimRight",
	OrIntroLeft:   "OrIntroLeft",
	OrIntroRight:  "OrIntroRight",
	ImplElim:      "ImplElim",
	TruthIntro:    "TruthIntro",
	Refl:          "Refl",
	Contradiction: "Contradiction",
}

var kindDescriptions = map[Kind]string{
	Ae:            "universal elimination: cite A x.B(x), supply term t, derive B(t)",
	Ei:            "existential introduction: cite B(t), supply term t and variable v, derive E v.B(v)",
	AndIntro:      "conjunction introduction: cite P and Q, derive P & Q",
	AndElimLeft:   "conjunction elimination: cite P & Q, derive P",
	AndElimRight:  "conjunction elimination: cite P & Q, derive Q",
	OrIntroLeft:   "disjunction introduction: cite P, supply Q, derive P | Q",
	OrIntroRight:  "disjunction introduction: cite P, supply Q, derive Q | P",
	ImplElim:      "modus ponens: cite P -> Q and P, derive Q",
	TruthIntro:    "truth introduction: derive true from no premises",
	Refl:          "goal closure: cite the goal line and a matching line",
	Contradiction: "contradiction: cite P and ~P, derive false",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Describe returns a one-line summary of the rule for catalog listings.
func (k Kind) Describe() string {
	return kindDescriptions[k]
}

// Catalog returns every rule kind in declaration order.
func Catalog() []Kind {
	return []Kind{
		Ae, Ei, AndIntro, AndElimLeft, AndElimRight,
		OrIntroLeft, OrIntroRight, ImplElim, TruthIntro,
		Refl, Contradiction,
	}
}

// Lookup resolves a rule name at the script/REPL boundary. It also
// accepts the lower-case spellings used in proof transcripts (ae,
// imple, refl).
func Lookup(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	switch name {
	case "ae":
		return Ae, true
	case "ei":
		return Ei, true
	case "imple":
		return ImplElim, true
	case "refl":
		return Refl, true
	case "contra", "contradiction":
		return Contradiction, true
	}
	return 0, false
}

// Request carries the arguments of one rule application: cited line
// indices plus the rule-specific substitution terms and formulas.
type Request struct {
	Cites []int
	// Terms supplies substitution terms: the instantiation term for Ae,
	// the source term and target variable for Ei.
	Terms []logic.Term
	// Formulas supplies formula arguments: the added disjunct for the
	// OrIntro rules.
	Formulas []logic.Formula
}

// Derivation is a successful rule application: the formula to append
// (the Apply() marker for pure closure steps), its justification, and
// whether the application certifies goal closure on its own.
type Derivation struct {
	Formula logic.Formula
	Just    ledger.Justification
	Closes  bool
}

// Apply runs rule k against a ledger snapshot. On failure the returned
// error wraps one of the taxonomy sentinels (or ledger.ErrOutOfRange
// for citations of unassigned lines).
func Apply(k Kind, led *ledger.Ledger, req Request) (Derivation, error) {
	switch k {
	case Ae:
		return applyAe(led, req)
	case Ei:
		return applyEi(led, req)
	case AndIntro:
		return applyAndIntro(led, req)
	case AndElimLeft:
		return applyAndElim(led, req, true)
	case AndElimRight:
		return applyAndElim(led, req, false)
	case OrIntroLeft:
		return applyOrIntro(led, req, true)
	case OrIntroRight:
		return applyOrIntro(led, req, false)
	case ImplElim:
		return applyImplElim(led, req)
	case TruthIntro:
		return applyTruthIntro(led, req)
	case Refl:
		return applyRefl(led, req)
	case Contradiction:
		return applyContradiction(led, req)
	}
	return Derivation{}, fmt.Errorf("rules: unknown rule kind %d", int(k))
}

func requirePremises(k Kind, req Request, n int) error {
	if len(req.Cites) != n {
		return fmt.Errorf("%s: %w: requires %d premises, found %d", k, ErrArityMismatch, n, len(req.Cites))
	}
	return nil
}

func cite(led *ledger.Ledger, idx int) (ledger.Line, error) {
	line, err := led.Get(idx)
	if err != nil {
		return ledger.Line{}, err
	}
	if line.Role == ledger.Comment {
		return ledger.Line{}, fmt.Errorf("%w: line %d is a comment, not a premise", ErrShapeMismatch, idx)
	}
	return line, nil
}

func applyAe(led *ledger.Ledger, req Request) (Derivation, error) {
	if err := requirePremises(Ae, req, 1); err != nil {
		return Derivation{}, err
	}
	if len(req.Terms) != 1 {
		return Derivation{}, fmt.Errorf("Ae: %w: requires 1 term argument, found %d", ErrArityMismatch, len(req.Terms))
	}
	prem, err := cite(led, req.Cites[0])
	if err != nil {
		return Derivation{}, err
	}
	all, ok := prem.Formula.(logic.Forall)
	if !ok {
		return Derivation{}, fmt.Errorf("Ae: %w: line %d is %s, not universally quantified", ErrShapeMismatch, prem.Index, prem.Formula)
	}
	t := req.Terms[0]
	body, err := logic.SubstFormula(all.Body, map[string]logic.Term{all.Bound: t})
	if err != nil {
		return Derivation{}, fmt.Errorf("Ae: %w: %v", ErrShapeMismatch, err)
	}
	return Derivation{
		Formula: body,
		Just:    ledger.Justification{Rule: Ae.String(), Cites: req.Cites, Terms: req.Terms},
	}, nil
}

func applyEi(led *ledger.Ledger, req Request) (Derivation, error) {
	if err := requirePremises(Ei, req, 1); err != nil {
		return Derivation{}, err
	}
	if len(req.Terms) != 2 {
		return Derivation{}, fmt.Errorf("Ei: %w: requires term and variable arguments, found %d", ErrArityMismatch, len(req.Terms))
	}
	v, ok := req.Terms[1].(logic.Var)
	if !ok {
		return Derivation{}, fmt.Errorf("Ei: %w: second argument %s must be a variable", ErrShapeMismatch, req.Terms[1])
	}
	prem, err := cite(led, req.Cites[0])
	if err != nil {
		return Derivation{}, err
	}
	for _, free := range logic.FreeVars(prem.Formula) {
		if free == v.Name {
			return Derivation{}, fmt.Errorf("Ei: %w: variable %s already appears free in line %d", ErrShapeMismatch, v.Name, prem.Index)
		}
	}
	body := logic.ReplaceInFormula(prem.Formula, req.Terms[0], v)
	return Derivation{
		Formula: logic.Exists{Bound: v.Name, Body: body},
		Just:    ledger.Justification{Rule: Ei.String(), Cites: req.Cites, Terms: req.Terms},
	}, nil
}

func applyAndIntro(led *ledger.Ledger, req Request) (Derivation, error) {
	if err := requirePremises(AndIntro, req, 2); err != nil {
		return Derivation{}, err
	}
	left, err := cite(led, req.Cites[0])
	if err != nil {
		return Derivation{}, err
	}
	right, err := cite(led, req.Cites[1])
	if err != nil {
		return Derivation{}, err
	}
	return Derivation{
		Formula: logic.And{Left: left.Formula, Right: right.Formula},
		Just:    ledger.Justification{Rule: AndIntro.String(), Cites: req.Cites},
	}, nil
}

func applyAndElim(led *ledger.Ledger, req Request, takeLeft bool) (Derivation, error) {
	k := AndElimRight
	if takeLeft {
		k = AndElimLeft
	}
	if err := requirePremises(k, req, 1); err != nil {
		return Derivation{}, err
	}
	prem, err := cite(led, req.Cites[0])
	if err != nil {
		return Derivation{}, err
	}
	conj, ok := prem.Formula.(logic.And)
	if !ok {
		return Derivation{}, fmt.Errorf("%s: %w: line %d is %s, not a conjunction", k, ErrShapeMismatch, prem.Index, prem.Formula)
	}
	picked := conj.Right
	if takeLeft {
		picked = conj.Left
	}
	return Derivation{
		Formula: picked,
		Just:    ledger.Justification{Rule: k.String(), Cites: req.Cites},
	}, nil
}

func applyOrIntro(led *ledger.Ledger, req Request, premiseLeft bool) (Derivation, error) {
	k := OrIntroRight
	if premiseLeft {
		k = OrIntroLeft
	}
	if err := requirePremises(k, req, 1); err != nil {
		return Derivation{}, err
	}
	if len(req.Formulas) != 1 {
		return Derivation{}, fmt.Errorf("%s: %w: requires 1 formula argument, found %d", k, ErrArityMismatch, len(req.Formulas))
	}
	prem, err := cite(led, req.Cites[0])
	if err != nil {
		return Derivation{}, err
	}
	added := req.Formulas[0]
	out := logic.Or{Left: added, Right: prem.Formula}
	if premiseLeft {
		out = logic.Or{Left: prem.Formula, Right: added}
	}
	return Derivation{
		Formula: out,
		Just:    ledger.Justification{Rule: k.String(), Cites: req.Cites},
	}, nil
}

func applyImplElim(led *ledger.Ledger, req Request) (Derivation, error) {
	if err := requirePremises(ImplElim, req, 2); err != nil {
		return Derivation{}, err
	}
	major, err := cite(led, req.Cites[0])
	if err != nil {
		return Derivation{}, err
	}
	minor, err := cite(led, req.Cites[1])
	if err != nil {
		return Derivation{}, err
	}
	impl, ok := major.Formula.(logic.Impl)
	if !ok {
		return Derivation{}, fmt.Errorf("ImplElim: %w: line %d is %s, not an implication", ErrShapeMismatch, major.Index, major.Formula)
	}
	if !impl.Left.Equal(minor.Formula) {
		return Derivation{}, fmt.Errorf("ImplElim: %w: antecedent %s does not match line %d (%s)",
			ErrPremiseMismatch, impl.Left, minor.Index, minor.Formula)
	}
	return Derivation{
		Formula: impl.Right,
		Just:    ledger.Justification{Rule: ImplElim.String(), Cites: req.Cites},
	}, nil
}

func applyTruthIntro(_ *ledger.Ledger, req Request) (Derivation, error) {
	if err := requirePremises(TruthIntro, req, 0); err != nil {
		return Derivation{}, err
	}
	return Derivation{
		Formula: logic.Truth{},
		Just:    ledger.Justification{Rule: TruthIntro.String()},
	}, nil
}

func applyRefl(led *ledger.Ledger, req Request) (Derivation, error) {
	if err := requirePremises(Refl, req, 2); err != nil {
		return Derivation{}, err
	}
	goal, err := cite(led, req.Cites[0])
	if err != nil {
		return Derivation{}, err
	}
	if goal.Role != ledger.Goal {
		return Derivation{}, fmt.Errorf("Refl: %w: line %d has role %s, first premise must cite the goal",
			ErrGoalMismatch, goal.Index, goal.Role)
	}
	derived, err := cite(led, req.Cites[1])
	if err != nil {
		return Derivation{}, err
	}
	if !goal.Formula.Equal(derived.Formula) {
		return Derivation{}, fmt.Errorf("Refl: %w: line %d (%s) does not match goal (%s)",
			ErrGoalMismatch, derived.Index, derived.Formula, goal.Formula)
	}
	return Derivation{
		Formula: logic.Apply{},
		Just:    ledger.Justification{Rule: Refl.String(), Cites: req.Cites},
		Closes:  true,
	}, nil
}

func applyContradiction(led *ledger.Ledger, req Request) (Derivation, error) {
	if err := requirePremises(Contradiction, req, 2); err != nil {
		return Derivation{}, err
	}
	first, err := cite(led, req.Cites[0])
	if err != nil {
		return Derivation{}, err
	}
	second, err := cite(led, req.Cites[1])
	if err != nil {
		return Derivation{}, err
	}
	if !complementary(first.Formula, second.Formula) {
		return Derivation{}, fmt.Errorf("Contradiction: %w: %s and %s are not exact negations",
			ErrNotComplementary, first.Formula, second.Formula)
	}
	return Derivation{
		Formula: logic.Falsum{},
		Just:    ledger.Justification{Rule: Contradiction.String(), Cites: req.Cites},
	}, nil
}

func complementary(a, b logic.Formula) bool {
	if neg, ok := a.(logic.Not); ok && neg.Body.Equal(b) {
		return true
	}
	if neg, ok := b.(logic.Not); ok && neg.Body.Equal(a) {
		return true
	}
	return false
}
