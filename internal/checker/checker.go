// Package checker validates axiom sets, seeds proof sessions, and
// drives rule applications against the ledger. Every application is
// atomic: either one line is appended, or the ledger is untouched and
// the failure is reported as a value.
package checker

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"deduce/internal/ledger"
	"deduce/internal/logic"
	"deduce/internal/rules"
	"deduce/internal/session"
)

// ErrInvalidAxiomSet is returned when the declared axioms do not form
// a well-posed proof (wrong goal count, missing formula, reserved
// placeholder).
var ErrInvalidAxiomSet = errors.New("invalid axiom set")

// Axiom is one declared proof line: a role and its formula (Text
// payload for comments).
type Axiom struct {
	Role    ledger.Role
	Formula logic.Formula
}

// ClosurePolicy selects how a proof is certified closed. Reasonable
// workflows differ on whether closure must be explicit, so the
// condition is configurable rather than hard-coded.
type ClosurePolicy int

const (
	// CloseByRule closes only when Refl (or Contradiction against a
	// false goal) certifies the goal. Default.
	CloseByRule ClosurePolicy = iota
	// CloseAuto additionally closes as soon as any derived line
	// structurally equals the goal.
	CloseAuto
)

// ParseClosurePolicy reads a policy from its config spelling.
func ParseClosurePolicy(s string) (ClosurePolicy, error) {
	switch s {
	case "", "rule":
		return CloseByRule, nil
	case "auto":
		return CloseAuto, nil
	}
	return 0, fmt.Errorf("checker: unknown closure policy %q (want rule or auto)", s)
}

// Checker validates and drives proof sessions.
type Checker struct {
	policy ClosurePolicy
	log    *zap.Logger
}

// New returns a checker with the given closure policy. A nil logger is
// replaced with a no-op logger.
func New(policy ClosurePolicy, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{policy: policy, log: log}
}

// Check validates the axiom set and seeds a fresh session: exactly one
// Goal entry, any number of Given and Comment entries, every axiom
// appended in declared order. On failure no session is created, which
// leaves any previous ledger the caller holds unmodified.
func (c *Checker) Check(axioms []Axiom) (*session.Session, error) {
	goals := 0
	for _, ax := range axioms {
		if ax.Formula == nil {
			return nil, fmt.Errorf("%w: axiom without formula", ErrInvalidAxiomSet)
		}
		switch ax.Role {
		case ledger.Goal:
			goals++
		case ledger.Given, ledger.Comment:
		default:
			return nil, fmt.Errorf("%w: role %s cannot be declared", ErrInvalidAxiomSet, ax.Role)
		}
		if _, isApply := ax.Formula.(logic.Apply); isApply {
			return nil, fmt.Errorf("%w: Apply() is reserved for closure steps", ErrInvalidAxiomSet)
		}
	}
	if goals != 1 {
		return nil, fmt.Errorf("%w: requires 1 goal, found %d", ErrInvalidAxiomSet, goals)
	}

	sess := session.New()
	for _, ax := range axioms {
		sess.Ledger.Append(ax.Role, ax.Formula, ledger.Justification{})
		if ax.Role == ledger.Goal {
			sess.Goal = ax.Formula
		}
	}
	c.log.Info("proof seeded",
		zap.String("session", sess.ID.String()),
		zap.Int("axioms", len(axioms)),
		zap.String("goal", sess.Goal.String()))
	return sess, nil
}

// Outcome reports one rule application. Failures are values, never
// panics: Failed is set, Message carries the printable "Fail: ..."
// report, and the ledger is guaranteed unchanged.
type Outcome struct {
	Line    ledger.Line
	Failed  bool
	Message string
	Closed  bool
}

// Apply dispatches rule k against the session's ledger. A returned
// error means the call itself was malformed (nil session); rule
// failures come back inside the Outcome.
func (c *Checker) Apply(sess *session.Session, k rules.Kind, req rules.Request) (Outcome, error) {
	if sess == nil || sess.Ledger == nil {
		return Outcome{}, errors.New("checker: no session seeded; call Check first")
	}

	d, err := rules.Apply(k, sess.Ledger, req)
	if err != nil {
		c.log.Debug("rule application failed",
			zap.String("session", sess.ID.String()),
			zap.String("rule", k.String()),
			zap.Ints("cites", req.Cites),
			zap.Error(err))
		return Outcome{Failed: true, Message: "Fail: " + err.Error()}, nil
	}

	idx := sess.Ledger.Append(ledger.Derived, d.Formula, d.Just)
	line, _ := sess.Ledger.Get(idx)

	closed := c.certifiesClosure(sess, d)
	if closed {
		sess.Close()
	}
	c.log.Info("rule applied",
		zap.String("session", sess.ID.String()),
		zap.String("rule", k.String()),
		zap.Int("line", idx),
		zap.Bool("closed", sess.Closed()))
	return Outcome{Line: line, Closed: sess.Closed()}, nil
}

// certifiesClosure applies the configured closure policy to a
// successful derivation.
func (c *Checker) certifiesClosure(sess *session.Session, d rules.Derivation) bool {
	if d.Closes {
		return true
	}
	if sess.Goal == nil {
		return false
	}
	// Contradiction certifies a refutation proof: goal false, false derived.
	if d.Just.Rule == rules.Contradiction.String() && sess.Goal.Equal(logic.Falsum{}) && sess.Goal.Equal(d.Formula) {
		return true
	}
	if c.policy == CloseAuto && sess.Goal.Equal(d.Formula) {
		return true
	}
	return false
}
