// Package ledger implements the append-only proof ledger: an ordered
// record of numbered lines, each carrying a formula, a role, and a
// structured justification. Lines are never mutated or removed, so the
// full derivation history stays auditable.
package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"deduce/internal/logic"
)

// ErrOutOfRange is returned when a cited line index has not been
// assigned yet.
var ErrOutOfRange = errors.New("ledger: line out of range")

// Role classifies a ledger line.
type Role int

const (
	// Comment lines carry annotation text, never rule premises.
	Comment Role = iota
	// Given lines are axioms assumed without derivation.
	Given
	// Goal is the formula the proof must derive. Exactly one per proof.
	Goal
	// Derived lines are produced by rule applications.
	Derived
)

func (r Role) String() string {
	switch r {
	case Comment:
		return "Comment"
	case Given:
		return "Given"
	case Goal:
		return "Goal"
	case Derived:
		return "Derived"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole reads a role from its lower- or mixed-case name.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comment":
		return Comment, nil
	case "given":
		return Given, nil
	case "goal":
		return Goal, nil
	case "derived":
		return Derived, nil
	}
	return 0, fmt.Errorf("ledger: unknown role %q", s)
}

// Justification records how a line came to exist: the rule that
// produced it, the lines it consumed, and any substitution terms.
// Axiom lines carry a zero Justification. Text is rendered only at the
// display boundary; the structured fields stay available for replay
// and audit.
type Justification struct {
	Rule  string
	Cites []int
	Terms []logic.Term
}

// IsZero reports whether the line was declared rather than derived.
func (j Justification) IsZero() bool {
	return j.Rule == "" && len(j.Cites) == 0 && len(j.Terms) == 0
}

func (j Justification) String() string {
	if j.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString(j.Rule)
	if len(j.Cites) > 0 {
		parts := make([]string, len(j.Cites))
		for i, c := range j.Cites {
			parts[i] = strconv.Itoa(c)
		}
		b.WriteString(" ")
		b.WriteString(strings.Join(parts, ","))
	}
	if len(j.Terms) > 0 {
		parts := make([]string, len(j.Terms))
		for i, t := range j.Terms {
			parts[i] = t.String()
		}
		b.WriteString(" with ")
		b.WriteString(strings.Join(parts, ","))
	}
	return b.String()
}

// Line is one numbered entry in the ledger.
type Line struct {
	Index   int
	Formula logic.Formula
	Role    Role
	Just    Justification
}

// Label is the rightmost listing column: the role name for declared
// lines, the justification for derived ones.
func (l Line) Label() string {
	if l.Role == Derived && !l.Just.IsZero() {
		return l.Just.String()
	}
	return l.Role.String()
}

// Ledger is the ordered, append-only sequence of proof lines. Indices
// are contiguous, starting at 1.
type Ledger struct {
	lines []Line
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds a line and returns its assigned index.
func (l *Ledger) Append(role Role, f logic.Formula, just Justification) int {
	idx := len(l.lines) + 1
	l.lines = append(l.lines, Line{Index: idx, Formula: f, Role: role, Just: just})
	return idx
}

// Get returns the line at idx, or ErrOutOfRange if it has not been
// assigned.
func (l *Ledger) Get(idx int) (Line, error) {
	if idx < 1 || idx > len(l.lines) {
		return Line{}, fmt.Errorf("%w: %d (ledger has %d lines)", ErrOutOfRange, idx, len(l.lines))
	}
	return l.lines[idx-1], nil
}

// Len returns the number of lines appended so far.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// All returns a copy of every line in order. The copy is safe to
// iterate repeatedly and never reflects later appends.
func (l *Ledger) All() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// formulaColumn is the left column width of a listing row. Longer
// formulas overflow rather than truncate.
const formulaColumn = 58

// Listing renders the ledger in the fixed-width transcript format:
//
//	NaturalNumber(c_127)                                          (2)  Given
func (l *Ledger) Listing() string {
	var b strings.Builder
	for _, line := range l.lines {
		b.WriteString(FormatLine(line))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatLine renders a single listing row.
func FormatLine(line Line) string {
	return fmt.Sprintf("%-*s %4s  %s", formulaColumn, line.Formula.String(), "("+strconv.Itoa(line.Index)+")", line.Label())
}
