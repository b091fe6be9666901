// Package session holds the state of one proof under construction: the
// ledger, the pending goal, and the open/closed status. Sessions are
// caller-owned values passed explicitly into every operation; clearing
// means constructing a fresh session, never mutating hidden globals.
// A session is single-user and synchronous: no internal locking.
package session

import (
	"github.com/google/uuid"

	"deduce/internal/ledger"
	"deduce/internal/logic"
)

// Status tracks proof progress. The transition Open -> Closed is
// permanent; a closed proof never reopens.
type Status int

const (
	// Open: the goal has not been certified yet.
	Open Status = iota
	// Closed: a closure rule certified the goal (or, under the auto
	// policy, a derived line matched it).
	Closed
)

func (s Status) String() string {
	if s == Closed {
		return "Closed"
	}
	return "Open"
}

// Session is one proof in progress.
type Session struct {
	ID     uuid.UUID
	Ledger *ledger.Ledger
	Goal   logic.Formula
	Status Status
}

// New returns a fresh open session with an empty ledger. The goal is
// recorded when the checker seeds the axioms.
func New() *Session {
	return &Session{
		ID:     uuid.New(),
		Ledger: ledger.New(),
		Status: Open,
	}
}

// Clear returns a brand-new empty session. The receiver is left
// untouched; callers drop their reference to it, which is the whole
// reset semantics.
func (s *Session) Clear() *Session {
	return New()
}

// Close marks the proof closed. Idempotent.
func (s *Session) Close() {
	s.Status = Closed
}

// Closed reports whether the goal has been certified.
func (s *Session) Closed() bool {
	return s.Status == Closed
}
