// Package store persists proof sessions to SQLite so finished and
// in-progress proofs survive the process: the proof header plus every
// ledger line with its structured justification. Formulas are stored
// in their text syntax and re-parsed on load, which the printer/parser
// round-trip guarantees is lossless.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"deduce/internal/ledger"
	"deduce/internal/logic"
	"deduce/internal/session"
)

// Store is the proof archive. Safe for the single-user synchronous
// access pattern of the rest of the system; SQLite's own locking
// covers concurrent process access.
type Store struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

// Open initializes the archive database at path, creating the
// directory and schema as needed.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("set busy_timeout failed", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("set journal_mode=WAL failed", zap.Error(err))
	}

	s := &Store{db: db, path: path, log: log}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("proof archive ready", zap.String("path", path))
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS proofs (
		id TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL,
		goal TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS proof_lines (
		proof_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		role TEXT NOT NULL,
		formula TEXT NOT NULL,
		rule TEXT NOT NULL DEFAULT '',
		cites TEXT NOT NULL DEFAULT '',
		terms TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (proof_id, idx)
	);
	CREATE INDEX IF NOT EXISTS idx_proof_lines_proof ON proof_lines(proof_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: initialize schema: %w", err)
	}
	return nil
}

// Save writes the session and its full ledger, replacing any earlier
// save under the same session ID.
func (s *Store) Save(sess *session.Session) error {
	if sess == nil || sess.Ledger == nil {
		return fmt.Errorf("store: nothing to save")
	}
	goal := ""
	if sess.Goal != nil {
		goal = sess.Goal.String()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO proofs (id, status, goal) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, goal = excluded.goal`,
		sess.ID.String(), sess.Status.String(), goal,
	); err != nil {
		return fmt.Errorf("store: save proof header: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM proof_lines WHERE proof_id = ?`, sess.ID.String()); err != nil {
		return fmt.Errorf("store: clear previous lines: %w", err)
	}

	for _, line := range sess.Ledger.All() {
		if _, err := tx.Exec(
			`INSERT INTO proof_lines (proof_id, idx, role, formula, rule, cites, terms)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sess.ID.String(), line.Index, line.Role.String(), line.Formula.String(),
			line.Just.Rule, joinInts(line.Just.Cites), joinTerms(line.Just.Terms),
		); err != nil {
			return fmt.Errorf("store: save line %d: %w", line.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit save: %w", err)
	}
	s.log.Info("proof saved",
		zap.String("proof", sess.ID.String()),
		zap.Int("lines", sess.Ledger.Len()),
		zap.String("status", sess.Status.String()))
	return nil
}

// Load rebuilds a session from the archive.
func (s *Store) Load(id uuid.UUID) (*session.Session, error) {
	var statusText, goalText string
	err := s.db.QueryRow(`SELECT status, goal FROM proofs WHERE id = ?`, id.String()).
		Scan(&statusText, &goalText)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: proof %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load proof header: %w", err)
	}

	sess := session.New()
	sess.ID = id
	if statusText == session.Closed.String() {
		sess.Status = session.Closed
	}
	if goalText != "" {
		goal, err := logic.Parse(goalText)
		if err != nil {
			return nil, fmt.Errorf("store: parse stored goal: %w", err)
		}
		sess.Goal = goal
	}

	rows, err := s.db.Query(
		`SELECT idx, role, formula, rule, cites, terms FROM proof_lines
		 WHERE proof_id = ? ORDER BY idx`, id.String())
	if err != nil {
		return nil, fmt.Errorf("store: load lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idx int
		var roleText, formulaText, ruleName, citesText, termsText string
		if err := rows.Scan(&idx, &roleText, &formulaText, &ruleName, &citesText, &termsText); err != nil {
			return nil, fmt.Errorf("store: scan line: %w", err)
		}
		role, err := ledger.ParseRole(roleText)
		if err != nil {
			return nil, fmt.Errorf("store: line %d: %w", idx, err)
		}

		var formula logic.Formula
		if role == ledger.Comment {
			formula = logic.Text{S: formulaText}
		} else {
			formula, err = logic.Parse(formulaText)
			if err != nil {
				return nil, fmt.Errorf("store: parse line %d formula: %w", idx, err)
			}
		}

		cites, err := splitInts(citesText)
		if err != nil {
			return nil, fmt.Errorf("store: line %d citations: %w", idx, err)
		}
		terms, err := splitTerms(termsText)
		if err != nil {
			return nil, fmt.Errorf("store: line %d terms: %w", idx, err)
		}

		got := sess.Ledger.Append(role, formula, ledger.Justification{Rule: ruleName, Cites: cites, Terms: terms})
		if got != idx {
			return nil, fmt.Errorf("store: proof %s has non-contiguous line %d (expected %d)", id, idx, got)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate lines: %w", err)
	}
	return sess, nil
}

// Summary is one row of the archive listing.
type Summary struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Status    string
	Goal      string
	Lines     int
}

// List returns every stored proof, most recent first.
func (s *Store) List() ([]Summary, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.created_at, p.status, p.goal, COUNT(l.idx)
		FROM proofs p LEFT JOIN proof_lines l ON l.proof_id = p.id
		GROUP BY p.id ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list proofs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var idText string
		var sum Summary
		if err := rows.Scan(&idText, &sum.CreatedAt, &sum.Status, &sum.Goal, &sum.Lines); err != nil {
			return nil, fmt.Errorf("store: scan summary: %w", err)
		}
		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, fmt.Errorf("store: bad proof id %q: %w", idText, err)
		}
		sum.ID = id
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a stored proof and its lines.
func (s *Store) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin delete: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM proof_lines WHERE proof_id = ?`, id.String()); err != nil {
		return fmt.Errorf("store: delete lines: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM proofs WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("store: delete proof: %w", err)
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return ""
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func joinTerms(ts []logic.Term) string {
	if len(ts) == 0 {
		return ""
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

func splitTerms(s string) ([]logic.Term, error) {
	if s == "" {
		return nil, nil
	}
	var out []logic.Term
	for _, p := range splitTopLevel(s) {
		t, err := logic.ParseTerm(p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// splitTopLevel splits on commas outside parentheses, so function
// terms like succ(zero) survive the round trip.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
