// Package audit cross-checks a proof ledger with a Datalog program:
// the ledger is exported as facts and Mangle derives which citations
// resolve to existing lines. The audit is an independent verifier —
// it re-examines what the checker produced rather than trusting it.
package audit

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
	"go.uber.org/zap"

	"deduce/internal/ledger"
	"deduce/internal/session"
)

// program declares the extensional ledger predicates and derives
// resolved_cite: a citation whose target line exists.
const program = `
Decl line(Idx, Role, Text).
Decl cites(Citing, Cited).
Decl goal_line(Idx).

resolved_cite(Citing, Cited) :- cites(Citing, Cited), line(Cited, Role, Text).
`

var (
	predLine         = ast.PredicateSym{Symbol: "line", Arity: 3}
	predCites        = ast.PredicateSym{Symbol: "cites", Arity: 2}
	predGoalLine     = ast.PredicateSym{Symbol: "goal_line", Arity: 1}
	predResolvedCite = ast.PredicateSym{Symbol: "resolved_cite", Arity: 2}
)

// Citation identifies one line-number reference inside a justification.
type Citation struct {
	Citing int
	Cited  int
}

// Report summarizes one audit run. Ok is true when every invariant the
// audit checks held: all citations resolve, exactly one goal line,
// contiguous indices.
type Report struct {
	Lines         int
	Citations     int
	DanglingCites []Citation
	GoalCount     int
	Contiguous    bool
}

// Ok reports whether the ledger passed every audit check.
func (r *Report) Ok() bool {
	return len(r.DanglingCites) == 0 && r.GoalCount == 1 && r.Contiguous
}

// Summary renders a one-line human-readable verdict.
func (r *Report) Summary() string {
	if r.Ok() {
		return fmt.Sprintf("audit ok: %d lines, %d citations, 1 goal", r.Lines, r.Citations)
	}
	return fmt.Sprintf("audit FAILED: %d dangling citations, %d goal lines, contiguous=%v",
		len(r.DanglingCites), r.GoalCount, r.Contiguous)
}

// Auditor evaluates the audit program against ledger exports.
type Auditor struct {
	info *analysis.ProgramInfo
	log  *zap.Logger
}

// New compiles the audit program once; the same auditor can be reused
// across sessions.
func New(log *zap.Logger) (*Auditor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	unit, err := parse.Unit(bytes.NewReader([]byte(program)))
	if err != nil {
		return nil, fmt.Errorf("audit: parse program: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("audit: analyze program: %w", err)
	}
	return &Auditor{info: info, log: log}, nil
}

// Run exports the session's ledger as facts, evaluates the audit
// rules, and reports the findings. The ledger itself is never touched.
func (a *Auditor) Run(sess *session.Session) (*Report, error) {
	if sess == nil || sess.Ledger == nil {
		return nil, fmt.Errorf("audit: no session")
	}

	store := factstore.NewSimpleInMemoryStore()
	lines := sess.Ledger.All()

	report := &Report{Lines: len(lines), Contiguous: true}
	for i, line := range lines {
		if line.Index != i+1 {
			report.Contiguous = false
		}
		store.Add(ast.Atom{
			Predicate: predLine,
			Args: []ast.BaseTerm{
				ast.Number(int64(line.Index)),
				ast.String(line.Role.String()),
				ast.String(line.Formula.String()),
			},
		})
		if line.Role == ledger.Goal {
			store.Add(ast.Atom{
				Predicate: predGoalLine,
				Args:      []ast.BaseTerm{ast.Number(int64(line.Index))},
			})
			report.GoalCount++
		}
		for _, cited := range line.Just.Cites {
			store.Add(ast.Atom{
				Predicate: predCites,
				Args: []ast.BaseTerm{
					ast.Number(int64(line.Index)),
					ast.Number(int64(cited)),
				},
			})
			report.Citations++
		}
	}

	if _, err := mengine.EvalProgramWithStats(a.info, store); err != nil {
		return nil, fmt.Errorf("audit: evaluate program: %w", err)
	}

	resolved := make(map[Citation]bool)
	err := store.GetFacts(ast.NewQuery(predResolvedCite), func(atom ast.Atom) error {
		c, err := citationFromAtom(atom)
		if err != nil {
			return err
		}
		resolved[c] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("audit: read resolved citations: %w", err)
	}

	err = store.GetFacts(ast.NewQuery(predCites), func(atom ast.Atom) error {
		c, err := citationFromAtom(atom)
		if err != nil {
			return err
		}
		if !resolved[c] {
			report.DanglingCites = append(report.DanglingCites, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("audit: read citations: %w", err)
	}
	sort.Slice(report.DanglingCites, func(i, j int) bool {
		if report.DanglingCites[i].Citing != report.DanglingCites[j].Citing {
			return report.DanglingCites[i].Citing < report.DanglingCites[j].Citing
		}
		return report.DanglingCites[i].Cited < report.DanglingCites[j].Cited
	})

	a.log.Info("ledger audit complete",
		zap.String("session", sess.ID.String()),
		zap.Int("lines", report.Lines),
		zap.Int("citations", report.Citations),
		zap.Bool("ok", report.Ok()))
	return report, nil
}

func citationFromAtom(atom ast.Atom) (Citation, error) {
	if len(atom.Args) != 2 {
		return Citation{}, fmt.Errorf("audit: unexpected arity for %s", atom.Predicate.Symbol)
	}
	citing, err := numberValue(atom.Args[0])
	if err != nil {
		return Citation{}, err
	}
	cited, err := numberValue(atom.Args[1])
	if err != nil {
		return Citation{}, err
	}
	return Citation{Citing: int(citing), Cited: int(cited)}, nil
}

func numberValue(term ast.BaseTerm) (int64, error) {
	c, ok := term.(ast.Constant)
	if !ok || c.Type != ast.NumberType {
		return 0, fmt.Errorf("audit: expected number, got %v", term)
	}
	return c.NumValue, nil
}
