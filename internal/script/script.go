// Package script loads and replays declarative proof scripts: a YAML
// document declaring the axiom set and the sequence of rule
// applications. Scripts are the batch counterpart to the REPL; the
// same checker drives both.
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"deduce/internal/checker"
	"deduce/internal/ledger"
	"deduce/internal/logic"
	"deduce/internal/rules"
	"deduce/internal/session"
)

// Script is one proof file.
//
//	name: 127 is not negative
//	axioms:
//	  - {role: given, formula: "A x.(NaturalNumber(x) -> ~NegativeNumber(x))"}
//	  - {role: given, formula: "NaturalNumber(c_127)"}
//	  - {role: goal, formula: "~NegativeNumber(c_127)"}
//	steps:
//	  - {rule: Ae, cites: [1], term: c_127}
//	  - {rule: ImplElim, cites: [4, 2]}
//	  - {rule: Refl, cites: [3, 5]}
type Script struct {
	Name   string  `yaml:"name"`
	Axioms []Axiom `yaml:"axioms"`
	Steps  []Step  `yaml:"steps"`
}

// Axiom declares one proof line. Comments use the text field; every
// other role parses the formula field.
type Axiom struct {
	Role    string `yaml:"role"`
	Formula string `yaml:"formula,omitempty"`
	Text    string `yaml:"text,omitempty"`
}

// Step is one rule application. term supplies the instantiation term
// (Ae, Ei), as the target variable (Ei), and with the added disjunct
// formula (OrIntro rules).
type Step struct {
	Rule  string `yaml:"rule"`
	Cites []int  `yaml:"cites,omitempty"`
	Term  string `yaml:"term,omitempty"`
	As    string `yaml:"as,omitempty"`
	With  string `yaml:"with,omitempty"`
}

// Result collects everything a replay produced: the session, the
// outcome of each step in order, and the final listing.
type Result struct {
	Session  *session.Session
	Outcomes []checker.Outcome
	Listing  string
}

// Closed reports whether the replay certified the goal.
func (r *Result) Closed() bool {
	return r.Session != nil && r.Session.Closed()
}

// Load reads and decodes a script file. Decoding is strict: unknown
// fields are errors, which catches typos in rule argument names.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("script: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("script: decode %s: %w", path, err)
	}
	return &s, nil
}

// Run seeds a session from the script's axioms and replays every step.
// Failed steps are recorded in the result and do not stop the replay;
// the ledger stays consistent because failures never touch it.
func (s *Script) Run(c *checker.Checker) (*Result, error) {
	axioms, err := s.parseAxioms()
	if err != nil {
		return nil, err
	}
	sess, err := c.Check(axioms)
	if err != nil {
		return nil, err
	}

	result := &Result{Session: sess}
	for i, step := range s.Steps {
		kind, ok := rules.Lookup(step.Rule)
		if !ok {
			return nil, fmt.Errorf("script: step %d: %w %q", i+1, rules.ErrUnknownRule, step.Rule)
		}
		req, err := step.request()
		if err != nil {
			return nil, fmt.Errorf("script: step %d: %w", i+1, err)
		}
		out, err := c.Apply(sess, kind, req)
		if err != nil {
			return nil, fmt.Errorf("script: step %d: %w", i+1, err)
		}
		result.Outcomes = append(result.Outcomes, out)
	}
	result.Listing = sess.Ledger.Listing()
	return result, nil
}

func (s *Script) parseAxioms() ([]checker.Axiom, error) {
	axioms := make([]checker.Axiom, 0, len(s.Axioms))
	for i, ax := range s.Axioms {
		role, err := ledger.ParseRole(ax.Role)
		if err != nil {
			return nil, fmt.Errorf("script: axiom %d: %w", i+1, err)
		}
		var formula logic.Formula
		if role == ledger.Comment {
			formula = logic.Text{S: ax.Text}
		} else {
			if ax.Formula == "" {
				return nil, fmt.Errorf("script: axiom %d: missing formula", i+1)
			}
			formula, err = logic.Parse(ax.Formula)
			if err != nil {
				return nil, fmt.Errorf("script: axiom %d: %w", i+1, err)
			}
		}
		axioms = append(axioms, checker.Axiom{Role: role, Formula: formula})
	}
	return axioms, nil
}

func (st Step) request() (rules.Request, error) {
	req := rules.Request{Cites: st.Cites}
	if st.Term != "" {
		t, err := logic.ParseTerm(st.Term)
		if err != nil {
			return rules.Request{}, err
		}
		req.Terms = append(req.Terms, t)
	}
	if st.As != "" {
		v, err := logic.ParseTerm(st.As)
		if err != nil {
			return rules.Request{}, err
		}
		req.Terms = append(req.Terms, v)
	}
	if st.With != "" {
		f, err := logic.Parse(st.With)
		if err != nil {
			return rules.Request{}, err
		}
		req.Formulas = append(req.Formulas, f)
	}
	return req, nil
}
