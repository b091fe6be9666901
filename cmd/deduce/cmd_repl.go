package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"deduce/internal/audit"
	"deduce/internal/checker"
	"deduce/internal/ledger"
	"deduce/internal/logic"
	"deduce/internal/rules"
	"deduce/internal/session"
	"deduce/internal/store"
)

// replCmd runs the interactive proof loop.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive proof session",
	Long: `Declare axioms (comment/given/goal), start the proof with begin,
then apply rules until the goal closes. Type help for the command list.`,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	c, err := newChecker()
	if err != nil {
		return err
	}
	r := &repl{checker: c}
	defer func() {
		if r.archive != nil {
			r.archive.Close()
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("deduce - type help for commands")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := r.dispatch(line); err != nil {
			fmt.Println(err)
		}
	}
}

// repl holds the in-flight proof: declared axioms before begin, the
// live session after.
type repl struct {
	checker *checker.Checker
	axioms  []checker.Axiom
	sess    *session.Session
	archive *store.Store
}

func (r *repl) dispatch(line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help":
		r.printHelp()
		return nil
	case "comment":
		return r.declare(ledger.Comment, logic.Text{S: rest})
	case "given":
		return r.declareParsed(ledger.Given, rest)
	case "goal":
		return r.declareParsed(ledger.Goal, rest)
	case "begin":
		return r.begin()
	case "apply":
		return r.apply(rest)
	case "show":
		return r.show()
	case "rules":
		for _, k := range rules.Catalog() {
			fmt.Printf("%-14s %s\n", k, k.Describe())
		}
		return nil
	case "audit":
		return r.audit()
	case "clear":
		return r.clear()
	case "save":
		return r.save()
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

func (r *repl) printHelp() {
	fmt.Print(`comment <text>                   declare an annotation line
given <formula>                  declare an axiom
goal <formula>                   declare the goal (exactly one)
begin                            validate axioms and start the proof
apply <rule> <cites...> [with <args>] [as <var>]
show                             print the ledger
rules                            list the rule catalog
audit                            re-check ledger invariants
clear                            discard everything and start over
save                             archive the session
quit                             leave
`)
}

func (r *repl) declare(role ledger.Role, f logic.Formula) error {
	if r.sess != nil {
		return fmt.Errorf("proof already started; clear to declare new axioms")
	}
	r.axioms = append(r.axioms, checker.Axiom{Role: role, Formula: f})
	fmt.Printf("declared %s (%d pending)\n", role, len(r.axioms))
	return nil
}

func (r *repl) declareParsed(role ledger.Role, text string) error {
	f, err := logic.Parse(text)
	if err != nil {
		return err
	}
	return r.declare(role, f)
}

func (r *repl) begin() error {
	if r.sess != nil {
		return fmt.Errorf("proof already started")
	}
	sess, err := r.checker.Check(r.axioms)
	if err != nil {
		return err
	}
	r.sess = sess
	fmt.Print(sess.Ledger.Listing())
	return nil
}

// apply parses "Ae 2 with c_127", "Ei 1 with c_127 as x",
// "OrIntroLeft 1 with q", "ImplElim 5 3".
func (r *repl) apply(args string) error {
	if r.sess == nil {
		return fmt.Errorf("no proof started; declare axioms and begin")
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("apply: missing rule name")
	}
	kind, ok := rules.Lookup(fields[0])
	if !ok {
		return fmt.Errorf("apply: %w %q (try rules)", rules.ErrUnknownRule, fields[0])
	}

	req := rules.Request{}
	rest := fields[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case "with":
			if len(rest) < 2 {
				return fmt.Errorf("apply: with requires an argument")
			}
			if err := addWithArgument(&req, kind, rest[1]); err != nil {
				return err
			}
			rest = rest[2:]
		case "as":
			if len(rest) < 2 {
				return fmt.Errorf("apply: as requires a variable")
			}
			v, err := logic.ParseTerm(rest[1])
			if err != nil {
				return err
			}
			req.Terms = append(req.Terms, v)
			rest = rest[2:]
		default:
			n, err := strconv.Atoi(rest[0])
			if err != nil {
				return fmt.Errorf("apply: expected line number, got %q", rest[0])
			}
			req.Cites = append(req.Cites, n)
			rest = rest[1:]
		}
	}

	out, err := r.checker.Apply(r.sess, kind, req)
	if err != nil {
		return err
	}
	if out.Failed {
		fmt.Println(out.Message)
		return nil
	}
	fmt.Println(ledger.FormatLine(out.Line))
	if out.Closed {
		fmt.Println("proof closed")
	}
	return nil
}

// addWithArgument parses the with argument as a formula for the rules
// that take one and as a term for the rest.
func addWithArgument(req *rules.Request, kind rules.Kind, arg string) error {
	if kind == rules.OrIntroLeft || kind == rules.OrIntroRight {
		f, err := logic.Parse(arg)
		if err != nil {
			return err
		}
		req.Formulas = append(req.Formulas, f)
		return nil
	}
	t, err := logic.ParseTerm(arg)
	if err != nil {
		return err
	}
	req.Terms = append(req.Terms, t)
	return nil
}

func (r *repl) show() error {
	if r.sess == nil {
		return fmt.Errorf("no proof started")
	}
	fmt.Print(r.sess.Ledger.Listing())
	if r.sess.Closed() {
		fmt.Println("status: closed")
	}
	return nil
}

func (r *repl) audit() error {
	if r.sess == nil {
		return fmt.Errorf("no proof started")
	}
	auditor, err := audit.New(logger)
	if err != nil {
		return err
	}
	report, err := auditor.Run(r.sess)
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	return nil
}

func (r *repl) clear() error {
	r.axioms = nil
	r.sess = nil
	fmt.Println("cleared")
	return nil
}

func (r *repl) save() error {
	if r.sess == nil {
		return fmt.Errorf("no proof started")
	}
	if r.archive == nil {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		r.archive = archive
	}
	if err := r.archive.Save(r.sess); err != nil {
		return err
	}
	fmt.Printf("saved as %s\n", r.sess.ID)
	return nil
}
