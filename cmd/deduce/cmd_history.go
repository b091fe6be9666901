package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"deduce/internal/audit"
)

// historyCmd lists and shows archived proofs.
var historyCmd = &cobra.Command{
	Use:   "history [proof-id]",
	Short: "List archived proofs, or show one proof's ledger",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("bad proof id %q: %w", args[0], err)
		}
		sess, err := archive.Load(id)
		if err != nil {
			return err
		}
		fmt.Printf("# %s (%s)\n\n", sess.ID, sess.Status)
		fmt.Print(sess.Ledger.Listing())
		return nil
	}

	summaries, err := archive.List()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no archived proofs")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  %-6s  %3d lines  %s\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Status, s.Lines, s.Goal)
	}
	return nil
}

// auditCmd re-verifies an archived proof's ledger.
var auditCmd = &cobra.Command{
	Use:   "audit [proof-id]",
	Short: "Run the ledger audit against an archived proof",
	Long: `Loads an archived proof and re-checks its ledger invariants with
the Datalog audit program: every citation resolves to an existing
line, indices are contiguous, and exactly one goal line exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("bad proof id %q: %w", args[0], err)
	}

	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	sess, err := archive.Load(id)
	if err != nil {
		return err
	}

	auditor, err := audit.New(logger)
	if err != nil {
		return err
	}
	report, err := auditor.Run(sess)
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	for _, c := range report.DanglingCites {
		fmt.Printf("  line %d cites missing line %d\n", c.Citing, c.Cited)
	}
	if !report.Ok() {
		return fmt.Errorf("ledger audit failed")
	}
	return nil
}
