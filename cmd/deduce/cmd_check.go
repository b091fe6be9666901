package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deduce/internal/audit"
	"deduce/internal/script"
)

var saveProof bool

// checkCmd replays a proof script and reports the outcome.
var checkCmd = &cobra.Command{
	Use:   "check [script.yaml]",
	Short: "Replay a proof script and report whether it closes",
	Long: `Loads a YAML proof script, seeds a session from its axioms, and
replays every step. Prints the resulting ledger, each failed step, and
the final verdict. Exits non-zero if the proof does not close.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := script.Load(args[0])
	if err != nil {
		return err
	}
	c, err := newChecker()
	if err != nil {
		return err
	}

	result, err := s.Run(c)
	if err != nil {
		return err
	}
	if s.Name != "" {
		fmt.Printf("# %s\n\n", s.Name)
	}
	fmt.Print(result.Listing)
	fmt.Println()

	failed := 0
	for i, out := range result.Outcomes {
		if out.Failed {
			failed++
			fmt.Printf("step %d: %s\n", i+1, out.Message)
		}
	}

	if cfg.Audit.Enabled {
		auditor, err := audit.New(logger)
		if err != nil {
			return err
		}
		report, err := auditor.Run(result.Session)
		if err != nil {
			return err
		}
		fmt.Println(report.Summary())
		if !report.Ok() {
			return fmt.Errorf("ledger audit failed")
		}
	}

	if saveProof {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()
		if err := archive.Save(result.Session); err != nil {
			return err
		}
		fmt.Printf("saved as %s\n", result.Session.ID)
	}

	if !result.Closed() {
		return fmt.Errorf("proof did not close (%d failed steps)", failed)
	}
	logger.Info("proof closed", zap.String("session", result.Session.ID.String()))
	fmt.Println("proof closed")
	return nil
}

func init() {
	checkCmd.Flags().BoolVar(&saveProof, "save", false, "save the session to the proof archive")
}
