package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"deduce/internal/checker"
	"deduce/internal/config"
	"deduce/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool
	dbPath     string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deduce",
	Short: "deduce - natural-deduction proof assistant",
	Long: `deduce is a proof assistant for first-order logic.

Proofs live in an append-only ledger of numbered lines: comments,
given axioms, exactly one goal, and lines derived by inference rules.
A proof closes when a rule application certifies the goal.

Run 'deduce repl' for an interactive session or 'deduce check' to
replay a proof script.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}

		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(configuredLevel())
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func configuredLevel() zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	switch cfg.Logging.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// newChecker builds a checker from the loaded configuration.
func newChecker() (*checker.Checker, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	return checker.New(policy, logger), nil
}

// openArchive opens the proof archive at the configured path. The
// caller owns the returned store.
func openArchive() (*store.Store, error) {
	return store.Open(cfg.DatabasePath, logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "deduce.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "proof archive path (overrides config)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(auditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
