package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deduce/internal/rules"
)

// rulesCmd lists the inference rule catalog.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the inference rule catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range rules.Catalog() {
			fmt.Printf("%-14s %s\n", k, k.Describe())
		}
		return nil
	},
}
