package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "burs",
	Short: "Generate and inspect a bottom-up rewrite system's tree-pattern tables",
	Long: `burs builds a bottom-up rewrite system's (BURS) state-transition tables
from a set of tree-pattern productions and reduces labeled trees to a goal
nonterminal at minimum cost.

Grammar front-end parsing is out of scope: this CLI exercises a small
built-in demonstration grammar rather than reading one from a file.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
