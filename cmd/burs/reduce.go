package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	bursErr "github.com/bursgen/burs/error"
	"github.com/bursgen/burs/driver"
	"github.com/bursgen/burs/internal/arith"
)

func init() {
	cmd := &cobra.Command{
		Use:     "reduce",
		Short:   "Label and reduce a built-in demonstration tree to the Block goal",
		Example: `  burs reduce`,
		Args:    cobra.NoArgs,
		RunE:    runReduce,
	}
	rootCmd.AddCommand(cmd)
}

func runReduce(cmd *cobra.Command, args []string) error {
	table, err := arith.BuildTable()
	if err != nil {
		return &bursErr.StageError{Stage: "generate", Cause: err}
	}

	// (3 + 4) * 5; 6 + 7
	tree := arith.Seq(
		arith.Mult(arith.Plus(arith.Const(3), arith.Const(4)), arith.Const(5)),
		arith.Plus(arith.Const(6), arith.Const(7)),
	)

	r := driver.New(table)
	result, err := r.Reduce(nil, tree, arith.Block)
	if err != nil {
		return &bursErr.StageError{Stage: "reduce", Cause: err}
	}
	fmt.Fprintln(os.Stdout, result)
	return nil
}
