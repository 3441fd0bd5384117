package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	bursErr "github.com/bursgen/burs/error"
	"github.com/bursgen/burs/internal/arith"
)

var dumpFlags = struct {
	name   string
	format string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "dump",
		Short:   "Build the built-in demonstration grammar and print its generated tables as XML",
		Example: `  burs dump --name demo-grammar`,
		Args:    cobra.NoArgs,
		RunE:    runDump,
	}
	cmd.Flags().StringVar(&dumpFlags.name, "name", "arith-demo", "value stamped on the root element's name attribute")
	cmd.Flags().StringVar(&dumpFlags.format, "format", "xml", "dump renderer to use (only \"xml\" is implemented)")
	rootCmd.AddCommand(cmd)
}

func runDump(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("an unexpected error occurred: %v", v)
		}
		fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
		retErr = err
	}()

	table, err := arith.BuildTable()
	if err != nil {
		return &bursErr.StageError{Stage: "generate", Cause: err}
	}

	attrs := map[string]string{"name": dumpFlags.name}
	if err := table.Dump(os.Stdout, dumpFlags.format, attrs); err != nil {
		return &bursErr.StageError{Stage: "dump", Cause: err}
	}
	return nil
}
