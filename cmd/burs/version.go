package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at release build time via -ldflags; it stays "dev" for a
// plain `go build`.
var version = "dev"

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the burs version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
