package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=...".
var (
	Version = "dev"
	Commit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "epubdoc %s\n", Version)
		fmt.Fprintf(out, "  Go:     %s\n", runtime.Version())
		fmt.Fprintf(out, "  Commit: %s\n", Commit)
	},
}
