package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var tocCmd = &cobra.Command{
	Use:   "toc <book.epub>",
	Short: "Print the flattened table of contents with start addresses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook(args[0])
		if err != nil {
			return err
		}
		defer book.Close()

		out := cmd.OutOrStdout()
		for i, e := range book.TableOfContents() {
			addr := book.TOCItemAddress(i)
			pos := book.Locate(addr)
			fmt.Fprintf(out, "%s %3d%%  %s%s\n", addr, pos.Percent(), strings.Repeat("  ", e.Indent), e.Label)
		}
		return nil
	},
}
