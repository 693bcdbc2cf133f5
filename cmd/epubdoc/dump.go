package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simp-lee/epubdoc"
)

var (
	dumpFrom  string
	dumpCount int
)

var dumpCmd = &cobra.Command{
	Use:   "dump <book.epub>",
	Short: "Print tokens with their addresses and kinds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook(args[0])
		if err != nil {
			return err
		}
		defer book.Close()

		out := cmd.OutOrStdout()
		it := book.Iterator(epubdoc.DecodeAddress(dumpFrom))
		for n := 0; dumpCount <= 0 || n < dumpCount; n++ {
			tok, ok := it.Next()
			if !ok {
				break
			}
			text := tok.String()
			if tok.IsSectionBreak() {
				text = "----"
			}
			fmt.Fprintf(out, "%s %-9s %q\n", tok.Addr, tok.Kind, text)
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFrom, "from", "", "start address as 16 hex digits (default: start of book)")
	dumpCmd.Flags().IntVarP(&dumpCount, "count", "n", 0, "number of tokens to print (0: all)")
}
