package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simp-lee/epubdoc"
)

var positionCmd = &cobra.Command{
	Use:   "position <book.epub> <address>",
	Short: "Show the TOC entry and progress of an encoded address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook(args[0])
		if err != nil {
			return err
		}
		defer book.Close()

		addr := epubdoc.DecodeAddress(args[1])
		pos := book.Locate(addr)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Address: %s (%s)\n", addr, epubdoc.EncodeAddress(addr))
		fmt.Fprintf(out, "Entry:   %d %s\n", pos.TOCIndex, tocLabel(book, pos.TOCIndex))
		fmt.Fprintf(out, "Entry progress: %d%% (%d/%d)\n", pos.EntryPercent(), pos.EntryOffset, pos.EntryWidth)
		fmt.Fprintf(out, "Book progress:  %d%% (%d/%d)\n", pos.Percent(), pos.BookOffset, pos.BookWidth)
		return nil
	},
}
