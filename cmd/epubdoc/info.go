package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <book.epub>",
	Short: "Show metadata, content items and warnings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook(args[0])
		if err != nil {
			return err
		}
		defer book.Close()

		out := cmd.OutOrStdout()
		md := book.Metadata()
		fmt.Fprintf(out, "Title:      %s\n", md.Title)
		fmt.Fprintf(out, "Authors:    %s\n", strings.Join(md.Authors, ", "))
		fmt.Fprintf(out, "Language:   %s\n", md.Language)
		fmt.Fprintf(out, "Identifier: %s\n", md.Identifier)
		fmt.Fprintf(out, "Version:    %s\n", md.Version)
		fmt.Fprintf(out, "ID:         %s\n", book.ID())

		fmt.Fprintf(out, "\nContent items: %d\n", book.ItemCount())
		for i := 0; i < book.ItemCount(); i++ {
			status := fmt.Sprintf("%d tokens", len(book.Tokens(i)))
			if err := book.ItemErr(i); err != nil {
				status = err.Error()
			}
			fmt.Fprintf(out, "  %3d  %-40s %s\n", i, book.ItemPath(i), status)
		}

		if warnings := book.Warnings(); len(warnings) > 0 {
			fmt.Fprintf(out, "\nWarnings:\n")
			for _, w := range warnings {
				fmt.Fprintf(out, "  - %s\n", w)
			}
		}
		return nil
	},
}
