package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/simp-lee/epubdoc"
	"github.com/simp-lee/epubdoc/internal/state"
)

var (
	readCount int
	readBack  bool
	readReset bool
)

var readCmd = &cobra.Command{
	Use:   "read <book.epub>",
	Short: "Print the next tokens from the saved position and save the new one",
	Long: `read resumes at the position saved for this book, prints a page of
tokens and saves where it stopped. With --back it pages backwards instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := openBook(args[0])
		if err != nil {
			return err
		}
		defer book.Close()

		store, err := state.NewStore(cfg.StateDir)
		if err != nil {
			return err
		}
		if readReset {
			if err := store.Delete(book.ID()); err != nil {
				return err
			}
		}

		saved, _ := store.Get(book.ID(), epubdoc.AddressKey)
		it := book.Iterator(epubdoc.DecodeAddress(saved))

		count := readCount
		if count <= 0 {
			count = cfg.Read.Count
		}
		dir := epubdoc.Forward
		if readBack {
			dir = epubdoc.Backward
		}

		var page []epubdoc.Token
		for len(page) < count {
			tok, ok := it.Read(dir)
			if !ok {
				break
			}
			page = append(page, tok)
		}
		if readBack {
			slices.Reverse(page)
		}

		out := cmd.OutOrStdout()
		for _, tok := range page {
			fmt.Fprintln(out, tok)
		}
		if len(page) == 0 {
			if readBack {
				fmt.Fprintln(out, "(start of book)")
			} else {
				fmt.Fprintln(out, "(end of book)")
			}
		}

		next := it.Position()
		if err := store.Set(book.ID(), epubdoc.AddressKey, epubdoc.EncodeAddress(next)); err != nil {
			return err
		}
		pos := book.Locate(next)
		logger.Debug("position saved", "book", book.ID(), "address", next.String())
		fmt.Fprintf(out, "\n[%s] %d%%\n", tocLabel(book, pos.TOCIndex), pos.Percent())
		return nil
	},
}

func init() {
	readCmd.Flags().IntVarP(&readCount, "count", "n", 0, "tokens per page (default: read.count from config)")
	readCmd.Flags().BoolVarP(&readBack, "back", "b", false, "page backwards from the saved position")
	readCmd.Flags().BoolVar(&readReset, "reset", false, "forget the saved position first")
}
