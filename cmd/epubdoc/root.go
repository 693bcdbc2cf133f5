package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/simp-lee/epubdoc"
	"github.com/simp-lee/epubdoc/internal/config"
	"github.com/simp-lee/epubdoc/internal/logging"
)

var (
	cfgFile string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "epubdoc",
	Short: "Inspect and read ePub books as addressable token streams",
	Long: `epubdoc opens an ePub, turns its content into a stream of text, header,
list and image tokens, and reports positions as stable addresses.

Reading positions are saved per book (keyed by a content hash), so
"epubdoc read" picks up where the last session stopped.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./epubdoc.yaml or ~/.config/epubdoc/epubdoc.yaml)",
	)

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(tocCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(positionCmd)
	rootCmd.AddCommand(versionCmd)
}

// openBook opens the ePub at name with the configured logger.
func openBook(name string) (*epubdoc.Book, error) {
	book, err := epubdoc.Open(name, epubdoc.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return book, nil
}

// tocLabel returns the label of TOC entry i, or "" when out of range.
func tocLabel(book *epubdoc.Book, i int) string {
	toc := book.TableOfContents()
	if i < 0 || i >= len(toc) {
		return ""
	}
	return toc[i].Label
}
