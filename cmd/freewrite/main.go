// Command freewrite runs the edit engine from the command line.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/freewrite/internal/config"
	"github.com/dgallion1/freewrite/internal/editor"
	"github.com/dgallion1/freewrite/internal/importer"
	"github.com/dgallion1/freewrite/internal/suggest"
)

// newSource is replaced in tests.
var newSource = suggest.FromConfig

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "freewrite",
		Short:         "Apply model-suggested edits to a draft",
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")
	root.AddCommand(newEditCmd(&verbose), newLocateCmd())
	return root
}

func newLogger(w io.Writer, cfg config.Config, verbose bool) *slog.Logger {
	level := cfg.Level()
	if !verbose {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// readDraft loads path through the importer for its extension.
func readDraft(path string, cfg config.Config) (importer.Draft, error) {
	imp, err := importer.ForFile(path, importer.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
	if err != nil {
		return importer.Draft{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return importer.Draft{}, err
	}
	defer f.Close()
	d, err := imp.Import(f, filepath.Base(path))
	if err != nil {
		return importer.Draft{}, fmt.Errorf("import %s: %w", path, err)
	}
	return d, nil
}

func printEdit(w io.Writer, e editor.StagedEdit) {
	fmt.Fprintf(w, "  [%s] %q -> %q", e.Kind, e.Original, e.Replacement)
	if e.Reason != "" {
		fmt.Fprintf(w, " (%s)", e.Reason)
	}
	fmt.Fprintln(w)
}
