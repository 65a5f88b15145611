package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/freewrite/internal/config"
	"github.com/dgallion1/freewrite/internal/editor"
	"github.com/dgallion1/freewrite/internal/store"
)

type editOptions struct {
	acceptAll    bool
	instructions string
	highlight    string
	instruction  string
	output       string
}

func newEditCmd(verbose *bool) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Request edits for a draft and print the result",
		Long: `Loads FILE, asks the configured model for edits and stages them.
The staged document is printed to stdout. With --accept-all every staged
edit is accepted and the final plain text is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], opts, *verbose)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.acceptAll, "accept-all", false, "accept every staged edit")
	f.StringVar(&opts.instructions, "instructions", "", "custom instructions for the model")
	f.StringVar(&opts.highlight, "highlight", "", "only edit this passage")
	f.StringVar(&opts.instruction, "instruction", "", "what to do with the highlighted passage")
	f.StringVarP(&opts.output, "output", "o", "", "write the result to a file instead of stdout")
	return cmd
}

func runEdit(cmd *cobra.Command, path string, opts editOptions, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	draft, err := readDraft(path, cfg)
	if err != nil {
		return err
	}
	src, model, err := newSource(cfg)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	log := newLogger(stderr, cfg, verbose)
	policy, _ := editor.ParseDeclinedPolicy(cfg.DeclinedPolicy)
	session := editor.NewSession(editor.Options{
		Source:          src,
		Store:           store.NewMemory(),
		Logger:          log,
		HistoryCapacity: cfg.HistoryCapacity,
		DeclinedPolicy:  policy,
		DeclinedMax:     cfg.DeclinedMax,
	})

	ctx := cmd.Context()
	if err := session.SetMarkup(ctx, draft.Markup); err != nil {
		return err
	}
	if opts.instructions != "" {
		if err := session.SetInstructions(ctx, opts.instructions); err != nil {
			return err
		}
	}

	log.Debug("requesting edits", "file", path, "model", model)
	var rep editor.Report
	if opts.highlight != "" {
		rep, err = session.RequestSpanEdits(ctx, opts.highlight, opts.instruction)
	} else {
		rep, err = session.RequestEdits(ctx)
	}
	var srcErr *editor.SourceError
	switch {
	case errors.Is(err, editor.ErrNoEdits):
		fmt.Fprintln(stderr, "No edits needed")
	case errors.As(err, &srcErr):
		return errors.New(srcErr.Notice())
	case err != nil:
		return err
	}

	fmt.Fprintf(stderr, "staged %d edit(s), dropped %d\n", len(rep.Staged), len(rep.Dropped))
	for _, e := range rep.Staged {
		printEdit(stderr, e)
	}
	for _, d := range rep.Dropped {
		fmt.Fprintf(stderr, "  dropped %q (%s)\n", d.Suggestion.Original, d.Reason)
	}

	result := session.Document().Markup()
	if opts.acceptAll {
		session.AcceptAll(ctx)
		result = session.Document().PlainText()
	}

	if opts.output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	}
	return os.WriteFile(opts.output, []byte(result+"\n"), 0o644)
}
