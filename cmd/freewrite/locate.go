package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/freewrite/internal/config"
	"github.com/dgallion1/freewrite/internal/markup"
)

func newLocateCmd() *cobra.Command {
	var opts markup.Options
	cmd := &cobra.Command{
		Use:   "locate FILE TEXT",
		Short: "Print the markup ranges where TEXT occurs in a draft",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			draft, err := readDraft(args[0], cfg)
			if err != nil {
				return err
			}
			ranges := markup.Locate(draft.Markup, args[1], opts)
			if len(ranges) == 0 {
				return fmt.Errorf("%q not found", args[1])
			}
			out := cmd.OutOrStdout()
			for _, r := range ranges {
				fmt.Fprintf(out, "%d\t%d\t%s\n", r.Start, r.End, draft.Markup[r.Start:r.End])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.WholeWord, "whole-word", false, "match whole words only")
	cmd.Flags().BoolVar(&opts.ExactFirst, "exact-first", false, "prefer a verbatim match over a normalized one")
	return cmd
}
