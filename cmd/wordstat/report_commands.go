package main

import (
	"fmt"

	"github.com/bastiangx/wordstat/internal/cli"
	"github.com/bastiangx/wordstat/pkg/bookshelf"
	"github.com/bastiangx/wordstat/pkg/frequency"
	"github.com/spf13/cobra"
)

// report prints one statistic about the reference book and the shelf.
type report func(cmd *cobra.Command, shelf *bookshelf.Collection, reference *frequency.Index, render *cli.Renderer) error

func newReportCommands(ctx *commandContext) []*cobra.Command {
	var topN int
	top := newReportCommand(ctx, "top", "Show the most frequent words of the reference book",
		func(cmd *cobra.Command, _ *bookshelf.Collection, reference *frequency.Index, render *cli.Renderer) error {
			n := topN
			if !cmd.Flags().Changed("number") {
				n = min(ctx.config.Stats.TopWords, reference.WordCount())
			}
			words, err := reference.TopWords(n)
			if err != nil {
				return err
			}
			render.Words(words)
			return nil
		})
	top.Flags().IntVarP(&topN, "number", "n", 0, "Number of words to show (default from config)")

	var prefix string
	var limit int
	prefixCmd := newReportCommand(ctx, "prefix", "Show the words of the reference book starting with a prefix",
		func(cmd *cobra.Command, _ *bookshelf.Collection, reference *frequency.Index, render *cli.Renderer) error {
			n := limit
			if n <= 0 {
				n = ctx.config.Stats.TopWords
			}
			render.Words(reference.WithPrefix(prefix, n))
			return nil
		})
	prefixCmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Prefix to look up")
	prefixCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of words (default from config)")
	_ = prefixCmd.MarkFlagRequired("prefix")

	return []*cobra.Command{
		newReportCommand(ctx, "count", "Show the number of distinct words of the reference book",
			func(_ *cobra.Command, _ *bookshelf.Collection, reference *frequency.Index, render *cli.Renderer) error {
				render.Count(reference.Source(), reference.WordCount(), reference.TotalOccurrences())
				return nil
			}),
		top,
		newReportCommand(ctx, "unique", "Show the words only present in the reference book",
			func(_ *cobra.Command, shelf *bookshelf.Collection, _ *frequency.Index, render *cli.Renderer) error {
				unique, err := shelf.UniqueToReference()
				if err != nil {
					return err
				}
				render.Words(unique)
				return nil
			}),
		newReportCommand(ctx, "overlap", "Show the percentage of reference words found in every other book",
			func(_ *cobra.Command, shelf *bookshelf.Collection, _ *frequency.Index, render *cli.Renderer) error {
				overlaps, err := shelf.Overlaps()
				if err != nil {
					return err
				}
				render.Overlaps(overlaps)
				return nil
			}),
		prefixCmd,
	}
}

func newReportCommand(ctx *commandContext, use, short string, run report) *cobra.Command {
	var refPosition int

	cmd := &cobra.Command{
		Use:   use + " [books...]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shelf, err := ctx.loadShelf(cmd.Context(), args)
			if err != nil {
				return err
			}
			if !shelf.SetReference(refPosition) {
				return fmt.Errorf("reference position %d is out of range 1..%d", refPosition, shelf.Len())
			}
			reference, _ := shelf.Reference()
			if err := reference.Load(); err != nil {
				return err
			}
			return run(cmd, shelf, reference, ctx.renderer(cmd.OutOrStdout()))
		},
	}
	cmd.Flags().IntVarP(&refPosition, "ref", "r", 1, "Position of the reference book among the arguments")
	return cmd
}
