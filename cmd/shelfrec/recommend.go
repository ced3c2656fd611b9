package main

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/shelfrec/shelfrec/internal/recommend"
	"github.com/spf13/cobra"
)

func newRecommendCmd() *cobra.Command {
	var (
		configPath string
		author     string
		top        int
	)

	cmd := &cobra.Command{
		Use:   "recommend <book title>",
		Short: "Recommend books from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, configPath, strings.Join(args, " "), author, top)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Shelfrec config file")
	cmd.Flags().StringVarP(&author, "author", "a", "", "author name to disambiguate the title")
	cmd.Flags().IntVarP(&top, "top", "n", 0, "number of results (defaults to config top_n)")
	return cmd
}

func runRecommend(cmd *cobra.Command, configPath, title, author string, top int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if top == 0 {
		top = cfg.Recommend.TopN
	}

	recs, err := recommend.Recommend(cmd.Context(), gormDB, title, author, recommend.Options{
		MinRatings: cfg.Dataset.MinRatings,
		TopN:       top,
	})
	if errors.Is(err, recommend.ErrBookNotFound) {
		return fmt.Errorf("no reader has rated %q; check the spelling", title)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintf(out, "Readers of %q have not rated enough books in common to recommend anything.\n", title)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BOOK\tAVG RATING\tCORRELATION")
	for _, r := range recs {
		corr := "-"
		if !math.IsNaN(r.Correlation) {
			corr = fmt.Sprintf("%.2f", r.Correlation)
		}
		fmt.Fprintf(w, "%s\t%.2f\t%s\n", r.Title, r.AvgRating, corr)
	}
	return w.Flush()
}
