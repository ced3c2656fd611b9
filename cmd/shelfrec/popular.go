package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shelfrec/shelfrec/internal/recommend"
	"github.com/spf13/cobra"
)

func newPopularCmd() *cobra.Command {
	var (
		configPath string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most-rated books in the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPopular(cmd, configPath, limit)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Shelfrec config file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of books to list (0 for all)")
	return cmd
}

func runPopular(cmd *cobra.Command, configPath string, limit int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	books, err := recommend.Popular(cmd.Context(), gormDB, cfg.Dataset.MinRatings, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(books) == 0 {
		fmt.Fprintln(out, "No books meet the popularity cutoff; has the dataset been imported?")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BOOK\tRATINGS\tAVG SCORE")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", b.Title, b.NumRatings, b.AvgScore)
	}
	return w.Flush()
}
