package main

import (
	"fmt"

	"github.com/shelfrec/shelfrec/internal/dataset"
	"github.com/shelfrec/shelfrec/internal/db"
	"github.com/shelfrec/shelfrec/internal/models"
	"github.com/shelfrec/shelfrec/internal/notify"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var (
		configPath string
		booksPath  string
		ratings    string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the Book-Crossing CSV files",
		Long:  "Loads BX-Books.csv and BX-Book-Ratings.csv into the database, replacing any previous dataset.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, configPath, booksPath, ratings)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Shelfrec config file")
	cmd.Flags().StringVar(&booksPath, "books", "", "path to BX-Books.csv (overrides config)")
	cmd.Flags().StringVar(&ratings, "ratings", "", "path to BX-Book-Ratings.csv (overrides config)")
	return cmd
}

func runImport(cmd *cobra.Command, configPath, booksPath, ratingsPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	if booksPath == "" {
		booksPath = cfg.Dataset.Books
	}
	if ratingsPath == "" {
		ratingsPath = cfg.Dataset.Ratings
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Importing %s and %s...\n", booksPath, ratingsPath)

	importer := &dataset.Importer{DB: gormDB, Books: booksPath, Ratings: ratingsPath}
	res, err := importer.Run(cmd.Context(), models.SourceManual)
	if err != nil {
		notify.New(cfg.Notify.SlackWebhook).ImportFinished(&models.ImportJob{
			Source:       models.SourceManual,
			Status:       models.ImportError,
			ErrorMessage: err.Error(),
		})
		return err
	}

	fmt.Fprintf(out, "Imported %d books and %d ratings (%d rows skipped).\n",
		res.BooksLoaded, res.RatingsLoaded, res.RowsSkipped)
	notify.New(cfg.Notify.SlackWebhook).ImportFinished(res.Job)
	return nil
}
