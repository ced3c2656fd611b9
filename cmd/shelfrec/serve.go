package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shelfrec/shelfrec/internal/dataset"
	"github.com/shelfrec/shelfrec/internal/db"
	"github.com/shelfrec/shelfrec/internal/models"
	"github.com/shelfrec/shelfrec/internal/notify"
	"github.com/shelfrec/shelfrec/internal/refresh"
	"github.com/shelfrec/shelfrec/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the recommendation web server",
		Long:  "Serves the book-selection page and computes recommendations over the imported dataset.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Shelfrec config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	var count int64
	if err := gormDB.Model(&models.Rating{}).Count(&count).Error; err == nil && count == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Warning: no ratings imported yet; run `shelfrec import` first.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if cfg.Dataset.RefreshSchedule != "" {
		importer := &dataset.Importer{
			DB:      gormDB,
			Books:   cfg.Dataset.Books,
			Ratings: cfg.Dataset.Ratings,
		}
		sched, err := refresh.New(importer, notify.New(cfg.Notify.SlackWebhook), cfg.Dataset.RefreshSchedule)
		if err != nil {
			return fmt.Errorf("refresh schedule: %w", err)
		}
		go sched.Run(ctx)
	}

	return web.Start(ctx, web.Opts{
		DB:             gormDB,
		Port:           port,
		MainURL:        cfg.Server.MainURL,
		RequestTimeout: cfg.Server.RequestTimeout.Std(),
		Workers:        cfg.Server.Workers,
		MinRatings:     cfg.Dataset.MinRatings,
		TopN:           cfg.Recommend.TopN,
		Out:            cmd.OutOrStdout(),
	})
}
