package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shelfrec/shelfrec/internal/config"
	"github.com/shelfrec/shelfrec/internal/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const defaultConfigPath = "shelfrec.yaml"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelfrec",
		Short: "Shelfrec — book recommendations from reader ratings",
		Long:  "Shelfrec recommends books by correlating reader ratings from the Book-Crossing dataset.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newRecommendCmd())
	cmd.AddCommand(newPopularCmd())
	cmd.AddCommand(newDBCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shelfrec %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// loadConfig loads the YAML config, falling back to built-in defaults when
// the default config file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// connectFromConfig loads configuration and opens the database.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
