// Package cli is the cineclass command tree: the HTTP service and the
// catalog maintenance jobs.
package cli

import (
	"context"
	"fmt"

	"github.com/cineclass/cineclass/internal/config"
	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/modulemanager"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	// Modules register themselves with the module manager on import
	_ "github.com/cineclass/cineclass/internal/modules/catalogmodule"
	_ "github.com/cineclass/cineclass/internal/modules/enrichmentmodule"
	_ "github.com/cineclass/cineclass/internal/modules/recommendationmodule"
	_ "github.com/cineclass/cineclass/internal/modules/usermodule"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cineclass",
	Short: "Age-aware movie and series recommendations for classrooms",
	Long: `cineclass serves quiz-based recommendations from a local catalog of
movies and series, and keeps that catalog filled from TMDB.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration file")
}

// Execute runs the command named by the process arguments.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.Load(configPath); err != nil {
		return err
	}
	cfg := config.Get()
	logger.Configure(logger.Options{
		Level: logger.LevelFromConfig(cfg.Logging.Level),
		JSON:  cfg.Logging.Format == "json",
	})
	return nil
}

// openStore connects to the configured database. The returned function
// closes it.
func openStore(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}
	return db, closeFn, nil
}

// loadModules opens the store and initializes every registered module.
func loadModules(cfg *config.Config) (func(), error) {
	db, closeFn, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := modulemanager.LoadAll(modulemanager.Environment{DB: db, Config: cfg}); err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}
	return closeFn, nil
}
