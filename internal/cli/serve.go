package cli

import (
	"github.com/cineclass/cineclass/internal/config"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/modulemanager"
	"github.com/cineclass/cineclass/internal/server"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the HTTP API and blocks until interrupted. When a config file
is given it is watched, and log level changes apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Get()

	db, closeFn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	srv, err := server.New(cfg, db, modulemanager.Registry)
	if err != nil {
		return err
	}

	if configPath != "" {
		config.AddWatcher(func(oldCfg, newCfg *config.Config) {
			if oldCfg.Logging.Level != newCfg.Logging.Level {
				logger.Root().SetLevel(hclog.LevelFromString(logger.LevelFromConfig(newCfg.Logging.Level)))
				logger.Info("log level changed", "level", newCfg.Logging.Level)
			}
		})
		if err := config.GetConfigManager().WatchFile(ctx); err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		}
	}

	return srv.Run(ctx)
}
