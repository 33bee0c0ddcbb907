package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"penpals/internal/config"
	"penpals/internal/logging"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "penpals",
		Short:        "Powerline Penpals narrative engine",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Project config file")
	root.AddCommand(validateCmd())
	root.AddCommand(playCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadProject() (*config.ProjectConfig, *zap.Logger, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
