// Package cli implements the kintaictl admin commands.
package cli

import (
	"context"
	"fmt"

	"go-kintai/internal/app"
	"go-kintai/internal/config"
	"go-kintai/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// buildApp is replaced in tests.
var buildApp = app.Build

// CLI holds the application container for commands that touch the store.
type CLI struct {
	App *app.App
}

// NewCLI loads configuration and connects the store. Logs go to the
// configured file only so they never mix with command output.
func NewCLI(ctx context.Context, configFile string) (*CLI, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := zap.NewNop()
	if cfg.Log.File != "" {
		logCfg := cfg.Log
		logCfg.Console = false
		log = logger.New(logCfg)
	}

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return &CLI{App: a}, nil
}

func (c *CLI) Close() error {
	_ = c.App.Logger.Sync()
	return c.App.Close()
}

// withCLI runs fn with a connected CLI and always closes it.
func withCLI(cmd *cobra.Command, fn func(c *CLI) error) error {
	configFile, _ := cmd.Flags().GetString("config")
	c, err := NewCLI(cmd.Context(), configFile)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
