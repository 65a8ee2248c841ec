package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/tokmark/internal/configloader"
	"github.com/yaklabco/tokmark/internal/logging"
	"github.com/yaklabco/tokmark/pkg/config"
	"github.com/yaklabco/tokmark/pkg/mode"
	"github.com/yaklabco/tokmark/pkg/runner"
)

// session is the state every highlighting command starts from: the merged
// configuration and a provider holding the built-in and configured modes.
type session struct {
	ctx      context.Context
	cfg      *config.Config
	provider *mode.Provider
	workDir  string
	logger   *log.Logger
}

// newSession loads configuration with cli as the highest-precedence layer
// and builds the mode provider.
func newSession(cmd *cobra.Command, flags *globalFlags, cli *config.Config) (*session, error) {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	if cli == nil {
		cli = &config.Config{}
	}
	if flags.color != "" {
		cli.Color = config.ColorMode(flags.color)
	}
	if flags.logLevel != "" {
		cli.LogLevel = flags.logLevel
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:          workDir,
		ExplicitPath:        flags.configPath,
		IgnoreSystemConfig:  flags.noConfig,
		IgnoreUserConfig:    flags.noConfig,
		IgnoreProjectConfig: flags.noConfig,
		CLIConfig:           cli,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}
	cfg := loadResult.Config

	if !flags.debug && flags.logLevel == "" && cfg.LogLevel != "" {
		logging.SetLevel(cfg.LogLevel)
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}
	if cfg.Color == "" {
		cfg.Color = config.ColorAuto
	}

	provider, warnings, err := runner.NewProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("load modes: %w", err)
	}
	for _, warning := range warnings {
		logger.Warn(warning)
	}

	logger.Debug("configuration loaded",
		logging.FieldModes, len(provider.Names()),
		logging.FieldJobs, cfg.Jobs,
		logging.FieldColor, cfg.Color,
	)

	return &session{
		ctx:      logging.WithLogger(ctx, logger),
		cfg:      cfg,
		provider: provider,
		workDir:  workDir,
		logger:   logger,
	}, nil
}
