// Command mission is a terminal chat client for the Mission Control backend.
package main

import (
	"fmt"
	"os"

	"missionchat/cmd/mission/chat"
	"missionchat/internal/config"
	"missionchat/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries state shared by all subcommands.
type app struct {
	// Global flags
	verbose    bool
	configPath string
	apiURL     string
	theme      string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mission",
		Short: "Mission Control - space exploration chat",
		Long: `mission is a terminal chat client for the Mission Control assistant.

Run without arguments to start the interactive chat. Replies are rendered
from markdown; if the backend cannot be reached a diagnostic is shown instead.

The backend URL is resolved from, in increasing priority:
  built-in default (http://localhost:5000), the config file (api.base_url),
  $MISSION_API_URL, and the --api-url flag.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
			logging.CloseAll()
			logging.CloseAudit()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: ~/.mission/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Chat backend base URL (or set MISSION_API_URL)")
	rootCmd.PersistentFlags().StringVar(&a.theme, "theme", "", "Color theme: auto, dark or light")

	rootCmd.AddCommand(
		newAskCmd(a),
		newHealthCmd(a),
		newStubCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// setup resolves configuration and logging before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	a.configPath = path

	cfg, err := resolveConfig(path, a.apiURL, a.theme)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Get(logging.CategoryBoot).Info("config %s, backend %s", path, cfg.API.BaseURL)

	// The interactive UI owns the terminal; only file logging applies there.
	if cmd.Parent() == nil {
		a.logger = zap.NewNop()
		return nil
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	a.logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// resolveConfig loads the config file and applies flag overrides on top of
// the file and environment values.
func resolveConfig(path, apiURL, theme string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if theme != "" {
		cfg.UI.Theme = theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) runInteractive() error {
	s := newSession(a.cfg)
	return chat.Run(chat.Config{
		Store:          s.store,
		Controller:     s.ctrl,
		Health:         s.client,
		Theme:          a.cfg.UI.Theme,
		AssistantName:  a.cfg.UI.AssistantName,
		Placeholder:    a.cfg.UI.Placeholder,
		HealthInterval: a.cfg.GetHealthInterval(),
		Audit:          s.audit,
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
