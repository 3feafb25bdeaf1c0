// Package commands implements the CLI commands for oxy-shadows.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-shadows/engine"
	"github.com/Carmen-Shannon/oxy-shadows/engine/config"
	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"github.com/Carmen-Shannon/oxy-shadows/engine/window"
	"github.com/spf13/cobra"
)

// EngineFactory builds the engine for a validated scene.
type EngineFactory func(scene *config.SceneFile, headless bool) (engine.Engine, error)

// DefaultEngineFactory opens a window unless headless and creates a WGPU-backed engine.
func DefaultEngineFactory(scene *config.SceneFile, headless bool) (engine.Engine, error) {
	opts := scene.EngineOptions()
	if !headless {
		w, err := window.NewWindow(scene.WindowOptions()...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithWindow(w))
	}
	return engine.NewEngine(opts...), nil
}

// CLI represents the command line interface for oxy-shadows.
type CLI struct {
	factory EngineFactory
	rootCmd *cobra.Command
}

// New creates a new CLI instance that builds engines with factory.
func New(factory EngineFactory) *CLI {
	rootCmd := &cobra.Command{
		Use:           "oxy-shadows",
		Short:         "Point-light shadow map renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "scene.yaml", "Path to scene file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the scene file")

	c := &CLI{
		factory: factory,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newValidateCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command and log output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// loadScene reads and validates the scene named by the config flag.
func loadScene(cmd *cobra.Command) (*config.SceneFile, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	scene, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return scene, nil
}

// setupLogger installs a text logger on the command's error stream.
// The flag wins over the scene file; with neither, Info is used.
func setupLogger(cmd *cobra.Command, scene *config.SceneFile) error {
	name, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	if name == "" {
		name = scene.Engine.LogLevel
	}

	level := slog.LevelInfo
	if name != "" {
		if level, err = logger.ParseLevel(name); err != nil {
			return err
		}
	}
	logger.SetLogger(logger.NewTextLogger(cmd.ErrOrStderr(), level))
	return nil
}
