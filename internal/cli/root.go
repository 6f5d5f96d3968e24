// Package cli holds the oxy-orbit commands that run without a display.
package cli

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-orbit/internal/config"
	"github.com/Carmen-Shannon/oxy-orbit/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App is the state shared by every command: the loaded config and the logger
// built from it. It is filled in by the root command's PersistentPreRunE.
type App struct {
	ConfigPath string
	LogLevel   string

	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd builds the root command with the headless subcommands attached.
// Callers add display-bound commands (view) with AddCommand.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "oxy-orbit",
		Short: "Orbit camera controller viewer and gesture replay tool",
		Long: `oxy-orbit drives a camera around a target point from mouse, wheel, touch and
keyboard input. It can open a window onto glTF models, replay scripted
gestures headlessly and manage its configuration file.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "config file (default ~/.oxy-orbit/config.yaml)")
	root.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(newReplayCmd(app))
	root.AddCommand(newBoundsCmd(app))
	root.AddCommand(newConfigCmd(app))
	return root
}

// load reads the config and builds the logger. Commands annotated with
// skipConfigLoad (config init) only get a default logger.
func (a *App) load(cmd *cobra.Command) error {
	if a.ConfigPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		a.ConfigPath = path
	}

	if _, skip := cmd.Annotations[skipConfigLoad]; skip {
		a.Config = config.Default()
	} else {
		cfg, err := config.LoadFromPath(a.ConfigPath)
		if err != nil {
			return err
		}
		a.Config = cfg
	}

	if a.LogLevel != "" {
		a.Config.Logging.Level = a.LogLevel
	}
	logger, err := logging.New(a.Config.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.Logger = logger
	return nil
}

// Execute runs root and prints any error to stderr. It returns the process exit code.
func Execute(root *cobra.Command) int {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

const skipConfigLoad = "skip-config-load"
