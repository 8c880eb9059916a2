package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/axellelanca/creatorverse/internal/config"
	"github.com/axellelanca/creatorverse/internal/logging"
)

// Cfg is the global variable that will contain the loaded configuration
// It will be accessible to all Cobra commands throughout the application
var Cfg *config.Config

// Logger is the process logger built from the log section of Cfg.
var Logger zerolog.Logger

// RootCmd is the base command for the CLI application
// All other commands (run-server, migrate, add, edit, delete, show, list) are added as subcommands
var RootCmd = &cobra.Command{
	Use:   "creatorverse",
	Short: "A catalog of content creators",
	Long: `Creatorverse keeps a catalog of content creators: a name, a profile URL,
a description and an optional image. It serves the catalog pages, lets you add,
edit and delete creators, and watches that their links still answer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point for the Cobra application
// It is called from 'main.go' and handles command execution and error handling
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Configuration is loaded before any command executes.
	// Subcommands register themselves via their own init() functions to avoid import cycles.
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration and builds the logger.
func initConfig() {
	var err error

	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Problem loading configuration")
	}

	Logger = logging.New(Cfg)

	source := Cfg.File
	if source == "" {
		source = "defaults"
	}
	Logger.Debug().
		Str("source", source).
		Int("port", Cfg.Server.Port).
		Str("store_driver", Cfg.Store.Driver).
		Bool("monitor_enabled", Cfg.Monitor.Enabled).
		Int("monitor_interval_minutes", Cfg.Monitor.IntervalMinutes).
		Msg("configuration loaded")
}
