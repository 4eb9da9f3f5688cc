package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/aretw0/abacus/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "abacus",
	Short: "Abacus is a keypad-driven scientific calculator",
	Long: `Abacus simulates a scientific calculator keypad. Keys build an equation,
a live preview follows every keystroke and "=" commits the result.
Sessions can be kept in memory, on disk or in Redis.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("store", "", "Session store driver (memory, file, redis)")
	rootCmd.PersistentFlags().String("dir", "", "Directory for the file store")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	var o cli.Overrides
	o.LogLevel, _ = cmd.Flags().GetString("log-level")
	o.Driver, _ = cmd.Flags().GetString("store")
	o.Dir, _ = cmd.Flags().GetString("dir")
	if err := o.Apply(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mustApp builds the application or exits.
func mustApp(ctx context.Context, cmd *cobra.Command) *cli.App {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		fmt.Printf("Error initializing abacus: %v\n", err)
		os.Exit(1)
	}
	return app
}
