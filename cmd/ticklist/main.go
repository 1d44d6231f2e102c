package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fentz26/ticklist/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ticklist",
	Short: "ticklist - a persistent task list",
	Long:  `ticklist keeps a single list of tasks in a local SQLite database and edits it from an interactive TUI or from the command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			// First run: write the defaults so there is a file to edit.
			if err := config.SaveConfig(configPath, c); err != nil {
				log.Printf("Warning: failed to write default config: %v", err)
			}
		}
		if dbPath != "" {
			c.DBPath = dbPath
		}
		cfg = c
		return nil
	},
	SilenceUsage: true,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath string
	dbPath     string
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (overrides db_path in the config)")

	// Add subcommands
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(addCmd, listCmd, doneCmd, undoneCmd, editCmd, rmCmd, clearCmd, filterCmd, migrateCmd, logCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
