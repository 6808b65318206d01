package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/penguin/core/cmd/api/commands"
)

// @title Penguin API
// @version 1.0
// @description Shared accountability tracker for two participants

// @host localhost:8080
// @BasePath /api/v1

func main() {
	rootCmd := &cobra.Command{
		Use:   "penguin",
		Short: "Penguin API Server",
		Long:  `Penguin is a shared accountability tracker: two participants keep goals with checklists, private task lists, a shared message thread and a reward ledger.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewStorageCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
