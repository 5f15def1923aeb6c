package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the CourseBid CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coursebid",
		Short: "CourseBid - student identity service",
		Long: `CourseBid's identity service handles student account registration,
credential verification, and session-gated access for the course
auction platform.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
