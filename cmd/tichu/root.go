package main

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tichu",
	Short: "Tichu bot simulator and utilities",
	Long: `Tichu is a command-line companion to the Tichu Nakama module.
It runs full bot-versus-bot matches locally, which is useful for tuning
bot strategies and sanity-checking the rules engine without a server.`,
}
