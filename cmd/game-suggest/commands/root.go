package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "game-suggest",
	Short: "game-suggest scrapes a dekudeals wishlist and ranks the games on it.",
}

var configFile *string
var debugHttp *bool

func init() {
	configFile = rootCmd.PersistentFlags().String(
		"config", "gamesuggest.json5", "Path to the configuration file.")
	debugHttp = rootCmd.PersistentFlags().Bool(
		"debug-http", false, "Dump raw http traffic to the resty_debug directory.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
