package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/HnnhKylSdsBrl/ClassCart/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classcart",
	Short: "ClassCart is a campus marketplace for students.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting ClassCart server...")
		// server.Start handles its own config loading and startup logging.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
