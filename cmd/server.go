package cmd

import (
	"github.com/HnnhKylSdsBrl/ClassCart/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ClassCart HTTP server",
	Long:  `Start the ClassCart marketplace HTTP server, serving the JSON API and static assets.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
