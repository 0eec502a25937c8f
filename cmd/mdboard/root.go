package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings is the merged flag/env configuration. Flags win over MDBOARD_*
// environment variables, which win over defaults.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "mdboard",
	Short: "Markdown task board for your repo",
	Long: `mdboard serves a kanban board, prompt library, and document store backed
entirely by markdown files under .mdboard/ in your project.

Running mdboard with no subcommand starts the board server.

Example usage:
  mdboard                       # Serve the board (auto-assigned port)
  mdboard serve --port 10600    # Serve on a fixed port
  mdboard init                  # Scaffold .mdboard/ in the current project

Environment variables MDBOARD_PORT, MDBOARD_DIR, and MDBOARD_LOG_FILE
override the corresponding flag defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().IntP("port", "p", 0, "Port to listen on (default: auto-assign from 10600-10700)")
	rootCmd.PersistentFlags().StringP("dir", "d", ".mdboard", "Data directory")
	rootCmd.PersistentFlags().String("log-file", "", "Write server logs to this file with rotation (default: stderr)")

	settings.SetEnvPrefix("MDBOARD")
	settings.AutomaticEnv()
	settings.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	settings.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	settings.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
}
