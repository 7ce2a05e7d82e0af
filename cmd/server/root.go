package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "activityhub",
	Short: "Activity Hub API server",
	// Running the binary without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err.Error())
	}
}
