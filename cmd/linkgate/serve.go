package main

import (
	"github.com/aussiebroadwan/linkgate/internal/access/app"
	"github.com/spf13/cobra"
)

var serveCommand = cobra.Command{
	Use:   "serve",
	Short: "starts the http server",
	Long:  `Starts the HTTP server with the token sweeper and serves until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		application, err := app.New(cfg)
		if err != nil {
			return err
		}
		return application.Run()
	},
}
