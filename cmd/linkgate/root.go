package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/linkgate/internal/access/app"
	"github.com/spf13/cobra"
)

// configFile is the optional config file given with --config.
var configFile string

var rootCommand = cobra.Command{
	Use:   "linkgate",
	Short: "linkgate issues and checks guest link tokens",
	Long: `linkgate hands out opaque link tokens that let guests accept invitations
and answer questionnaires without an account. Running it without a
subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand.RunE(cmd, args)
	},
}

func execute() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCommand.PersistentFlags().
		StringVar(&configFile, "config", "", "config file to read before the environment")

	rootCommand.AddCommand(&serveCommand)
	rootCommand.AddCommand(&migrateCommand)
	rootCommand.AddCommand(&tokenCommand)
	rootCommand.AddCommand(&projectCommand)
	rootCommand.AddCommand(&versionCommand)
}

var versionCommand = cobra.Command{
	Use:   "version",
	Short: "prints the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "linkgate %s\n", app.BuildVersion)
	},
}

func loadConfig() (app.Config, error) {
	return app.LoadConfig(configFile)
}

// openCore is the composite root of the offline commands. Mail is never
// sent from the CLI.
func openCore() (*app.Core, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := app.NewLogger(cfg)
	core, err := app.OpenCore(cfg, nil, logger)
	if err != nil {
		return nil, nil, err
	}
	return core, logger, nil
}
