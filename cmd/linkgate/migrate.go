package main

import (
	"fmt"
	"strconv"

	"github.com/aussiebroadwan/linkgate/internal/access/store/drivers/sqlite"
	"github.com/spf13/cobra"
)

var migrateCommand = cobra.Command{
	Use:   "migrate",
	Short: "manages the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var migrateUpCommand = cobra.Command{
	Use:   "up",
	Short: "applies every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *sqlite.Store) error {
			if err := s.ApplyMigrations(); err != nil {
				return err
			}
			return printVersion(cmd, s)
		})
	},
}

var migrateDownCommand = cobra.Command{
	Use:   "down [steps]",
	Short: "rolls back migrations, all of them when no step count is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		return withStore(func(s *sqlite.Store) error {
			if err := s.MigrateDown(steps); err != nil {
				return err
			}
			return printVersion(cmd, s)
		})
	},
}

var migrateVersionCommand = cobra.Command{
	Use:   "version",
	Short: "prints the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *sqlite.Store) error { return printVersion(cmd, s) })
	},
}

func init() {
	migrateCommand.AddCommand(&migrateUpCommand)
	migrateCommand.AddCommand(&migrateDownCommand)
	migrateCommand.AddCommand(&migrateVersionCommand)
}

// withStore opens the database without migrating it.
func withStore(fn func(*sqlite.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.DatabaseFile, err)
	}
	defer s.Close()
	return fn(s)
}

func printVersion(cmd *cobra.Command, s *sqlite.Store) error {
	v, dirty, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty)\n", v)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
	return nil
}
