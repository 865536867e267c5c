package main

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/spf13/cobra"
)

var projectCommand = cobra.Command{
	Use:   "project",
	Short: "manages projects",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var (
	projectOwner string
	projectTitle string
)

var projectCreateCommand = cobra.Command{
	Use:   "create",
	Short: "creates a project for an owner subject",
	Long:  `Creates a project owned by the given identity provider subject, mainly used to seed a fresh install.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if projectOwner == "" {
			return errors.New("--owner is required")
		}
		core, _, err := openCore()
		if err != nil {
			return err
		}
		defer core.Close()

		rc := domain.RequestContext{Principal: &domain.Principal{Subject: projectOwner}}
		p, err := core.Projects.Create(cmd.Context(), rc, projectTitle)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "project %s created for %s\n", p.ID, p.OwnerID)
		return nil
	},
}

func init() {
	projectCreateCommand.Flags().StringVar(&projectOwner, "owner", "", "owner subject (the identity provider's sub claim)")
	projectCreateCommand.Flags().StringVar(&projectTitle, "title", "", "project title")
	projectCommand.AddCommand(&projectCreateCommand)
}
