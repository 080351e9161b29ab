package main

import (
	"github.com/spf13/cobra"

	"cstsite/internal/config"
)

func newRootCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cstsite",
		Short: "Cstsite is the marketing-site backend: contact intake, job applications and the admin back office",
	}

	cmd.Version = version

	cmd.AddCommand(
		newSrvCmd(cfg),
		newAdminCmd(cfg),
		newExportCmd(cfg),
	)

	return cmd
}
