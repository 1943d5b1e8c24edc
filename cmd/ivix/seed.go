package main

import (
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the stored catalog to the starting games",
	Long:  "Replaces the persisted game catalog, including all reviews and submitted games, with the five starting entries. Accounts and the session are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return a.controller.ResetCatalog(cmd.Context())
	},
}
