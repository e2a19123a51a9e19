package cmd

import (
	"github.com/spf13/cobra"

	"github.com/envops/incidentd/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize incidentd configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure incidentd and generates a .incidentd.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
