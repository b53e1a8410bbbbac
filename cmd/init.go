package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arjunrk/govdoc-intel/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize govdoc configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the document pipeline and generates a .govdoc.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
