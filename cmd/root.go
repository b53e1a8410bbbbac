package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arjunrk/govdoc-intel/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "govdoc",
	Short: "OCR document intelligence for scanned government financial records",
	Long: `Govdoc turns scanned government financial documents (treasury accounts,
Form-80 monthly accounts, vouchers, schedules) into validated, structured,
searchable records. It cleans raw OCR output, extracts financial fields,
gates low-quality scans, and indexes the text for semantic question
answering over the corpus.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// API keys are commonly kept in a local .env during development.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
