// Package commands defines the cobra commands of the api binary.
package commands

import (
	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/spf13/cobra"
)

// shared by every subcommand, resolved in PersistentPreRunE
var (
	configPath string
	settings   *config.Settings
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pdfqa",
		Short: "Ask questions about the PDFs in a directory",
		Long: `pdfqa builds one vector index per PDF in the documents directory and
answers questions about a single PDF from its top matching chunks.

Provider credentials come from OPENAI_API_KEY (or GEMINI_API_KEY with
provider: gemini). Other settings come from ./pdfqa.yaml, --config, .env
and PDFQA_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			settings = loaded
			logger_i.Init(settings.LogLevel, settings.LogJSON)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ./pdfqa.yaml)")

	root.AddCommand(
		NewServeCmd(),
		NewRebuildCmd(),
		NewAskCmd(),
		NewMCPCmd(),
	)
	return root
}
