package commands

import (
	"fmt"
	"strings"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/spf13/cobra"
)

func NewAskCmd() *cobra.Command {
	var showSources bool

	cmd := &cobra.Command{
		Use:   "ask <pdf> <question>",
		Short: "Answer a question about one PDF",
		Long: `Answer a single question from the PDF's index. The index must have been
built with 'pdfqa rebuild' or POST /update_vectordb.

Examples:
  pdfqa ask report.pdf "What was the revenue in 2023?"
  pdfqa ask report.pdf "Who signed it?" --sources`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, closeServices, err := newService(ctx, settings)
			if err != nil {
				return err
			}
			defer closeServices()

			conversation := []commonModels.Message{{
				Role:    commonModels.RoleUser,
				Content: strings.Join(args[1:], " "),
			}}
			answer, err := service.AnswerWithSources(ctx, args[0], conversation)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, answer.Response)
			if showSources {
				for _, src := range answer.Sources {
					fmt.Fprintf(out, "\n[%s p.%d #%d]\n%s\n", src.DocName, src.PageNum, src.ChunkPageOrder, src.Chunk)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSources, "sources", false, "print the chunks the answer was grounded on")
	return cmd
}
