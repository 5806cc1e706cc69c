package commands

import (
	"encoding/json"
	"fmt"

	"github.com/akolanti/pdfqa/internal/adapter"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/spf13/cobra"
)

func NewRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild [pdf]",
		Short: "Rebuild the vector index of every PDF, or of one PDF",
		Long: `Rebuild indexes without starting the server. With no argument every PDF
in the documents directory is rebuilt, the same as POST /update_vectordb.

Examples:
  pdfqa rebuild
  pdfqa rebuild report.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, closeServices, err := newService(ctx, settings)
			if err != nil {
				return err
			}
			defer closeServices()

			var report jobModel.BuildReport
			if len(args) == 1 {
				job, rebuildErr := service.RebuildDocument(ctx, args[0])
				report, err = jobModel.BuildReport{job}, rebuildErr
			} else {
				report, err = service.RebuildAll(ctx)
			}

			if len(report) > 0 {
				out, _ := json.MarshalIndent(adapter.ToDocumentStatuses(report), "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), adapter.MsgUpdated)
			return nil
		},
	}
}
