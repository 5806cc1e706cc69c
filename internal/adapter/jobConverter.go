package adapter

import (
	"github.com/akolanti/pdfqa/internal/api"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
)

const MsgUpdated = "Vector databases updated for all PDFs in the root directory."

func ToDocumentStatus(job jobModel.Job) api.DocumentStatus {
	status := api.DocumentStatus{
		Document: job.DocName,
		Status:   string(job.Status),
		Chunks:   job.Chunks,
	}
	if job.Error != nil {
		status.Error = job.Error.Message
	}
	return status
}

func ToDocumentStatuses(report jobModel.BuildReport) []api.DocumentStatus {
	statuses := make([]api.DocumentStatus, len(report))
	for i, job := range report {
		statuses[i] = ToDocumentStatus(job)
	}
	return statuses
}

func ToUpdateResponse(report jobModel.BuildReport) api.UpdateResponse {
	return api.UpdateResponse{
		Message:   MsgUpdated,
		Documents: ToDocumentStatuses(report),
	}
}

// ToConversation keeps the roles as sent; validation happens in the service.
func ToConversation(messages []api.ConversationMessage) []commonModels.Message {
	conversation := make([]commonModels.Message, len(messages))
	for i, m := range messages {
		conversation[i] = commonModels.Message{Role: commonModels.Role(m.Role), Content: m.Content}
	}
	return conversation
}

func ErrorBody(detail string, report jobModel.BuildReport) api.ErrorResponse {
	body := api.ErrorResponse{Detail: detail}
	if len(report) > 0 {
		body.Documents = ToDocumentStatuses(report)
	}
	return body
}
