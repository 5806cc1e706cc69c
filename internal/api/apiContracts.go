package api

// requests---------------------

type ConversationMessage struct {
	Role    string `json:"role" example:"user" enums:"system,user,assistant"`
	Content string `json:"content" example:"What is the capital of France?"`
}

type AskRequest struct {
	Conversation []ConversationMessage `json:"conversation"`
}

// responses---------------------

type AskResponse struct {
	Response string `json:"response" example:"Paris."`
}

type DocumentStatus struct {
	Document string `json:"document" example:"report.pdf"`
	Status   string `json:"status" example:"COMPLETE"`
	Chunks   int    `json:"chunks" example:"42"`
	Error    string `json:"error,omitempty" example:"Embedding request failed."`
}

type UpdateResponse struct {
	Message   string           `json:"message" example:"Vector databases updated for all PDFs in the root directory."`
	Documents []DocumentStatus `json:"documents"`
}

type ErrorResponse struct {
	Detail    string           `json:"detail" example:"Vector database not found. Please update the vector database first."`
	Documents []DocumentStatus `json:"documents,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
