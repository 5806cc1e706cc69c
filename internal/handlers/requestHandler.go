package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/akolanti/pdfqa/internal/adapter"
	"github.com/akolanti/pdfqa/internal/adapter/utils"
	"github.com/akolanti/pdfqa/internal/api"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/rag"
	"github.com/akolanti/pdfqa/pkg/logger_i"
)

type Handler struct {
	service rag.Service
	logger  *logger_i.Logger
}

func NewHandler(service rag.Service) *Handler {
	return &Handler{
		service: service,
		logger:  logger_i.NewLogger("handlers"),
	}
}

// HealthHandler godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// UpdateVectorDBHandler godoc
// @Summary      Rebuild every index
// @Description  Rebuilds the vector index of every PDF in the documents directory. Documents are built independently; a failure leaves the other indexes in place.
// @Tags         Index
// @Produce      json
// @Success      200  {object}  api.UpdateResponse  "All indexes rebuilt"
// @Failure      404  {object}  api.ErrorResponse   "No PDF files found"
// @Failure      422  {object}  api.ErrorResponse   "A PDF could not be read"
// @Failure      502  {object}  api.ErrorResponse   "Embedding provider failed"
// @Router       /update_vectordb [post]
func (h *Handler) UpdateVectorDBHandler(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithTrace(r.Context())

	// a full rebuild has no upper bound, the server's WriteTimeout must not drop its response
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("Could not clear the write deadline", "error", err)
	}

	report, err := h.service.RebuildAll(r.Context())
	if err != nil {
		code := rebuildStatus(err)
		log.Warn("Rebuild failed", "httpCode", code, "error", err)
		writeReportError(w, code, commonModels.Detail(err, msgInternalFailure), report)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToUpdateResponse(report))
}

// AskQuestionsHandler godoc
// @Summary      Ask a question about one PDF
// @Description  Answers the last user message of the conversation from the top matching chunks of the PDF's index.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        pdf_name  path      string          true  "PDF file name, e.g. report.pdf"
// @Param        request   body      api.AskRequest  true  "Conversation, last message from the user"
// @Success      200       {object}  api.AskResponse
// @Failure      400       {object}  api.ErrorResponse  "Invalid conversation or index not built"
// @Failure      502       {object}  api.ErrorResponse  "Model provider failed"
// @Router       /ask_questions/{pdf_name} [post]
func (h *Handler) AskQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithTrace(r.Context())
	pdfName := utils.GetChiURLParam(r, "pdf_name")

	var requestData api.AskRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Error("Couldn't close the ask handler reader", "error", err)
		}
	}()
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		log.Warn("Bad ask request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	reply, err := h.service.Answer(r.Context(), pdfName, adapter.ToConversation(requestData.Conversation))
	if err != nil {
		code := askStatus(err)
		log.Warn("Ask failed", "document", pdfName, "httpCode", code, "error", err)
		WriteErrorResponse(w, code, commonModels.Detail(err, msgInternalFailure))
		return
	}

	writeJsonResponse(w, http.StatusOK, api.AskResponse{Response: reply})
}
