package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akolanti/pdfqa/internal/adapter"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/pkg/logger_i"
)

const (
	maxBodyBytes       = 1 << 20
	msgInvalidBody     = "Invalid request body."
	msgInternalFailure = "Internal Server Error"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logger_i.NewLogger("handlers").Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, detail string) {
	writeJsonResponse(w, httpCode, adapter.ErrorBody(detail, nil))
}

func writeReportError(w http.ResponseWriter, httpCode int, detail string, report jobModel.BuildReport) {
	writeJsonResponse(w, httpCode, adapter.ErrorBody(detail, report))
}

// askStatus maps an Answer error. A missing index is the caller's fault here.
func askStatus(err error) int {
	switch {
	case errors.Is(err, commonModels.ErrValidation), errors.Is(err, commonModels.ErrNotFound):
		return http.StatusBadRequest
	case errors.Is(err, commonModels.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func rebuildStatus(err error) int {
	switch {
	case errors.Is(err, commonModels.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, commonModels.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, commonModels.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
