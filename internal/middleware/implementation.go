package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/pdfqa/internal/adapter/utils"
	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/metrics"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Middleware runs trace injection, optional bearer auth and optional per-IP
// rate limiting in front of every handler, then counts the response.
type Middleware struct {
	authToken string
	limiter   *IPRateLimiter
	logger    *logger_i.Logger
}

func New(settings *config.Settings) *Middleware {
	m := &Middleware{
		authToken: settings.AuthToken,
		logger:    logger_i.NewLogger("middleware"),
	}
	if settings.RateLimit {
		m.limiter = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)
	}
	if m.authToken == "" {
		m.logger.Warn("No auth token configured, requests are not authenticated")
	}
	return m
}

func (m *Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := m.processRequest(requestResponseStruct{req: r, writer: rec})

		if !re.badRequest.isBadRequest {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(utils.RoutePattern(re.req), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func (m *Middleware) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = m.logger
	re = injectTrace(re)
	re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	re = m.authenticate(re)
	if !handleBadRequest(re) {
		return re //stop if auth fails
	}
	re = m.rateLimiter(re)
	handleBadRequest(re)
	return re
}
