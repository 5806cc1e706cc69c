package customHttpClient

import (
	"net/http"

	"github.com/akolanti/pdfqa/internal/config"
)

// NewClient returns the pooled client shared by the embedding and completion
// calls. No client timeout is set; callers bound each call with their context.
func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        config.MaxIdleConns,
			MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
			IdleConnTimeout:     config.IdleConnTimeout,
		},
	}
}
