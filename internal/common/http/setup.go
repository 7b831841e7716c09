package http

import (
	"net/http"

	"github.com/vmorozov/customer-hub/internal/common/httpmetrics"
	"github.com/vmorozov/customer-hub/internal/common/logger"
)

// BuildBaseHandler stacks the ambient middleware every request goes through:
// security headers, panic recovery, trace ids, body size limits, metrics.
func BuildBaseHandler(log *logger.Logger, maxRequestSize int64, handler http.Handler) http.Handler {
	metricsWrapper := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxSize := MaxRequestSizeMiddleware(maxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxSize(metricsWrapper.Wrap(handler)))))
}
