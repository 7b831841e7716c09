package http

import (
	"net/http"
	"time"

	"github.com/vmorozov/customer-hub/internal/common/logger"
)

var processStart = time.Now()

// HealthHandler reports liveness. It deliberately avoids touching the
// database so load balancers keep routing while the pool reconnects.
func HealthHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		log.Debugf("health check request")
		WriteSuccess(w, http.StatusOK, "Service is healthy", map[string]string{
			"status": "ok",
			"uptime": time.Since(processStart).Truncate(time.Second).String(),
		})
	}
}
