package http

import (
	"net/http"
	"runtime/debug"

	"github.com/vmorozov/customer-hub/internal/common/logger"
)

// RecoveryMiddleware converts handler panics into a 500 envelope so a
// single bad request cannot take the process down.
func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Criticalf("panic handling %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					WriteFailure(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
