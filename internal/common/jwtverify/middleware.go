package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
	commonhttp "github.com/vmorozov/customer-hub/internal/common/http"
	"github.com/vmorozov/customer-hub/internal/common/logger"
	"github.com/vmorozov/customer-hub/internal/observability/metrics"
)

// Identity is the resolved account attached to authenticated requests.
type Identity struct {
	UserID    string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrUnknownUser is returned by a UserResolver when the token subject no
// longer exists.
var ErrUnknownUser = errors.New("unknown user")

// UserResolver looks up the account a verified token refers to. Tokens for
// deleted accounts must not pass the gate.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID string) (Identity, error)
}

type contextKey string

const identityKey contextKey = "auth_identity"

// All rejection modes answer with the same body so a probe cannot tell a
// bad token from a deleted account. The real reason goes to logs and
// metrics only.
const unauthorizedMessage = "Access denied. Valid authentication token required."

func Middleware(secret string, resolver UserResolver, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	reject := func(w http.ResponseWriter, r *http.Request, reason commonerrors.DomainError) {
		log.Warnf("auth failed path=%s: %v", r.URL.Path, reason)
		metrics.AuthRejections.WithLabelValues(strings.ToLower(reason.Code())).Inc()
		commonhttp.WriteFailure(w, http.StatusUnauthorized, unauthorizedMessage)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				reject(w, r, commonerrors.ErrMissingAuthorization)
				return
			}

			tokenString := strings.TrimPrefix(raw, "Bearer ")
			claims, err := ParseToken(tokenString, secretBytes)
			if err != nil {
				reject(w, r, commonerrors.ErrInvalidToken.WithCause(err))
				return
			}

			identity, err := resolver.ResolveUser(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, ErrUnknownUser) {
					reject(w, r, commonerrors.ErrUserNotFound.WithCause(err))
					return
				}
				log.Errorf("auth failed path=%s: user lookup error: %v", r.URL.Path, err)
				commonhttp.WriteFailure(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
