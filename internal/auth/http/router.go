package http

import (
	"context"
	"net/http"
	"time"

	"github.com/vmorozov/customer-hub/internal/auth/service"
	commonhttp "github.com/vmorozov/customer-hub/internal/common/http"
	"github.com/vmorozov/customer-hub/internal/common/jwtverify"
	"github.com/vmorozov/customer-hub/internal/common/logger"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type authPayload struct {
	User  userPayload `json:"user"`
	Token string      `json:"token"`
}

type Handler struct {
	auth    *service.AuthService
	timeout time.Duration
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
}

// NewHandler mounts the auth routes. authGate protects /api/auth/me; the
// credential endpoints stay public.
func NewHandler(
	auth *service.AuthService,
	authGate func(http.Handler) http.Handler,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		auth:    auth,
		timeout: timeout,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", h.register)
	mux.HandleFunc("/api/auth/login", h.login)
	mux.Handle("/api/auth/me", authGate(http.HandlerFunc(h.me)))
	mux.HandleFunc("/api/auth/", func(w http.ResponseWriter, _ *http.Request) {
		commonhttp.WriteFailure(w, http.StatusNotFound, "API endpoint not found")
	})
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusCreated, "User registered successfully", authPayload{
		User:  toUserPayload(result),
		Token: result.Token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, "Login successful", authPayload{
		User:  toUserPayload(result),
		Token: result.Token,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteFailure(w, http.StatusUnauthorized, "Access denied. Valid authentication token required.")
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, "User profile retrieved successfully", map[string]userPayload{
		"user": {
			ID:        identity.UserID,
			Email:     identity.Email,
			CreatedAt: identity.CreatedAt,
			UpdatedAt: identity.UpdatedAt,
		},
	})
}

func toUserPayload(result service.AuthResult) userPayload {
	return userPayload{
		ID:        string(result.User.ID),
		Email:     result.User.Email,
		CreatedAt: result.User.CreatedAt,
		UpdatedAt: result.User.UpdatedAt,
	}
}
