package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/cropwise-guidance-service/internal/auth"
	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
	"github.com/couchcryptid/cropwise-guidance-service/internal/observability"
	"github.com/couchcryptid/cropwise-guidance-service/internal/service"
	"github.com/couchcryptid/cropwise-guidance-service/internal/store"
)

type handlers struct {
	store     *store.Store
	guidance  *service.Guidance
	analytics *service.Analytics
	tokens    *auth.TokenIssuer
	metrics   *observability.Metrics
	logger    *slog.Logger
	validate  *validator.Validate
}

// decodeValid decodes a JSON body into v and runs struct validation.
// Both failure modes surface as a 400.
func (h *handlers) decodeValid(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("Invalid request body")
	}
	if err := h.validate.Struct(v); err != nil {
		return domain.Invalid("Invalid request body")
	}
	return nil
}

func (h *handlers) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

// --- auth ---

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *handlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	ctx := r.Context()

	existing, err := h.store.UserByUsername(ctx, req.Username)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if existing != nil {
		writeError(w, h.logger, domain.Invalid("Username already exists"))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	// The very first account becomes the admin, as does anyone claiming
	// the name "admin" while it is still free.
	count, err := h.store.CountUsers(ctx)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	user := &store.User{
		Username:       req.Username,
		HashedPassword: hashed,
		IsAdmin:        count == 0 || strings.EqualFold(req.Username, "admin"),
	}
	if err := h.store.CreateUser(ctx, user); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.metrics.SignupsTotal.Inc()
	h.logger.Info("user signed up", "username", user.Username, "admin", user.IsAdmin)

	h.issueToken(w, user.Username)
}

func (h *handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, h.logger, domain.Invalid("Invalid form body"))
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.store.UserByUsername(r.Context(), username)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if user == nil || !auth.VerifyPassword(password, user.HashedPassword) {
		writeError(w, h.logger, domain.Unauthorized("Invalid credentials"))
		return
	}

	h.issueToken(w, user.Username)
}

func (h *handlers) issueToken(w http.ResponseWriter, username string) {
	token, err := h.tokens.Issue(username)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
	})
}

// --- analytics ---

type eventRequest struct {
	EventName string         `json:"event_name" validate:"required"`
	Meta      map[string]any `json:"meta"`
}

// handleAnalyticsEvent records a usage event. Authentication is
// optional; a bad or stale token degrades to an anonymous event rather
// than an error.
func (h *handlers) handleAnalyticsEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := h.analytics.ResolveActor(r.Context(), bearerToken(r))
	id, err := h.analytics.LogEvent(r.Context(), userID, req.EventName, req.Meta)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}
