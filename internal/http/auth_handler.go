package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/overlap-planner/internal/application"
)

// SessionTokenHeader carries the token in both directions: it is set on the
// login response for clients that cannot read Set-Cookie headers, and it is
// accepted on requests alongside Authorization and the session cookie.
const SessionTokenHeader = "X-Session-Token"

const sessionCookieName = "session_token"

// AuthHandler serves session issuance and revocation.
type AuthHandler struct {
	service   *application.AuthService
	responder responder
	logger    *slog.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(service *application.AuthService, logger *slog.Logger) *AuthHandler {
	logger = defaultLogger(logger)
	return &AuthHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type createSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// CreateSession handles POST /sessions.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := handlerLogger(ctx, h.logger, "AuthHandler", "CreateSession")

	var payload createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.Authenticate(ctx, application.AuthenticateParams{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	session := result.Session
	logger.InfoContext(ctx, "session issued", "session_id", session.ID)

	setSessionCookie(w, session.Token, session.ExpiresAt)
	w.Header().Set(SessionTokenHeader, session.Token)
	h.responder.writeJSON(ctx, w, http.StatusCreated, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// DeleteCurrentSession handles DELETE /sessions/current.
func (h *AuthHandler) DeleteCurrentSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := handlerLogger(ctx, h.logger, "AuthHandler", "DeleteCurrentSession")

	token := extractTokenFromRequest(r)
	if token == "" {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	if err := h.service.RevokeSession(ctx, token); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "session revoked")
	clearSessionCookie(w)
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func extractTokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}

	authorization := strings.TrimSpace(r.Header.Get("Authorization"))
	if authorization != "" {
		parts := strings.SplitN(authorization, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	if token := strings.TrimSpace(r.Header.Get(SessionTokenHeader)); token != "" {
		return token
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
