package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/notify"
	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

type AuthHandler struct {
	auth        *usecase.Auth
	workspace   *usecase.Workspace
	inbox       *notify.Inbox
	rateLimiter *RateLimiter
	log         *zap.Logger
}

func NewAuthHandler(auth *usecase.Auth, workspace *usecase.Workspace, inbox *notify.Inbox, loginsPerMinute int, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		workspace:   workspace,
		inbox:       inbox,
		rateLimiter: NewRateLimiter(loginsPerMinute),
		log:         log,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Demasiados intentos. Intenta de nuevo en un momento.")
		return
	}

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "email y password son obligatorios")
		return
	}

	sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeErrorResponse(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
			return
		}
		writeError(w, err)
		return
	}

	h.workspace.Open(sess)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeOK(w, http.StatusOK, "Hola, "+sess.User.Name, LoginResponse{Token: sess.Token, User: sess.User})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	if err := h.auth.Logout(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	h.workspace.Close(sess.Token)
	h.inbox.Forget(sess.Token)
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeOK(w, http.StatusOK, "Sesión cerrada", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	writeOK(w, http.StatusOK, "", sess.User)
}
