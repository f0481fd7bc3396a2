package auth

import (
	"context"
	"net/http"

	"catalog-admin/internal/api/respond"
	"catalog-admin/internal/domain/users"
	"catalog-admin/internal/infra/identity"
	"catalog-admin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type LoginRecorder interface {
	RecordLogin(ctx context.Context, who identity.Identity) (*users.User, error)
}

type createSessionRequest struct {
	IDToken string `json:"idToken"`
}

type sessionResponse struct {
	Success bool          `json:"success"`
	User    *session.User `json:"user,omitempty"`
}

// SessionHandler exchanges a verified ID token for the dashboard session cookie.
type SessionHandler struct {
	verifier identity.TokenVerifier
	logins   LoginRecorder
	sessions *session.Manager
	cookie   session.Cookie
	log      logrus.FieldLogger
}

func NewSessionHandler(v identity.TokenVerifier, logins LoginRecorder, sessions *session.Manager, cookie session.Cookie, log logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{
		verifier: v,
		logins:   logins,
		sessions: sessions,
		cookie:   cookie,
		log:      log,
	}
}

func (h *SessionHandler) Register(r gin.IRouter) {
	r.POST("/auth/session", h.Create)
	r.GET("/auth/session", h.Get)
	r.DELETE("/auth/session", h.Delete)
}

// POST /auth/session
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		respond.Error(c, http.StatusBadRequest, "ID token is required")
		return
	}

	who, err := h.verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		h.log.WithError(err).Warn("id token rejected")
		respond.Error(c, http.StatusUnauthorized, "Failed to create session")
		return
	}

	if _, err := h.logins.RecordLogin(c.Request.Context(), *who); err != nil {
		h.log.WithError(err).WithField("uid", who.UID).Error("failed to record sign-in")
		respond.Error(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	u := session.User{UID: who.UID, Email: who.Email, Name: who.Name}
	token, err := h.sessions.Issue(u)
	if err != nil {
		h.log.WithError(err).Error("failed to issue session token")
		respond.Error(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.cookie.Write(c, token, h.sessions.TTL())
	c.JSON(http.StatusOK, sessionResponse{Success: true, User: &u})
}

// GET /auth/session
func (h *SessionHandler) Get(c *gin.Context) {
	raw := h.cookie.Read(c)
	if raw == "" {
		respond.Error(c, http.StatusUnauthorized, "No session found")
		return
	}

	claims, err := h.sessions.Parse(c.Request.Context(), raw)
	if session.Unavailable(err) {
		respond.Fail(c, h.log, err)
		return
	}
	if err != nil {
		h.cookie.Clear(c)
		respond.Error(c, http.StatusUnauthorized, "Invalid session")
		return
	}

	u := claims.User()
	c.JSON(http.StatusOK, sessionResponse{Success: true, User: &u})
}

// DELETE /auth/session always clears the cookie; a still-valid token is also revoked.
func (h *SessionHandler) Delete(c *gin.Context) {
	if raw := h.cookie.Read(c); raw != "" {
		if claims, err := h.sessions.Parse(c.Request.Context(), raw); err == nil {
			if err := h.sessions.Revoke(c.Request.Context(), claims); err != nil {
				h.log.WithError(err).Warn("failed to revoke session")
			}
		}
	}

	h.cookie.Clear(c)
	c.JSON(http.StatusOK, sessionResponse{Success: true})
}
