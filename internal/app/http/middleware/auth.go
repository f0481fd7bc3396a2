package middleware

import (
	"context"
	"net/http"

	"catalog-admin/internal/api/respond"
	"catalog-admin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SessionParser interface {
	Parse(ctx context.Context, raw string) (*session.Claims, error)
}

// AuthMiddleware admits requests carrying a valid session token and exposes the
// caller to handlers through session.CallerID / CallerEmail.
func AuthMiddleware(sessions SessionParser, cookie session.Cookie, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := cookie.Read(c)
		if raw == "" {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized - No token provided")
			return
		}

		claims, err := sessions.Parse(c.Request.Context(), raw)
		if session.Unavailable(err) {
			respond.Fail(c, log, err)
			return
		}
		if err != nil {
			log.WithError(err).WithField("path", c.Request.URL.Path).Debug("session rejected")
			cookie.Clear(c)
			respond.Error(c, http.StatusUnauthorized, "Unauthorized - Invalid token")
			return
		}

		session.SetCaller(c, claims)
		c.Next()
	}
}
