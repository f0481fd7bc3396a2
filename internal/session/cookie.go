package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	ctxUID   = "uid"
	ctxEmail = "email"
)

// Cookie writes the session token as an HttpOnly, SameSite=Lax cookie.
type Cookie struct {
	Name   string
	Secure bool
}

func (ck Cookie) Write(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ck.Name, token, int(ttl.Seconds()), "/", "", ck.Secure, true)
}

func (ck Cookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ck.Name, "", -1, "/", "", ck.Secure, true)
}

// Read returns the token from the cookie, falling back to a Bearer header.
func (ck Cookie) Read(c *gin.Context) string {
	if v, err := c.Cookie(ck.Name); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// SetCaller stores the authenticated identity for downstream handlers.
func SetCaller(c *gin.Context, claims *Claims) {
	c.Set(ctxUID, claims.Subject)
	c.Set(ctxEmail, claims.Email)
}

func CallerID(c *gin.Context) string {
	return c.GetString(ctxUID)
}

func CallerEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}
