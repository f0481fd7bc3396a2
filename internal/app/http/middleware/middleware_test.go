package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-admin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct{}

func (fakeSessions) Parse(_ context.Context, raw string) (*session.Claims, error) {
	if raw != "valid" {
		return nil, errors.New("token is expired")
	}
	return &session.Claims{
		Email:            "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-1"},
	}, nil
}

type downDenylist struct{}

func (downDenylist) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("connection refused")
}

func (downDenylist) Exists(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func authRouter(sessions SessionParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()
	r := gin.New()
	r.Use(AuthMiddleware(sessions, session.Cookie{Name: "session"}, log))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, session.CallerID(c)+" "+session.CallerEmail(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := authRouter(fakeSessions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Unauthorized - No token provided"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "stale"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized - Invalid token")
	require.Len(t, w.Result().Cookies(), 1)
	assert.True(t, w.Result().Cookies()[0].MaxAge < 0)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uid-1 a@example.com", w.Body.String())
}

func TestAuthMiddleware_DenylistOutageKeepsSession(t *testing.T) {
	sessions := session.NewManager("secret", time.Hour, downDenylist{})
	token, err := sessions.Issue(session.User{UID: "uid-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	w := httptest.NewRecorder()
	authRouter(sessions).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to verify session"}`, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func sanitizeRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.Any("/echo", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		*seen = string(b)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestSanitize_StripsMarkupButKeepsURLs(t *testing.T) {
	var seen string
	r := sanitizeRouter(&seen)

	url := "https://firebasestorage.googleapis.com/v0/b/b/o/video%2Fa.png?alt=media&token=x"
	body := `{"title":"<script>alert(1)</script>Intro","thumbnail":"` + url + `","isActive":true}`
	req := httptest.NewRequest(http.MethodPatch, "/echo", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.JSONEq(t, `{"title":"Intro","thumbnail":"`+url+`","isActive":true}`, seen)
}

func TestSanitize_KeepsPlainTextVerbatim(t *testing.T) {
	var seen string
	r := sanitizeRouter(&seen)

	body := `{"title":"Tom & Jerry","description":"<b>x</b>","filename":"a&b.mp4","note":"&lt;b&gt;ok&lt;/b&gt;"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.JSONEq(t, `{"title":"Tom & Jerry","description":"x","filename":"a&b.mp4","note":"ok"}`, seen)

	// resubmitting the stored value does not escape it again
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/echo", bytes.NewBufferString(seen)))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.JSONEq(t, `{"title":"Tom & Jerry","description":"x","filename":"a&b.mp4","note":"ok"}`, seen)
}

func TestSanitize_RejectsMalformedJSON(t *testing.T) {
	var seen string
	r := sanitizeRouter(&seen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{"title":`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Malformed JSON")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(Recovery(log))
	r.GET("/boom", func(*gin.Context) { panic("nil map") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "handler panicked", hook.LastEntry().Message)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, "/missing", entry.Data["path"])
}
