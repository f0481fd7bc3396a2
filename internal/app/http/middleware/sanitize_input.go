package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"catalog-admin/internal/api/respond"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// Asset URLs and tokens are stored verbatim; escaping & would break them.
var rawFields = map[string]bool{
	"thumbnail":        true,
	"video":            true,
	"_oldThumbnailUrl": true,
	"_oldVideoUrl":     true,
	"idToken":          true,
	"contentType":      true,
}

// SanitizeAndCleanInputMiddleware strips markup from top-level string fields of JSON bodies.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Invalid body")
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		var body map[string]interface{}
		if err := json.Unmarshal(buf, &body); err != nil {
			respond.Error(c, http.StatusBadRequest, "Malformed JSON")
			return
		}

		for k, v := range body {
			if str, ok := v.(string); ok && !rawFields[k] {
				body[k] = stripMarkup(policy, str)
			}
		}

		newBody, err := json.Marshal(body)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Malformed JSON")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

// stripMarkup removes tags but stores plain text, not HTML entities. It repeats
// until stable so entity-encoded tags cannot come back as markup.
func stripMarkup(policy *bluemonday.Policy, s string) string {
	for i := 0; i < 3; i++ {
		out := html.UnescapeString(policy.Sanitize(s))
		if out == s {
			break
		}
		s = out
	}
	return s
}
