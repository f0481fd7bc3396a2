package uploads

import (
	"context"
	"net/http"
	"time"

	"catalog-admin/internal/api/respond"
	"catalog-admin/internal/apperr"
	"catalog-admin/internal/domain/media"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, expire time.Duration) (string, error)
}

type createUploadRequest struct {
	Kind        string `json:"kind" binding:"required"`
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required"`
}

type uploadResponse struct {
	UploadURL   string    `json:"uploadUrl"`
	DownloadURL string    `json:"downloadUrl"`
	Key         string    `json:"key"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Handler hands out presigned PUT URLs; the client uploads directly to storage
// and then stores the download URL on the video.
type Handler struct {
	presigner Presigner
	locator   media.Locator
	ttl       time.Duration
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewHandler(p Presigner, locator media.Locator, ttl time.Duration, log logrus.FieldLogger) *Handler {
	return &Handler{presigner: p, locator: locator, ttl: ttl, log: log, now: time.Now}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/uploads", h.Create)
}

func (h *Handler) Create(c *gin.Context) {
	var req createUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	if !media.ValidKind(req.Kind) {
		respond.Fail(c, h.log, apperr.InvalidField("kind", "Kind must be thumbnail or video"))
		return
	}

	now := h.now()
	key := media.ObjectKeyFor(req.Kind, req.Filename, now)

	uploadURL, err := h.presigner.PresignUpload(c.Request.Context(), key, req.ContentType, h.ttl)
	if err != nil {
		h.log.WithError(err).WithField("key", key).Error("failed to presign upload")
		respond.Error(c, http.StatusInternalServerError, "Failed to create upload URL")
		return
	}

	respond.OK(c, http.StatusCreated, "Upload URL created successfully", uploadResponse{
		UploadURL:   uploadURL,
		DownloadURL: h.locator.DownloadURL(key),
		Key:         key,
		ExpiresAt:   now.Add(h.ttl),
	})
}
