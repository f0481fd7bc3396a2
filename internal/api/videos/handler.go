package videos

import (
	"context"
	"net/http"

	"catalog-admin/internal/api/respond"
	"catalog-admin/internal/content"
	"catalog-admin/internal/domain/catalog"
	"catalog-admin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Service interface {
	ListVideos(ctx context.Context, q content.VideoQuery) ([]catalog.Video, error)
	GetVideo(ctx context.Context, id string) (*catalog.Video, error)
	CreateVideo(ctx context.Context, in content.VideoInput, createdBy string) (*catalog.Video, error)
	UpdateVideo(ctx context.Context, id string, p content.VideoPatch) (*catalog.Video, error)
	DeleteVideo(ctx context.Context, id string) error
}

type Handler struct {
	svc Service
	log logrus.FieldLogger
}

func NewHandler(svc Service, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/videos", h.List)
	r.POST("/videos", h.Create)
	r.GET("/videos/:id", h.Get)
	r.PATCH("/videos/:id", h.Update)
	r.DELETE("/videos/:id", h.Delete)
}

// GET /videos?category=&limit=&page=
func (h *Handler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	out, err := h.svc.ListVideos(c.Request.Context(), content.VideoQuery{
		CategoryID: q.Category,
		Page:       content.NewPage(q.Limit, q.Page),
	})
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}
	respond.OK(c, http.StatusOK, "Videos fetched successfully", out)
}

func (h *Handler) Get(c *gin.Context) {
	v, err := h.svc.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}
	respond.OK(c, http.StatusOK, "Video fetched successfully", v)
}

func (h *Handler) Create(c *gin.Context) {
	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}

	v, err := h.svc.CreateVideo(c.Request.Context(), content.VideoInput{
		Title:        req.Title,
		ThumbnailURL: req.Thumbnail,
		VideoURL:     req.Video,
		CategoryID:   req.Category,
		Duration:     req.Duration,
		IsActive:     req.IsActive,
	}, session.CallerID(c))
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}
	respond.OK(c, http.StatusCreated, "Video created successfully", v)
}

// PATCH /videos/:id answers once the record is updated; replaced assets are
// removed afterwards.
func (h *Handler) Update(c *gin.Context) {
	var req updateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}

	v, err := h.svc.UpdateVideo(c.Request.Context(), c.Param("id"), content.VideoPatch{
		Title:           req.Title,
		ThumbnailURL:    req.Thumbnail,
		VideoURL:        req.Video,
		CategoryID:      req.Category,
		Duration:        req.Duration,
		IsActive:        req.IsActive,
		OldThumbnailURL: req.OldThumbnailURL,
		OldVideoURL:     req.OldVideoURL,
	})
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}
	respond.OK(c, http.StatusOK, "Video updated successfully", v)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.DeleteVideo(c.Request.Context(), id); err != nil {
		respond.Fail(c, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"video_id": id,
		"caller":   session.CallerEmail(c),
	}).Info("video deleted")

	respond.OK(c, http.StatusOK, "Video deleted successfully", nil)
}
