package categories

import (
	"context"
	"fmt"
	"net/http"

	"catalog-admin/internal/api/respond"
	"catalog-admin/internal/content"
	"catalog-admin/internal/domain/catalog"
	"catalog-admin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Service interface {
	ListCategories(ctx context.Context, page content.Page) ([]catalog.Category, error)
	GetCategory(ctx context.Context, id string) (*catalog.Category, error)
	CreateCategory(ctx context.Context, in content.CategoryInput, createdBy string) (*catalog.Category, error)
	UpdateCategory(ctx context.Context, id string, p content.CategoryPatch) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) (int, error)
}

type Handler struct {
	svc Service
	log logrus.FieldLogger
}

func NewHandler(svc Service, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/categories", h.List)
	r.POST("/categories", h.Create)
	r.GET("/categories/:id", h.Get)
	r.PATCH("/categories/:id", h.Update)
	r.DELETE("/categories/:id", h.Delete)
}

// GET /categories?limit=&page=
func (h *Handler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	out, err := h.svc.ListCategories(c.Request.Context(), content.NewPage(q.Limit, q.Page))
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}
	respond.OK(c, http.StatusOK, "Category fetched successfully", out)
}

func (h *Handler) Get(c *gin.Context) {
	cat, err := h.svc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}
	respond.OK(c, http.StatusOK, "Category fetched successfully", cat)
}

func (h *Handler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}

	cat, err := h.svc.CreateCategory(c.Request.Context(), content.CategoryInput{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
	}, session.CallerID(c))
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}
	respond.OK(c, http.StatusCreated, "Category created successfully", cat)
}

func (h *Handler) Update(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}

	cat, err := h.svc.UpdateCategory(c.Request.Context(), c.Param("id"), content.CategoryPatch{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}
	respond.OK(c, http.StatusOK, "Category updated successfully", cat)
}

// DELETE /categories/:id removes the category and every video in it.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	n, err := h.svc.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"category_id": id,
		"caller":      session.CallerEmail(c),
		"videos":      n,
	}).Info("category deleted")

	respond.OK(c, http.StatusOK, deletedMessage(n), nil)
}

func deletedMessage(videos int) string {
	if videos == 0 {
		return "Category deleted successfully"
	}
	return fmt.Sprintf("Category and %d associated video(s) deleted successfully", videos)
}
