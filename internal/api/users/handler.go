package users

import (
	"context"
	"net/http"

	"catalog-admin/internal/api/respond"
	"catalog-admin/internal/domain/users"
	"catalog-admin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]users.User, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	svc Service
	log logrus.FieldLogger
}

func NewHandler(svc Service, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/users", h.List)
	r.DELETE("/users/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		respond.Fail(c, h.log, err)
		return
	}
	respond.OK(c, http.StatusOK, "Users fetched successfully", out)
}

// DELETE /users/:id also removes the sign-in account behind the record.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respond.Fail(c, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"user_id": id,
		"caller":  session.CallerEmail(c),
	}).Info("user deleted")

	respond.OK(c, http.StatusOK, "User deleted successfully", nil)
}
