package routes

import (
	"catalog-admin/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

// Registrar is implemented by every API handler group.
type Registrar interface {
	Register(r gin.IRouter)
}

type Handlers struct {
	Session    Registrar
	Categories Registrar
	Videos     Registrar
	Users      Registrar
	Uploads    Registrar
}

func RegisterRoutes(r *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.SanitizeAndCleanInputMiddleware())

	// Session endpoints check the cookie themselves.
	h.Session.Register(api)

	authed := api.Group("/")
	authed.Use(auth)
	h.Categories.Register(authed)
	h.Videos.Register(authed)
	h.Users.Register(authed)
	h.Uploads.Register(authed)
}
