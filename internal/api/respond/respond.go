// Package respond renders the JSON envelope every API handler answers with.
package respond

import (
	"net/http"
	"reflect"
	"strings"

	"catalog-admin/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func init() {
	// Report validation errors under json field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	}
}

func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

// Fail maps err to a status by its kind. Backend errors are logged with their cause.
func Fail(c *gin.Context, log logrus.FieldLogger, err error) {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		Error(c, http.StatusNotFound, apperr.Message(err))
	case apperr.Unauthorized:
		Error(c, http.StatusUnauthorized, apperr.Message(err))
	case apperr.Invalid:
		c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
			Success: false,
			Message: apperr.Message(err),
			Errors:  apperr.FieldsOf(err),
		})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		Error(c, http.StatusInternalServerError, apperr.Message(err))
	}
}

// Validation answers 400 for a body that failed to bind.
func Validation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  fields,
	})
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return name + " must be one of: " + fe.Param()
	case "url":
		return name + " must be a valid URL"
	case "max":
		return name + " must be at most " + fe.Param() + " characters"
	default:
		return name + " is invalid"
	}
}
