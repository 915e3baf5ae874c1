package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/pageza/feedback-api/backend/internal/models"
	"github.com/pageza/feedback-api/backend/internal/service"
)

// abortWithValidation answers 422 for a body that failed to bind
func abortWithValidation(c *gin.Context, err error) {
	resp := ErrorResponse{Error: "invalid request body"}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			resp.Details = append(resp.Details, FieldError{
				Field:   fe.Field(),
				Message: describeRule(fe),
			})
		}
	case errors.As(err, &typeErr):
		resp.Details = []FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		resp.Error = "request body must be a valid JSON object"
	}

	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, resp)
}

// abortWithServiceError maps service errors to status codes
func abortWithServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrFeedbackNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "Feedback not found"})
	case errors.Is(err, models.ErrInvalidRating):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid request body",
			Details: []FieldError{{Field: "rating", Message: "must be between 1 and 5"}},
		})
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Str("action", action).Msg("Feedback request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

var registerTagNames sync.Once

// useJSONFieldNames makes the binding validator report fields by their json
// key, so error details name the field the client actually sent
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}
