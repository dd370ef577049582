package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/dpavlenko/cashcard/internal/common"
)

var validate = validator.New()

type errorResponse struct {
	Message string `json:"message"`
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type badRequestResponse struct {
	Message string            `json:"message"`
	Details []validationError `json:"details,omitempty"`
}

// validateRequest runs struct-tag validation over a bound request DTO and
// returns per-field errors, or nil when the DTO is valid.
func validateRequest(obj any) []validationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var out []validationError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, validationError{
			Field:   fe.Field(),
			Message: fieldErrorMessage(fe),
		})
	}
	return out
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}

func respondValidationErrors(c *gin.Context, details []validationError) {
	c.JSON(http.StatusBadRequest, badRequestResponse{
		Message: "Invalid request data",
		Details: details,
	})
}

// respondError maps a classified service error to its HTTP status. The
// mapping mirrors the error taxonomy exactly: NOT_FOUND stands in for
// "absent or owned by someone else" wherever existence-hiding matters.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, common.ErrorConflict):
		c.JSON(http.StatusConflict, errorResponse{Message: "username is already taken"})
	case errors.Is(err, common.ErrorUnauthenticated):
		c.Header("WWW-Authenticate", `Basic realm="cashcard"`)
		c.JSON(http.StatusUnauthorized, errorResponse{Message: "invalid credentials"})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Message: "password verification failed"})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Message: "access denied"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: "not found"})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}
