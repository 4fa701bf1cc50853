package response

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       any                 `json:"data,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Pagination *pagination.Meta    `json:"pagination,omitempty"`
	Filters    any                 `json:"filters,omitempty"`
}

func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a list page. filters is echoed back when non-nil.
func Paginated(c *gin.Context, message string, data any, meta pagination.Meta, filters any) {
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: &meta,
		Filters:    filters,
	})
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)
	body := Envelope{Success: false, Message: publicMessage(err, code)}

	var vErr *apperror.ValidationError
	if errors.As(err, &vErr) {
		body.Errors = vErr.Fields
	}

	var rlErr *apperror.RateLimitError
	if errors.As(err, &rlErr) && rlErr.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rlErr.RetryAfter.Seconds()))))
	}

	if code >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
	}

	c.AbortWithStatusJSON(code, body)
}

func publicMessage(err error, code int) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	var rlErr *apperror.RateLimitError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return "Validation error"
	case errors.As(err, &rlErr):
		return rlErr.Error()
	case code == http.StatusUnauthorized:
		return "Unauthenticated."
	case code == http.StatusForbidden:
		return "Forbidden."
	case code == http.StatusNotFound:
		return "Resource not found"
	case code >= http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}
