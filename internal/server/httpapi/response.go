package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/gin-gonic/gin"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    any                `json:"data,omitempty"`
	Errors  []common.Violation `json:"errors,omitempty"`
	Kind    common.Kind        `json:"code,omitempty"`
	Detail  string             `json:"error,omitempty"`
}

var statusByKind = map[common.Kind]int{
	common.KindValidation:         http.StatusBadRequest,
	common.KindConflict:           http.StatusConflict,
	common.KindInvalidCredentials: http.StatusUnauthorized,
	common.KindUnauthenticated:    http.StatusUnauthorized,
	common.KindInvalidToken:       http.StatusUnauthorized,
	common.KindTokenExpired:       http.StatusUnauthorized,
	common.KindUserNotFound:       http.StatusUnauthorized,
	common.KindForbidden:          http.StatusForbidden,
	common.KindNotFound:           http.StatusNotFound,
	common.KindInternal:           http.StatusInternalServerError,
}

// StatusFor maps a rejection kind to its HTTP status.
func StatusFor(kind common.Kind) int {
	if code, ok := statusByKind[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{Success: true, Message: message, Data: data})
}

// fail writes err as a rejection. Causes of internal errors are only
// exposed when dev is set.
func (s *Server) fail(c *gin.Context, err error) {
	ce := common.Internal(err)

	body := envelope{Success: false, Message: ce.Message, Errors: ce.Violations, Kind: ce.Kind}
	if ce.Kind == common.KindInternal {
		s.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		if s.dev && ce.Err != nil {
			body.Detail = ce.Err.Error()
		}
	}
	c.AbortWithStatusJSON(StatusFor(ce.Kind), body)
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
