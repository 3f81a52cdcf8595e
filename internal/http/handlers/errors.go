package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/lingualeap-backend/internal/domain/aggregates"
	"github.com/yungbote/lingualeap-backend/internal/http/middleware"
	"github.com/yungbote/lingualeap-backend/internal/http/response"
	"github.com/yungbote/lingualeap-backend/internal/platform/apierr"
)

func statusForCode(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeValidation, domainagg.CodeSelfReference:
		return http.StatusBadRequest
	case domainagg.CodeCircularDependency,
		domainagg.CodeDuplicateSequence,
		domainagg.CodeHasDependents,
		domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodePreconditionFailed, domainagg.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// toAPIError maps service errors onto HTTP. Internal causes are not echoed to clients.
func toAPIError(err error) *apierr.Error {
	if ae := apierr.As(err); ae != nil {
		return ae
	}
	var aggErr *domainagg.Error
	if !errors.As(err, &aggErr) {
		return apierr.New(http.StatusInternalServerError, string(domainagg.CodeInternal), errors.New("internal error"))
	}
	status := statusForCode(aggErr.Code)
	msg := strings.TrimSpace(aggErr.Message)
	switch {
	case status >= 500 && aggErr.Code != domainagg.CodeRetryable:
		msg = "internal error"
	case aggErr.Code == domainagg.CodeRetryable:
		msg = "temporarily unavailable, retry the request"
	case msg == "":
		msg = string(aggErr.Code)
	}
	return apierr.New(status, string(aggErr.Code), errors.New(msg))
}

func respondError(c *gin.Context, err error) {
	ae := toAPIError(err)
	c.Set(middleware.ErrorCodeKey, ae.Code)
	response.RespondAPIError(c, ae)
}

func badRequest(c *gin.Context, msg string) {
	respondError(c, apierr.BadRequest(string(domainagg.CodeValidation), msg))
}
