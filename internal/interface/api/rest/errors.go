package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/infrastructure/db/postgres"
	"classifieds-api/internal/interface/api/rest/validator"
)

var statusByKind = map[apperror.Kind]int{
	apperror.ValidationFailed:       http.StatusUnprocessableEntity,
	apperror.InvalidIdentifier:      http.StatusBadRequest,
	apperror.NotFound:               http.StatusNotFound,
	apperror.AlreadyExists:          http.StatusBadRequest,
	apperror.NotAuthorized:          http.StatusForbidden,
	apperror.MissingShareTargets:    http.StatusBadRequest,
	apperror.InvalidVisibilityValue: http.StatusBadRequest,
	apperror.InvalidExpiration:      http.StatusBadRequest,
	apperror.CredentialRejected:     http.StatusUnauthorized,
	apperror.BadRequest:             http.StatusBadRequest,
	apperror.TooManyRequests:        http.StatusTooManyRequests,
}

// respondError writes the error envelope for err. Anything that is neither a
// domain error nor a known store condition is logged and reported as 500.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var e *apperror.Error
	if errors.As(err, &e) {
		body := gin.H{"error": e.Message, "type": e.Kind}
		if len(e.Details) > 0 {
			body["details"] = e.Details
		}
		c.JSON(statusByKind[e.Kind], body)
		return
	}

	switch {
	case postgres.IsPgUniqueViolation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "duplicate value violates " + postgres.ConstraintName(err),
			"type":  "DuplicateKeyError",
		})
		return
	case postgres.IsPgCheckViolation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "value violates " + postgres.ConstraintName(err),
			"type":  "ValidationError",
		})
		return
	}

	logger.Error(op+" error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "type": "InternalError"})
}

// bindAndValidate writes the response and returns false when the body is not
// valid JSON (400) or fails its validate tags (422).
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid json",
			"type":    apperror.BadRequest,
			"details": gin.H{"body": err.Error()},
		})
		return false
	}
	if errs := validator.Struct(req); errs != nil {
		e := apperror.Validation(errs)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Message, "type": e.Kind, "details": e.Details})
		return false
	}
	return true
}
