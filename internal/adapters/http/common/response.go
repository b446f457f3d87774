// Package common holds the response envelope and error mapping shared
// by the HTTP layer. Split out so handlers and middleware can both use
// it without an import cycle.
package common

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      *APIMeta    `json:"meta,omitempty"`
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIMeta carries pagination info.
type APIMeta struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	Total      int `json:"total,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// APIError is the error body.
type APIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Fields     []FieldError           `json:"fields,omitempty"`
	RetryAfter int                    `json:"retry_after,omitempty"`
}

// FieldError points at one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeBusinessRule    = "BUSINESS_RULE_VIOLATION"
	ErrCodeLimitExceeded   = "LIMIT_EXCEEDED"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeConcurrency     = "CONCURRENCY_ERROR"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

const RequestIDKey = "X-Request-ID"

// GetRequestID returns the request id placed in the context by the
// request id middleware.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		return id.(string)
	}
	return ""
}

// SetRequestID stores the request id in the context and echoes it as a
// response header.
func SetRequestID(c *gin.Context, id string) {
	c.Set(RequestIDKey, id)
	c.Header(RequestIDKey, id)
}

// Success sends a successful response.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// SuccessWithMeta sends a successful response with pagination meta.
func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *APIMeta) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		Meta:      meta,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// Error sends an error response.
func Error(c *gin.Context, statusCode int, apiError *APIError) {
	c.JSON(statusCode, APIResponse{
		Success:   false,
		Error:     apiError,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// ValidationErrorResponse sends a 400 with field details.
func ValidationErrorResponse(c *gin.Context, fields []FieldError) {
	Error(c, http.StatusBadRequest, &APIError{
		Code:    ErrCodeValidation,
		Message: "Request validation failed",
		Fields:  fields,
	})
}

// NotFoundResponse sends a 404.
func NotFoundResponse(c *gin.Context, resource string) {
	Error(c, http.StatusNotFound, &APIError{
		Code:    ErrCodeNotFound,
		Message: resource + " not found",
		Details: map[string]interface{}{
			"resource": resource,
		},
	})
}

// BadRequestResponse sends a 400.
func BadRequestResponse(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
	})
}

// UnauthorizedResponse sends a 401.
func UnauthorizedResponse(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	})
}

// ForbiddenResponse sends a 403.
func ForbiddenResponse(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
	})
}

// ConflictResponse sends a 409.
func ConflictResponse(c *gin.Context, message string) {
	Error(c, http.StatusConflict, &APIError{
		Code:    ErrCodeConflict,
		Message: message,
	})
}

// TooManyRequestsResponse sends a 429 with a retry hint.
func TooManyRequestsResponse(c *gin.Context, retryAfter int) {
	Error(c, http.StatusTooManyRequests, &APIError{
		Code:       ErrCodeTooManyRequests,
		Message:    "Too many requests, please try again later",
		RetryAfter: retryAfter,
	})
}

// InternalErrorResponse sends a 500. Internals never leak; the message
// is generic and the cause stays in the logs.
func InternalErrorResponse(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, &APIError{
		Code:    ErrCodeInternal,
		Message: message,
	})
}

// HandleDomainError maps a domain error onto an HTTP response. Order
// matters: the more specific checks run first.
func HandleDomainError(c *gin.Context, err error) {
	if domainErrors.IsValidationError(err) {
		if valErr := extractValidationError(err); valErr != nil {
			ValidationErrorResponse(c, []FieldError{
				{Field: valErr.Field, Message: valErr.Message, Code: "invalid"},
			})
			return
		}
		BadRequestResponse(c, err.Error())
		return
	}

	if limitErr := extractLimitError(err); limitErr != nil {
		Error(c, http.StatusBadRequest, &APIError{
			Code:    ErrCodeLimitExceeded,
			Message: limitErr.Window + " transaction limit exceeded",
			Details: map[string]interface{}{
				"window":          limitErr.Window,
				"limit_cents":     limitErr.LimitCents,
				"used_cents":      limitErr.UsedCents,
				"attempted_cents": limitErr.AttemptedCents,
			},
		})
		return
	}

	if stderrors.Is(err, domainErrors.ErrUnauthorized) {
		UnauthorizedResponse(c, "Invalid credentials")
		return
	}

	if stderrors.Is(err, domainErrors.ErrForbidden) || stderrors.Is(err, domainErrors.ErrNotWalletOwner) {
		ForbiddenResponse(c, "You do not have access to this resource")
		return
	}

	if domainErrors.IsNotFound(err) {
		NotFoundResponse(c, "Resource")
		return
	}

	if domainErrors.IsConflict(err) {
		ConflictResponse(c, err.Error())
		return
	}

	if domainErrors.IsConcurrencyError(err) {
		Error(c, http.StatusConflict, &APIError{
			Code:    ErrCodeConcurrency,
			Message: "Resource was modified by another request, please retry",
			Details: map[string]interface{}{
				"retryable": true,
			},
		})
		return
	}

	if stderrors.Is(err, domainErrors.ErrInsufficientBalance) ||
		stderrors.Is(err, domainErrors.ErrWalletNotActive) ||
		stderrors.Is(err, domainErrors.ErrKYCInProgress) ||
		stderrors.Is(err, domainErrors.ErrKYCAlreadyVerified) {
		Error(c, http.StatusUnprocessableEntity, &APIError{
			Code:    ErrCodeBusinessRule,
			Message: err.Error(),
		})
		return
	}

	if domainErrors.IsBusinessRuleViolation(err) {
		if brv := extractBusinessRuleViolation(err); brv != nil {
			Error(c, http.StatusUnprocessableEntity, &APIError{
				Code:    ErrCodeBusinessRule,
				Message: brv.Message,
				Details: map[string]interface{}{
					"rule":    brv.Rule,
					"context": brv.Context,
				},
			})
			return
		}
	}

	InternalErrorResponse(c, "An unexpected error occurred")
}

func extractValidationError(err error) *domainErrors.ValidationError {
	var valErr domainErrors.ValidationError
	if stderrors.As(err, &valErr) {
		return &valErr
	}
	var valErrs domainErrors.ValidationErrors
	if stderrors.As(err, &valErrs) && len(valErrs) > 0 {
		return &valErrs[0]
	}
	return nil
}

func extractLimitError(err error) *domainErrors.LimitExceededError {
	var limitErr *domainErrors.LimitExceededError
	if stderrors.As(err, &limitErr) {
		return limitErr
	}
	return nil
}

func extractBusinessRuleViolation(err error) *domainErrors.BusinessRuleViolation {
	var brv *domainErrors.BusinessRuleViolation
	if stderrors.As(err, &brv) {
		return brv
	}
	return nil
}
