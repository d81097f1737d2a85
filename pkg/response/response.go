package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds let clients distinguish a billing lockout (render a payment
// prompt) from a plain permission denial (render "access denied").
const (
	KindUnauthenticated    = "unauthenticated"
	KindMembershipNotFound = "membership_not_found"
	KindPermissionDenied   = "permission_denied"
	KindBillingRestriction = "billing_restriction"
	KindNotFound           = "not_found"
	KindValidation         = "validation_error"
	KindConflict           = "conflict"
	KindInternal           = "internal_error"
)

// Response is the unified API response format.
type Response struct {
	Code    int         `json:"code"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AppError represents a structured application error with HTTP status,
// error kind, and a human-readable message explaining why.
type AppError struct {
	HTTPStatus int    // HTTP status code (e.g. 400, 403, 402)
	Code       int    // Application-level error code
	Kind       string // Machine-readable error kind
	Message    string // Human-readable error message
	Detail     string // Extra context (e.g. billing status) surfaced in Data
}

func (e *AppError) Error() string {
	return e.Message
}

// Pre-defined error constructors

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Code: 400, Kind: KindValidation, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Code: 401, Kind: KindUnauthenticated, Message: msg}
}

// NewMembershipNotFound marks an actor with no membership on the team.
// Distinct from a permission denial.
func NewMembershipNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Code: 403, Kind: KindMembershipNotFound, Message: msg}
}

// NewPermissionDenied marks a failed hierarchical or scoping check. The
// message must say why, never a bare "forbidden".
func NewPermissionDenied(reason string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Code: 403, Kind: KindPermissionDenied, Message: reason}
}

// NewBillingRestricted marks an action vetoed by the billing-state gate.
// status is the current billing state (READ_ONLY, LOCKED).
func NewBillingRestricted(status, msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusPaymentRequired, Code: 402, Kind: KindBillingRestriction, Message: msg, Detail: status}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Code: 404, Kind: KindNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Code: 409, Kind: KindConflict, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Code: 500, Kind: KindInternal, Message: msg}
}

// --- Gin response helpers ---

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

// Created sends a 201 Created response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error sends an error response. If err is an *AppError, its kind and status
// are used; otherwise a generic 500 internal server error is returned.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		resp := Response{
			Code:    appErr.Code,
			Kind:    appErr.Kind,
			Message: appErr.Message,
		}
		if appErr.Detail != "" {
			resp.Data = gin.H{"status": appErr.Detail}
		}
		c.JSON(appErr.HTTPStatus, resp)
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:    500,
		Kind:    KindInternal,
		Message: err.Error(),
	})
}

// Convenience error response functions

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: 400, Kind: KindValidation, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: 401, Kind: KindUnauthenticated, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Code: 403, Kind: KindPermissionDenied, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: 404, Kind: KindNotFound, Message: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Code: 500, Kind: KindInternal, Message: msg})
}
