// Package envelope - standard response wrapper for the HTTP API.
// Every JSON response carries a status, its data or error, and the
// correlation id of the request.
package envelope

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"solar-estimate/internal/errors"
)

// CorrelationKey is the gin context key holding the request correlation id
const CorrelationKey = "correlation_id"

// CorrelationHeader carries the correlation id in requests and responses
const CorrelationHeader = "X-Correlation-ID"

// Envelope is the standard API response wrapper
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
	Meta   Meta        `json:"meta"`
}

// ErrorBody holds error details in the response
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta holds response metadata
type Meta struct {
	CorrelationID string `json:"correlation_id"`
	Timestamp     string `json:"timestamp"`
}

// CorrelationID returns the id stored on c, generating one if missing
func CorrelationID(c *gin.Context) string {
	if v, ok := c.Get(CorrelationKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return uuid.New().String()
}

func newMeta(c *gin.Context) Meta {
	return Meta{
		CorrelationID: CorrelationID(c),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}

// Success sends a successful response
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Envelope{
		Status: "success",
		Data:   data,
		Meta:   newMeta(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, Envelope{
		Status: "error",
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: newMeta(c),
	})
}

// BadRequest sends a 400 error
func BadRequest(c *gin.Context, message string, details interface{}) {
	Error(c, http.StatusBadRequest, string(errors.TypeInput), message, details)
}

// NotFound sends a 404 error
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, string(errors.TypeNotFound), message, nil)
}

// InternalError sends a 500 error
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, string(errors.TypeInternal), message, nil)
}

// StatusFor maps a domain error type to an HTTP status
func StatusFor(t errors.Type) int {
	switch t {
	case errors.TypeInput, errors.TypeParsing:
		return http.StatusBadRequest
	case errors.TypeValidation:
		return http.StatusUnprocessableEntity
	case errors.TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromError sends err with the status and code of its domain type
func FromError(c *gin.Context, err error) {
	t := errors.TypeOf(err)
	Error(c, StatusFor(t), string(t), err.Error(), nil)
}

// Hash is the hex sha256 of v's JSON form, used to tie a response to its input
func Hash(v interface{}) string {
	data, _ := json.Marshal(v)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
