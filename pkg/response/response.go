package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Envelope builds an error envelope without writing it.
func Envelope(ctx *gin.Context, status int, message string, err interface{}) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// Error writes a client error envelope and returns it.
func Error(ctx *gin.Context, status int, message string, err interface{}) APIResponse[any] {
	resp := Envelope(ctx, status, message, err)
	ctx.JSON(resp.Status, resp)
	return resp
}

// Abort writes the error envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, err interface{}) {
	resp := Envelope(ctx, status, message, err)
	ctx.AbortWithStatusJSON(resp.Status, resp)
}

// JSON writes a resource as-is with status 200.
func JSON(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, data)
}

// Ack writes {"msg": message}.
func Ack(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, gin.H{"msg": message})
}

// ServerError writes the opaque 500 body. Details belong in the log only.
func ServerError(ctx *gin.Context) {
	ctx.String(http.StatusInternalServerError, "Server Error")
}
