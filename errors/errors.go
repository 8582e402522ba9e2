package errors

import (
	"fmt"
	"net/http"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error carries a user-facing message together with the HTTP status it maps
// to. Services return *Error so handlers do not have to guess status codes.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)

	// ErrEmptyContent and ErrUnknownUser reject a send before anything is
	// persisted; nothing is broadcast for them.
	ErrEmptyContent = New("message content cannot be empty", http.StatusBadRequest)
	ErrUnknownUser  = New("unknown user id", http.StatusBadRequest)

	// ErrStorage marks a persistence failure. The caller surfaces it to the
	// sender only; the connection stays open.
	ErrStorage = New("storage unavailable", http.StatusInternalServerError)
)

// ErrorHandler is plugged into the gin rate limiter.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error": "too many requests, try again in " + info.ResetTime.Format("15:04:05"),
	})
}
