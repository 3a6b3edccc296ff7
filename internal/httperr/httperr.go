package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/maintenance-orders/internal/session"
)

var defaultMessages = map[string]string{
	CodeInvalidCredentials: "Invalid email or password.",
	CodeValidation:         "The submitted data is invalid.",
	CodeForbidden:          "You are not allowed to do that.",
	CodeOrderNotFound:      "Order not found.",
	CodeInvalidState:       "The order cannot change to that state.",
}

// Status maps a business code to its HTTP status.
func Status(code string) int {
	switch code {
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeOrderNotFound:
		return http.StatusNotFound
	case CodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// Message returns the user-facing text for err.
func Message(err error) string {
	be, ok := AsBusiness(err)
	if !ok {
		return "Something went wrong. Please try again."
	}
	if be.Message != "" {
		return be.Message
	}
	if m, ok := defaultMessages[be.Code]; ok {
		return m
	}
	return be.Code
}

func Page(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"User":   session.CurrentUser(c),
		"Status": status,
		"Error":  message,
	})
}

// Write renders err as an error page: business errors keep their status and
// message, everything else becomes a logged 500.
func Write(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		Page(c, Status(be.Code), Message(be))
		return
	}
	Internal(c, err)
}

func Internal(c *gin.Context, err error) {
	zap.L().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	Page(c, http.StatusInternalServerError, Message(err))
}
