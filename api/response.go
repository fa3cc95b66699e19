package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/gin-gonic/gin"
)

const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeAlreadyUsed     = "ALREADY_USED"
	CodeInvalidTicket   = "INVALID_TICKET"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodeInternal        = "INTERNAL"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
)

// errorResponse is the envelope for every error the BFF produces itself.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: code, Message: message})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeBadRequest, message)
}

func internalError(c *gin.Context, err error) {
	log.Printf("[api] %s %s: %v", c.Request.Method, c.FullPath(), err)
	respondError(c, http.StatusInternalServerError, CodeInternal, "Error interno")
}

// relay writes the upstream status and body back unchanged. Transport
// failures and non-JSON bodies become a generic 500.
func relay(c *gin.Context, resp *commerce.Response, err error) {
	if err != nil {
		if errors.Is(err, commerce.ErrMalformedResponse) {
			err = errors.New("upstream returned a non-JSON body")
		}
		internalError(c, err)
		return
	}
	c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
}
