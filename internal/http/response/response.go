package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success  bool      `json:"success"`
	Data     any       `json:"data,omitempty"`
	Error    *APIError `json:"error,omitempty"`
	Redirect string    `json:"redirect,omitempty"`
}

// detailer is implemented by errors that carry a structured payload the
// client needs alongside the message.
type detailer interface {
	ErrorDetails() any
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	apiErr := &APIError{Message: msg, Code: code}
	var d detailer
	if errors.As(err, &d) {
		apiErr.Details = d.ErrorDetails()
	}
	c.JSON(status, Envelope{Error: apiErr})
}

// RespondErr renders err with the status and code of the *apierr.Error in
// its chain. Anything else is an opaque 500.
func RespondErr(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		RespondError(c, status, ae.Code, err)
		return
	}
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, errors.New("Internal server error"))
}

// AbortWithRedirect stops the chain with an error that tells the client
// where to navigate.
func AbortWithRedirect(c *gin.Context, status int, code, msg, redirect string) {
	c.AbortWithStatusJSON(status, Envelope{
		Error:    &APIError{Message: msg, Code: code},
		Redirect: redirect,
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: payload})
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: payload})
}
