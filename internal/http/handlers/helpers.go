package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
)

func dbcOf(c *gin.Context) dbctx.Context {
	return dbctx.New(c.Request.Context())
}

// callerID is the authenticated user. Routes behind RequireAuth always have one.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id := ctxutil.UserID(c.Request.Context())
	if id == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, errors.New("Please log in to continue"))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return false
	}
	return true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery returns uuid.Nil when the parameter is absent.
func optionalUUIDQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}
