package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth rejects callers without a valid access token and tells the
// client to send the user to the login page, remembering where they were.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			am.deny(c, "Please log in to continue")
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Rejected access token", "path", c.Request.URL.Path, "error", err)
			am.deny(c, err.Error())
			return
		}
		if rd := ctxutil.GetRequestData(ctx); rd == nil || rd.UserID == uuid.Nil {
			am.deny(c, "Please log in to continue")
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireGuest turns signed-in users away from the login and register
// endpoints. An invalid token counts as signed out.
func (am *AuthMiddleware) RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString != "" {
			if _, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString); err == nil {
				response.AbortWithRedirect(c, http.StatusConflict, apierr.CodeConflict, "Already logged in", DashboardPath)
				return
			}
		}
		c.Next()
	}
}

func (am *AuthMiddleware) deny(c *gin.Context, msg string) {
	response.AbortWithRedirect(c, http.StatusUnauthorized, apierr.CodeUnauthorized, msg, loginRedirect(c.Request.URL))
}

// loginRedirect sends the caller back to the full request URI after login,
// minus any token query parameter.
func loginRedirect(u *url.URL) string {
	target := *u
	if q := target.Query(); q.Has("token") {
		q.Del("token")
		target.RawQuery = q.Encode()
	}
	return LoginPath + "?redirect=" + url.QueryEscape(target.RequestURI())
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
