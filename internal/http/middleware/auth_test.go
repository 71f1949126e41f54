package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

// tokenAuth accepts exactly one token.
type tokenAuth struct {
	services.AuthService
	valid string
	user  uuid.UUID
}

func (a tokenAuth) SetContextFromToken(ctx context.Context, tok string) (context.Context, error) {
	if tok != a.valid {
		return nil, apierr.Unauthorized(errors.New("Invalid token"))
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: tok, UserID: a.user}), nil
}

type envelope struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
	Error    struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newGuarded(t *testing.T) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	user := uuid.New()
	am := NewAuthMiddleware(logger.Nop(), tokenAuth{valid: "good", user: user})

	r := gin.New()
	r.POST("/api/login", am.RequireGuest(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/quiz/current", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	})
	return r, user
}

func do(r http.Handler, method, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	r, user := newGuarded(t)

	cases := []struct {
		name     string
		target   string
		bearer   string
		status   int
		redirect string
	}{
		{"no token", "/api/quiz/current", "", http.StatusUnauthorized, "/login?redirect=%2Fapi%2Fquiz%2Fcurrent"},
		{"bad token", "/api/quiz/current", "forged", http.StatusUnauthorized, "/login?redirect=%2Fapi%2Fquiz%2Fcurrent"},
		{"keeps query", "/api/quiz/current?subject=math", "", http.StatusUnauthorized, "/login?redirect=%2Fapi%2Fquiz%2Fcurrent%3Fsubject%3Dmath"},
		{"drops bad query token", "/api/quiz/current?subject=math&token=forged", "", http.StatusUnauthorized, "/login?redirect=%2Fapi%2Fquiz%2Fcurrent%3Fsubject%3Dmath"},
		{"query token", "/api/quiz/current?token=good", "", http.StatusOK, ""},
		{"bearer token", "/api/quiz/current", "good", http.StatusOK, ""},
	}
	for _, tc := range cases {
		rec := do(r, http.MethodGet, tc.target, tc.bearer)
		if rec.Code != tc.status {
			t.Fatalf("%s: status=%d want %d", tc.name, rec.Code, tc.status)
		}
		if tc.status == http.StatusOK {
			if rec.Body.String() != user.String() {
				t.Fatalf("%s: handler saw user %q", tc.name, rec.Body.String())
			}
			continue
		}
		var env envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if env.Success || env.Redirect != tc.redirect || env.Error.Code != apierr.CodeUnauthorized {
			t.Fatalf("%s: unexpected body %s", tc.name, rec.Body.String())
		}
	}
}

func TestRequireGuest(t *testing.T) {
	r, _ := newGuarded(t)

	if rec := do(r, http.MethodPost, "/api/login", ""); rec.Code != http.StatusOK {
		t.Fatalf("anonymous login blocked: %d", rec.Code)
	}
	if rec := do(r, http.MethodPost, "/api/login", "stale"); rec.Code != http.StatusOK {
		t.Fatalf("invalid token should count as signed out: %d", rec.Code)
	}
	rec := do(r, http.MethodPost, "/api/login", "good")
	if rec.Code != http.StatusConflict {
		t.Fatalf("signed-in login status=%d want 409", rec.Code)
	}
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Redirect != DashboardPath {
		t.Fatalf("redirect=%q", env.Redirect)
	}
}
