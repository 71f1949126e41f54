package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
)

func newAuth(f *fixture) AuthService {
	return NewAuthService(f.db, f.log, f.users, f.tokens, "test-secret", 15*time.Minute, 24*time.Hour)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected *apierr.Error, got %T (%v)", err, err)
	}
	return ae.Status
}

func TestRegisterValidates(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	dbc := dbctx.New(context.Background())

	cases := []struct {
		name string
		in   RegisterInput
		want string
	}{
		{"short name", RegisterInput{Name: "a", Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret1"}, "Name must be at least 2 characters"},
		{"bad email", RegisterInput{Name: "Ann", Email: "nope", Password: "secret1", ConfirmPassword: "secret1"}, "Please enter a valid email address"},
		{"mismatch", RegisterInput{Name: "Ann", Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret2"}, "Passwords do not match"},
	}
	for _, tc := range cases {
		_, err := svc.RegisterUser(dbc, tc.in)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if got := statusOf(t, err); got != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", tc.name, got)
		}
		if err.Error() != tc.want {
			t.Fatalf("%s: message=%q want %q", tc.name, err.Error(), tc.want)
		}
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	dbc := dbctx.New(context.Background())

	sess, err := svc.RegisterUser(dbc, RegisterInput{Name: "Ann", Email: " Ann@Example.com ", Password: "secret1", ConfirmPassword: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sess.User.Email != "ann@example.com" {
		t.Fatalf("email not normalized: %q", sess.User.Email)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		t.Fatalf("expected tokens, got %+v", sess)
	}

	if _, err := svc.RegisterUser(dbc, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1"}); statusOf(t, err) != http.StatusConflict {
		t.Fatalf("duplicate email should conflict, got %v", err)
	}

	if _, err := svc.LoginUser(dbc, "ann@example.com", "wrong!!"); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("wrong password should be unauthorized, got %v", err)
	}

	login, err := svc.LoginUser(dbc, "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	ctx, err := svc.SetContextFromToken(context.Background(), login.AccessToken)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != sess.User.ID || rd.RefreshToken != login.RefreshToken || rd.Name != "Ann" {
		t.Fatalf("unexpected request data: %+v", rd)
	}

	if err := svc.LogoutUser(dbctx.New(ctx)); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), login.AccessToken); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("logged out token must be rejected, got %v", err)
	}

	// the registration session is independent of the logged out one
	if _, err := svc.SetContextFromToken(context.Background(), sess.AccessToken); err != nil {
		t.Fatalf("registration token should still work: %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	dbc := dbctx.New(context.Background())

	sess, err := svc.RegisterUser(dbc, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	next, err := svc.RefreshUser(dbc, sess.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == sess.RefreshToken || next.AccessToken == sess.AccessToken {
		t.Fatalf("expected rotated tokens")
	}
	if _, err := svc.RefreshUser(dbc, sess.RefreshToken); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("old refresh token must be gone, got %v", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), sess.AccessToken); err == nil {
		t.Fatalf("old access token must be gone")
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	if _, err := svc.SetContextFromToken(context.Background(), "not-a-jwt"); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), ""); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for empty token, got %v", err)
	}
}

func TestPruneExpiredSessions(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	dbc := dbctx.New(context.Background())

	sess, err := svc.RegisterUser(dbc, RegisterInput{Name: "Cy", Email: "cy@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if n, err := svc.PruneExpiredSessions(dbc); err != nil || n != 0 {
		t.Fatalf("fresh session pruned: n=%d err=%v", n, err)
	}

	if err := f.db.Exec("UPDATE user_tokens SET expires_at = ?", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("expire: %v", err)
	}
	if _, err := svc.RefreshUser(dbc, sess.RefreshToken); statusOf(t, err) != http.StatusUnauthorized {
		t.Fatalf("expired refresh token must be rejected, got %v", err)
	}
	if n, err := svc.PruneExpiredSessions(dbc); err != nil || n != 1 {
		t.Fatalf("prune: n=%d err=%v", n, err)
	}
}
