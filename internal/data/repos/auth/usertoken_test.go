package auth

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/studyquiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	repo := NewUserTokenRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, db, "tokens@example.com")

	created, err := repo.Create(dbc, []*types.UserToken{{
		UserID:       u.ID,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour).UTC(),
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	byAccess, err := repo.GetByAccessTokens(dbc, []string{"access-1"})
	if err != nil {
		t.Fatalf("GetByAccessTokens: %v", err)
	}
	if len(byAccess) != 1 || byAccess[0].ID != created[0].ID {
		t.Fatalf("GetByAccessTokens: unexpected %+v", byAccess)
	}

	byRefresh, err := repo.GetByRefreshTokens(dbc, []string{"refresh-1"})
	if err != nil || len(byRefresh) != 1 {
		t.Fatalf("GetByRefreshTokens: got=%d err=%v", len(byRefresh), err)
	}

	if err := repo.FullDeleteByAccessTokens(dbc, []string{"access-1"}); err != nil {
		t.Fatalf("FullDeleteByAccessTokens: %v", err)
	}
	byAccess, err = repo.GetByAccessTokens(dbc, []string{"access-1"})
	if err != nil {
		t.Fatalf("GetByAccessTokens: %v", err)
	}
	if len(byAccess) != 0 {
		t.Fatalf("expected token deleted, got %+v", byAccess)
	}
}

func TestUserTokenRepoDeleteExpired(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.New(ctx)

	repo := NewUserTokenRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, db, "sweep@example.com")
	now := time.Now().UTC()

	_, err := repo.Create(dbc, []*types.UserToken{
		{UserID: u.ID, AccessToken: "old", RefreshToken: "old-r", ExpiresAt: now.Add(-time.Minute)},
		{UserID: u.ID, AccessToken: "live", RefreshToken: "live-r", ExpiresAt: now.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := repo.DeleteExpired(dbc, now)
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpired: n=%d err=%v", n, err)
	}
	left, err := repo.GetByAccessTokens(dbc, []string{"old", "live"})
	if err != nil || len(left) != 1 || left[0].AccessToken != "live" {
		t.Fatalf("expected only the live token, got %+v err=%v", left, err)
	}
}
