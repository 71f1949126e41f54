package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// UserTokenRepo stores one row per signed-in session. Deletes are hard
// deletes: a revoked token must never match again.
type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error)
	GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error)
	GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error)
	FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error
	FullDeleteByAccessTokens(dbc dbctx.Context, accessTokens []string) error
	// DeleteExpired removes sessions whose refresh window closed before t.
	DeleteExpired(dbc dbctx.Context, t time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *userTokenRepo) Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error) {
	if len(userTokens) == 0 {
		return []*types.UserToken{}, nil
	}
	if err := r.conn(dbc).Create(&userTokens).Error; err != nil {
		return nil, err
	}
	return userTokens, nil
}

func (r *userTokenRepo) GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error) {
	return r.findIn(dbc, "access_token", accessTokens)
}

func (r *userTokenRepo) GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error) {
	return r.findIn(dbc, "refresh_token", refreshTokens)
}

func (r *userTokenRepo) findIn(dbc dbctx.Context, column string, values []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	if len(values) == 0 {
		return out, nil
	}
	err := r.conn(dbc).Where(column+" IN ?", values).Find(&out).Error
	return out, err
}

func (r *userTokenRepo) FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error {
	if len(tokenIDs) == 0 {
		return nil
	}
	return r.conn(dbc).Unscoped().Where("id IN ?", tokenIDs).Delete(&types.UserToken{}).Error
}

func (r *userTokenRepo) FullDeleteByAccessTokens(dbc dbctx.Context, accessTokens []string) error {
	if len(accessTokens) == 0 {
		return nil
	}
	return r.conn(dbc).Unscoped().Where("access_token IN ?", accessTokens).Delete(&types.UserToken{}).Error
}

func (r *userTokenRepo) DeleteExpired(dbc dbctx.Context, t time.Time) (int64, error) {
	res := r.conn(dbc).Unscoped().Where("expires_at < ?", t).Delete(&types.UserToken{})
	return res.RowsAffected, res.Error
}
