package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/validate"
)

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateName(dbc dbctx.Context, name string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil {
		us.log.Warn("Request data not set in context")
		return nil, errNoRequestData
	}
	users, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, apierr.Persistence("load user", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, apierr.NotFound("user")
	}
	return users[0], nil
}

func (us *userService) UpdateName(dbc dbctx.Context, name string) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil {
		return nil, errNoRequestData
	}
	if msg := validate.Name(name); msg != "" {
		return nil, apierr.Validation(msg)
	}
	if err := us.userRepo.UpdateName(dbc, rd.UserID, name); err != nil {
		if isNotFound(err) {
			return nil, apierr.NotFound("user")
		}
		return nil, apierr.Persistence("update name", err)
	}
	return us.GetMe(dbc)
}
