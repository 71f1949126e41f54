package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	types "github.com/yungbote/studyquiz-backend/internal/domain"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
	"github.com/yungbote/studyquiz-backend/internal/validate"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
}

// Session is the token pair handed to a client after register, login or refresh.
type Session struct {
	User         *types.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
}

type AuthService interface {
	RegisterUser(dbc dbctx.Context, in RegisterInput) (*Session, error)
	LoginUser(dbc dbctx.Context, email, password string) (*Session, error)
	RefreshUser(dbc dbctx.Context, refreshToken string) (*Session, error)
	LogoutUser(dbc dbctx.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
	// PruneExpiredSessions hard-deletes sessions past their refresh window.
	PruneExpiredSessions(dbc dbctx.Context) (int64, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser creates the account and signs it in.
func (as *authService) RegisterUser(dbc dbctx.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if msg := validate.First(
		validate.Name(in.Name),
		validate.Email(email),
		validate.Password(in.Password),
		validate.ConfirmPassword(in.Password, in.ConfirmPassword),
	); msg != "" {
		return nil, apierr.Validation(msg)
	}

	exists, err := as.userRepo.EmailExists(dbc, email)
	if err != nil {
		return nil, apierr.Persistence("check email", err)
	}
	if exists {
		return nil, errEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var session *Session
	err = as.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		user := &types.User{Email: email, Password: string(hash), Name: in.Name}
		if _, err := as.userRepo.Create(inner, []*types.User{user}); err != nil {
			if isUniqueViolation(err) {
				return errEmailTaken
			}
			return apierr.Persistence("create user", err)
		}
		s, err := as.issueSession(inner, user)
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User registered", "user_id", session.User.ID)
	return session, nil
}

func (as *authService) LoginUser(dbc dbctx.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if msg := validate.First(validate.Email(email), validate.Required(password, "Password")); msg != "" {
		return nil, apierr.Validation(msg)
	}

	users, err := as.userRepo.GetByEmails(dbc, []string{email})
	if err != nil {
		return nil, apierr.Persistence("load user", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, errInvalidCredentials
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	var session *Session
	err = as.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		s, err := as.issueSession(dbctx.Context{Ctx: dbc.Ctx, Tx: tx}, user)
		session = s
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// RefreshUser rotates a refresh token. An empty refreshToken falls back to the
// one bound to the caller's access token.
func (as *authService) RefreshUser(dbc dbctx.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		if rd := ctxutil.GetRequestData(dbc.Ctx); rd != nil {
			refreshToken = rd.RefreshToken
		}
	}
	if refreshToken == "" {
		return nil, errInvalidToken
	}

	var session *Session
	err := as.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(inner, []string{refreshToken})
		if err != nil {
			return apierr.Persistence("load refresh token", err)
		}
		if len(found) == 0 || found[0] == nil {
			return errInvalidToken
		}
		existing := found[0]
		// expired rows are left for PruneExpiredSessions
		if existing.ExpiresAt.Before(time.Now()) {
			return errInvalidToken
		}
		users, err := as.userRepo.GetByIDs(inner, []uuid.UUID{existing.UserID})
		if err != nil {
			return apierr.Persistence("load user", err)
		}
		if len(users) == 0 {
			return errInvalidToken
		}
		s, err := as.issueSession(inner, users[0])
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.FullDeleteByIDs(inner, []uuid.UUID{existing.ID}); err != nil {
			return apierr.Persistence("remove old refresh token", err)
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (as *authService) LogoutUser(dbc dbctx.Context) error {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.TokenString == "" {
		return errNoRequestData
	}
	if err := as.userTokenRepo.FullDeleteByAccessTokens(dbc, []string{rd.TokenString}); err != nil {
		return apierr.Persistence("delete user token", err)
	}
	return nil
}

func (as *authService) issueSession(dbc dbctx.Context, user *types.User) (*Session, error) {
	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	userToken := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{userToken}); err != nil {
		as.log.Warn("Create user token failed", "error", err)
		return nil, apierr.Persistence("create user token", err)
	}
	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: userToken.RefreshToken,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates tokenString and attaches the caller to ctx.
// A token that parses but was logged out is rejected.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, errNoRequestData
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, apierr.Unauthorized(fmt.Errorf("Invalid or expired token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, errInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, errInvalidToken
	}

	dbc := dbctx.New(ctx)
	found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{tokenString})
	if err != nil {
		return ctx, apierr.Persistence("load user token", err)
	}
	if len(found) == 0 || found[0] == nil || found[0].UserID != userID {
		return ctx, errInvalidToken
	}
	users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return ctx, apierr.Persistence("load user", err)
	}
	if len(users) == 0 {
		return ctx, apierr.Unauthorized(errors.New("user no longer exists"))
	}

	rd := &ctxutil.RequestData{
		TokenString:  tokenString,
		RefreshToken: found[0].RefreshToken,
		UserID:       userID,
		Email:        users[0].Email,
		Name:         users[0].Name,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) PruneExpiredSessions(dbc dbctx.Context) (int64, error) {
	n, err := as.userTokenRepo.DeleteExpired(dbc, time.Now().UTC())
	if err != nil {
		return 0, apierr.Persistence("prune expired sessions", err)
	}
	if n > 0 {
		as.log.Info("Pruned expired sessions", "count", n)
	}
	return n, nil
}
