package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData is the authenticated projection of the caller, attached by the
// auth middleware once a bearer token validates.
type RequestData struct {
	TokenString  string
	RefreshToken string
	UserID       uuid.UUID
	Email        string
	Name         string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(Default(ctx), requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the authenticated user id or uuid.Nil.
func UserID(ctx context.Context) uuid.UUID {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}
