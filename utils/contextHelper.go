package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/backorder_backend/appctx"
	"github.com/google/uuid"
)

var (
	ContextKeyUserName      = appctx.ContextKeyUserName
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeySource        = appctx.ContextKeySource
)

func GetUserNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUserName)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func GetSourceFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeySource)
}

func SetUserNameInContext(ctx context.Context, userName string) context.Context {
	return appctx.Set(ctx, ContextKeyUserName, userName)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func SetSourceInContext(ctx context.Context, source string) context.Context {
	return appctx.Set(ctx, ContextKeySource, source)
}

// EnsureCorrelationId returns ctx unchanged if it already carries a correlation id,
// otherwise it attaches a fresh one.
func EnsureCorrelationId(ctx context.Context) (context.Context, string) {
	if id, ok := GetCorrelationIdFromContext(ctx); ok && id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return SetCorrelationIdInContext(ctx, id), id
}
