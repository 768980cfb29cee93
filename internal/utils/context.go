package utils

import (
	"context"

	"github.com/gin-gonic/gin"
)

type CustomContext struct {
	AppSource string
	UserID    string
}

type customContextKeyType struct{}

var customContextKey = customContextKeyType{}

func WithCustomContext(ctx context.Context, customContext *CustomContext) context.Context {
	return context.WithValue(ctx, customContextKey, customContext)
}

func WithCustomContextFromGinRequest(c *gin.Context, appSource string) context.Context {
	customContext := &CustomContext{
		AppSource: appSource,
		UserID:    c.GetHeader("X-PAWTRAIL-USER-ID"),
	}
	return WithCustomContext(c.Request.Context(), customContext)
}

func GetContext(ctx context.Context) *CustomContext {
	customContext, ok := ctx.Value(customContextKey).(*CustomContext)
	if !ok {
		return new(CustomContext)
	}
	return customContext
}

func GetUserIDFromContext(ctx context.Context) string {
	return GetContext(ctx).UserID
}

func GetAppSourceFromContext(ctx context.Context) string {
	return GetContext(ctx).AppSource
}
