package logger

import (
	"context"
	"log/slog"
)

type scopeKey struct{}

// requestScope - поля запроса, которые попадают в каждую строку лога
type requestScope struct {
	requestID string
	userID    string
}

func scopeFrom(ctx context.Context) requestScope {
	if ctx == nil {
		return requestScope{}
	}
	scope, _ := ctx.Value(scopeKey{}).(requestScope)
	return scope
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	scope := scopeFrom(ctx)
	scope.requestID = requestID
	return context.WithValue(ctx, scopeKey{}, scope)
}

// WithUserID ставит auth middleware после проверки токена
func WithUserID(ctx context.Context, userID string) context.Context {
	scope := scopeFrom(ctx)
	scope.userID = userID
	return context.WithValue(ctx, scopeKey{}, scope)
}

func GetRequestID(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

func GetUserID(ctx context.Context) string {
	return scopeFrom(ctx).userID
}

// FromContext - глобальный логгер с request_id и user_id запроса
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	scope := scopeFrom(ctx)
	if scope.requestID != "" {
		l = l.With("request_id", scope.requestID)
	}
	if scope.userID != "" {
		l = l.With("user_id", scope.userID)
	}
	return l
}

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError - error-уровень с полем error; nil допустим
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{"error", err.Error()}, args...)
	}
	FromContext(ctx).Error(msg, args...)
}
