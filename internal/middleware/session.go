// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/tutorhub/internal/model"
)

// SessionCookieName はユーザートークンを保持するCookieの名前。
const SessionCookieName = "TA_USER_TOKEN"

const userTokenHeader = "X-User-Token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// UserResolver はアクセストークンから承認済みユーザーを解決するインターフェース。
// account.Serviceの部分集合として定義する。
// トークンに一致する承認済みユーザーがいない場合はnilを返す。
type UserResolver interface {
	FindByToken(ctx context.Context, token string) (*model.User, error)
}

// TokenFromRequest はリクエストからユーザートークンを抽出する。
// 優先順位: Cookie → X-User-Tokenヘッダー → tokenクエリパラメータ。
// どこにも無い場合は空文字列を返す。
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token := r.Header.Get(userTokenHeader); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

// NewSessionMiddleware はリクエストのトークンを承認済みユーザーに解決する
// ミドルウェアを返す。解決はリクエストごとに毎回行う（サーバー側の
// セッションテーブルは持たない）。
// 解決できたユーザーIDをリクエストコンテキストに注入し、
// トークンが無い・一致しない場合は401 Unauthorizedを返す。
func NewSessionMiddleware(resolver UserResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Cookie/ヘッダー/クエリからトークンを取得
			token := TokenFromRequest(r)
			if token == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotLoggedInError())
				return
			}

			// 2. トークンを承認済みユーザーに解決
			user, err := resolver.FindByToken(r.Context(), token)
			if err != nil {
				slog.Error("failed to resolve user token",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotLoggedInError())
				return
			}
			if user == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotLoggedInError())
				return
			}

			// 3. 認証済みユーザーIDをコンテキストに注入
			ctx := context.WithValue(r.Context(), userIDContextKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
