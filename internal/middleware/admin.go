package middleware

import (
	"net/http"

	"github.com/hitoshi/tutorhub/internal/model"
)

const adminTokenHeader = "X-Admin-Token"

// NewAdminMiddleware は管理者トークンゲートのミドルウェアを返す。
// X-Admin-Tokenヘッダーまたはtokenクエリパラメータの値が、
// プロセス全体で共有される固定シークレットと完全一致した場合のみ通過させる。
// ハッシュ化も有効期限もない単一の共有シークレット方式。
// 不一致の場合はストアに触れる前に401で短絡する。
func NewAdminMiddleware(adminToken string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(adminTokenHeader)
			if token == "" {
				token = r.URL.Query().Get("token")
			}

			if token == "" || token != adminToken {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAdminTokenRequiredError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
