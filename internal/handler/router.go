package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/tutorhub/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ゲート依存
	AdminToken   string
	UserResolver middleware.UserResolver

	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Metrics           middleware.StatusRecorder
	MetricsHandler    http.Handler

	// アカウント
	AccountService AccountServiceInterface
	AdminService   AdminServiceInterface
	Cookie         CookieConfig

	// コンセプト
	ConceptService ConceptServiceInterface
	Sanitizer      Sanitizer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging
//
// ルートごとのゲートは3種類のうち必ず1つ:
// 公開（ゲートなし）、管理者トークンゲート、承認済みユーザーセッションゲート。
// ゲートで拒否されたリクエストはストアに触れる前に短絡する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default(), deps.Metrics))

	accountHandler := NewAccountHandler(deps.AccountService, deps.Cookie)
	adminHandler := NewAdminHandler(deps.AdminService)
	conceptHandler := NewConceptHandler(deps.ConceptService, deps.Sanitizer)

	// --- 公開ルート ---

	r.Get("/", rootHandler)
	r.Get("/health", healthHandler)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 登録・ログインには専用のレート制限を適用する
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.RegistrationMiddleware())
		r.Post("/api/register", accountHandler.Register)
		r.Post("/api/login", accountHandler.Login)
	})

	r.Post("/api/logout", accountHandler.Logout)
	r.Get("/concepts/{slug}", conceptHandler.GetConceptBySlug)

	// --- 管理者トークンゲートのルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAdminMiddleware(deps.AdminToken))

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", adminHandler.ListUsers)
			r.Post("/{id}/approve", adminHandler.ApproveUser)
			r.Post("/{id}/reject", adminHandler.RejectUser)
		})

		r.Route("/api/concepts", func(r chi.Router) {
			r.Get("/", conceptHandler.ListConcepts)
			r.Post("/", conceptHandler.CreateConcept)
			r.Put("/{id}", conceptHandler.UpdateConcept)
			r.Delete("/{id}", conceptHandler.DeleteConcept)
		})
	})

	// --- 承認済みユーザーセッションゲートのルート ---
	// ミドルウェアスタック: Session → RateLimit(General)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.UserResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/me", accountHandler.Me)
		r.Post("/api/me/progress", accountHandler.UpdateProgress)
	})

	return r
}

// rootHandler はAPIの案内文を返す。
func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Tutorial Hub API - use /api/register to sign up"))
}

// healthHandler はプロセスの生存確認に応答する。
// Dockerヘルスチェック（healthcheckサブコマンド）が利用する。
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
