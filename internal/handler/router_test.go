package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/tutorhub/internal/middleware"
	"github.com/hitoshi/tutorhub/internal/model"
	"golang.org/x/time/rate"
)

type mockResolver struct {
	findByTokenFn func(ctx context.Context, token string) (*model.User, error)
}

func (m *mockResolver) FindByToken(ctx context.Context, token string) (*model.User, error) {
	return m.findByTokenFn(ctx, token)
}

func newTestRateLimiter(t *testing.T) *middleware.RateLimiter {
	t.Helper()
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:       rate.Limit(1000),
		GeneralBurst:      1000,
		RegistrationRate:  rate.Limit(1000),
		RegistrationBurst: 1000,
		CleanupInterval:   time.Hour,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	resolver := &mockResolver{
		findByTokenFn: func(ctx context.Context, token string) (*model.User, error) {
			if token == "user-tok" {
				return &model.User{ID: "u1", Status: model.UserStatusApproved}, nil
			}
			return nil, nil
		},
	}
	accountService := &mockAccountService{
		getByIDFn: func(ctx context.Context, userID string) (*model.User, error) {
			return &model.User{ID: userID, Name: "Alice", Status: model.UserStatusApproved}, nil
		},
	}
	adminService := &mockAdminService{
		listFn: func(ctx context.Context) ([]*model.User, error) {
			return nil, nil
		},
		approveFn: func(ctx context.Context, userID string) (*model.User, error) {
			return &model.User{ID: userID, Status: model.UserStatusApproved}, nil
		},
	}
	conceptService := &mockConceptService{
		listFn: func(ctx context.Context) ([]*model.Concept, error) {
			return nil, nil
		},
		getBySlugFn: func(ctx context.Context, slug string) (*model.Concept, error) {
			return &model.Concept{ID: "c1", Slug: slug, CreatedAt: time.Now().UTC()}, nil
		},
	}

	return NewRouter(&RouterDeps{
		AdminToken:        "admin-secret",
		UserResolver:      resolver,
		CORSAllowedOrigin: "*",
		RateLimiter:       newTestRateLimiter(t),
		AccountService:    accountService,
		AdminService:      adminService,
		ConceptService:    conceptService,
	})
}

// TestRouter_Gating は各ルートが正しいゲートの内側にあることを検証する。
func TestRouter_Gating(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		setRequest func(r *http.Request)
		wantStatus int
	}{
		{"ルートは公開", http.MethodGet, "/", nil, http.StatusOK},
		{"healthは公開", http.MethodGet, "/health", nil, http.StatusOK},
		{"公開コンセプト取得は認証不要", http.MethodGet, "/concepts/intro", nil, http.StatusOK},

		{"ユーザー一覧はトークンなしで401", http.MethodGet, "/api/users", nil, http.StatusUnauthorized},
		{"ユーザー一覧は管理者トークンで200", http.MethodGet, "/api/users",
			func(r *http.Request) { r.Header.Set("X-Admin-Token", "admin-secret") }, http.StatusOK},
		{"コンセプト一覧はトークンなしで401", http.MethodGet, "/api/concepts", nil, http.StatusUnauthorized},
		{"コンセプト一覧は管理者トークンで200", http.MethodGet, "/api/concepts",
			func(r *http.Request) { r.Header.Set("X-Admin-Token", "admin-secret") }, http.StatusOK},
		{"承認はクエリトークンでも通る", http.MethodPost, "/api/users/u1/approve?token=admin-secret",
			nil, http.StatusOK},

		{"meはトークンなしで401", http.MethodGet, "/api/me", nil, http.StatusUnauthorized},
		{"meはユーザートークンで200", http.MethodGet, "/api/me",
			func(r *http.Request) { r.Header.Set("X-User-Token", "user-tok") }, http.StatusOK},
		{"meは未知のトークンで401", http.MethodGet, "/api/me",
			func(r *http.Request) { r.Header.Set("X-User-Token", "bad-tok") }, http.StatusUnauthorized},
		{"進捗更新はトークンなしで401", http.MethodPost, "/api/me/progress", nil, http.StatusUnauthorized},

		{"管理者トークンはユーザーゲートでは無効", http.MethodGet, "/api/me",
			func(r *http.Request) { r.Header.Set("X-Admin-Token", "admin-secret") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.setRequest != nil {
				tt.setRequest(req)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s: status = %d, want %d\nbody: %s",
					tt.method, tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouter_RootMessage(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(rec.Body.String(), "Tutorial Hub API") {
		t.Errorf("unexpected root body: %q", rec.Body.String())
	}
}

func TestRouter_SecurityHeadersApplied(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
