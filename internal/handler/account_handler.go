// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/tutorhub/internal/middleware"
	"github.com/hitoshi/tutorhub/internal/model"
)

// AccountServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	// Register は新規ユーザーをpending状態で登録し、発行したIDを返す。
	Register(ctx context.Context, name, email, course string) (string, error)
	// Login はemailで承認済みユーザーを認証し、トークン付きのユーザーを返す。
	Login(ctx context.Context, email string) (*model.User, error)
	// GetByID は指定IDのユーザーを取得する。
	GetByID(ctx context.Context, userID string) (*model.User, error)
	// UpdateProgress はコース進捗を更新し、更新後の進捗マップを返す。
	UpdateProgress(ctx context.Context, userID, course string, percent int) (map[string]int, error)
}

// CookieConfig はセッションCookieの設定。
type CookieConfig struct {
	Domain string
	Secure bool
	MaxAge int // 0の場合はブラウザセッション限りのCookieになる
}

// AccountHandler は登録・ログイン・進捗管理のHTTPハンドラー。
type AccountHandler struct {
	service AccountServiceInterface
	cookie  CookieConfig
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AccountServiceInterface, cookie CookieConfig) *AccountHandler {
	return &AccountHandler{
		service: service,
		cookie:  cookie,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Course string `json:"course"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email string `json:"email"`
}

// progressRequest は進捗更新リクエストのボディ。
// percentは整数のみ受け付けるためjson.Numberで受けてから検証する。
type progressRequest struct {
	Course  string      `json:"course"`
	Percent json.Number `json:"percent"`
}

// meResponse はユーザー情報のAPIレスポンス。アクセストークンは含めない。
type meResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Course       string         `json:"course"`
	Status       model.UserStatus `json:"status"`
	RegisteredAt time.Time      `json:"registered_at"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	RejectedAt   *time.Time     `json:"rejected_at,omitempty"`
	Progress     map[string]int `json:"progress,omitempty"`
}

// Register は新規ユーザー登録を処理する。
// POST /api/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("invalid request body"))
		return
	}

	id, err := h.service.Register(r.Context(), req.Name, req.Email, req.Course)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "registered",
		"id":      id,
	})
}

// Login はemailによるログインを処理し、セッションCookieを設定する。
// POST /api/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("invalid request body"))
		return
	}

	user, err := h.service.Login(r.Context(), req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// ブラウザ向けにトークンをHTTP Only Cookieとして設定
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    user.AccessToken,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   h.cookie.MaxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"token": user.AccessToken,
		"id":    user.ID,
		"name":  user.Name,
	})
}

// Logout はセッションCookieをクリアする。
// トークン自体は失効させない（他のクライアントでは引き続き有効）。
// POST /api/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "logged out",
	})
}

// Me は現在のログインユーザー情報を返す。アクセストークンは漏らさない。
// GET /api/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotLoggedInError())
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMeResponse(user))
}

// UpdateProgress はログインユーザーのコース進捗を更新する。
// POST /api/me/progress
func (h *AccountHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotLoggedInError())
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("invalid request body"))
		return
	}

	if req.Course == "" || req.Percent == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("course and percent required"))
		return
	}

	percent, err := req.Percent.Int64()
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("percent must be integer"))
		return
	}

	progress, err := h.service.UpdateProgress(r.Context(), userID, req.Course, int(percent))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "progress updated",
		"progress": progress,
	})
}

// toMeResponse はmodel.Userからトークンを除いたAPIレスポンスに変換する。
func toMeResponse(user *model.User) meResponse {
	return meResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Course:       user.Course,
		Status:       user.Status,
		RegisteredAt: user.RegisteredAt,
		ApprovedAt:   user.ApprovedAt,
		RejectedAt:   user.RejectedAt,
		Progress:     user.Progress,
	}
}
