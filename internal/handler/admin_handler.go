package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/tutorhub/internal/model"
)

// AdminServiceInterface は管理者ハンドラーが必要とするサービスインターフェース。
type AdminServiceInterface interface {
	// List は全ユーザーを挿入順で返す。
	List(ctx context.Context) ([]*model.User, error)
	// Approve はユーザーを承認し、新しいアクセストークンを発行する。
	Approve(ctx context.Context, userID string) (*model.User, error)
	// Reject はユーザーを却下する。
	Reject(ctx context.Context, userID string) (*model.User, error)
}

// AdminHandler はユーザー承認管理のHTTPハンドラー。
// 全ルートが管理者トークンゲートの内側に配置される。
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// ListUsers は全ユーザーの一覧を返す。
// GET /api/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if users == nil {
		users = []*model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// ApproveUser はユーザーを承認する。
// POST /api/users/{id}/approve
func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if _, err := h.service.Approve(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "approved",
		"id":      userID,
	})
}

// RejectUser はユーザーを却下する。
// POST /api/users/{id}/reject
func (h *AdminHandler) RejectUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if _, err := h.service.Reject(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "rejected",
		"id":      userID,
	})
}
