package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/tutorhub/internal/concept"
	"github.com/hitoshi/tutorhub/internal/middleware"
	"github.com/hitoshi/tutorhub/internal/model"
)

// ConceptServiceInterface はコンセプトハンドラーが必要とするサービスインターフェース。
type ConceptServiceInterface interface {
	// List は全コンセプトを挿入順で返す。
	List(ctx context.Context) ([]*model.Concept, error)
	// Create は新しいコンセプトを作成して返す。スラグは必要なら一意化される。
	Create(ctx context.Context, title, content, slug string) (*model.Concept, error)
	// Update はコンセプトを部分更新して返す。
	Update(ctx context.Context, conceptID string, input concept.UpdateInput) (*model.Concept, error)
	// Delete はコンセプトを削除する。
	Delete(ctx context.Context, conceptID string) error
	// GetBySlug はスラグでコンセプトを検索する。
	GetBySlug(ctx context.Context, slug string) (*model.Concept, error)
}

// Sanitizer は公開配信時のHTMLサニタイズインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// ConceptHandler はコンセプト管理のHTTPハンドラー。
// 一覧・作成・更新・削除は管理者トークンゲートの内側、スラグ検索は公開。
type ConceptHandler struct {
	service   ConceptServiceInterface
	sanitizer Sanitizer
}

// NewConceptHandler はConceptHandlerを生成する。
func NewConceptHandler(service ConceptServiceInterface, sanitizer Sanitizer) *ConceptHandler {
	return &ConceptHandler{
		service:   service,
		sanitizer: sanitizer,
	}
}

// createConceptRequest はコンセプト作成リクエストのボディ。
type createConceptRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Slug    string `json:"slug"`
}

// updateConceptRequest はコンセプト部分更新リクエストのボディ。
// nilフィールドは変更しない。
type updateConceptRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Slug    *string `json:"slug"`
}

// conceptResponse はコンセプトのAPIレスポンス。
type conceptResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ListConcepts は全コンセプトの一覧を返す。
// GET /api/concepts
func (h *ConceptHandler) ListConcepts(w http.ResponseWriter, r *http.Request) {
	concepts, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if concepts == nil {
		concepts = []*model.Concept{}
	}
	writeJSON(w, http.StatusOK, concepts)
}

// CreateConcept は新規コンセプトを作成する。
// POST /api/concepts
func (h *ConceptHandler) CreateConcept(w http.ResponseWriter, r *http.Request) {
	var req createConceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), req.Title, req.Content, req.Slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "created",
		"id":      created.ID,
		"slug":    created.Slug,
	})
}

// UpdateConcept はコンセプトを部分更新する。
// PUT /api/concepts/{id}
func (h *ConceptHandler) UpdateConcept(w http.ResponseWriter, r *http.Request) {
	conceptID := chi.URLParam(r, "id")

	var req updateConceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("invalid request body"))
		return
	}

	input := concept.UpdateInput{
		Title:   req.Title,
		Content: req.Content,
		Slug:    req.Slug,
	}
	if _, err := h.service.Update(r.Context(), conceptID, input); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "updated",
		"id":      conceptID,
	})
}

// DeleteConcept はコンセプトを削除する。
// DELETE /api/concepts/{id}
func (h *ConceptHandler) DeleteConcept(w http.ResponseWriter, r *http.Request) {
	conceptID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), conceptID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "deleted",
		"id":      conceptID,
	})
}

// GetConceptBySlug はスラグでコンセプトを取得する（認証不要の公開ルート）。
// レンダリング層が利用する。コンテンツは配信前にサニタイズする。
// GET /concepts/{slug}
func (h *ConceptHandler) GetConceptBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	c, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := conceptResponse{
		ID:        c.ID,
		Title:     c.Title,
		Slug:      c.Slug,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if h.sanitizer != nil {
		resp.Content = h.sanitizer.Sanitize(c.Content)
	}

	writeJSON(w, http.StatusOK, resp)
}
