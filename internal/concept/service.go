// Package concept はチュートリアル記事（コンセプト）のCRUDロジックを提供する。
package concept

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/tutorhub/internal/model"
	"github.com/hitoshi/tutorhub/internal/repository"
)

// MetricsRecorder はコンセプト書き込み操作のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordConceptWrite(operation string)
}

// UpdateInput はコンセプト部分更新の入力。nilフィールドは変更しない。
type UpdateInput struct {
	Title   *string
	Content *string
	Slug    *string
}

// Service はコンセプト管理のビジネスロジックを提供する。
type Service struct {
	concepts repository.ConceptRepository
	metrics  MetricsRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(concepts repository.ConceptRepository, metrics MetricsRecorder) *Service {
	return &Service{
		concepts: concepts,
		metrics:  metrics,
	}
}

// List は全コンセプトを挿入順で返す。管理者向け一覧に使用する。
func (s *Service) List(ctx context.Context) ([]*model.Concept, error) {
	concepts, err := s.concepts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}
	return concepts, nil
}

// Create は新しいコンセプトを作成して返す。
// titleが空の場合はValidationErrorを返す。
// slug未指定の場合はtitleからSlugifyで導出し、既存スラグと衝突する場合は
// 数値サフィックスを付けて一意化する（現時点のスナップショットに対する検査）。
func (s *Service) Create(ctx context.Context, title, content, slug string) (*model.Concept, error) {
	if title == "" {
		return nil, model.NewValidationError("title required")
	}
	if slug == "" {
		slug = Slugify(title)
	}

	concepts, err := s.concepts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}

	existing := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		existing[c.Slug] = true
	}
	slug = uniqueSlug(slug, existing)

	concept := &model.Concept{
		ID:        uuid.New().String(),
		Title:     title,
		Slug:      slug,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	concepts = append(concepts, concept)

	if err := s.concepts.Save(ctx, concepts); err != nil {
		return nil, fmt.Errorf("failed to save concepts: %w", err)
	}

	slog.Info("concept created",
		slog.String("concept_id", concept.ID),
		slog.String("slug", slug),
	)
	if s.metrics != nil {
		s.metrics.RecordConceptWrite("create")
	}

	return concept, nil
}

// Update はコンセプトを部分更新して返す。指定されたフィールドのみ変更し、
// updated_atを常に現在時刻に更新する。
// 該当IDがない場合はNotFoundエラーを返す。
func (s *Service) Update(ctx context.Context, conceptID string, input UpdateInput) (*model.Concept, error) {
	concepts, err := s.concepts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}

	for _, c := range concepts {
		if c.ID != conceptID {
			continue
		}

		if input.Title != nil {
			c.Title = *input.Title
		}
		if input.Content != nil {
			c.Content = *input.Content
		}
		if input.Slug != nil && *input.Slug != "" {
			c.Slug = *input.Slug
		}
		now := time.Now().UTC()
		c.UpdatedAt = &now

		if err := s.concepts.Save(ctx, concepts); err != nil {
			return nil, fmt.Errorf("failed to save concepts: %w", err)
		}

		slog.Info("concept updated", slog.String("concept_id", conceptID))
		if s.metrics != nil {
			s.metrics.RecordConceptWrite("update")
		}
		return c, nil
	}

	return nil, model.NewConceptNotFoundError()
}

// Delete はコンセプトを削除する。該当IDがない場合はNotFoundエラーを返す。
func (s *Service) Delete(ctx context.Context, conceptID string) error {
	concepts, err := s.concepts.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load concepts: %w", err)
	}

	remaining := make([]*model.Concept, 0, len(concepts))
	for _, c := range concepts {
		if c.ID != conceptID {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == len(concepts) {
		return model.NewConceptNotFoundError()
	}

	if err := s.concepts.Save(ctx, remaining); err != nil {
		return fmt.Errorf("failed to save concepts: %w", err)
	}

	slog.Info("concept deleted", slog.String("concept_id", conceptID))
	if s.metrics != nil {
		s.metrics.RecordConceptWrite("delete")
	}
	return nil
}

// GetBySlug はスラグでコンセプトを検索する。公開ページの表示に使用する。
// 該当スラグがない場合はNotFoundエラーを返す。
func (s *Service) GetBySlug(ctx context.Context, slug string) (*model.Concept, error) {
	concepts, err := s.concepts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}

	for _, c := range concepts {
		if c.Slug == slug {
			return c, nil
		}
	}

	return nil, model.NewConceptNotFoundError()
}
