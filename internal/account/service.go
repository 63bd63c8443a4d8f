// Package account はユーザー登録・承認・ログイン・進捗管理のドメインロジックを提供する。
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/tutorhub/internal/model"
	"github.com/hitoshi/tutorhub/internal/repository"
)

// MetricsRecorder はアカウント操作のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordRegistration()
	RecordApproval()
	RecordRejection()
	RecordLogin()
}

// Service はユーザーのライフサイクルに関するビジネスロジックを提供する。
//
// 状態遷移:
//
//	[new] --Register--> pending --Approve--> approved
//	                         \---Reject---> rejected
type Service struct {
	users   repository.UserRepository
	metrics MetricsRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(users repository.UserRepository, metrics MetricsRecorder) *Service {
	return &Service{
		users:   users,
		metrics: metrics,
	}
}

// Register は新規ユーザーをpending状態で登録し、発行したIDを返す。
// nameまたはemailが空の場合はValidationErrorを返す。
// 同一emailの重複登録はチェックしない（複数のpending登録を許容する）。
func (s *Service) Register(ctx context.Context, name, email, course string) (string, error) {
	if name == "" || email == "" {
		return "", model.NewValidationError("name and email are required")
	}
	if course == "" {
		course = model.DefaultCourse
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load users: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Course:       course,
		Status:       model.UserStatusPending,
		RegisteredAt: time.Now().UTC(),
	}
	users = append(users, user)

	if err := s.users.Save(ctx, users); err != nil {
		return "", fmt.Errorf("failed to save users: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("course", course),
	)
	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}

	return user.ID, nil
}

// List は全ユーザーを挿入順で返す。管理者向け一覧に使用する。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// Approve はユーザーを承認し、新しいアクセストークンを発行する。
// 再承認の場合もトークンを再発行し、古いトークンは暗黙に無効化される。
// 該当ユーザーがいない場合はNotFoundエラーを返す。
func (s *Service) Approve(ctx context.Context, userID string) (*model.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.ID != userID {
			continue
		}

		now := time.Now().UTC()
		u.Status = model.UserStatusApproved
		u.ApprovedAt = &now
		u.AccessToken = uuid.New().String()

		if err := s.users.Save(ctx, users); err != nil {
			return nil, fmt.Errorf("failed to save users: %w", err)
		}

		slog.Info("user approved", slog.String("user_id", userID))
		if s.metrics != nil {
			s.metrics.RecordApproval()
		}
		return u, nil
	}

	return nil, model.NewUserNotFoundError()
}

// Reject はユーザーを却下する。
// 発行済みトークンは消去しないが、リゾルバのステータス検査により認証には使えない。
// 該当ユーザーがいない場合はNotFoundエラーを返す。
func (s *Service) Reject(ctx context.Context, userID string) (*model.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.ID != userID {
			continue
		}

		now := time.Now().UTC()
		u.Status = model.UserStatusRejected
		u.RejectedAt = &now

		if err := s.users.Save(ctx, users); err != nil {
			return nil, fmt.Errorf("failed to save users: %w", err)
		}

		slog.Info("user rejected", slog.String("user_id", userID))
		if s.metrics != nil {
			s.metrics.RecordRejection()
		}
		return u, nil
	}

	return nil, model.NewUserNotFoundError()
}

// Login はemailでユーザーを認証し、アクセストークンを返す。
// 承認済みユーザーのみログインできる。トークン未発行の場合はここで発行する
// （承認時の発行が正規経路で、これはフォールバック）。
// emailが空: ValidationError / 未登録: NotFound / 未承認: PermissionError
func (s *Service) Login(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, model.NewValidationError("email required")
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}

		if u.Status != model.UserStatusApproved {
			return nil, model.NewUserNotApprovedError()
		}

		if u.AccessToken == "" {
			u.AccessToken = uuid.New().String()
			if err := s.users.Save(ctx, users); err != nil {
				return nil, fmt.Errorf("failed to save users: %w", err)
			}
		}

		slog.Info("user logged in", slog.String("user_id", u.ID))
		if s.metrics != nil {
			s.metrics.RecordLogin()
		}
		return u, nil
	}

	return nil, model.NewUserNotFoundError()
}

// FindByToken はアクセストークンから承認済みユーザーを解決する。
// トークンが一致してもstatusがapprovedでなければ一致とみなさない。
// 見つからない場合はnilを返す（エラーではない）。
func (s *Service) FindByToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.AccessToken == token && u.Status == model.UserStatusApproved {
			return u, nil
		}
	}

	return nil, nil
}

// GetByID は指定IDのユーザーを取得する。見つからない場合はNotFoundエラーを返す。
func (s *Service) GetByID(ctx context.Context, userID string) (*model.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.ID == userID {
			return u, nil
		}
	}

	return nil, model.NewUserNotFoundError()
}

// UpdateProgress はユーザーのコース進捗を更新し、更新後の進捗マップを返す。
// 既存の他コースのエントリは変更しない。
// courseが空、またはpercentが0〜100の範囲外の場合はValidationErrorを返す。
func (s *Service) UpdateProgress(ctx context.Context, userID, course string, percent int) (map[string]int, error) {
	if course == "" {
		return nil, model.NewValidationError("course and percent required")
	}
	if percent < 0 || percent > 100 {
		return nil, model.NewValidationError("percent must be 0-100")
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.ID != userID {
			continue
		}

		if u.Progress == nil {
			u.Progress = make(map[string]int)
		}
		u.Progress[course] = percent

		if err := s.users.Save(ctx, users); err != nil {
			return nil, fmt.Errorf("failed to save users: %w", err)
		}

		return u.Progress, nil
	}

	return nil, model.NewUserNotFoundError()
}
