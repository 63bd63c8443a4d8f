// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/tutorhub/internal/model"
)

// UserRepository はユーザーコレクションの永続化インターフェース。
// クエリ言語は持たない。呼び出し側がLoadで全件読み込み、メモリ上で
// フィルタ・変更した後、Saveでコレクション全体を書き戻す。
type UserRepository interface {
	// Load は全ユーザーを挿入順で返す。
	Load(ctx context.Context) ([]*model.User, error)

	// Save はコレクション全体を与えられた内容で上書き保存する。
	Save(ctx context.Context, users []*model.User) error
}

// ConceptRepository はコンセプトコレクションの永続化インターフェース。
type ConceptRepository interface {
	// Load は全コンセプトを挿入順で返す。
	Load(ctx context.Context) ([]*model.Concept, error)

	// Save はコレクション全体を与えられた内容で上書き保存する。
	Save(ctx context.Context, concepts []*model.Concept) error
}
