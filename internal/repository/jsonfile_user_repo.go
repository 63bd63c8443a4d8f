package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hitoshi/tutorhub/internal/model"
)

// JSONFileUserRepo はJSONファイルを使用したユーザーリポジトリ。
// ファイル全体を読み込み・書き戻しする。ロックは行わないため、
// 同一ファイルへの並行Saveは後勝ちになる（仕様上許容された制限）。
type JSONFileUserRepo struct {
	path string
}

// NewJSONFileUserRepo はJSONFileUserRepoを生成する。
// 親ディレクトリとファイルが存在しない場合は空コレクションで作成する。
func NewJSONFileUserRepo(path string) (*JSONFileUserRepo, error) {
	if err := ensureCollectionFile(path); err != nil {
		return nil, fmt.Errorf("failed to initialize users file: %w", err)
	}
	return &JSONFileUserRepo{path: path}, nil
}

// Load は全ユーザーを挿入順で返す。
// ファイルが破損している場合はパースエラーを返す（リクエストに対して致命的）。
func (r *JSONFileUserRepo) Load(ctx context.Context) ([]*model.User, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var users []*model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}

	return users, nil
}

// Save はコレクション全体を上書き保存する。2スペースインデントで整形出力する。
func (r *JSONFileUserRepo) Save(ctx context.Context, users []*model.User) error {
	if users == nil {
		users = []*model.User{}
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}

	return nil
}

// ensureCollectionFile はコレクションファイルと親ディレクトリの存在を保証する。
// ファイルが無い場合は空のJSON配列で初期化する。
func ensureCollectionFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.WriteFile(path, []byte("[]"), 0o644)
	} else if err != nil {
		return err
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*JSONFileUserRepo)(nil)
