package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hitoshi/tutorhub/internal/model"
)

// JSONFileConceptRepo はJSONファイルを使用したコンセプトリポジトリ。
// 読み書きの粒度はJSONFileUserRepoと同じくファイル全体。
type JSONFileConceptRepo struct {
	path string
}

// NewJSONFileConceptRepo はJSONFileConceptRepoを生成する。
// 親ディレクトリとファイルが存在しない場合は空コレクションで作成する。
func NewJSONFileConceptRepo(path string) (*JSONFileConceptRepo, error) {
	if err := ensureCollectionFile(path); err != nil {
		return nil, fmt.Errorf("failed to initialize concepts file: %w", err)
	}
	return &JSONFileConceptRepo{path: path}, nil
}

// Load は全コンセプトを挿入順で返す。
func (r *JSONFileConceptRepo) Load(ctx context.Context) ([]*model.Concept, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read concepts file: %w", err)
	}

	var concepts []*model.Concept
	if err := json.Unmarshal(data, &concepts); err != nil {
		return nil, fmt.Errorf("failed to parse concepts file: %w", err)
	}

	return concepts, nil
}

// Save はコレクション全体を上書き保存する。2スペースインデントで整形出力する。
func (r *JSONFileConceptRepo) Save(ctx context.Context, concepts []*model.Concept) error {
	if concepts == nil {
		concepts = []*model.Concept{}
	}

	data, err := json.MarshalIndent(concepts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode concepts: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write concepts file: %w", err)
	}

	return nil
}

// compile-time interface check
var _ ConceptRepository = (*JSONFileConceptRepo)(nil)
