// Package model はドメインモデルを定義する。
package model

import "time"

// Concept はチュートリアル記事（コンセプトページ）を表す。
// スラグは全コンセプトを通して一意であり、重複時は数値サフィックスで解決される。
type Concept struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
