// Package model はドメインモデルを定義する。
package model

import "time"

// UserStatus はユーザーの承認状態を表す。
type UserStatus string

const (
	// UserStatusPending は承認待ち状態。登録直後の初期状態。
	UserStatusPending UserStatus = "pending"
	// UserStatusApproved は管理者に承認された状態。
	UserStatusApproved UserStatus = "approved"
	// UserStatusRejected は管理者に却下された状態。
	UserStatusRejected UserStatus = "rejected"
)

// DefaultCourse は登録時にコース未指定の場合に割り当てるコース名。
const DefaultCourse = "general"

// User は登録ユーザーを表す。
// JSONタグは永続化ファイル（users.json）とAPIレスポンスの両方で使用する。
// AccessTokenは status == approved の場合のみ認証に使用できる。
// 却下後に残った古いトークンはリゾルバのステータス検査が拒否する。
type User struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Course       string         `json:"course"`
	Status       UserStatus     `json:"status"`
	RegisteredAt time.Time      `json:"registered_at"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	RejectedAt   *time.Time     `json:"rejected_at,omitempty"`
	AccessToken  string         `json:"access_token,omitempty"`
	Progress     map[string]int `json:"progress,omitempty"`
}
