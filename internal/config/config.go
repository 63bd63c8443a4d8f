package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultAdminToken は管理者トークンのフォールバック既定値。
// ローカル開発以外ではTA_ADMIN_TOKEN環境変数で必ず上書きすること。
const DefaultAdminToken = "admin123"

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Admin
	AdminToken string

	// Data
	DataDir string

	// Session
	SessionMaxAge int

	// Rate Limit
	RateLimitGeneral      int
	RateLimitRegistration int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数はなく、全フィールドにローカル開発向けの既定値がある。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.AdminToken = getEnvString("TA_ADMIN_TOKEN", DefaultAdminToken)
	cfg.DataDir = getEnvString("TA_DATA_DIR", "data")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 0)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitRegistration = getEnvInt("RATE_LIMIT_REGISTRATION", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")

	return cfg, nil
}

// UsesDefaultAdminToken は管理者トークンが既定値のままかを返す。
// 起動時の警告ログに使用する。
func (c *Config) UsesDefaultAdminToken() bool {
	return c.AdminToken == DefaultAdminToken
}

// UsersFile はユーザーコレクションのJSONファイルパスを返す。
func (c *Config) UsersFile() string {
	return filepath.Join(c.DataDir, "users.json")
}

// ConceptsFile はコンセプトコレクションのJSONファイルパスを返す。
func (c *Config) ConceptsFile() string {
	return filepath.Join(c.DataDir, "concepts.json")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
