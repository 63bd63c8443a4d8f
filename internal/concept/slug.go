package concept

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
)

// Slugify はタイトルからURLスラグを生成する。
// 小文字化し、英数字・空白・ハイフン以外を除去した後、
// 空白・アンダースコア・連続ハイフンを単一のハイフンにまとめ、
// 先頭と末尾のハイフンを取り除く。
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// uniqueSlug はbaseを既存スラグ集合と照合し、衝突しなくなるまで
// 数値サフィックス（-1, -2, …）を付けて返す。
func uniqueSlug(base string, existing map[string]bool) string {
	slug := base
	for i := 1; existing[slug]; i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return slug
}
