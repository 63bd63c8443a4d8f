package security

import (
	"strings"
	"testing"
)

// TestSanitize_AllowedTags は記事構造タグが正しく通過することを検証する。
func TestSanitize_AllowedTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		// want に含まれるべき部分文字列
		wantContains []string
	}{
		{
			name:         "h1〜h4タグが許可される",
			input:        "<h1>見出し1</h1><h2>見出し2</h2><h3>見出し3</h3><h4>見出し4</h4>",
			wantContains: []string{"<h1>見出し1</h1>", "<h2>見出し2</h2>", "<h3>見出し3</h3>", "<h4>見出し4</h4>"},
		},
		{
			name:         "pタグが許可される",
			input:        "<p>テスト段落</p>",
			wantContains: []string{"<p>テスト段落</p>"},
		},
		{
			name:         "ulタグとliタグが許可される",
			input:        "<ul><li>項目1</li><li>項目2</li></ul>",
			wantContains: []string{"<ul>", "<li>項目1</li>", "<li>項目2</li>", "</ul>"},
		},
		{
			name:         "tableタグ一式が許可される",
			input:        "<table><thead><tr><th>列</th></tr></thead><tbody><tr><td>値</td></tr></tbody></table>",
			wantContains: []string{"<table>", "<thead>", "<th>列</th>", "<tbody>", "<td>値</td>", "</table>"},
		},
		{
			name:         "preタグとcodeタグが許可される",
			input:        "<pre><code>func main() {}</code></pre>",
			wantContains: []string{"<pre>", "<code>func main() {}</code>", "</pre>"},
		},
		{
			name:         "blockquoteタグが許可される",
			input:        "<blockquote>引用</blockquote>",
			wantContains: []string{"<blockquote>引用</blockquote>"},
		},
		{
			name:         "strongタグとemタグが許可される",
			input:        "<strong>太字</strong><em>強調</em>",
			wantContains: []string{"<strong>太字</strong>", "<em>強調</em>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) = %q, want to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

// TestSanitize_DisallowedContent は危険なタグ・属性が除去されることを検証する。
func TestSanitize_DisallowedContent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		// want に含まれてはいけない部分文字列
		wantNotContains []string
	}{
		{
			name:            "scriptタグが除去される",
			input:           `<p>本文</p><script>alert("xss")</script>`,
			wantNotContains: []string{"<script", "alert"},
		},
		{
			name:            "iframeタグが除去される",
			input:           `<iframe src="https://evil.example.com"></iframe>`,
			wantNotContains: []string{"<iframe", "evil.example.com"},
		},
		{
			name:            "styleタグが除去される",
			input:           `<style>body { display: none }</style><p>本文</p>`,
			wantNotContains: []string{"<style", "display"},
		},
		{
			name:            "onclick属性が除去される",
			input:           `<p onclick="alert(1)">クリック</p>`,
			wantNotContains: []string{"onclick", "alert"},
		},
		{
			name:            "http画像が除去される",
			input:           `<img src="http://example.com/a.png" alt="insecure">`,
			wantNotContains: []string{"http://example.com/a.png"},
		},
		{
			name:            "javascriptスキームのリンクが除去される",
			input:           `<a href="javascript:alert(1)">リンク</a>`,
			wantNotContains: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, notWant := range tt.wantNotContains {
				if strings.Contains(got, notWant) {
					t.Errorf("Sanitize(%q) = %q, must not contain %q", tt.input, got, notWant)
				}
			}
		})
	}
}

// TestSanitize_LinkAttributes は外部リンクに安全な属性が付与されることを検証する。
func TestSanitize_LinkAttributes(t *testing.T) {
	sanitizer := NewContentSanitizer()

	got := sanitizer.Sanitize(`<a href="https://example.com/docs">ドキュメント</a>`)

	if !strings.Contains(got, `href="https://example.com/docs"`) {
		t.Errorf("expected href to survive, got %q", got)
	}
	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("expected target=_blank to be added, got %q", got)
	}
	if !strings.Contains(got, "noopener") || !strings.Contains(got, "noreferrer") {
		t.Errorf("expected rel noopener/noreferrer, got %q", got)
	}
}

// TestSanitize_HTTPSImage はhttps画像がalt付きで通過することを検証する。
func TestSanitize_HTTPSImage(t *testing.T) {
	sanitizer := NewContentSanitizer()

	got := sanitizer.Sanitize(`<img src="https://example.com/diagram.png" alt="図解">`)

	if !strings.Contains(got, `src="https://example.com/diagram.png"`) {
		t.Errorf("expected https image src to survive, got %q", got)
	}
	if !strings.Contains(got, `alt="図解"`) {
		t.Errorf("expected alt attribute to survive, got %q", got)
	}
}

// TestSanitize_EmptyAndIdempotent は空入力と冪等性を検証する。
func TestSanitize_EmptyAndIdempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	if got := sanitizer.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}

	input := `<p>本文</p><a href="https://example.com">リンク</a><script>x</script>`
	once := sanitizer.Sanitize(input)
	twice := sanitizer.Sanitize(once)
	if once != twice {
		t.Errorf("sanitization is not idempotent:\n once: %q\ntwice: %q", once, twice)
	}
}
