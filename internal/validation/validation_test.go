package validation

import (
	"strings"
	"testing"
)

func TestValidateKeywordText(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    bool
	}{
		{"simple english", "camping chairs", true},
		{"korean", "캠핑 의자 추천", true},
		{"single char", "a", true},
		{"numbers", "2026 best blogs", true},
		{"empty string", "", false},
		{"whitespace only", "   ", false},
		{"too long", strings.Repeat("k", 101), false},
		{"max length", strings.Repeat("k", 100), true},
		{"control character", "bad\x00keyword", false},
		{"newline", "bad\nkeyword", false},
		{"invalid utf8", string([]byte{0xff, 0xfe}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ValidateKeywordText(tt.keyword)
			if got != tt.want {
				t.Errorf("ValidateKeywordText(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestValidateTargetURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid desktop post", "https://blog.naver.com/writer/223456789", true, ""},
		{"valid mobile post", "https://m.blog.naver.com/writer/223456789", true, ""},
		{"valid http", "http://blog.naver.com/writer/1", true, ""},
		{"empty string", "", false, "target URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "target URL must use http:// or https:// scheme"},
		{"no scheme", "blog.naver.com/writer/1", false, "target URL must use http:// or https:// scheme"},
		{"scheme only", "https://", false, "target URL must have a valid host"},
		{"wrong host", "https://cafe.naver.com/x/1", false, "target URL must be a blog post on blog.naver.com"},
		{"blog root without post path", "https://blog.naver.com", false, "target URL must be a blog post on blog.naver.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateTargetURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateTargetURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateTargetURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}
