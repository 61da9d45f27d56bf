package urlutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain https", "https://blog.naver.com/writer/223456789", "blog.naver.com/writer/223456789"},
		{"plain http", "http://blog.naver.com/writer/223456789", "blog.naver.com/writer/223456789"},
		{"no scheme", "blog.naver.com/writer/223456789", "blog.naver.com/writer/223456789"},
		{"mobile host rewrite", "https://m.blog.naver.com/writer/223456789", "blog.naver.com/writer/223456789"},
		{"trailing slash", "https://blog.naver.com/writer/223456789/", "blog.naver.com/writer/223456789"},
		{"query stripped", "https://blog.naver.com/writer/223456789?fromRss=true", "blog.naver.com/writer/223456789"},
		{"fragment stripped", "https://blog.naver.com/writer/223456789#comments", "blog.naver.com/writer/223456789"},
		{"query and fragment", "https://blog.naver.com/w/1?a=b#c", "blog.naver.com/w/1"},
		{"surrounding whitespace", "  https://blog.naver.com/w/1  ", "blog.naver.com/w/1"},
		{"case preserved", "https://blog.naver.com/Writer/AbC", "blog.naver.com/Writer/AbC"},
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"malformed passes through", "not a url at all", "not a url at all"},
		{"other host untouched", "https://cafe.naver.com/x/1", "cafe.naver.com/x/1"},
		{"mobile host only as prefix", "https://mm.blog.naver.com/x", "mm.blog.naver.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"https://blog.naver.com/writer/223456789/",
		"http://m.blog.naver.com/writer/1?q=1#frag",
		"blog.naver.com/w/1",
		"",
		"garbage input",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestEqualAcrossVariants(t *testing.T) {
	if !Equal("http://m.blog.naver.com/a/1/", "https://blog.naver.com/a/1") {
		t.Error("mobile/desktop variants of the same post should compare equal")
	}
	if Equal("https://blog.naver.com/a/1", "https://blog.naver.com/a/2") {
		t.Error("different posts should not compare equal")
	}
}

func TestPathSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "blog.naver.com/w/1", "https://blog.naver.com/w/1", 1.0},
		{"last segment differs", "blog.naver.com/w/1", "blog.naver.com/w/2", 2.0 / 3.0},
		{"extra segment", "blog.naver.com/w/1", "blog.naver.com/w/1/extra", 3.0 / 4.0},
		{"nothing shared", "blog.naver.com/a", "cafe.naver.com/b", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PathSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("PathSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
