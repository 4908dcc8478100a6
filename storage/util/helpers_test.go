package util

import "testing"

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.org", "https://example.org/"},
		{"https://example.org/", "https://example.org/"},
		{" https://example.org/media// ", "https://example.org/media/"},
	}

	for _, tt := range tests {
		if got := NormalizeBaseURL(tt.in); got != tt.want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://example.org", "photos/cat.png", "https://example.org/photos/cat.png"},
		{"https://example.org/media/", "/photos/cat.png", "https://example.org/media/photos/cat.png"},
		{"https://example.org", "", "https://example.org/"},
	}

	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.key); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}
