package source

import (
	"strings"
	"testing"
	"time"
)

func TestResolveRelativeDate(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in, want string
	}{
		{"3 days ago", "2025-03-11"},
		{"1 day ago", "2025-03-13"},
		{"2 weeks ago", "2025-02-28"},
		{"1 month ago", "2025-02-12"},
		{"1 year ago", "2024-03-14"},
		{"5 hours ago", "2025-03-14"},
		{"Mar 3, 2025", "Mar 3, 2025"},
		{"  ", "Unknown date"},
	}
	for _, tt := range tests {
		if got := ResolveRelativeDate(tt.in, now, "Unknown date"); got != tt.want {
			t.Errorf("ResolveRelativeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeBloggerDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"5 Mar 2024 — A post about things", "2024.03.05"},
		{"Posted 21 Dec 2023 by admin", "2023.12.21"},
		{"no date here", "fallback"},
		{"31 Foo 2024", "fallback"},
	}
	for _, tt := range tests {
		if got := NormalizeBloggerDate(tt.in, "fallback"); got != tt.want {
			t.Errorf("NormalizeBloggerDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFakerBounds(t *testing.T) {
	f := NewFaker(7)
	for range 200 {
		if n := f.Between(3, 5); n < 3 || n > 5 {
			t.Fatalf("Between out of range: %d", n)
		}
	}
	if n := f.Between(4, 4); n != 4 {
		t.Errorf("Between(4, 4) = %d", n)
	}
	if s := f.Digits(19); len(s) != 19 || strings.Trim(s, digits) != "" {
		t.Errorf("Digits(19) = %q", s)
	}
	if s := f.Hex(16); len(s) != 16 || strings.Trim(s, hexChars) != "" {
		t.Errorf("Hex(16) = %q", s)
	}
	sample := f.Sample([]string{"a", "b", "c"}, 5)
	if len(sample) != 3 {
		t.Errorf("Sample should cap at population size, got %v", sample)
	}

	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	d := f.DaysAgo(now, 1, 30)
	if !d.Before(now) || now.Sub(d) > 30*24*time.Hour {
		t.Errorf("DaysAgo out of range: %v", d)
	}
}

func TestFillAndSlugify(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := fill("{year} guide to {keyword}", "Go", now); got != "2025 guide to Go" {
		t.Errorf("fill = %q", got)
	}
	for in, want := range map[string]string{
		"  Why Go Matters: A Guide! ": "why-go-matters-a-guide",
		"인공지능 뉴스":                     "인공지능-뉴스",
		"AI 인공지능 2025!":               "ai-인공지능-2025",
	} {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
	if got := cleanHandle("the.open-source_community"); got != "theopensource_c" {
		t.Errorf("cleanHandle = %q", got)
	}
}
