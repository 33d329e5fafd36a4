package textutil_test

import (
	"strings"
	"testing"

	"fcsmerge/internal/textutil"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{300, "300"},
		{3658, "3,658"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := textutil.FormatCount(tt.in); got != tt.want {
			t.Fatalf("FormatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := textutil.FormatCount(12000); got != "12,000" {
		t.Fatalf("FormatCount(int) = %q", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/data/Plate 1", "data_plate_1"},
		{"  ", "unknown"},
		{"///", "unknown"},
		{"run-2026", "run-2026"},
		{"Ünïcode dir", "n_code_dir"},
	}
	for _, tt := range tests {
		if got := textutil.SanitizeToken(tt.in); got != tt.want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := "/" + strings.Repeat("a", 100) + "/leaf"
	got := textutil.SanitizeToken(long)
	if len(got) > 64 || !strings.HasSuffix(got, "_leaf") {
		t.Fatalf("expected truncated token ending in leaf, got %q", got)
	}
}

func TestPlural(t *testing.T) {
	if textutil.Plural(1, "file", "files") != "file" || textutil.Plural(0, "file", "files") != "files" {
		t.Fatal("unexpected plural selection")
	}
}
