package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeTag(t *testing.T) {
	tests := map[string]string{
		"Go":                 "go",
		"  Rust  ":           "rust",
		"#Concurrency":       "concurrency",
		"error   hand\tling": "error handling",
		"   ":                "",
	}
	for in, want := range tests {
		if got := NormalizeTag(in); got != want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil stays nil", in: nil, want: nil},
		{name: "empty stays empty", in: []string{}, want: []string{}},
		{name: "dedupe keeps first", in: []string{"Go", "web", "go", " WEB "}, want: []string{"go", "web"}},
		{name: "blank tags dropped", in: []string{"", "  ", "#"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tags mismatch (-want +got):\n%s", diff)
			}
			if (tt.want == nil) != (got == nil) {
				t.Errorf("nil-ness changed: want nil=%v, got nil=%v", tt.want == nil, got == nil)
			}
		})
	}
}
