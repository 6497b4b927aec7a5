package pagination

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zizouhuweidi/qna/internal/domain"
)

func TestExtractRange(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]string
		want    Range
		wantErr error
	}{
		{
			name:   "both present",
			params: map[string]string{"start": "1", "end": "4"},
			want:   Range{Start: 1, End: 4},
		},
		{
			name:   "no upper bound at this layer",
			params: map[string]string{"start": "0", "end": "18446744073709551615"},
			want:   Range{Start: 0, End: 18446744073709551615},
		},
		{
			name:   "end before start is left to the store",
			params: map[string]string{"start": "5", "end": "2"},
			want:   Range{Start: 5, End: 2},
		},
		{
			name:    "missing end",
			params:  map[string]string{"start": "1"},
			wantErr: domain.ErrMissingParameters,
		},
		{
			name:    "missing start",
			params:  map[string]string{"end": "1"},
			wantErr: domain.ErrMissingParameters,
		},
		{
			name:    "empty",
			params:  map[string]string{},
			wantErr: domain.ErrMissingParameters,
		},
		{
			name:    "non numeric start",
			params:  map[string]string{"start": "one", "end": "2"},
			wantErr: domain.ErrParse,
		},
		{
			name:    "negative end",
			params:  map[string]string{"start": "0", "end": "-1"},
			wantErr: domain.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractRange(tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("range mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractRangeKeepsParseCause(t *testing.T) {
	_, err := ExtractRange(map[string]string{"start": "x", "end": "1"})

	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Fatalf("expected the strconv failure in the chain, got %v", err)
	}
	if numErr.Num != "x" {
		t.Errorf("expected failing input %q, got %q", "x", numErr.Num)
	}
}

func TestExtractWindow(t *testing.T) {
	got, err := ExtractWindow(map[string]string{"offset": "10", "limit": "5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Window{Offset: 10, Limit: 5}, got); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}

	if _, err := ExtractWindow(map[string]string{"limit": "5"}); !errors.Is(err, domain.ErrMissingParameters) {
		t.Errorf("expected MissingParameters, got %v", err)
	}
	if _, err := ExtractWindow(map[string]string{"offset": "1.5", "limit": "5"}); !errors.Is(err, domain.ErrParse) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func TestExtract(t *testing.T) {
	limit := uint64(3)
	end := uint64(2)

	tests := []struct {
		name    string
		params  map[string]string
		want    domain.Page
		wantErr error
	}{
		{name: "no parameters", params: nil, want: domain.AllQuestions()},
		{
			name:   "start and end",
			params: map[string]string{"start": "0", "end": "2"},
			want:   domain.Page{Offset: 0, End: &end},
		},
		{
			name:   "offset and limit",
			params: map[string]string{"offset": "1", "limit": "3"},
			want:   domain.Page{Offset: 1, Limit: &limit},
		},
		{
			name:    "half a range",
			params:  map[string]string{"start": "0", "limit": "3"},
			wantErr: domain.ErrMissingParameters,
		},
		{
			name:    "unknown parameter",
			params:  map[string]string{"page": "2"},
			wantErr: domain.ErrMissingParameters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("page mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromQuery(t *testing.T) {
	got := FromQuery(map[string][]string{
		"start": {"1", "9"},
		"end":   {"3"},
		"empty": {},
	})
	want := map[string]string{"start": "1", "end": "3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}
