package repository

import "testing"

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"scissors":   "scissors",
		"100%":       `100\%`,
		"SS_001":     `SS\_001`,
		`back\slash`: `back\\slash`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusColumnsCoverEveryBucket(t *testing.T) {
	for status, column := range statusColumns {
		if string(status) != column {
			t.Errorf("bucket %q mapped to column %q", status, column)
		}
	}
	if len(statusColumns) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(statusColumns))
	}
}
