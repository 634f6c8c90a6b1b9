package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hiro", "%hiro%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
	}

	for _, tt := range tests {
		if got := likePattern(tt.in); got != tt.want {
			t.Errorf("likePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOrderByIDs(t *testing.T) {
	records := []string{"c", "a", "b"}
	got := orderByIDs([]string{"a", "x", "b", "c"}, records, func(s string) string { return s })

	want := []string{"a", "b", "c"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("orderByIDs = %v, want %v", got, want)
	}

	if empty := orderByIDs(nil, records, func(s string) string { return s }); empty == nil || len(empty) != 0 {
		t.Errorf("Expected a non-nil empty slice, got %#v", empty)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: uniqueViolation}
	if !isUniqueViolation(fmt.Errorf("insert: %w", dup)) {
		t.Error("Expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("Foreign key violation is not a unique violation")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Error("Plain error is not a unique violation")
	}
}

func TestArrayValue(t *testing.T) {
	if v := arrayValue(nil); v == nil {
		t.Error("arrayValue(nil) must not be nil")
	}
	if v := orEmpty(nil); v == nil {
		t.Error("orEmpty(nil) must not be nil")
	}
}
