package repository

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestParseSquareFeet(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1200", 1200, true},
		{" 950 sq ft", 950, true},
		{"1,100", 1, true},
		{"approx 800", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseSquareFeet(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseSquareFeet(%q) = %v, %v; want %v, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestObjectIDsSkipsMalformed(t *testing.T) {
	valid := primitive.NewObjectID()
	got := ObjectIDs([]string{valid.Hex(), "nope", ""})
	if len(got) != 1 || got[0] != valid {
		t.Fatalf("ObjectIDs = %v, want [%v]", got, valid)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	if _, err := objectID("xyz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("objectID(malformed) = %v, want ErrNotFound", err)
	}
}

func TestNotFoundTranslation(t *testing.T) {
	if err := notFound(fmt.Errorf("wrapped: %w", mongo.ErrNoDocuments)); !errors.Is(err, ErrNotFound) {
		t.Errorf("notFound(ErrNoDocuments) = %v", err)
	}
	other := errors.New("boom")
	if err := notFound(other); err != other {
		t.Errorf("notFound(other) = %v, want passthrough", err)
	}
}
