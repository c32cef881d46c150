package services

import (
	"math"
	"testing"
)

func TestNormalizePage(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 0, 10},
		{-3, 5, 0, 5},
		{2, 100, 2, 25},
		{1, 25, 1, 25},
		{0, -1, 0, 10},
		{math.MaxInt, 25, math.MaxInt32 / 25, 25},
		{math.MaxInt, 0, math.MaxInt32 / 10, 10},
	}
	for _, tc := range tests {
		page, size := p.NormalizePage(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Errorf("NormalizePage(%d, %d) = %d, %d; want %d, %d", tc.page, tc.size, page, size, tc.wantPage, tc.wantSize)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{30, 25, 2},
	}
	for _, tc := range tests {
		if got := totalPages(tc.total, tc.size); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestEmptyPageHasNoNilSlice(t *testing.T) {
	page := emptyPage(3)
	if page.Properties == nil || len(page.Properties) != 0 {
		t.Fatalf("properties = %#v", page.Properties)
	}
	if page.CurrentPage != 3 || page.TotalItems != 0 || page.TotalPages != 0 {
		t.Errorf("page = %+v", page)
	}
}
