package services

import (
	"math"

	"github.com/citynect/property-backend/models"
)

// maxOffset bounds page*size so the skip stays a sane 32-bit value.
const maxOffset = math.MaxInt32

// NormalizePage clamps a zero-based page and a page size to the policy bounds.
func (p Policy) NormalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = p.DefaultPageSize
	}
	if size > p.MaxPageSize {
		size = p.MaxPageSize
	}
	if size < 1 {
		size = 1
	}
	if page > maxOffset/size {
		page = maxOffset / size
	}
	return page, size
}

func newPage(views []models.PropertyView, page, size int, total int64) *models.PropertyPage {
	if views == nil {
		views = []models.PropertyView{}
	}
	return &models.PropertyPage{
		Properties:  views,
		CurrentPage: page,
		TotalItems:  total,
		TotalPages:  totalPages(total, size),
	}
}

func emptyPage(page int) *models.PropertyPage {
	return newPage(nil, page, 1, 0)
}

func totalPages(total int64, size int) int64 {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}
