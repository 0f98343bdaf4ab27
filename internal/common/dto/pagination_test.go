package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		total      int64
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{name: "empty", page: 1, pageSize: 20, total: 0, totalPages: 0},
		{name: "single page", page: 1, pageSize: 20, total: 5, totalPages: 1},
		{name: "exact fit", page: 1, pageSize: 20, total: 40, totalPages: 2, hasNext: true},
		{name: "partial last page", page: 5, pageSize: 20, total: 95, totalPages: 5, hasPrev: true},
		{name: "middle page", page: 3, pageSize: 20, total: 95, totalPages: 5, hasNext: true, hasPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.pageSize, tt.total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.pageSize, p.PageSize)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.hasNext, p.HasNext)
			assert.Equal(t, tt.hasPrev, p.HasPrev)
		})
	}
}
