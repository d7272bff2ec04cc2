package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		limit     int
		total     int64
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"empty result", 1, 10, 0, 0, false, false},
		{"single page exact", 1, 10, 10, 1, false, false},
		{"partial last page", 1, 10, 11, 2, true, false},
		{"middle page", 2, 10, 35, 4, true, true},
		{"last page", 4, 10, 35, 4, false, true},
		{"limit one", 3, 1, 3, 3, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.limit, tc.total)
			assert.Equal(t, tc.wantPages, p.TotalPages)
			assert.Equal(t, tc.wantNext, p.HasNext)
			assert.Equal(t, tc.wantPrev, p.HasPrev)
			assert.Equal(t, tc.total, p.Total)
		})
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit = NormalizePage(-3, 101)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit = NormalizePage(7, 100)
	assert.Equal(t, 7, page)
	assert.Equal(t, 100, limit)
}
