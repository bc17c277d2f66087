package domain

import "math"

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the 0-based item offset of the current page. It saturates at
// math.MaxInt instead of overflowing for very large pages.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Bounds returns the [start, end) slice indices of the current page within a
// list of total items. A page past the end yields an empty range; the result
// always satisfies 0 <= start <= end <= total.
func (p PaginationParams) Bounds(total int) (start, end int) {
	if total < 0 {
		total = 0
	}
	if p.PageSize <= 0 {
		return 0, total
	}
	start = min(max(p.Offset(), 0), total)
	end = start + min(p.PageSize, total-start)
	return start, end
}
