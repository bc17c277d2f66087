package helpers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"communityadmin/internal/domain"
)

// List paging limits. page_size above MaxPageSize is clamped; a page beyond
// MaxPage is rejected so that the item offset always fits in an int.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = math.MaxInt / MaxPageSize
)

// ParsePagination reads page and page_size from the query string.
// Missing values take the defaults. Non-numeric or non-positive values and a
// page above MaxPage return an error meant for a 400 response.
func ParsePagination(r *http.Request) (domain.PaginationParams, error) {
	q := r.URL.Query()
	params := domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}
	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return domain.PaginationParams{}, fmt.Errorf("page must be a positive integer")
		}
		if v > MaxPage {
			return domain.PaginationParams{}, fmt.Errorf("page must not exceed %d", MaxPage)
		}
		params.Page = v
	}
	if s := q.Get("page_size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return domain.PaginationParams{}, fmt.Errorf("page_size must be a positive integer")
		}
		params.PageSize = min(v, MaxPageSize)
	}
	return params, nil
}

// PaginationMeta is the paging block of list responses.
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta reports total_pages as ceil(total/pageSize), or 0 without a page size.
func NewPaginationMeta(params domain.PaginationParams, total int) PaginationMeta {
	meta := PaginationMeta{Page: params.Page, PageSize: params.PageSize, Total: total}
	if params.PageSize > 0 {
		meta.TotalPages = total / params.PageSize
		if total%params.PageSize != 0 {
			meta.TotalPages++
		}
	}
	return meta
}
