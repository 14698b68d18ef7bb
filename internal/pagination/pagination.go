package pagination

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Page struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Paginate does not clamp page against the page count: a page past the end
// is reported as such with accurate totals.
func Paginate(total int64, page, size int) Page {
	var pages int64
	if size > 0 && total > 0 {
		pages = (total + int64(size) - 1) / int64(size)
	}
	return Page{Page: page, Limit: size, Total: total, Pages: pages}
}

// Calculate turns loosely validated page/size input into offset and limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Offset(page, size), size
}

// Offset is the row offset of page. It saturates at math.MaxInt instead of
// wrapping, so an absurd page still lands past the last row.
func Offset(page, size int) int {
	if page < 1 || size < 1 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}
