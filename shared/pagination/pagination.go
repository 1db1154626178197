// Package pagination computes skip/limit windows and page counts for every
// listing endpoint.
package pagination

import "strconv"

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Page is the resolved pagination window plus the derived page count.
type Page struct {
	Skip  int   `json:"-"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Resolve normalizes page/limit and derives skip and the total page count.
// An out-of-range page is left as-is; the data source simply returns an
// empty slice for it.
func Resolve(page, limit int, total int64) Page {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Page{
		Skip:  (page - 1) * limit,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// FromQuery parses the raw page/limit query parameters, falling back to the
// defaults on anything unparseable.
func FromQuery(pageStr, limitStr string, total int64) Page {
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		page = defaultPage
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		limit = defaultLimit
	}
	return Resolve(page, limit, total)
}
