package shared

import (
	"net/url"
	"strconv"
	"strings"

	root "github.com/saddlefit/oms/internal/shared"
)

// ListFilters represents standard list page filters
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool

	// Entity specific filters
	CountryCode      string
	CountryManagerID *int64
	SupplierID       *int64
	FitterID         *int64
}

// Offset returns the row offset of the current page.
func (f ListFilters) Offset() int {
	return root.Offset(f.Page, f.Limit)
}

// Pagination builds the response metadata for total rows.
func (f ListFilters) Pagination(total int) root.Pagination {
	return root.NewPagination(f.Page, f.Limit, total)
}

// FiltersFromQuery reads the common list parameters.
func FiltersFromQuery(q url.Values) ListFilters {
	page, limit := root.PageParams(q)
	f := ListFilters{
		Page:        page,
		Limit:       limit,
		Search:      strings.TrimSpace(q.Get("search")),
		SortBy:      q.Get("sort"),
		SortDir:     strings.ToLower(q.Get("dir")),
		CountryCode: strings.ToUpper(strings.TrimSpace(q.Get("country"))),
	}
	if v := q.Get("active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.IsActive = &b
		}
	}
	f.CountryManagerID = optionalID(q.Get("country_manager_id"))
	f.SupplierID = optionalID(q.Get("supplier_id"))
	f.FitterID = optionalID(q.Get("fitter_id"))
	return f
}

func optionalID(raw string) *int64 {
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
