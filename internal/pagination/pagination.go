// Package pagination slices provider result sets locally; the provider only
// filters server-side, it does not page.
package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const defaultPageSize = 10

// Meta is the pagination block of the response envelope.
type Meta struct {
	TotalPages  int `json:"totalPages"`
	Limit       int `json:"limit"`
	Count       int `json:"count"`
	CurrentPage int `json:"currentPage"`
}

// Params holds the 1-based page and page size from the query string.
type Params struct {
	Page   int
	PageBy int
}

// FromQuery reads page/pageBy, falling back to page 1 and the default size
// on absent or unparseable values.
func FromQuery(c *fiber.Ctx) Params {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageBy, err := strconv.Atoi(c.Query("pageBy", strconv.Itoa(defaultPageSize)))
	if err != nil || pageBy < 1 {
		pageBy = defaultPageSize
	}
	return Params{Page: page, PageBy: pageBy}
}

// Paginate returns the requested page of items plus metadata. A page past the
// end yields an empty page with empty metadata rather than an error.
func Paginate[T any](items []T, p Params) ([]T, Meta) {
	total := len(items)
	totalPages := (total + p.PageBy - 1) / p.PageBy

	start := (p.Page - 1) * p.PageBy
	if start >= total {
		return []T{}, Meta{}
	}
	end := start + p.PageBy
	if end > total {
		end = total
	}

	page := items[start:end]
	return page, Meta{
		TotalPages:  totalPages,
		Limit:       p.PageBy,
		Count:       len(page),
		CurrentPage: p.Page,
	}
}
