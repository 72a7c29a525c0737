// Package listing derives the filtered, sorted and paginated views the
// storefront and back office show over lists fetched whole from the backend.
package listing

import (
	"slices"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func parseDirection(s string, fallback Direction) Direction {
	switch Direction(strings.ToLower(s)) {
	case Asc:
		return Asc
	case Desc:
		return Desc
	}
	return fallback
}

// PerPageChoices are the page sizes offered by the UI.
var PerPageChoices = []int{5, 10, 20, 50}

// DefaultPerPage is used when no valid page size is requested.
const DefaultPerPage = 10

// Page is one page of a derived list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// Paginate cuts items into pages and returns the requested one. The page
// number is clamped to the existing pages.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if !slices.Contains(PerPageChoices, perPage) {
		perPage = DefaultPerPage
	}
	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	out := []T{}
	if start < total {
		out = append(out, items[start:end]...)
	}
	return Page[T]{
		Items:      out,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func compare[T int | int64 | string](a, b T, dir Direction) int {
	c := 0
	switch {
	case a < b:
		c = -1
	case a > b:
		c = 1
	}
	if dir == Desc {
		return -c
	}
	return c
}
