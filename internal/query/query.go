// Package query is the one generic filter/sort/paginate utility shared by
// every table, replacing per-entity re-implementations.
package query

import (
	"sort"
	"strings"
)

// Options parameterizes a query. Zero values mean "no filtering", "no
// sorting", and "no pagination" respectively.
type Options[T any] struct {
	Filter   func(T) bool
	Less     func(a, b T) bool
	SortDesc bool
	Page     int // 1-based
	PageSize int
}

// Result carries one page of records plus paging totals.
type Result[T any] struct {
	Records    []T
	Total      int
	Page       int
	TotalPages int
}

// Apply filters, sorts, and paginates records without mutating the input
// slice.
func Apply[T any](records []T, opts Options[T]) Result[T] {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if opts.Filter == nil || opts.Filter(r) {
			out = append(out, r)
		}
	}

	if opts.Less != nil {
		less := opts.Less
		if opts.SortDesc {
			inner := less
			less = func(a, b T) bool { return inner(b, a) }
		}
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}

	res := Result[T]{Records: out, Total: len(out), Page: 1, TotalPages: 1}
	if opts.PageSize <= 0 {
		return res
	}

	res.TotalPages = (len(out) + opts.PageSize - 1) / opts.PageSize
	if res.TotalPages == 0 {
		res.TotalPages = 1
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	if page > res.TotalPages {
		page = res.TotalPages
	}
	res.Page = page

	start := (page - 1) * opts.PageSize
	end := start + opts.PageSize
	if start > len(out) {
		start = len(out)
	}
	if end > len(out) {
		end = len(out)
	}
	res.Records = out[start:end]
	return res
}

// MatchesTerm reports whether any of the fields contains term,
// case-insensitively. An empty term matches everything.
func MatchesTerm(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
