// Package pagination splits ordered listings into fixed-size, 1-based pages.
// Requests for pages outside the valid range are clamped instead of rejected.
package pagination

import (
	"strconv"
	"strings"
)

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// Window describes one page of a listing of Total items.
type Window struct {
	Number   int // 1-based page number after clamping
	NumPages int // always >= 1, an empty listing has one empty page
	Size     int
	Total    int
	Offset   int
	Limit    int // number of items on this page
}

// HasNext reports whether a page follows this one.
func (w Window) HasNext() bool { return w.Number < w.NumPages }

// HasPrevious reports whether a page precedes this one.
func (w Window) HasPrevious() bool { return w.Number > 1 }

// NextNumber returns the following page number, or the current one on the last page.
func (w Window) NextNumber() int {
	if w.HasNext() {
		return w.Number + 1
	}
	return w.Number
}

// PreviousNumber returns the preceding page number, or 1 on the first page.
func (w Window) PreviousNumber() int {
	if w.HasPrevious() {
		return w.Number - 1
	}
	return 1
}

// Page is a window together with the items it covers.
type Page[T any] struct {
	Items []T
	Window
}

// Len returns the number of items on the page.
func (p Page[T]) Len() int { return len(p.Items) }

// Compute returns the window for the requested page of a listing with total items.
func Compute(total, size, requested int) Window {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	numPages := (total + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	offset := (number - 1) * size
	limit := total - offset
	if limit > size {
		limit = size
	}
	if limit < 0 {
		limit = 0
	}

	return Window{
		Number:   number,
		NumPages: numPages,
		Size:     size,
		Total:    total,
		Offset:   offset,
		Limit:    limit,
	}
}

// Paginate slices items in memory and returns the requested page.
func Paginate[T any](items []T, size, requested int) Page[T] {
	w := Compute(len(items), size, requested)
	return Page[T]{
		Items:  items[w.Offset : w.Offset+w.Limit],
		Window: w,
	}
}

// FromWindow wraps items already fetched for w.
func FromWindow[T any](items []T, w Window) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Window: w}
}

// ParsePage converts the raw "page" query value into a page number.
// Missing or unparsable values mean page 1; range clamping happens in Compute.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
