// Package paging normalizes page/size/sort request parameters into a
// deterministic query shape consumed by the card repository. Sortable
// fields form a closed set, so a raw sort string can never reach SQL.
package paging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dpavlenko/cashcard/internal/common"
)

// SortField enumerates the columns a card listing may be ordered by.
type SortField string

const (
	SortByAmount SortField = "amount"
	SortByID     SortField = "id"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

const (
	DefaultNumber = 0
	DefaultSize   = 20
)

// Page is the resolved (page, size, sort) tuple. Zero values are not
// meaningful; construct via Default or Resolve.
type Page struct {
	Number    int
	Size      int
	Sort      SortField
	Direction Direction
}

// Default returns the page shape used when the client sends no parameters:
// first page, 20 items, amount ascending.
func Default() Page {
	return Page{
		Number:    DefaultNumber,
		Size:      DefaultSize,
		Sort:      SortByAmount,
		Direction: Ascending,
	}
}

// Resolve builds a Page from raw query values. Empty values fall back to
// defaults. An unrecognized sort field or direction also falls back to the
// default sort, while a malformed or negative page/size is a validation
// error surfaced to the caller.
func Resolve(page, size, sort string) (Page, error) {
	p := Default()

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 0 {
			return Page{}, fmt.Errorf("%w: page must be a non-negative integer", common.ErrorValidation)
		}
		p.Number = n
	}

	if size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n <= 0 {
			return Page{}, fmt.Errorf("%w: size must be a positive integer", common.ErrorValidation)
		}
		p.Size = n
	}

	if sort != "" {
		p.Sort, p.Direction = resolveSort(sort)
	}

	return p, nil
}

// resolveSort parses a "field" or "field,direction" value against the
// closed enumerations. Anything unrecognized maps to the default.
func resolveSort(sort string) (SortField, Direction) {
	field, dir, _ := strings.Cut(sort, ",")

	f := SortField(strings.ToLower(strings.TrimSpace(field)))
	if f != SortByAmount && f != SortByID {
		return SortByAmount, Ascending
	}

	d := Ascending
	if strings.EqualFold(strings.TrimSpace(dir), "desc") {
		d = Descending
	}
	return f, d
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// Limit returns the maximum number of rows to return.
func (p Page) Limit() int {
	return p.Size
}

// OrderBy returns the ORDER BY clause body. Both parts come from closed
// enumerations, never from raw client input.
func (p Page) OrderBy() string {
	return string(p.Sort) + " " + string(p.Direction)
}
