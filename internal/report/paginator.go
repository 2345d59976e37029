package report

import (
	"fmt"
	"iter"
)

// Page is a contiguous slice of the dataset drawn on one slide.
type Page struct {
	// Index is the 0-based page number.
	Index int

	// Rows are the page's rows; the slice must not be appended to.
	Rows []Row

	// IsLast is true only for the final page, which carries the totals row.
	IsLast bool
}

// Paginator splits a dataset into pages of at most Size rows.
type Paginator struct {
	rows []Row
	size int
}

// NewPaginator creates a Paginator. pageSize must be positive.
func NewPaginator(ds *Dataset, pageSize int) (*Paginator, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	return &Paginator{rows: ds.rows, size: pageSize}, nil
}

// PageCount returns ceil(n / size).
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Count returns the number of pages.
func (p *Paginator) Count() int {
	return PageCount(len(p.rows), p.size)
}

// Pages returns the pages in order. The sequence is lazy and can be ranged
// over any number of times.
func (p *Paginator) Pages() iter.Seq[Page] {
	return func(yield func(Page) bool) {
		count := p.Count()
		for i := 0; i < count; i++ {
			lo := i * p.size
			hi := min(lo+p.size, len(p.rows))
			page := Page{
				Index:  i,
				Rows:   p.rows[lo:hi:hi],
				IsLast: i == count-1,
			}
			if !yield(page) {
				return
			}
		}
	}
}
