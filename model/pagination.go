package model

// DefaultPageSizes are the page sizes cycled through when none are configured.
var DefaultPageSizes = []int{50, 100, 500}

// Pagination windows a fully loaded result set into pages.
type Pagination struct {
	TotalRows   int
	PageSize    int
	CurrentPage int

	sizes []int
}

func NewPagination(totalRows int) Pagination {
	return NewPaginationWithSizes(totalRows, nil)
}

// NewPaginationWithSizes uses sizes for cycling; the first entry is the
// initial page size. Empty sizes fall back to DefaultPageSizes.
func NewPaginationWithSizes(totalRows int, sizes []int) Pagination {
	valid := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s > 0 {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		valid = DefaultPageSizes
	}
	return Pagination{TotalRows: totalRows, PageSize: valid[0], sizes: valid}
}

// Reset swaps in a new row count and returns to the first page, keeping
// the selected page size.
func (p *Pagination) Reset(totalRows int) {
	p.TotalRows = totalRows
	p.CurrentPage = 0
}

// TotalPages is always at least 1, so an empty result still has a page.
func (p Pagination) TotalPages() int {
	if p.TotalRows == 0 || p.PageSize <= 0 {
		return 1
	}
	return (p.TotalRows + p.PageSize - 1) / p.PageSize
}

func (p *Pagination) NextPage() {
	if p.CurrentPage+1 < p.TotalPages() {
		p.CurrentPage++
	}
}

func (p *Pagination) PrevPage() {
	if p.CurrentPage > 0 {
		p.CurrentPage--
	}
}

func (p *Pagination) FirstPage() {
	p.CurrentPage = 0
}

func (p *Pagination) LastPage() {
	p.CurrentPage = p.TotalPages() - 1
}

// CyclePageSize advances to the next configured size and returns to page 0.
func (p *Pagination) CyclePageSize() {
	sizes := p.sizes
	if len(sizes) == 0 {
		sizes = DefaultPageSizes
	}
	next := sizes[0]
	for i, s := range sizes {
		if s == p.PageSize {
			next = sizes[(i+1)%len(sizes)]
			break
		}
	}
	p.PageSize = next
	p.CurrentPage = 0
}

func (p Pagination) StartIndex() int {
	return p.CurrentPage * p.PageSize
}

func (p Pagination) EndIndex() int {
	return min(p.StartIndex()+p.PageSize, p.TotalRows)
}

func (p Pagination) HasNext() bool {
	return p.CurrentPage+1 < p.TotalPages()
}

func (p Pagination) HasPrev() bool {
	return p.CurrentPage > 0
}
