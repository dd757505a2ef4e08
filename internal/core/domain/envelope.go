package domain

// Envelope is one page of results plus the pagination metadata reported by the server.
// The client trusts HasNext but renders from Data, never from Count.
type Envelope[T any] struct {
	Data       []T  `json:"data"`
	Count      int  `json:"count"`
	TotalCount int  `json:"totalCount"`
	PageSize   int  `json:"pageSize"`
	Page       int  `json:"page"`
	HasNext    bool `json:"hasNext"`
}

// ItemPage is the envelope returned by list and search
type ItemPage = Envelope[Item]

// Len returns the number of entries actually present on the page
func (e *Envelope[T]) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Data)
}

// DisplayPage returns the page number clamped to 1.
// The server answers short search queries with page 0.
func (e *Envelope[T]) DisplayPage() int {
	if e == nil || e.Page < 1 {
		return 1
	}
	return e.Page
}

// HasPrev reports whether a previous page exists
func (e *Envelope[T]) HasPrev() bool {
	return e != nil && e.Page > 1
}

// TotalPages returns the number of pages, or 0 when the server did not report a usable total
func (e *Envelope[T]) TotalPages() int {
	if e == nil || e.TotalCount < 0 || e.PageSize <= 0 {
		return 0
	}
	pages := (e.TotalCount + e.PageSize - 1) / e.PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Consistent reports whether the envelope honours the documented server contract
func (e *Envelope[T]) Consistent() bool {
	if e == nil {
		return false
	}
	if e.Count != len(e.Data) || e.Page < 1 || e.Count > e.PageSize {
		return false
	}
	if e.TotalCount >= 0 && e.HasNext != (e.Page*e.PageSize < e.TotalCount) {
		return false
	}
	return true
}

// NewItemPage returns an empty first page
func NewItemPage(pageSize int) *ItemPage {
	return &ItemPage{
		Data:     []Item{},
		PageSize: pageSize,
		Page:     1,
	}
}

// ClonePage deep-copies an item page so callers cannot mutate shared state
func ClonePage(p *ItemPage) *ItemPage {
	if p == nil {
		return nil
	}
	c := *p
	c.Data = make([]Item, len(p.Data))
	for i, item := range p.Data {
		c.Data[i] = item.Clone()
	}
	return &c
}
