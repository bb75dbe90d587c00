package kernel

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationOptions is a 1-based page request.
type PaginationOptions struct {
	Page  int
	Limit int
}

// Valid reports whether the options are within range without normalizing.
func (o PaginationOptions) Valid() bool {
	return o.Page >= 1 && o.Limit >= 1 && o.Limit <= MaxPageSize
}

// Offset is the number of rows to skip.
func (o PaginationOptions) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// Page is pagination metadata.
type Page struct {
	Number int `json:"page"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

// Paginated is one page of items with metadata.
type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"pagination"`
}

func NewPaginated[T any](items []T, opts PaginationOptions, total int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if opts.Limit > 0 {
		pages = (total + opts.Limit - 1) / opts.Limit
	}
	return Paginated[T]{
		Items: items,
		Page: Page{
			Number: opts.Page,
			Limit:  opts.Limit,
			Total:  total,
			Pages:  pages,
		},
	}
}

func (p Paginated[T]) HasNext() bool {
	return p.Page.Number < p.Page.Pages
}
