package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows any listing can request.
	MaxPageSize = 50
)

// Params holds paged listing inputs from controllers.
type Params struct {
	PageIndex int
	PageSize  int
}

// Normalize enforces the configured defaults and bounds.
func (p Params) Normalize() Params {
	if p.PageIndex < 1 {
		p.PageIndex = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.PageIndex - 1) * n.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Page is the paged response envelope.
type Page struct {
	PageIndex int   `json:"pageIndex"`
	PageSize  int   `json:"pageSize"`
	Count     int64 `json:"count"`
	Data      any   `json:"data"`
}

// NewPage assembles a paged envelope from normalized params.
func NewPage(params Params, count int64, data any) Page {
	n := params.Normalize()
	return Page{
		PageIndex: n.PageIndex,
		PageSize:  n.PageSize,
		Count:     count,
		Data:      data,
	}
}
