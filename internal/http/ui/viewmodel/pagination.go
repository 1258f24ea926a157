package viewmodel

// PageLink is a direct link to one page number.
type PageLink struct {
	Number int
	URL    string
}

// Pagination contains pagination metadata for list views.
// TotalCount is zero when the backend reports page counts without a row total.
type Pagination struct {
	Visible    bool
	Page       int
	TotalPages int
	PageSize   int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int
	TotalCount int
	PrevURL    string
	NextURL    string
	Window     []PageLink
	// The page-size selector submits to BasePath and re-sends Hidden (the active filters).
	BasePath  string
	PageSizes []int
	Hidden    []Option
}
