package viewmodel

// Option is one choice of a select input or list filter.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Filter is a select rendered above a list.
type Filter struct {
	Name    string
	Label   string
	Options []Option
}

// Cell is one table cell. Badge renders the text as a status pill.
type Cell struct {
	Text  string
	Badge string
}

// Row is one table row. Href links the row to its detail page.
type Row struct {
	ID    string
	Href  string
	Cells []Cell
}

// Table is the list body.
type Table struct {
	Columns []string
	Rows    []Row
	Empty   string
}

// List is everything a list page renders.
type List struct {
	Table      Table
	Pagination Pagination
	Filters    []Filter
	NewURL     string
	NewLabel   string
	// RetryURL is set when the load failed and the page shows an error state.
	RetryURL string
}
