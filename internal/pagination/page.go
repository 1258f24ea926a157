package pagination

// Page is the canonical list response every endpoint is normalized into.
type Page[T any] struct {
	Items      []T
	Descriptor Descriptor
}

// View is the rendered state of one list: the rows on screen and their descriptor.
type View[T any] struct {
	Items      []T
	Descriptor Descriptor
	// Err is the last failure, kept alongside the previous rows.
	Err error
}

// NewView returns an empty view at page 1.
func NewView[T any](b Bounds) *View[T] {
	return &View[T]{Descriptor: New(b)}
}

// Apply folds a fetch result into the view. A failure keeps the previous rows and
// descriptor and records the error; a success replaces both wholesale.
func (v *View[T]) Apply(page Page[T], err error) {
	if err != nil {
		v.Err = err
		return
	}
	v.Items = page.Items
	v.Descriptor = page.Descriptor
	v.Err = nil
}
