package viewmodel

// FieldType selects the input control a form field renders as.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPassword FieldType = "password"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
)

// Field is one labelled form control.
type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Value    string
	Checked  bool
	Required bool
	Step     string
	Help     string
	Error    string
	Options  []Option
}

// Form is a create or edit form.
type Form struct {
	Action    string
	Multipart bool
	Fields    []Field
	Submit    string
	CancelURL string
}

// DetailItem is one label/value pair on a detail page.
type DetailItem struct {
	Label string
	Value string
	Link  string
}

// Detail is a read-only record view.
type Detail struct {
	Items   []DetailItem
	EditURL string
	BackURL string
}

// Tile is one dashboard total.
type Tile struct {
	Label string
	Href  string
	Total int
	Error string
}
