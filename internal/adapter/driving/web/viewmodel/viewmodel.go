// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// CSRFFormField is the form field that echoes the CSRF cookie on POST forms.
const CSRFFormField = "csrf_token"

// TabViewModel is one entry in the screen tab bar.
type TabViewModel struct {
	Title  string
	Path   string
	Active bool
}

// RowViewModel is one rendered list row.
type RowViewModel struct {
	Title      string
	Subtitle   string
	DetailPath string
}

// AlertViewModel is the error notice shown after a failed load.
type AlertViewModel struct {
	Title      string
	Message    string
	Action     string
	DismissURL string
}

// ListPageViewModel holds everything the list page renders.
type ListPageViewModel struct {
	Title      string
	Action     string
	Tabs       []TabViewModel
	Rows       []RowViewModel
	Alert      *AlertViewModel
	RefreshURL string
	CSRFToken  string
}

// FieldViewModel is one label/value line on a detail page.
type FieldViewModel struct {
	Label string
	Value string
}

// DetailPageViewModel holds presentation-ready data for a selected item.
type DetailPageViewModel struct {
	Title    string
	BackPath string
	Tabs     []TabViewModel
	Fields   []FieldViewModel

	// DescriptionHTML is sanitized markdown; empty when there is none.
	DescriptionHTML string
}
