package models

// Workbook represents the ordered set of sheets handed to the engine.
type Workbook struct {
	// BookName is the source file or directory name (no path).
	BookName string
	// Sheets holds the sheets in workbook order.
	Sheets []Sheet
}

// NewWorkbook builds a workbook from sheets, keeping their order.
func NewWorkbook(sheets ...Sheet) Workbook {
	return Workbook{Sheets: sheets}
}

// Sheet returns the first sheet called name.
func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Names returns the sheet names in workbook order.
func (w Workbook) Names() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}
