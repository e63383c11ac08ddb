// Package matrix holds the requirement-by-vendor evaluation table and its
// on-disk CSV representation.
package matrix

// Row is a single requirement and the per-vendor verdicts recorded for it.
// The requirement text is the row key: it is unique within a matrix and
// compared case-sensitively.
type Row struct {
	Requirement string
	Verdicts    map[string]string
}

// Matrix is an ordered requirement-by-vendor table. Row order is the order
// requirements were first extracted; column order is the order vendors were
// added.
type Matrix struct {
	Rows    []*Row
	Vendors []string

	index map[string]*Row
}

func New() *Matrix {
	return &Matrix{index: make(map[string]*Row)}
}

// AddRequirement appends a new requirement row with empty verdicts for every
// known vendor. It reports false when the exact requirement text is already
// present.
func (m *Matrix) AddRequirement(text string) bool {
	if m.index == nil {
		m.rebuildIndex()
	}

	if _, ok := m.index[text]; ok {
		return false
	}

	row := &Row{
		Requirement: text,
		Verdicts:    make(map[string]string, len(m.Vendors)),
	}
	for _, vendor := range m.Vendors {
		row.Verdicts[vendor] = ""
	}

	m.Rows = append(m.Rows, row)
	m.index[text] = row
	return true
}

// SetVendor adds the vendor column (or overwrites it in place, keeping the
// column order) and fills every row: the verdict from the provided mapping
// when present, the sentinel otherwise.
func (m *Matrix) SetVendor(name string, verdicts map[string]string, sentinel string) {
	if !m.HasVendor(name) {
		m.Vendors = append(m.Vendors, name)
	}

	for _, row := range m.Rows {
		if row.Verdicts == nil {
			row.Verdicts = make(map[string]string)
		}
		verdict, ok := verdicts[row.Requirement]
		if !ok {
			verdict = sentinel
		}
		row.Verdicts[name] = verdict
	}
}

// HasVendor reports whether the vendor column already exists (case-sensitive).
func (m *Matrix) HasVendor(name string) bool {
	for _, vendor := range m.Vendors {
		if vendor == name {
			return true
		}
	}
	return false
}

// Requirements returns the requirement texts in row order.
func (m *Matrix) Requirements() []string {
	reqs := make([]string, 0, len(m.Rows))
	for _, row := range m.Rows {
		reqs = append(reqs, row.Requirement)
	}
	return reqs
}

// Verdict returns the recorded verdict for the requirement/vendor pair, or
// the empty string when either is unknown.
func (m *Matrix) Verdict(requirement, vendor string) string {
	if m.index == nil {
		m.rebuildIndex()
	}
	row, ok := m.index[requirement]
	if !ok {
		return ""
	}
	return row.Verdicts[vendor]
}

func (m *Matrix) Len() int {
	return len(m.Rows)
}

func (m *Matrix) rebuildIndex() {
	m.index = make(map[string]*Row, len(m.Rows))
	for _, row := range m.Rows {
		m.index[row.Requirement] = row
	}
}
