package matrix

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// requirementsHeader is the first column of every persisted matrix.
const requirementsHeader = "Requirements"

// PersistenceError reports a matrix file that could not be read or written,
// including a malformed existing CSV.
type PersistenceError struct {
	Path   string
	Reason string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("matrix file %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("matrix file %q: %s", e.Path, e.Reason)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store persists a matrix as a CSV file. The file is read fully before a
// mutation and rewritten fully after; there is no locking, a second
// concurrent writer can race.
type Store struct {
	Path string
}

// Load reads the matrix from disk. A missing file yields an empty matrix so
// a fresh session can start without setup.
func (s *Store) Load() (*Matrix, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, &PersistenceError{Path: s.Path, Reason: "open", Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		// encoding/csv reports ragged rows as a parse error.
		return nil, &PersistenceError{Path: s.Path, Reason: "malformed csv", Err: err}
	}

	if len(records) == 0 {
		return nil, &PersistenceError{Path: s.Path, Reason: "missing header row"}
	}

	header := records[0]
	if len(header) == 0 || header[0] != requirementsHeader {
		return nil, &PersistenceError{
			Path:   s.Path,
			Reason: fmt.Sprintf("header must start with %q", requirementsHeader),
		}
	}

	m := New()
	m.Vendors = append(m.Vendors, header[1:]...)

	for i, record := range records[1:] {
		if !m.AddRequirement(record[0]) {
			return nil, &PersistenceError{
				Path:   s.Path,
				Reason: fmt.Sprintf("duplicate requirement on data row %d: %q", i+1, record[0]),
			}
		}
		row := m.Rows[len(m.Rows)-1]
		for j, vendor := range m.Vendors {
			row.Verdicts[vendor] = record[j+1]
		}
	}

	return m, nil
}

// Save rewrites the matrix file in full, header first, rows in matrix order.
func (s *Store) Save(m *Matrix) error {
	file, err := os.Create(s.Path)
	if err != nil {
		return &PersistenceError{Path: s.Path, Reason: "create", Err: err}
	}
	defer file.Close()

	if err := WriteCSV(m, file); err != nil {
		return &PersistenceError{Path: s.Path, Reason: "write", Err: err}
	}

	return nil
}

// WriteCSV serializes the matrix with standard CSV quoting, header row first.
func WriteCSV(m *Matrix, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headerRecord(m)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range m.Rows {
		record := make([]string, 0, len(m.Vendors)+1)
		record = append(record, row.Requirement)
		for _, vendor := range m.Vendors {
			record = append(record, row.Verdicts[vendor])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func headerRecord(m *Matrix) []string {
	header := make([]string, 0, len(m.Vendors)+1)
	header = append(header, requirementsHeader)
	return append(header, m.Vendors...)
}
