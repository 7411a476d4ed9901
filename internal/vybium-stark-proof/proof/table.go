package proof

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

// Table is a row-major table of base field elements where all rows have the
// same width.
type Table struct {
	data     []field.Element
	rowWidth int
}

// NewTable copies rows into a table
func NewTable(rows [][]field.Element) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("a table must contain at least one row")
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("table rows must contain at least one element")
	}

	data := make([]field.Element, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d elements, expected %d", i, len(row), width)
		}
		data = append(data, row...)
	}
	return &Table{data: data, rowWidth: width}, nil
}

// ParseTable decodes numRows rows of rowWidth canonical elements; the byte
// count must match exactly.
func ParseTable(data []byte, numRows, rowWidth int) (*Table, error) {
	if numRows <= 0 || rowWidth <= 0 {
		return nil, utils.NewInvalidValueError("table dimensions must be positive, but were %dx%d", numRows, rowWidth)
	}
	elements, err := utils.ElementsFromBytes(data, numRows*rowWidth)
	if err != nil {
		return nil, err
	}
	return &Table{data: elements, rowWidth: rowWidth}, nil
}

// NumRows returns the number of rows
func (t *Table) NumRows() int { return len(t.data) / t.rowWidth }

// NumColumns returns the row width
func (t *Table) NumColumns() int { return t.rowWidth }

// Row returns a copy of row i
func (t *Table) Row(i int) []field.Element {
	row := make([]field.Element, t.rowWidth)
	copy(row, t.data[i*t.rowWidth:(i+1)*t.rowWidth])
	return row
}

// Rows returns a copy of every row
func (t *Table) Rows() [][]field.Element {
	rows := make([][]field.Element, t.NumRows())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// Bytes encodes the table row by row
func (t *Table) Bytes() []byte {
	return utils.ElementsToBytes(t.data)
}
