// Package format renders report output as fixed-width terminal tables.
package format

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table accumulates headers and rows and renders them once.
type Table interface {
	// Header sets the column headers.
	Header(cols ...string)
	// Row appends a data row.
	Row(vals ...any)
	// String renders the table.
	String() string
}

// NewTable returns an empty table renderer.
func NewTable() Table {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	return &prettyTable{writer: w}
}

type prettyTable struct {
	writer table.Writer
}

func (t *prettyTable) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.writer.AppendHeader(row)
}

func (t *prettyTable) Row(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	t.writer.AppendRow(row)
}

func (t *prettyTable) String() string {
	return t.writer.Render()
}
