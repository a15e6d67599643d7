// Package output holds the terminal table layout shared by the commands and
// the sync summary.
package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// NewTable returns a table writing to w with centered headers and
// left-aligned rows.
func NewTable(w io.Writer) *tablewriter.Table {
	cnf := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
	}
	return tablewriter.NewTable(w, tablewriter.WithConfig(cnf))
}
