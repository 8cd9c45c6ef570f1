package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderBoard lays lanes out as side-by-side columns. Shorter lanes are
// padded with blank cells.
func renderBoard(headers []string, columns [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	depth := 0
	for _, col := range columns {
		depth = max(depth, len(col))
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for rowIdx := range depth {
		r := make(table.Row, len(headers))
		for colIdx := range headers {
			r[colIdx] = ""
			if colIdx < len(columns) && rowIdx < len(columns[colIdx]) {
				r[colIdx] = columns[colIdx][rowIdx]
			}
		}
		tw.AppendRow(r)
	}

	footer := make(table.Row, len(headers))
	for i := range headers {
		count := 0
		if i < len(columns) {
			count = len(columns[i])
		}
		footer[i] = pluralize(count, "client")
	}
	tw.AppendFooter(footer)

	return tw.Render()
}
