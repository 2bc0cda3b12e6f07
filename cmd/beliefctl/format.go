// SPDX-License-Identifier: MIT

package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// prettyTable wraps a go-pretty writer rendered as ASCII or Markdown.
type prettyTable struct {
	w        table.Writer
	markdown bool
}

func newTable(markdown bool) *prettyTable {
	w := table.NewWriter()
	if !markdown {
		w.SetStyle(table.StyleLight)
	}
	return &prettyTable{w: w, markdown: markdown}
}

func (t *prettyTable) header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.w.AppendHeader(row)
}

func (t *prettyTable) row(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	t.w.AppendRow(row)
}

// alignRight right-aligns the given 1-based columns.
func (t *prettyTable) alignRight(cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	t.w.SetColumnConfigs(cfgs)
}

func (t *prettyTable) render() string {
	if t.markdown {
		return t.w.RenderMarkdown()
	}
	return t.w.Render()
}
