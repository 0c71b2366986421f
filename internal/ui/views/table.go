package views

import (
	"fmt"
	"strings"
)

// ColumnHeader is one explore table column header.
type ColumnHeader struct {
	Label string
	// SortMarker is "" for unsorted columns, otherwise e.g. "▲1" where the
	// digit is the sort precedence.
	SortMarker string
	Width      int
}

// TableRow is one rendered explore row.
type TableRow struct {
	Cells  []string
	Marked bool // in the bulk selection
}

// TableData is everything the explore table view draws.
type TableData struct {
	Title     string
	Columns   []ColumnHeader
	Rows      []TableRow
	Cursor    int
	Footer    string // pagination summary
	Filters   string // active filter summary, "" when none
	Selection string // bulk selection summary, "" when empty
	Input     string // in-progress filter/sort input line, "" when closed
	Error     string
	Help      string
}

// RenderTable draws one explore table screen.
func (r *Renderer) RenderTable(d TableData) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render(d.Title))
	b.WriteString("\n")

	if d.Filters != "" {
		b.WriteString(r.styles.Filter.Render("filters: " + d.Filters))
		b.WriteString("\n")
	}

	headers := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		label := c.Label
		if c.SortMarker != "" {
			label += " " + c.SortMarker
		}
		headers[i] = pad(label, c.Width)
	}
	b.WriteString(r.styles.Header.Render("    " + strings.Join(headers, " ")))
	b.WriteString("\n")

	for i, row := range d.Rows {
		mark := "[ ]"
		if row.Marked {
			mark = r.styles.BulkMark.Render("[x]")
		}
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			w := 12
			if j < len(d.Columns) {
				w = d.Columns[j].Width
			}
			cells[j] = pad(c, w)
		}
		line := mark + " " + strings.Join(cells, " ")
		if i == d.Cursor {
			line = r.styles.SelectedRow.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(d.Rows) == 0 {
		b.WriteString(r.styles.Dim.Render("    no rows"))
		b.WriteString("\n")
	}

	if d.Selection != "" {
		b.WriteString(r.styles.BulkMark.Render(d.Selection))
		b.WriteString("\n")
	}
	if d.Footer != "" {
		b.WriteString(r.styles.Status.Render(d.Footer))
		b.WriteString("\n")
	}
	if d.Input != "" {
		b.WriteString(d.Input)
		b.WriteString("\n")
	}
	if d.Error != "" {
		b.WriteString(r.styles.StatusError.Render(d.Error))
		b.WriteString("\n")
	}
	if d.Help != "" {
		b.WriteString(r.styles.Help.Render(d.Help))
	}
	return b.String()
}

func pad(s string, width int) string {
	if width <= 0 {
		return s
	}
	if len(s) > width {
		if width > 1 {
			return s[:width-1] + "…"
		}
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// FormatCell renders an arbitrary column value for the table.
func FormatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case float64:
		return fmt.Sprintf("%.1f", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
