package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MapMarker is one feature placed on the map canvas.
type MapMarker struct {
	X, Y         int
	Glyph        rune
	Layer        string
	Hovered      bool
	Selected     bool
	Multi        bool
	PlanBuilding bool
}

// TooltipBox is the rendered tooltip state.
type TooltipBox struct {
	Content string
	Exiting bool
}

// LegendEntry is one layer's legend line.
type LegendEntry struct {
	Layer  string
	Label  string
	Active bool
}

// MapData is everything the map view draws.
type MapData struct {
	Width   int
	Height  int
	Markers []MapMarker
	Cursor  struct{ X, Y int }
	Tooltip *TooltipBox
	Status  string
	Legend  []LegendEntry
	Help    string
}

// RenderMap draws the territory map: the marker canvas, the layer legend,
// the tooltip, and the status line.
func (r *Renderer) RenderMap(d MapData) string {
	if d.Width <= 0 || d.Height <= 0 {
		return ""
	}

	canvas := make([][]string, d.Height)
	for y := range canvas {
		row := make([]string, d.Width)
		for x := range row {
			row[x] = " "
		}
		canvas[y] = row
	}

	for _, m := range d.Markers {
		if m.X < 0 || m.X >= d.Width || m.Y < 0 || m.Y >= d.Height {
			continue
		}
		canvas[m.Y][m.X] = r.markerCell(m)
	}

	if d.Cursor.X >= 0 && d.Cursor.X < d.Width && d.Cursor.Y >= 0 && d.Cursor.Y < d.Height {
		if canvas[d.Cursor.Y][d.Cursor.X] == " " {
			canvas[d.Cursor.Y][d.Cursor.X] = r.styles.Dim.Render("+")
		}
	}

	lines := make([]string, 0, d.Height+4)
	for _, row := range canvas {
		lines = append(lines, strings.Join(row, ""))
	}
	body := strings.Join(lines, "\n")

	if d.Tooltip != nil {
		body = overlayTopRight(body, r.renderTooltip(*d.Tooltip), d.Width)
	}

	var footer []string
	if len(d.Legend) > 0 {
		footer = append(footer, r.renderLegend(d.Legend))
	}
	if d.Status != "" {
		footer = append(footer, r.styles.Status.Render(d.Status))
	}
	if d.Help != "" {
		footer = append(footer, r.styles.Help.Render(d.Help))
	}
	if len(footer) > 0 {
		body += "\n" + strings.Join(footer, "\n")
	}
	return body
}

func (r *Renderer) markerCell(m MapMarker) string {
	glyph := string(m.Glyph)
	switch {
	case m.PlanBuilding:
		return r.styles.PlanBuilding.Render(glyph)
	case m.Selected:
		return r.styles.Selected.Render(glyph)
	case m.Hovered:
		return r.styles.Hovered.Render(glyph)
	case m.Multi:
		return r.styles.MultiMark.Render(glyph)
	default:
		return r.styles.VendorStyle(m.Layer).Render(glyph)
	}
}

func (r *Renderer) renderTooltip(t TooltipBox) string {
	style := r.styles.Tooltip
	if t.Exiting {
		style = style.Faint(true)
	}
	return style.Render(t.Content)
}

func (r *Renderer) renderLegend(entries []LegendEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		mark := "○"
		if e.Active {
			mark = "●"
		}
		cell := fmt.Sprintf("%s %s", mark, e.Label)
		if e.Active {
			parts = append(parts, r.styles.VendorStyle(e.Layer).Render(cell))
		} else {
			parts = append(parts, r.styles.Dim.Render(cell))
		}
	}
	return strings.Join(parts, "  ")
}

// overlayTopRight paints a block over the canvas's top-right corner.
func overlayTopRight(body, block string, width int) string {
	bodyLines := strings.Split(body, "\n")
	blockLines := strings.Split(block, "\n")
	for i, bl := range blockLines {
		if i >= len(bodyLines) {
			break
		}
		blWidth := lipgloss.Width(bl)
		line := bodyLines[i]
		if cut := width - blWidth; cut >= 0 {
			line = truncateCells(line, cut) + bl
		} else {
			line = bl
		}
		bodyLines[i] = line
	}
	return strings.Join(bodyLines, "\n")
}

// truncateCells keeps the first n terminal cells of a styled line.
func truncateCells(line string, n int) string {
	if lipgloss.Width(line) <= n {
		return line
	}
	// Styled cells are rendered one rune at a time, so ANSI sequences
	// always wrap a single visible rune; walk runes and count visible ones.
	var b strings.Builder
	visible := 0
	inEscape := false
	for _, r := range line {
		if inEscape {
			b.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			b.WriteRune(r)
			inEscape = true
			continue
		}
		if visible >= n {
			break
		}
		b.WriteRune(r)
		visible++
	}
	return b.String()
}
