package ui

import (
	"fmt"
	"strings"

	"terragrip/internal/domain"
	"terragrip/internal/explore"
	"terragrip/internal/geo"
	"terragrip/internal/ui/views"
	"terragrip/internal/workspace"
)

// View renders the current screen
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.mode == modeExplore {
		return m.renderer.RenderTable(m.tableData())
	}
	if cur, ok := m.session.Nav.Current().(workspace.PlanWorkspacePanel); ok {
		return m.renderer.RenderPlan(m.planData(cur))
	}
	return m.renderer.RenderMap(m.mapData())
}

// --- map ---

var layerGlyphs = map[domain.LayerKey]rune{
	domain.LayerVendorElevate: '▲',
	domain.LayerVendorPulse:   '●',
	domain.LayerVendorCompass: '◆',
	domain.LayerRegions:       '□',
}

func (m *Model) mapData() views.MapData {
	d := views.MapData{
		Width:  m.width,
		Height: m.mapHeight,
	}
	d.Cursor.X, d.Cursor.Y = m.cursor.X, m.cursor.Y
	d.Markers = m.buildMarkers()
	d.Legend = m.buildLegend()
	d.Status = m.statusLine()
	d.Help = m.helpLine()

	tip := m.session.Hover.Tooltip()
	if tip.Phase != workspace.TooltipHidden && tip.Content != "" {
		d.Tooltip = &views.TooltipBox{
			Content: tip.Content,
			Exiting: tip.Phase == workspace.TooltipExiting,
		}
	}
	return d
}

// buildMarkers places every visible feature. A district renders under its
// first eligible category layer in priority order; regions render only
// below the zoom cutoff.
func (m *Model) buildMarkers() []views.MapMarker {
	sel := m.session.Selection
	var markers []views.MapMarker

	for _, dist := range m.grid.Districts() {
		layer, ok := m.districtLayer(dist)
		if !ok {
			continue
		}
		pt, visible := m.projectCenter(dist.Geometry)
		if !visible {
			continue
		}
		markers = append(markers, views.MapMarker{
			X:            pt.X,
			Y:            pt.Y,
			Glyph:        layerGlyphs[layer],
			Layer:        string(layer),
			Hovered:      sel.Hovered() == dist.ID,
			Selected:     sel.Selected() == dist.ID,
			Multi:        sel.IsMultiSelected(dist.ID),
			PlanBuilding: sel.InPlanBuilding(dist.ID),
		})
	}

	if m.viewport.Zoom < m.config.Map.RegionZoomCutoff {
		if compiled, ok := m.session.Filters.Compiled(domain.LayerRegions); ok && compiled.Visible {
			for _, r := range m.grid.Regions() {
				pt, visible := m.projectCenter(r.Geometry)
				if !visible {
					continue
				}
				markers = append(markers, views.MapMarker{
					X:       pt.X,
					Y:       pt.Y,
					Glyph:   layerGlyphs[domain.LayerRegions],
					Layer:   string(domain.LayerRegions),
					Hovered: sel.Hovered() == domain.FeatureID(r.Code),
				})
			}
		}
	}
	return markers
}

func (m *Model) districtLayer(d *domain.District) (domain.LayerKey, bool) {
	for _, layer := range domain.CategoryLayers() {
		compiled, ok := m.session.Filters.Compiled(layer)
		if !ok || !compiled.Visible {
			continue
		}
		f := DistrictFeature(d, layer)
		if _, carries := f.Attrs[string(layer)]; !carries {
			continue
		}
		if compiled.Matches(f.Attrs) {
			return layer, true
		}
	}
	return "", false
}

func (m *Model) projectCenter(g domain.Geometry) (geo.ScreenPoint, bool) {
	b, ok := geo.BoundsForGeometry(g)
	if !ok {
		return geo.ScreenPoint{}, false
	}
	pt := m.viewport.Project((b.MinLon+b.MaxLon)/2, (b.MinLat+b.MaxLat)/2)
	return pt, pt.X >= 0 && pt.X < m.width && pt.Y >= 0 && pt.Y < m.mapHeight
}

func (m *Model) buildLegend() []views.LegendEntry {
	labels := []struct {
		layer domain.LayerKey
		label string
	}{
		{domain.LayerVendorElevate, "elevate"},
		{domain.LayerVendorPulse, "pulse"},
		{domain.LayerVendorCompass, "compass"},
		{domain.LayerRegions, "regions"},
	}
	state := m.session.Filters.State()
	out := make([]views.LegendEntry, 0, len(labels))
	for _, l := range labels {
		out = append(out, views.LegendEntry{
			Layer:  string(l.layer),
			Label:  l.label,
			Active: state.ActiveLayers[l.layer],
		})
	}
	return out
}

func (m *Model) statusLine() string {
	parts := []string{m.panelLabel(), fmt.Sprintf("zoom %.0f", m.viewport.Zoom)}

	state := m.session.Filters.State()
	if state.OwnerFilter != "" {
		parts = append(parts, "owner="+state.OwnerFilter)
	}
	if n := m.session.Selection.MultiCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d multi-selected", n))
	}
	if n := m.session.Selection.PlanBuildingCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d staged", n))
	}
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}
	if m.errMsg != "" {
		parts = append(parts, "error: "+m.errMsg)
	}
	if m.inputMode != inputNone {
		parts = append(parts, m.input.View())
	}
	return strings.Join(parts, "  │  ")
}

func (m *Model) panelLabel() string {
	switch p := m.session.Nav.Current().(type) {
	case workspace.DistrictPanel:
		return "district " + string(p.ID)
	case workspace.StateRegionPanel:
		return "state " + p.Code
	case workspace.PlanNewPanel:
		return "new plan"
	case workspace.PlanAddPanel:
		return "adding districts to " + string(p.PlanID) + " (c commits, esc cancels)"
	default:
		return "browse"
	}
}

func (m *Model) helpLine() string {
	if m.showHelp {
		m.help.ShowAll = true
		return m.help.View(m.keys)
	}
	m.help.ShowAll = false
	return m.help.View(m.keys)
}

// --- explore table ---

func (m *Model) tableData() views.TableData {
	eng := m.engines[m.entity]
	cols := eng.Columns()
	sorts := eng.Sorts()

	headers := make([]views.ColumnHeader, len(cols))
	for i, c := range cols {
		spec, _ := m.registry.Spec(m.entity, c)
		headers[i] = views.ColumnHeader{
			Label:      spec.Label,
			SortMarker: sortMarker(sorts, c),
			Width:      columnWidth(spec),
		}
	}

	var rows []views.TableRow
	ex, explicit := eng.ExplicitSelection()
	for _, row := range eng.Rows() {
		cells := make([]string, len(cols))
		for i, c := range cols {
			spec, _ := m.registry.Spec(m.entity, c)
			if spec.Accessor != nil {
				cells[i] = views.FormatCell(spec.Accessor(row))
			}
		}
		rows = append(rows, views.TableRow{
			Cells:  cells,
			Marked: explicit && ex.Has(row.RowID()),
		})
	}

	d := views.TableData{
		Title:   "explore: " + string(m.entity),
		Columns: headers,
		Rows:    rows,
		Cursor:  m.tableCursor,
		Filters: filterSummary(eng.Filters()),
		Error:   m.errMsg,
		Help:    m.helpLine(),
	}
	if total, known := eng.Total(); known {
		page := eng.Page()
		maxPage := (total + page.Size - 1) / page.Size
		if maxPage < 1 {
			maxPage = 1
		}
		d.Footer = fmt.Sprintf("page %d/%d · %d rows", page.Index, maxPage, total)
	} else {
		d.Footer = "loading…"
	}
	switch sel := eng.Selection().(type) {
	case *explore.Explicit:
		if sel.Count() > 0 {
			d.Selection = fmt.Sprintf("%d selected", sel.Count())
		}
	case explore.AllMatchingFilter:
		d.Selection = "ALL rows matching filters selected"
	}
	if m.inputMode != inputNone {
		d.Input = m.input.View()
	}
	return d
}

func sortMarker(sorts []explore.Sort, col explore.ColumnKey) string {
	for i, s := range sorts {
		if s.Column == col {
			arrow := "▲"
			if s.Direction == explore.Desc {
				arrow = "▼"
			}
			return fmt.Sprintf("%s%d", arrow, i+1)
		}
	}
	return ""
}

func columnWidth(spec explore.ColumnSpec) int {
	switch {
	case spec.Key == "name" || spec.Key == "subject" || spec.Key == "title":
		return 24
	case spec.Kind == explore.KindNumeric:
		return 10
	case spec.Kind == explore.KindBoolean:
		return 5
	default:
		return 14
	}
}

func filterSummary(filters []explore.Filter) string {
	if len(filters) == 0 {
		return ""
	}
	parts := make([]string, len(filters))
	for i, f := range filters {
		switch f.Op {
		case explore.OpIsTrue, explore.OpIsFalse:
			parts[i] = fmt.Sprintf("%s %s", f.Column, f.Op)
		case explore.OpBetween:
			parts[i] = fmt.Sprintf("%s between %v and %v", f.Column, f.Value, f.Value2)
		default:
			parts[i] = fmt.Sprintf("%s %s %v", f.Column, f.Op, f.Value)
		}
	}
	return strings.Join(parts, ", ")
}

// --- plan workspace ---

var planTabs = []workspace.PlanTab{
	workspace.TabOverview,
	workspace.TabTasks,
	workspace.TabContacts,
	workspace.TabPerformance,
}

var planTabLabels = []string{"Overview", "Tasks", "Contacts", "Performance"}

func (m *Model) planData(cur workspace.PlanWorkspacePanel) views.PlanData {
	plan, ok := m.store.Plan(cur.PlanID)
	if !ok {
		return views.PlanData{Name: string(cur.PlanID), Lines: []string{"plan not found"}}
	}

	active := 0
	for i, t := range planTabs {
		if t == cur.Tab {
			active = i
		}
	}

	d := views.PlanData{
		Name:      plan.Name,
		Owner:     plan.Owner,
		Tabs:      planTabLabels,
		ActiveTab: active,
		Lines:     m.planTabLines(plan, cur.Tab),
		Status:    m.statusMsg,
		Help:      "a add districts · [/] switch tab · esc back",
	}
	if m.inputMode != inputNone {
		d.Status = m.input.View()
	}
	return d
}

func (m *Model) planTabLines(plan *domain.Plan, tab workspace.PlanTab) []string {
	members := m.planMembers(plan)
	switch tab {
	case workspace.TabTasks:
		var lines []string
		for _, row := range m.planRows {
			tr, ok := row.(explore.TaskRow)
			if !ok {
				continue
			}
			mark := "[ ]"
			if tr.Task.Done {
				mark = "[x]"
			}
			lines = append(lines, fmt.Sprintf("%s %s  (%s, due %s)", mark, tr.Task.Title, tr.Task.Owner, tr.Task.DueDate))
		}
		if len(lines) == 0 {
			lines = []string{"no tasks"}
		}
		return lines

	case workspace.TabContacts:
		memberSet := make(map[domain.FeatureID]bool, len(members))
		for _, d := range members {
			memberSet[d.ID] = true
		}
		var lines []string
		for _, row := range m.planRows {
			cr, ok := row.(explore.ContactRow)
			if !ok || !memberSet[cr.Contact.DistrictID] {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s · %s  <%s>", cr.Contact.Name, cr.Contact.Title, cr.Contact.Email))
		}
		if len(lines) == 0 {
			lines = []string{"no contacts in member districts"}
		}
		return lines

	case workspace.TabPerformance:
		if len(members) == 0 {
			return []string{"no member districts"}
		}
		var enrollment int
		var ell, swd float64
		vendors := make(map[string]int)
		for _, d := range members {
			enrollment += d.Enrollment
			ell += d.ELLPct
			swd += d.SWDPct
			for _, v := range d.Vendors {
				vendors[v]++
			}
		}
		n := float64(len(members))
		lines := []string{
			fmt.Sprintf("total enrollment: %d", enrollment),
			fmt.Sprintf("avg ELL %%: %.1f", ell/n),
			fmt.Sprintf("avg SWD %%: %.1f", swd/n),
		}
		for _, v := range []string{"elevate", "pulse", "compass"} {
			lines = append(lines, fmt.Sprintf("%s coverage: %d/%d districts", v, vendors[v], len(members)))
		}
		return lines

	default: // overview
		lines := []string{fmt.Sprintf("%d member districts", len(members))}
		for _, d := range members {
			lines = append(lines, fmt.Sprintf("  %s (%s) · %d students", d.Name, d.State, d.Enrollment))
		}
		return lines
	}
}

func (m *Model) planMembers(plan *domain.Plan) []*domain.District {
	byID := make(map[domain.FeatureID]*domain.District)
	for _, d := range m.store.Districts() {
		byID[d.ID] = d
	}
	var out []*domain.District
	for _, id := range plan.Districts {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}
