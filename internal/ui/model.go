// Package ui is the bubbletea front end: it owns the terminal, feeds
// pointer and key events into the workspace session, and renders the map,
// explore tables, and plan workspace.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"

	"terragrip/internal/bulk"
	"terragrip/internal/config"
	"terragrip/internal/datasource"
	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
	"terragrip/internal/explore"
	"terragrip/internal/geo"
	"terragrip/internal/ui/views"
	"terragrip/internal/workspace"
)

// RecordStore is the record access the map and plan views need beyond the
// explore query contract.
type RecordStore interface {
	Districts() []*domain.District
	Regions() []*domain.Region
	Plans() []*domain.Plan
	Plan(id domain.PlanID) (*domain.Plan, bool)
	CreatePlan(p *domain.Plan)
	AddDistrictsToPlan(planID domain.PlanID, ids []domain.FeatureID) int
}

// screenMode selects which top-level screen is shown. Plan panels are
// derived from the navigation stack, not from this.
type screenMode int

const (
	modeMap screenMode = iota
	modeExplore
)

// inputKind says what the open text input will be parsed as.
type inputKind int

const (
	inputNone inputKind = iota
	inputFilter
	inputSort
	inputOwner
	inputTag
	inputBulkPlan
	inputPlanName
	inputColumns
)

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	log    logr.Logger

	width     int
	height    int
	mapHeight int

	session   *workspace.Session
	viewport  *Viewport
	grid      *MapGrid
	scheduler *teaScheduler
	cursor    geo.ScreenPoint

	store    RecordStore
	source   datasource.Source
	bulkSvc  *bulk.Service
	registry *explore.Registry
	engines  map[domain.EntityKind]*explore.Engine
	entity   domain.EntityKind

	mode        screenMode
	tableCursor int
	input       textinput.Model
	inputMode   inputKind
	planRows    []explore.Row
	statusMsg   string
	errMsg      string

	renderer *views.Renderer
	help     help.Model
	keys     keyMap
	showHelp bool
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, store RecordStore, source datasource.Source, bulkSvc *bulk.Service, log logr.Logger) (*Model, error) {
	viewport := NewViewport()
	scheduler := &teaScheduler{}

	m := &Model{
		bus:       bus,
		config:    cfg,
		log:       log,
		viewport:  viewport,
		scheduler: scheduler,
		store:     store,
		source:    source,
		bulkSvc:   bulkSvc,
		registry:  explore.NewRegistry(),
		engines:   make(map[domain.EntityKind]*explore.Engine),
		entity:    domain.EntityDistricts,
		renderer:  views.NewRenderer(),
		help:      help.New(),
		keys:      newKeyMap(),
		input:     textinput.New(),
	}

	m.grid = NewMapGrid(viewport)
	session, err := workspace.NewSession(workspace.SessionConfig{
		RegionZoomCutoff: cfg.Map.RegionZoomCutoff,
		HoverOptions: []workspace.HoverOption{
			workspace.WithHoverTiming(
				time.Duration(cfg.Map.HoverThrottleMs)*time.Millisecond,
				time.Duration(cfg.Map.TooltipHideWaitMs)*time.Millisecond,
			),
			workspace.WithHideScheduler(scheduler.Schedule),
		},
	}, bus, m.grid, viewport, tooltipContent, log)
	if err != nil {
		return nil, err
	}
	m.session = session
	m.grid.SetFilters(session.Filters)
	m.grid.SetRecords(store.Districts(), store.Regions())

	// An explicit layer list in config overrides the all-visible default.
	if len(cfg.Map.ActiveLayers) > 0 {
		active := make(map[domain.LayerKey]bool, len(cfg.Map.ActiveLayers))
		for _, l := range cfg.Map.ActiveLayers {
			active[domain.LayerKey(l)] = true
		}
		for _, layer := range append(domain.CategoryLayers(), domain.LayerRegions) {
			if err := session.Filters.SetLayerActive(layer, active[layer]); err != nil {
				return nil, err
			}
		}
	}

	for _, kind := range domain.EntityKinds() {
		cols := m.registry.DefaultColumns(kind)
		if saved := cfg.Explore.Columns[string(kind)]; len(saved) > 0 {
			cols = cols[:0]
			for _, c := range saved {
				cols = append(cols, explore.ColumnKey(c))
			}
		}
		m.engines[kind] = explore.NewEngine(kind, cols, cfg.Explore.PageSize, bus, log)
	}
	return m, nil
}

// Init returns the initial commands: the redraw tick and the first fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) }),
		m.fetchCmd(m.entity),
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mapHeight = msg.Height - 4
		if m.mapHeight < 1 {
			m.mapHeight = 1
		}
		m.help.Width = msg.Width
		m.viewport.Resize(m.width, m.mapHeight)
		return m, nil

	case tickMsg:
		return m, tea.Batch(
			tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) }),
			m.scheduler.drain(),
		)

	case tooltipHideMsg:
		m.scheduler.fire(msg)
		return m, nil

	case queryResultMsg:
		eng := m.engines[msg.entity]
		if eng == nil || msg.version != eng.Version() {
			// Superseded fetch; even its error is stale.
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		if eng.ApplyResult(msg.result) {
			m.clampTableCursor()
		}
		return m, nil

	case planRowsMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.planRows = msg.rows
		return m, nil

	case bulkDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("%d rows updated", msg.affected)
		return m, m.fetchCmd(m.entity)

	case EventMsg:
		return m.handleEvent(msg.Event)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleEvent reflects out-of-band domain events into UI state. Events the
// update loop already reacts to via its own messages are ignored here.
func (m *Model) handleEvent(e eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch ev := e.(type) {
	case domain.PlanUpdatedEvent:
		m.grid.SetRecords(m.store.Districts(), m.store.Regions())
		if cur, ok := m.session.Nav.Current().(workspace.PlanWorkspacePanel); ok && cur.PlanID == ev.PlanID {
			return m, m.planTabCmd()
		}
	case domain.ErrorEvent:
		m.errMsg = ev.Message
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeMap {
		return m, nil
	}
	pt := geo.ScreenPoint{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.cursor = pt
		m.session.Hover.PointerMove(pt, m.viewport.Zoom)
		return m, m.scheduler.drain()
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.session.Router.Click(pt, m.viewport.Zoom, msg.Shift)
		case tea.MouseButtonWheelUp:
			m.viewport.ZoomIn()
		case tea.MouseButtonWheelDown:
			m.viewport.ZoomOut()
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.mode == modeExplore {
		return m.handleExploreKey(msg)
	}
	return m.handleMapKey(msg)
}

func (m *Model) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Up):
		return m.moveCursor(0, -1)
	case key.Matches(msg, keys.Down):
		return m.moveCursor(0, 1)
	case key.Matches(msg, keys.Left):
		return m.moveCursor(-1, 0)
	case key.Matches(msg, keys.Right):
		return m.moveCursor(1, 0)

	case key.Matches(msg, keys.ZoomIn):
		m.viewport.ZoomIn()
	case key.Matches(msg, keys.ZoomOut):
		m.viewport.ZoomOut()

	case key.Matches(msg, keys.MultiClick):
		m.session.Router.Click(m.cursor, m.viewport.Zoom, true)
	case key.Matches(msg, keys.Escape):
		m.session.Router.Escape()

	case key.Matches(msg, keys.Layer1):
		m.toggleLayer(domain.LayerVendorElevate)
	case key.Matches(msg, keys.Layer2):
		m.toggleLayer(domain.LayerVendorPulse)
	case key.Matches(msg, keys.Layer3):
		m.toggleLayer(domain.LayerVendorCompass)
	case key.Matches(msg, keys.Layer4):
		m.toggleLayer(domain.LayerRegions)
	case key.Matches(msg, keys.OwnerFlt):
		return m.openInput(inputOwner, "owner ('' clears): ", m.session.Filters.State().OwnerFilter)

	case key.Matches(msg, keys.Explore):
		m.mode = modeExplore
		return m, m.fetchCmd(m.entity)
	case key.Matches(msg, keys.NewPlan):
		m.session.OpenPlanNew()
		return m.openInput(inputPlanName, "plan name: ", m.session.NextPlanName())
	case key.Matches(msg, keys.OpenPlan):
		if plans := m.store.Plans(); len(plans) > 0 {
			m.session.OpenPlan(plans[0].ID)
			return m, m.planTabCmd()
		}
	case key.Matches(msg, keys.AddToPlan):
		if cur, ok := m.session.Nav.Current().(workspace.PlanWorkspacePanel); ok {
			m.session.BeginPlanAdd(cur.PlanID)
		}
	case key.Matches(msg, keys.Click):
		// Enter commits in plan-add mode and clicks everywhere else.
		if _, ok := m.session.Nav.Current().(workspace.PlanAddPanel); ok {
			planID, ids := m.session.CommitPlanAdd()
			if len(ids) > 0 {
				added := m.store.AddDistrictsToPlan(planID, ids)
				m.statusMsg = fmt.Sprintf("%d districts added to %s", added, planID)
				m.grid.SetRecords(m.store.Districts(), m.store.Regions())
			}
			return m, m.planTabCmd()
		}
		m.session.Router.Click(m.cursor, m.viewport.Zoom, false)
	case key.Matches(msg, keys.NextTab):
		m.switchTab(1)
		return m, m.planTabCmd()
	case key.Matches(msg, keys.PrevTab):
		m.switchTab(-1)
		return m, m.planTabCmd()
	}
	return m, nil
}

func (m *Model) handleExploreKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	eng := m.engines[m.entity]

	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = modeMap
		return m, nil
	case key.Matches(msg, keys.NextEntity):
		m.entity = nextEntity(m.entity)
		m.tableCursor = 0
		return m, m.fetchCmd(m.entity)

	case key.Matches(msg, keys.Up):
		if m.tableCursor > 0 {
			m.tableCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.tableCursor < len(eng.Rows())-1 {
			m.tableCursor++
		}

	case key.Matches(msg, keys.Filter):
		return m.openInput(inputFilter, "filter (column op value [value2]): ", "")
	case key.Matches(msg, keys.ClearAll):
		eng.ClearAll()
		return m, m.fetchCmd(m.entity)
	case key.Matches(msg, keys.SortAdd):
		return m.openInput(inputSort, "sort (column [asc|desc]): ", "")
	case key.Matches(msg, keys.SortFlip):
		if sorts := eng.Sorts(); len(sorts) > 0 {
			eng.ToggleDirection(sorts[0].Column)
			return m, m.fetchCmd(m.entity)
		}

	case key.Matches(msg, keys.NextPage):
		eng.SetPage(eng.Page().Index + 1)
		return m, m.fetchCmd(m.entity)
	case key.Matches(msg, keys.PrevPage):
		eng.SetPage(eng.Page().Index - 1)
		return m, m.fetchCmd(m.entity)

	case key.Matches(msg, keys.ToggleRow):
		if ex, ok := eng.ExplicitSelection(); ok {
			if rows := eng.Rows(); m.tableCursor < len(rows) {
				ex.Toggle(rows[m.tableCursor].RowID())
			}
		}
	case key.Matches(msg, keys.SelectAll):
		eng.SelectAllMatchingFilters()
	case key.Matches(msg, keys.ClearSel):
		eng.ClearSelection()
	case key.Matches(msg, keys.BulkTag):
		if m.entity == domain.EntityDistricts {
			return m.openInput(inputTag, "tag ('-tag' removes): ", "")
		}
	case key.Matches(msg, keys.BulkPlan):
		if m.entity == domain.EntityDistricts {
			return m.openInput(inputBulkPlan, "plan id: ", "")
		}
	case key.Matches(msg, keys.Columns):
		cur := make([]string, len(eng.Columns()))
		for i, c := range eng.Columns() {
			cur[i] = string(c)
		}
		return m.openInput(inputColumns, "columns (space-separated): ", strings.Join(cur, " "))
	case key.Matches(msg, keys.OpenPlan):
		if m.entity == domain.EntityPlans {
			if rows := eng.Rows(); m.tableCursor < len(rows) {
				m.session.OpenPlan(domain.PlanID(rows[m.tableCursor].RowID()))
				m.mode = modeMap
				return m, m.planTabCmd()
			}
		}
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.inputMode == inputPlanName {
			// Abandoning the create-plan form pops it off the stack.
			m.session.Nav.Pop()
		}
		m.closeInput()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.inputMode
		m.closeInput()
		return m.commitInput(kind, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) commitInput(kind inputKind, value string) (tea.Model, tea.Cmd) {
	eng := m.engines[m.entity]
	switch kind {
	case inputOwner:
		if err := m.session.Filters.SetOwnerFilter(value); err != nil {
			m.errMsg = err.Error()
		}
	case inputFilter:
		f, err := parseFilter(m.registry, m.entity, value)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		eng.AddFilter(f.Column, f.Op, f.Value, f.Value2)
		return m, m.fetchCmd(m.entity)
	case inputSort:
		col, dir, err := parseSort(m.registry, m.entity, value)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		if eng.AddSort(col, dir) {
			return m, m.fetchCmd(m.entity)
		}
	case inputTag:
		if value == "" {
			return m, nil
		}
		action := bulk.Action{Kind: bulk.ActionAddTag, Tag: value}
		if strings.HasPrefix(value, "-") {
			action = bulk.Action{Kind: bulk.ActionRemoveTag, Tag: strings.TrimPrefix(value, "-")}
		}
		return m, m.bulkCmd(action)
	case inputBulkPlan:
		if value == "" {
			return m, nil
		}
		return m, m.bulkCmd(bulk.Action{Kind: bulk.ActionAddPlan, PlanID: domain.PlanID(value)})
	case inputPlanName:
		if value == "" {
			m.session.Nav.Pop()
			return m, nil
		}
		return m.createPlan(value)
	case inputColumns:
		cols, err := parseColumns(m.registry, m.entity, value)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		eng.SetColumns(cols)
	}
	return m, nil
}

// createPlan commits the create-plan form: the multi-select set becomes
// the new plan's membership and the workspace opens on it.
func (m *Model) createPlan(name string) (tea.Model, tea.Cmd) {
	id := domain.PlanID(slugify(name))
	plan := &domain.Plan{
		ID:        id,
		Name:      name,
		Districts: m.session.Selection.MultiSelected(),
	}
	m.store.CreatePlan(plan)
	m.session.Selection.ClearMulti()
	m.grid.SetRecords(m.store.Districts(), m.store.Regions())
	if m.bus != nil {
		m.bus.Publish(domain.PlanCreatedEvent{Plan: *plan})
	}

	// Replace the form with the plan workspace.
	m.session.Nav.Pop()
	m.session.OpenPlan(id)
	m.statusMsg = fmt.Sprintf("plan %s created with %d districts", name, len(plan.Districts))
	return m, m.planTabCmd()
}

func (m *Model) moveCursor(dx, dy int) (tea.Model, tea.Cmd) {
	m.cursor.X = clamp(m.cursor.X+dx, 0, m.width-1)
	m.cursor.Y = clamp(m.cursor.Y+dy, 0, m.mapHeight-1)
	m.session.Hover.PointerMove(m.cursor, m.viewport.Zoom)
	return m, m.scheduler.drain()
}

func (m *Model) toggleLayer(layer domain.LayerKey) {
	if err := m.session.Filters.ToggleLayer(layer); err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Model) switchTab(delta int) {
	cur, ok := m.session.Nav.Current().(workspace.PlanWorkspacePanel)
	if !ok {
		return
	}
	for i, t := range planTabs {
		if t == cur.Tab {
			m.session.SwitchPlanTab(planTabs[(i+delta+len(planTabs))%len(planTabs)])
			return
		}
	}
}

func (m *Model) openInput(kind inputKind, prompt, initial string) (tea.Model, tea.Cmd) {
	m.inputMode = kind
	m.input = textinput.New()
	m.input.Prompt = prompt
	m.input.SetValue(initial)
	m.input.Focus()
	return m, textinput.Blink
}

func (m *Model) closeInput() {
	m.inputMode = inputNone
	m.input.Blur()
}

// fetchCmd bumps the entity's query version and fetches asynchronously.
func (m *Model) fetchCmd(entity domain.EntityKind) tea.Cmd {
	q := m.engines[entity].NextQuery()
	src := m.source
	return func() tea.Msg {
		res, err := src.Fetch(context.Background(), q)
		return queryResultMsg{entity: q.Entity, version: q.Version, result: res, err: err}
	}
}

// bulkCmd applies a bulk action over the current selection and filters.
// Explicit district selections are staged as optimistic row diffs so the
// table reflects the edit immediately; the refetch after completion
// replaces them with server state.
func (m *Model) bulkCmd(action bulk.Action) tea.Cmd {
	eng := m.engines[m.entity]
	entity := m.entity
	sel := eng.Selection()
	filters := eng.Filters()
	svc := m.bulkSvc

	if ex, ok := eng.ExplicitSelection(); ok && entity == domain.EntityDistricts {
		for _, id := range ex.IDs() {
			switch action.Kind {
			case bulk.ActionAddTag:
				eng.StageTag(id, action.Tag, true)
			case bulk.ActionRemoveTag:
				eng.StageTag(id, action.Tag, false)
			case bulk.ActionAddPlan:
				eng.StagePlan(id, action.PlanID, true)
			case bulk.ActionRemovePlan:
				eng.StagePlan(id, action.PlanID, false)
			}
		}
	}
	return func() tea.Msg {
		n, err := svc.Apply(context.Background(), entity, sel, filters, action)
		return bulkDoneMsg{affected: n, err: err}
	}
}

// planTabCmd fetches the rows the current plan tab shows.
func (m *Model) planTabCmd() tea.Cmd {
	cur, ok := m.session.Nav.Current().(workspace.PlanWorkspacePanel)
	if !ok {
		return nil
	}
	src := m.source
	switch cur.Tab {
	case workspace.TabTasks:
		q := explore.Query{
			Entity:  domain.EntityTasks,
			Filters: []explore.Filter{{ID: 1, Column: "plan_id", Op: explore.OpEquals, Value: string(cur.PlanID)}},
			Page:    explore.Page{Index: 1, Size: 100},
		}
		return func() tea.Msg {
			res, err := src.Fetch(context.Background(), q)
			if err != nil {
				return planRowsMsg{err: err}
			}
			return planRowsMsg{rows: res.Rows}
		}
	case workspace.TabContacts:
		q := explore.Query{
			Entity: domain.EntityContacts,
			Page:   explore.Page{Index: 1, Size: 500},
		}
		return func() tea.Msg {
			res, err := src.Fetch(context.Background(), q)
			if err != nil {
				return planRowsMsg{err: err}
			}
			return planRowsMsg{rows: res.Rows}
		}
	default:
		return func() tea.Msg { return planRowsMsg{} }
	}
}

func (m *Model) clampTableCursor() {
	if n := len(m.engines[m.entity].Rows()); m.tableCursor >= n {
		m.tableCursor = n - 1
	}
	if m.tableCursor < 0 {
		m.tableCursor = 0
	}
}

func nextEntity(cur domain.EntityKind) domain.EntityKind {
	kinds := domain.EntityKinds()
	for i, k := range kinds {
		if k == cur {
			return kinds[(i+1)%len(kinds)]
		}
	}
	return kinds[0]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// tooltipContent renders hover tooltip text from feature attributes.
func tooltipContent(attrs map[string]interface{}) string {
	name, _ := attrs["name"].(string)
	if name == "" {
		if code, ok := attrs["code"].(string); ok {
			return code
		}
		return ""
	}
	parts := []string{name}
	if owner, ok := attrs["owner"].(string); ok && owner != "" {
		parts = append(parts, "owner "+owner)
	}
	if enr, ok := attrs["enrollment"].(int); ok {
		parts = append(parts, fmt.Sprintf("%d students", enr))
	}
	return strings.Join(parts, " · ")
}
