package explore

import (
	"github.com/go-logr/logr"

	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
)

// DefaultPageSize is used when none is configured.
const DefaultPageSize = 25

// Engine holds one entity kind's explore state: filter list, sort list,
// pagination cursor, visible columns, and bulk selection. It compiles that
// state into Query values for a data source and discards stale results by
// version comparison.
type Engine struct {
	entity domain.EntityKind

	filters      []Filter
	nextFilterID int
	sorts        []Sort
	page         Page
	total        int
	totalKnown   bool
	columns      []ColumnKey
	selection    BulkSelection
	version      uint64

	result  *Result
	rollups map[domain.PlanID]domain.PlanRollup
	overlay *Overlay

	bus eventbus.EventBus
	log logr.Logger
}

// NewEngine creates an engine for one entity kind. columns seeds the
// visible-column order, normally the persisted preference or the registry
// default.
func NewEngine(entity domain.EntityKind, columns []ColumnKey, pageSize int, bus eventbus.EventBus, log logr.Logger) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	cols := make([]ColumnKey, len(columns))
	copy(cols, columns)
	return &Engine{
		entity:    entity,
		page:      Page{Index: 1, Size: pageSize},
		columns:   cols,
		selection: NewExplicit(),
		overlay:   NewOverlay(),
		bus:       bus,
		log:       log,
	}
}

// Entity returns the engine's entity kind.
func (e *Engine) Entity() domain.EntityKind { return e.entity }

// --- filters ---

// AddFilter appends a filter and returns it with its assigned id. Changing
// filters resets the page to 1: the new query invalidates the old page.
func (e *Engine) AddFilter(column ColumnKey, op Operator, value, value2 interface{}) Filter {
	e.nextFilterID++
	f := Filter{ID: e.nextFilterID, Column: column, Op: op, Value: value, Value2: value2}
	e.filters = append(e.filters, f)
	e.invalidatePage()
	return f
}

// RemoveFilter deletes a filter by id; unknown ids are ignored.
func (e *Engine) RemoveFilter(id int) {
	for i, f := range e.filters {
		if f.ID == id {
			e.filters = append(e.filters[:i], e.filters[i+1:]...)
			e.invalidatePage()
			return
		}
	}
}

// ClearFilters empties the filter list.
func (e *Engine) ClearFilters() {
	if len(e.filters) == 0 {
		return
	}
	e.filters = nil
	e.invalidatePage()
}

// Filters returns a copy of the filter list.
func (e *Engine) Filters() []Filter {
	out := make([]Filter, len(e.filters))
	copy(out, e.filters)
	return out
}

// --- sorts ---

// AddSort appends a sort key unless the column is already present; a
// duplicate add is a no-op leaving the existing entry's position and
// direction unchanged. Reports whether the sort was added.
func (e *Engine) AddSort(column ColumnKey, dir Direction) bool {
	for _, s := range e.sorts {
		if s.Column == column {
			return false
		}
	}
	e.sorts = append(e.sorts, Sort{Column: column, Direction: dir})
	e.invalidatePage()
	return true
}

// ToggleDirection flips asc/desc for a column in place.
func (e *Engine) ToggleDirection(column ColumnKey) {
	for i, s := range e.sorts {
		if s.Column == column {
			if s.Direction == Asc {
				e.sorts[i].Direction = Desc
			} else {
				e.sorts[i].Direction = Asc
			}
			e.invalidatePage()
			return
		}
	}
}

// RemoveSort deletes a column's sort key.
func (e *Engine) RemoveSort(column ColumnKey) {
	for i, s := range e.sorts {
		if s.Column == column {
			e.sorts = append(e.sorts[:i], e.sorts[i+1:]...)
			e.invalidatePage()
			return
		}
	}
}

// ReorderSorts replaces the sort list wholesale; used by drag-reordering
// of sort precedence.
func (e *Engine) ReorderSorts(sorts []Sort) {
	e.sorts = make([]Sort, len(sorts))
	copy(e.sorts, sorts)
	e.invalidatePage()
}

// Sorts returns a copy of the sort list, primary key first.
func (e *Engine) Sorts() []Sort {
	out := make([]Sort, len(e.sorts))
	copy(out, e.sorts)
	return out
}

// --- pagination ---

// Page returns the current pagination cursor.
func (e *Engine) Page() Page { return e.page }

// SetPage moves to a 1-based page index, clamped to the valid range once
// the total is known from the data source.
func (e *Engine) SetPage(index int) {
	if index < 1 {
		index = 1
	}
	if e.totalKnown {
		if max := e.maxPage(); index > max {
			index = max
		}
	}
	e.page.Index = index
}

// SetPageSize changes the page size and returns to the first page.
func (e *Engine) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	e.page.Size = size
	e.page.Index = 1
}

// Total returns the last known total row count and whether one is known.
func (e *Engine) Total() (int, bool) {
	return e.total, e.totalKnown
}

func (e *Engine) maxPage() int {
	if e.total == 0 {
		return 1
	}
	max := (e.total + e.page.Size - 1) / e.page.Size
	if max < 1 {
		max = 1
	}
	return max
}

// invalidatePage resets to page 1 and forgets the total; filter and sort
// changes redefine what the pages mean.
func (e *Engine) invalidatePage() {
	e.page.Index = 1
	e.totalKnown = false
}

// --- bulk selection ---

// Selection returns the current bulk-selection state.
func (e *Engine) Selection() BulkSelection {
	return e.selection
}

// ExplicitSelection returns the explicit set when in explicit mode;
// toggling is only reachable through it.
func (e *Engine) ExplicitSelection() (*Explicit, bool) {
	ex, ok := e.selection.(*Explicit)
	return ex, ok
}

// SelectAllMatchingFilters switches to all-matching mode. The id set is
// re-resolved against the filters at mutation time; it is not a freeze of
// the visible page.
func (e *Engine) SelectAllMatchingFilters() {
	e.selection = AllMatchingFilter{}
}

// ClearSelection always returns to explicit mode with an empty set.
func (e *Engine) ClearSelection() *Explicit {
	ex := NewExplicit()
	e.selection = ex
	return ex
}

// --- columns ---

// Columns returns a copy of the visible-column order.
func (e *Engine) Columns() []ColumnKey {
	out := make([]ColumnKey, len(e.columns))
	copy(out, e.columns)
	return out
}

// SetColumns replaces visible-column membership and order.
func (e *Engine) SetColumns(columns []ColumnKey) {
	e.columns = make([]ColumnKey, len(columns))
	copy(e.columns, columns)
	e.publishColumns()
}

// ReorderColumns applies a pure permutation of the current columns.
// Membership changes are a caller bug; the engine stores what it is given
// without correcting it.
func (e *Engine) ReorderColumns(columns []ColumnKey) {
	e.columns = make([]ColumnKey, len(columns))
	copy(e.columns, columns)
	e.publishColumns()
}

func (e *Engine) publishColumns() {
	if e.bus == nil {
		return
	}
	cols := make([]string, len(e.columns))
	for i, c := range e.columns {
		cols[i] = string(c)
	}
	e.bus.Publish(domain.ColumnsChangedEvent{Entity: e.entity, Columns: cols})
}

// --- query lifecycle ---

// NextQuery bumps the version and compiles the current state into a query
// description. Any result for an earlier version becomes stale.
func (e *Engine) NextQuery() Query {
	e.version++
	q := Query{
		Entity:  e.entity,
		Filters: e.Filters(),
		Sorts:   e.Sorts(),
		Page:    e.page,
		Version: e.version,
	}
	if e.bus != nil {
		e.bus.Publish(domain.QueryIssuedEvent{Entity: e.entity, Version: q.Version})
	}
	return q
}

// Version returns the latest issued query version.
func (e *Engine) Version() uint64 { return e.version }

// ApplyResult accepts a data source result unless a newer query has been
// issued since, in which case the stale result is discarded silently and
// false is returned.
func (e *Engine) ApplyResult(res Result) bool {
	if res.Version != e.version {
		e.log.V(1).Info("discarding stale result", "entity", string(e.entity), "version", res.Version, "current", e.version)
		if e.bus != nil {
			e.bus.Publish(domain.ResultDiscardedEvent{Entity: e.entity, Version: res.Version, Current: e.version})
		}
		return false
	}

	e.result = &res
	e.overlay.Rebase(e.result)
	e.rollups = res.Rollups
	e.total = res.Total
	e.totalKnown = true
	// Clamp in case the result shrank the page range under us.
	if e.page.Index > e.maxPage() {
		e.page.Index = e.maxPage()
	}
	if e.bus != nil {
		e.bus.Publish(domain.ResultAppliedEvent{Entity: e.entity, Version: res.Version, Total: res.Total})
	}
	return true
}

// Rows returns the last accepted result rows with any pending optimistic
// diffs applied. ApplyResult rebases the overlay, so diffs staged since
// the last accepted result are always visible here.
func (e *Engine) Rows() []Row { return e.overlay.Apply(e.result) }

// StageTag records an optimistic tag edit shown until the next result.
func (e *Engine) StageTag(rowID, tag string, add bool) {
	e.overlay.StageTag(rowID, tag, add)
}

// StagePlan records an optimistic plan-membership edit shown until the
// next result.
func (e *Engine) StagePlan(rowID string, plan domain.PlanID, add bool) {
	e.overlay.StagePlan(rowID, plan, add)
}

// Rollups returns the last accepted plan rollups, plans entity only.
func (e *Engine) Rollups() map[domain.PlanID]domain.PlanRollup { return e.rollups }

// ClearAll resets filters, sorts, and pagination; the explicit "clear all"
// action. Columns and bulk selection are untouched.
func (e *Engine) ClearAll() {
	e.filters = nil
	e.sorts = nil
	e.invalidatePage()
}
