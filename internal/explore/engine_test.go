package explore

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"terragrip/internal/domain"
)

func newDistrictEngine() *Engine {
	reg := NewRegistry()
	return NewEngine(domain.EntityDistricts, reg.DefaultColumns(domain.EntityDistricts), 10, nil, logr.Discard())
}

func TestAddRemoveClearFilters(t *testing.T) {
	e := newDistrictEngine()

	f1 := e.AddFilter("enrollment", OpGte, 500, nil)
	f2 := e.AddFilter("state", OpEquals, "TX", nil)
	require.NotEqual(t, f1.ID, f2.ID)
	require.Len(t, e.Filters(), 2)

	e.RemoveFilter(f1.ID)
	require.Len(t, e.Filters(), 1)
	require.Equal(t, ColumnKey("state"), e.Filters()[0].Column)

	e.RemoveFilter(9999) // unknown id ignored
	require.Len(t, e.Filters(), 1)

	e.ClearFilters()
	require.Empty(t, e.Filters())
}

func TestEngineStoresFiltersWithoutValidation(t *testing.T) {
	e := newDistrictEngine()
	// A boolean operator on a numeric column is the caller's problem; the
	// engine stores and serializes what it is given.
	f := e.AddFilter("enrollment", OpIsTrue, nil, nil)
	require.Equal(t, OpIsTrue, e.Filters()[0].Op)
	require.Equal(t, f.ID, e.Filters()[0].ID)
}

func TestSortDedup(t *testing.T) {
	e := newDistrictEngine()

	require.True(t, e.AddSort("enrollment", Asc))
	require.False(t, e.AddSort("enrollment", Desc), "duplicate column add is a no-op")

	sorts := e.Sorts()
	require.Len(t, sorts, 1)
	require.Equal(t, ColumnKey("enrollment"), sorts[0].Column)
	require.Equal(t, Asc, sorts[0].Direction, "existing entry keeps its direction")
}

func TestSortOrderDefinesPrecedence(t *testing.T) {
	e := newDistrictEngine()
	e.AddSort("state", Asc)
	e.AddSort("enrollment", Desc)

	sorts := e.Sorts()
	require.Equal(t, ColumnKey("state"), sorts[0].Column, "primary key first")
	require.Equal(t, ColumnKey("enrollment"), sorts[1].Column)
}

func TestToggleDirectionInPlace(t *testing.T) {
	e := newDistrictEngine()
	e.AddSort("state", Asc)
	e.AddSort("enrollment", Desc)

	e.ToggleDirection("state")
	sorts := e.Sorts()
	require.Equal(t, Desc, sorts[0].Direction)
	require.Equal(t, ColumnKey("state"), sorts[0].Column, "position unchanged")

	e.ToggleDirection("state")
	require.Equal(t, Asc, e.Sorts()[0].Direction)
}

func TestRemoveAndReorderSorts(t *testing.T) {
	e := newDistrictEngine()
	e.AddSort("state", Asc)
	e.AddSort("enrollment", Desc)
	e.AddSort("name", Asc)

	e.RemoveSort("state")
	require.Len(t, e.Sorts(), 2)

	e.ReorderSorts([]Sort{{Column: "name", Direction: Asc}, {Column: "enrollment", Direction: Desc}})
	require.Equal(t, ColumnKey("name"), e.Sorts()[0].Column)
}

func TestFilterChangeResetsPage(t *testing.T) {
	e := newDistrictEngine()
	e.AddFilter("enrollment", OpGte, 500, nil)
	e.ApplyResult(Result{Entity: domain.EntityDistricts, Version: e.NextQuery().Version, Total: 100})

	e.SetPage(3)
	require.Equal(t, 3, e.Page().Index)

	e.AddFilter("state", OpEquals, "TX", nil)
	require.Equal(t, 1, e.Page().Index, "new filter invalidates the old page")
}

func TestSortChangeResetsPage(t *testing.T) {
	e := newDistrictEngine()
	e.ApplyResult(Result{Entity: domain.EntityDistricts, Version: e.NextQuery().Version, Total: 100})
	e.SetPage(2)

	e.AddSort("name", Asc)
	require.Equal(t, 1, e.Page().Index)
}

func TestSetPageClampsOnceTotalKnown(t *testing.T) {
	e := newDistrictEngine()

	// Before the total is known only the lower bound applies.
	e.SetPage(50)
	require.Equal(t, 50, e.Page().Index)
	e.SetPage(0)
	require.Equal(t, 1, e.Page().Index)

	e.ApplyResult(Result{Entity: domain.EntityDistricts, Version: e.NextQuery().Version, Total: 35})
	e.SetPage(50)
	require.Equal(t, 4, e.Page().Index, "ceil(35/10) pages")
	e.SetPage(-2)
	require.Equal(t, 1, e.Page().Index)
}

func TestApplyResultClampsCurrentPage(t *testing.T) {
	e := newDistrictEngine()
	e.ApplyResult(Result{Entity: domain.EntityDistricts, Version: e.NextQuery().Version, Total: 100})
	e.SetPage(10)

	v := e.NextQuery().Version
	require.True(t, e.ApplyResult(Result{Entity: domain.EntityDistricts, Version: v, Total: 5}))
	require.Equal(t, 1, e.Page().Index)
}

func TestStaleResultDiscarded(t *testing.T) {
	e := newDistrictEngine()

	q1 := e.NextQuery()
	q2 := e.NextQuery()
	require.Greater(t, q2.Version, q1.Version)

	// The older in-flight response resolves after the newer query was
	// issued: it must be ignored.
	require.False(t, e.ApplyResult(Result{Entity: domain.EntityDistricts, Version: q1.Version, Total: 10}))
	_, known := e.Total()
	require.False(t, known)

	require.True(t, e.ApplyResult(Result{Entity: domain.EntityDistricts, Version: q2.Version, Total: 10}))
	total, known := e.Total()
	require.True(t, known)
	require.Equal(t, 10, total)
}

func TestBulkModeExclusivity(t *testing.T) {
	e := newDistrictEngine()

	ex, ok := e.ExplicitSelection()
	require.True(t, ok)
	require.True(t, ex.Toggle("d1"))

	e.SelectAllMatchingFilters()
	_, ok = e.ExplicitSelection()
	require.False(t, ok, "toggle is unreachable in all-matching mode")
	require.Equal(t, -1, e.Selection().Count())

	// Switching back to an explicit subset is never implicit.
	cleared := e.ClearSelection()
	require.Equal(t, 0, cleared.Count())
	ex2, ok := e.ExplicitSelection()
	require.True(t, ok)
	require.Same(t, cleared, ex2)
	require.False(t, ex2.Has("d1"), "ClearSelection always yields an empty explicit set")
}

func TestClearSelectionFromExplicitAlsoEmpties(t *testing.T) {
	e := newDistrictEngine()
	ex, _ := e.ExplicitSelection()
	ex.Toggle("d1")
	ex.Toggle("d2")

	cleared := e.ClearSelection()
	require.Equal(t, 0, cleared.Count())
}

func TestExplicitToggleRoundTrip(t *testing.T) {
	ex := NewExplicit()
	require.True(t, ex.Toggle("a"))
	require.False(t, ex.Toggle("a"))
	require.False(t, ex.Has("a"))
	require.Empty(t, ex.IDs())
}

func TestColumnsSetAndReorder(t *testing.T) {
	e := newDistrictEngine()
	e.SetColumns([]ColumnKey{"name", "state", "enrollment"})
	require.Equal(t, []ColumnKey{"name", "state", "enrollment"}, e.Columns())

	e.ReorderColumns([]ColumnKey{"enrollment", "name", "state"})
	require.Equal(t, []ColumnKey{"enrollment", "name", "state"}, e.Columns())
}

func TestClearAllResetsQueryStateOnly(t *testing.T) {
	e := newDistrictEngine()
	e.AddFilter("state", OpEquals, "TX", nil)
	e.AddSort("name", Asc)
	e.SetColumns([]ColumnKey{"name"})
	ex, _ := e.ExplicitSelection()
	ex.Toggle("d1")

	e.ClearAll()

	require.Empty(t, e.Filters())
	require.Empty(t, e.Sorts())
	require.Equal(t, 1, e.Page().Index)
	require.Equal(t, []ColumnKey{"name"}, e.Columns(), "columns survive clear-all")
	require.Equal(t, 1, e.Selection().Count(), "bulk selection survives clear-all")
}

func TestNextQuerySnapshotsState(t *testing.T) {
	e := newDistrictEngine()
	e.AddFilter("state", OpEquals, "TX", nil)
	e.AddSort("name", Asc)

	q := e.NextQuery()
	require.Equal(t, domain.EntityDistricts, q.Entity)
	require.Len(t, q.Filters, 1)
	require.Len(t, q.Sorts, 1)
	require.Equal(t, 1, q.Page.Index)

	// Mutating the engine does not alter the issued query value.
	e.AddFilter("county", OpContains, "travis", nil)
	require.Len(t, q.Filters, 1)
}

func TestStagedDiffsShowInRowsUntilNextResult(t *testing.T) {
	e := newDistrictEngine()
	q := e.NextQuery()
	require.True(t, e.ApplyResult(Result{
		Entity:  domain.EntityDistricts,
		Version: q.Version,
		Rows:    districtRows(&domain.District{ID: "d1", Tags: []string{"cold"}}),
		Total:   1,
	}))

	e.StageTag("d1", "priority", true)
	e.StagePlan("d1", "p1", true)

	dr := e.Rows()[0].(DistrictRow)
	require.ElementsMatch(t, []string{"cold", "priority"}, dr.District.Tags)
	require.Equal(t, []domain.PlanID{"p1"}, dr.District.Plans)

	// A fresh result replaces the baseline and drops the staged diffs.
	q = e.NextQuery()
	require.True(t, e.ApplyResult(Result{
		Entity:  domain.EntityDistricts,
		Version: q.Version,
		Rows:    districtRows(&domain.District{ID: "d1", Tags: []string{"cold"}}),
		Total:   1,
	}))
	dr = e.Rows()[0].(DistrictRow)
	require.Equal(t, []string{"cold"}, dr.District.Tags)
	require.Empty(t, dr.District.Plans)
}
