package memory

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"terragrip/internal/domain"
	"terragrip/internal/explore"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(logr.Discard())
	require.NoError(t, err)
	Seed(s)
	return s
}

func query(entity domain.EntityKind, filters []explore.Filter, sorts []explore.Sort, page explore.Page) explore.Query {
	return explore.Query{Entity: entity, Filters: filters, Sorts: sorts, Page: page, Version: 1}
}

func TestFetchUnfilteredReturnsTotal(t *testing.T) {
	s := seededStore(t)
	res, err := s.Fetch(context.Background(), query(domain.EntityDistricts, nil, nil, explore.Page{Index: 1, Size: 4}))
	require.NoError(t, err)
	require.Equal(t, 10, res.Total)
	require.Len(t, res.Rows, 4, "page size caps the rows")
	require.Equal(t, uint64(1), res.Version)
}

func TestFetchNumericGteFilter(t *testing.T) {
	s := seededStore(t)
	filters := []explore.Filter{{ID: 1, Column: "enrollment", Op: explore.OpGte, Value: 100000}}

	res, err := s.Fetch(context.Background(), query(domain.EntityDistricts, filters, nil, explore.Page{Index: 1, Size: 25}))
	require.NoError(t, err)
	require.Equal(t, 3, res.Total) // houston, dallas, lausd
}

func TestFetchBetweenFilter(t *testing.T) {
	s := seededStore(t)
	filters := []explore.Filter{{ID: 1, Column: "enrollment", Op: explore.OpBetween, Value: 40000, Value2: 80000}}

	res, err := s.Fetch(context.Background(), query(domain.EntityDistricts, filters, nil, explore.Page{Index: 1, Size: 25}))
	require.NoError(t, err)
	// austin 73k, elpaso 51k, fresno 70k, sfusd 49k
	require.Equal(t, 4, res.Total)
}

func TestFetchContainsIsCaseInsensitive(t *testing.T) {
	s := seededStore(t)
	filters := []explore.Filter{{ID: 1, Column: "name", Op: explore.OpContains, Value: "isd"}}

	res, err := s.Fetch(context.Background(), query(domain.EntityDistricts, filters, nil, explore.Page{Index: 1, Size: 25}))
	require.NoError(t, err)
	require.Equal(t, 5, res.Total, "all five Texas ISDs match")
}

func TestFetchEqualsAndMultipleFiltersAnd(t *testing.T) {
	s := seededStore(t)
	filters := []explore.Filter{
		{ID: 1, Column: "state", Op: explore.OpEquals, Value: "TX"},
		{ID: 2, Column: "owner", Op: explore.OpEquals, Value: "amy"},
	}

	res, err := s.Fetch(context.Background(), query(domain.EntityDistricts, filters, nil, explore.Page{Index: 1, Size: 25}))
	require.NoError(t, err)
	require.Equal(t, 3, res.Total) // austin, houston, laredo
}

func TestFetchBooleanFilter(t *testing.T) {
	s := seededStore(t)
	filters := []explore.Filter{{ID: 1, Column: "done", Op: explore.OpIsTrue}}

	res, err := s.Fetch(context.Background(), query(domain.EntityTasks, filters, nil, explore.Page{Index: 1, Size: 25}))
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	require.Equal(t, "task-2", res.Rows[0].RowID())
}

func TestFetchMultiKeySortPrecedence(t *testing.T) {
	s := seededStore(t)
	sorts := []explore.Sort{
		{Column: "state", Direction: explore.Asc},
		{Column: "enrollment", Direction: explore.Desc},
	}

	res, err := s.Fetch(context.Background(), query(domain.EntityDistricts, nil, sorts, explore.Page{Index: 1, Size: 25}))
	require.NoError(t, err)

	first := res.Rows[0].(explore.DistrictRow).District
	require.Equal(t, "CA", first.State)
	require.Equal(t, "Los Angeles USD", first.Name, "largest CA district leads")

	// First TX row follows all CA rows.
	var firstTX *domain.District
	for _, row := range res.Rows {
		d := row.(explore.DistrictRow).District
		if d.State == "TX" {
			firstTX = d
			break
		}
	}
	require.NotNil(t, firstTX)
	require.Equal(t, "Houston ISD", firstTX.Name)
}

func TestFetchPagination(t *testing.T) {
	s := seededStore(t)
	sorts := []explore.Sort{{Column: "name", Direction: explore.Asc}}

	p1, err := s.Fetch(context.Background(), query(domain.EntityDistricts, nil, sorts, explore.Page{Index: 1, Size: 3}))
	require.NoError(t, err)
	p2, err := s.Fetch(context.Background(), query(domain.EntityDistricts, nil, sorts, explore.Page{Index: 2, Size: 3}))
	require.NoError(t, err)

	require.Len(t, p1.Rows, 3)
	require.Len(t, p2.Rows, 3)
	require.NotEqual(t, p1.Rows[0].RowID(), p2.Rows[0].RowID())

	// Past the end: empty page, same total.
	p9, err := s.Fetch(context.Background(), query(domain.EntityDistricts, nil, sorts, explore.Page{Index: 9, Size: 3}))
	require.NoError(t, err)
	require.Empty(t, p9.Rows)
	require.Equal(t, 10, p9.Total)
}

func TestFetchPlansIncludesRollups(t *testing.T) {
	s := seededStore(t)
	res, err := s.Fetch(context.Background(), query(domain.EntityPlans, nil, nil, explore.Page{Index: 1, Size: 25}))
	require.NoError(t, err)

	require.Equal(t, 2, res.Total)
	require.NotNil(t, res.Rollups)

	tx := res.Rollups["plan-tx-core"]
	require.Equal(t, 2, tx.DistrictCount)
	require.Equal(t, 73000+189000, tx.TotalEnrollment)
}

func TestResolveMatchingIgnoresPagination(t *testing.T) {
	s := seededStore(t)
	filters := []explore.Filter{{ID: 1, Column: "state", Op: explore.OpEquals, Value: "CA"}}

	ids, err := s.ResolveMatching(context.Background(), domain.EntityDistricts, filters)
	require.NoError(t, err)
	require.Len(t, ids, 5, "matching set exceeds any one page")
}

func TestApplyTagBulk(t *testing.T) {
	s := seededStore(t)
	n, err := s.ApplyTag(context.Background(), []string{"tx-austin", "tx-dallas", "missing"}, "priority", true)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	d, _ := s.District("tx-austin")
	require.Contains(t, d.Tags, "priority")

	// Re-applying changes nothing.
	n, err = s.ApplyTag(context.Background(), []string{"tx-austin"}, "priority", true)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = s.ApplyTag(context.Background(), []string{"tx-austin"}, "priority", false)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestApplyPlanBulkKeepsMembershipInSync(t *testing.T) {
	s := seededStore(t)
	n, err := s.ApplyPlan(context.Background(), []string{"tx-elpaso"}, "plan-tx-core", true)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	d, _ := s.District("tx-elpaso")
	require.Contains(t, d.Plans, domain.PlanID("plan-tx-core"))
	p, _ := s.Plan("plan-tx-core")
	require.Contains(t, p.Districts, domain.FeatureID("tx-elpaso"))

	_, err = s.ApplyPlan(context.Background(), []string{"tx-elpaso"}, "no-such-plan", true)
	require.Error(t, err)
}

func TestSeedSetsPlanMembershipOnDistricts(t *testing.T) {
	s := seededStore(t)
	d, ok := s.District("tx-austin")
	require.True(t, ok)
	require.Contains(t, d.Plans, domain.PlanID("plan-tx-core"))
}

func TestFetchCancelledContext(t *testing.T) {
	s := seededStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Fetch(ctx, query(domain.EntityDistricts, nil, nil, explore.Page{Index: 1, Size: 5}))
	require.Error(t, err)
}
