package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"terragrip/internal/domain"
	"terragrip/internal/explore"
)

func TestBuildSelectNoFiltersNoSorts(t *testing.T) {
	spec := entitySpecs[domain.EntityDistricts]
	q := explore.Query{Entity: domain.EntityDistricts, Page: explore.Page{Index: 1, Size: 25}}

	sqlText, args, err := buildSelect(spec, q)
	require.NoError(t, err)
	require.Equal(t,
		"SELECT id, name, state, county, enrollment, ell_pct, swd_pct, owner, vendors, tags FROM districts ORDER BY id ASC LIMIT $1 OFFSET $2",
		sqlText)
	require.Equal(t, []interface{}{25, 0}, args)
}

func TestBuildSelectFiltersAndSorts(t *testing.T) {
	spec := entitySpecs[domain.EntityDistricts]
	q := explore.Query{
		Entity: domain.EntityDistricts,
		Filters: []explore.Filter{
			{ID: 1, Column: "state", Op: explore.OpEquals, Value: "TX"},
			{ID: 2, Column: "enrollment", Op: explore.OpBetween, Value: 40000, Value2: 80000},
		},
		Sorts: []explore.Sort{
			{Column: "enrollment", Direction: explore.Desc},
			{Column: "name", Direction: explore.Asc},
		},
		Page: explore.Page{Index: 3, Size: 10},
	}

	sqlText, args, err := buildSelect(spec, q)
	require.NoError(t, err)
	require.Contains(t, sqlText, "WHERE state = $1 AND enrollment BETWEEN $2 AND $3")
	require.Contains(t, sqlText, "ORDER BY enrollment DESC, name ASC, id ASC")
	require.Contains(t, sqlText, "LIMIT $4 OFFSET $5")
	require.Equal(t, []interface{}{"TX", 40000, 80000, 10, 20}, args)
}

func TestBuildSelectContainsUsesILike(t *testing.T) {
	spec := entitySpecs[domain.EntityDistricts]
	q := explore.Query{
		Entity:  domain.EntityDistricts,
		Filters: []explore.Filter{{ID: 1, Column: "name", Op: explore.OpContains, Value: "isd"}},
	}

	sqlText, args, err := buildSelect(spec, q)
	require.NoError(t, err)
	require.Contains(t, sqlText, "name ILIKE '%' || $1 || '%'")
	require.Equal(t, []interface{}{"isd"}, args)
}

func TestBuildSelectBooleanOperatorsTakeNoArgs(t *testing.T) {
	spec := entitySpecs[domain.EntityTasks]
	q := explore.Query{
		Entity:  domain.EntityTasks,
		Filters: []explore.Filter{{ID: 1, Column: "done", Op: explore.OpIsTrue}},
		Page:    explore.Page{Index: 1, Size: 5},
	}

	sqlText, args, err := buildSelect(spec, q)
	require.NoError(t, err)
	require.Contains(t, sqlText, "WHERE done = TRUE")
	require.Contains(t, sqlText, "LIMIT $1 OFFSET $2")
	require.Equal(t, []interface{}{5, 0}, args)
}

func TestBuildSelectArrayColumnsUseArrayToString(t *testing.T) {
	spec := entitySpecs[domain.EntityDistricts]
	q := explore.Query{
		Entity:  domain.EntityDistricts,
		Filters: []explore.Filter{{ID: 1, Column: "vendors", Op: explore.OpContains, Value: "pulse"}},
	}

	sqlText, _, err := buildSelect(spec, q)
	require.NoError(t, err)
	require.Contains(t, sqlText, "array_to_string(vendors, ',') ILIKE")
}

func TestBuildSelectUnknownColumn(t *testing.T) {
	spec := entitySpecs[domain.EntityDistricts]
	q := explore.Query{
		Entity:  domain.EntityDistricts,
		Filters: []explore.Filter{{ID: 1, Column: "nope", Op: explore.OpEquals, Value: 1}},
	}
	_, _, err := buildSelect(spec, q)
	require.Error(t, err)

	q = explore.Query{
		Entity: domain.EntityDistricts,
		Sorts:  []explore.Sort{{Column: "nope", Direction: explore.Asc}},
	}
	_, _, err = buildSelect(spec, q)
	require.Error(t, err)
}

func TestBuildCount(t *testing.T) {
	spec := entitySpecs[domain.EntityDistricts]
	sqlText, args, err := buildCount(spec, []explore.Filter{
		{ID: 1, Column: "owner", Op: explore.OpEquals, Value: "amy"},
	})
	require.NoError(t, err)
	require.Equal(t, "SELECT COUNT(*) FROM districts WHERE owner = $1", sqlText)
	require.Equal(t, []interface{}{"amy"}, args)
}

func TestBuildIDsIgnoresPagination(t *testing.T) {
	spec := entitySpecs[domain.EntityDistricts]
	sqlText, _, err := buildIDs(spec, []explore.Filter{
		{ID: 1, Column: "state", Op: explore.OpEquals, Value: "CA"},
	})
	require.NoError(t, err)
	require.Equal(t, "SELECT id FROM districts WHERE state = $1 ORDER BY id", sqlText)
	require.NotContains(t, sqlText, "LIMIT")
}

func TestPlansSpecUsesAggregateSource(t *testing.T) {
	spec := entitySpecs[domain.EntityPlans]
	sqlText, _, err := buildSelect(spec, explore.Query{
		Entity:  domain.EntityPlans,
		Filters: []explore.Filter{{ID: 1, Column: "district_count", Op: explore.OpGte, Value: 2}},
		Sorts:   []explore.Sort{{Column: "total_enrollment", Direction: explore.Desc}},
	})
	require.NoError(t, err)
	require.Contains(t, sqlText, "GROUP BY p.id")
	require.Contains(t, sqlText, "WHERE district_count >= $1")
	require.Contains(t, sqlText, "ORDER BY total_enrollment DESC, id ASC")
}

func TestEverySpecColumnMapsForItsRegistrySpec(t *testing.T) {
	reg := explore.NewRegistry()
	for _, kind := range domain.EntityKinds() {
		spec, ok := entitySpecs[kind]
		require.True(t, ok, "entity %s has a SQL mapping", kind)
		for _, col := range reg.Columns(kind) {
			_, ok := spec.columns[col.Key]
			require.True(t, ok, "column %s/%s maps to SQL", kind, col.Key)
		}
	}
}
