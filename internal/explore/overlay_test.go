package explore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"terragrip/internal/domain"
)

func districtRows(districts ...*domain.District) []Row {
	rows := make([]Row, len(districts))
	for i, d := range districts {
		rows[i] = DistrictRow{District: d}
	}
	return rows
}

func TestOverlayAppliesPendingTagDiff(t *testing.T) {
	o := NewOverlay()
	res := &Result{Rows: districtRows(&domain.District{ID: "d1", Tags: []string{"cold"}})}

	o.Rebase(res)
	o.StageTag("d1", "priority", true)
	o.StageTag("d1", "cold", false)

	rows := o.Apply(res)
	d := rows[0].(DistrictRow).District
	require.Equal(t, []string{"priority"}, d.Tags)

	// The server copy is never mutated.
	require.Equal(t, []string{"cold"}, res.Rows[0].(DistrictRow).District.Tags)
}

func TestOverlayAppliesPendingPlanDiff(t *testing.T) {
	o := NewOverlay()
	res := &Result{Rows: districtRows(&domain.District{ID: "d1", Plans: []domain.PlanID{"p1"}})}

	o.Rebase(res)
	o.StagePlan("d1", "p2", true)
	o.StagePlan("d1", "p1", false)

	d := o.Apply(res)[0].(DistrictRow).District
	require.Equal(t, []domain.PlanID{"p2"}, d.Plans)
}

func TestOverlayClearedByNewResultReference(t *testing.T) {
	o := NewOverlay()
	first := &Result{Rows: districtRows(&domain.District{ID: "d1"})}
	o.Rebase(first)
	o.StageTag("d1", "priority", true)
	require.True(t, o.HasPending())

	// Fresh server state: pending diffs drop the moment the reference
	// changes, even if the contents are identical.
	second := &Result{Rows: districtRows(&domain.District{ID: "d1"})}
	o.Rebase(second)
	rows := o.Apply(second)
	require.False(t, o.HasPending())
	require.Empty(t, rows[0].(DistrictRow).District.Tags)
}

func TestOverlaySameReferenceKeepsPending(t *testing.T) {
	o := NewOverlay()
	res := &Result{Rows: districtRows(&domain.District{ID: "d1"})}
	o.Rebase(res)
	o.StageTag("d1", "priority", true)

	o.Rebase(res)
	require.True(t, o.HasPending(), "same reference is not fresh server state")
}

func TestOverlayStageThenUnstageCancelsOut(t *testing.T) {
	o := NewOverlay()
	res := &Result{Rows: districtRows(&domain.District{ID: "d1", Tags: []string{"x"}})}
	o.Rebase(res)

	o.StageTag("d1", "y", true)
	o.StageTag("d1", "y", false)

	d := o.Apply(res)[0].(DistrictRow).District
	require.Equal(t, []string{"x"}, d.Tags)
}

func TestOverlayIgnoresRowsWithoutDiffs(t *testing.T) {
	o := NewOverlay()
	res := &Result{Rows: districtRows(
		&domain.District{ID: "d1"},
		&domain.District{ID: "d2", Tags: []string{"keep"}},
	)}
	o.Rebase(res)
	o.StageTag("d1", "new", true)

	rows := o.Apply(res)
	require.Equal(t, []string{"new"}, rows[0].(DistrictRow).District.Tags)
	require.Equal(t, []string{"keep"}, rows[1].(DistrictRow).District.Tags)
}
