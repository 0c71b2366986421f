package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"terragrip/internal/domain"
)

func elevateAttrs(owner string, plans ...string) map[string]interface{} {
	attrs := map[string]interface{}{
		"vendor_elevate": true,
		"owner":          owner,
	}
	ps := make([]string, 0, len(plans))
	ps = append(ps, plans...)
	attrs["plans"] = ps
	return attrs
}

func TestFilterIdentityWithNoUserFilters(t *testing.T) {
	fc, err := NewFilterCompiler(nil)
	require.NoError(t, err)

	c, ok := fc.Compiled(domain.LayerVendorElevate)
	require.True(t, ok)
	require.Equal(t, `"vendor_elevate" in feature`, c.Expr)

	// Equivalent to the has-attribute precondition alone.
	require.True(t, c.Matches(elevateAttrs("amy")))
	require.False(t, c.Matches(map[string]interface{}{"vendor_pulse": true}))
	require.False(t, c.Matches(nil))
}

func TestOwnerFilterComposesWithPrecondition(t *testing.T) {
	fc, err := NewFilterCompiler(nil)
	require.NoError(t, err)
	require.NoError(t, fc.SetOwnerFilter("amy"))

	c, _ := fc.Compiled(domain.LayerVendorElevate)
	require.True(t, c.Matches(elevateAttrs("amy")))
	require.False(t, c.Matches(elevateAttrs("bob")))
	// Precondition still gates: right owner, wrong layer attribute.
	require.False(t, c.Matches(map[string]interface{}{"owner": "amy"}))
}

func TestPlanFilterChecksMembership(t *testing.T) {
	fc, err := NewFilterCompiler(nil)
	require.NoError(t, err)
	require.NoError(t, fc.SetPlanFilter("p1"))

	c, _ := fc.Compiled(domain.LayerVendorElevate)
	require.True(t, c.Matches(elevateAttrs("amy", "p1", "p2")))
	require.False(t, c.Matches(elevateAttrs("amy", "p2")))
	require.False(t, c.Matches(map[string]interface{}{"vendor_elevate": true}), "missing plans attribute is non-matching, not an error")
}

func TestBothFiltersAndTogether(t *testing.T) {
	fc, err := NewFilterCompiler(nil)
	require.NoError(t, err)
	require.NoError(t, fc.SetOwnerFilter("amy"))
	require.NoError(t, fc.SetPlanFilter("p1"))

	c, _ := fc.Compiled(domain.LayerVendorElevate)
	require.True(t, c.Matches(elevateAttrs("amy", "p1")))
	require.False(t, c.Matches(elevateAttrs("bob", "p1")))
	require.False(t, c.Matches(elevateAttrs("amy", "p3")))
}

func TestClearingFilterRestoresIdentity(t *testing.T) {
	fc, err := NewFilterCompiler(nil)
	require.NoError(t, err)
	require.NoError(t, fc.SetOwnerFilter("amy"))
	require.NoError(t, fc.SetOwnerFilter(""))

	c, _ := fc.Compiled(domain.LayerVendorElevate)
	require.Equal(t, `"vendor_elevate" in feature`, c.Expr)
	require.True(t, c.Matches(elevateAttrs("bob")))
}

func TestRecomputeIsIdempotent(t *testing.T) {
	fc, err := NewFilterCompiler(nil)
	require.NoError(t, err)
	require.NoError(t, fc.SetOwnerFilter("amy"))

	before, _ := fc.Compiled(domain.LayerVendorElevate)
	require.NoError(t, fc.Recompute())
	after, _ := fc.Compiled(domain.LayerVendorElevate)

	require.Equal(t, before.Expr, after.Expr)
	require.Equal(t, before.Visible, after.Visible)
}

func TestVisibilityIsOrthogonalToPredicate(t *testing.T) {
	fc, err := NewFilterCompiler(nil)
	require.NoError(t, err)
	require.NoError(t, fc.SetLayerActive(domain.LayerVendorElevate, false))

	c, _ := fc.Compiled(domain.LayerVendorElevate)
	require.False(t, c.Visible)
	// Hidden layer keeps its predicate: eligible yet hidden is allowed.
	require.True(t, c.Matches(elevateAttrs("amy")))
}

func TestRegionLayerHasTruePredicate(t *testing.T) {
	fc, err := NewFilterCompiler(nil)
	require.NoError(t, err)
	require.NoError(t, fc.SetOwnerFilter("amy"))

	c, ok := fc.Compiled(domain.LayerRegions)
	require.True(t, ok)
	require.Equal(t, "true", c.Expr)
	require.True(t, c.Matches(map[string]interface{}{"code": "TX"}))
}

func TestCompiledLayersOrderedByPriority(t *testing.T) {
	fc, err := NewFilterCompiler(nil)
	require.NoError(t, err)

	layers := fc.CompiledLayers()
	require.Len(t, layers, 4)
	require.Equal(t, domain.LayerVendorElevate, layers[0].Layer)
	require.Equal(t, domain.LayerRegions, layers[3].Layer)
}
