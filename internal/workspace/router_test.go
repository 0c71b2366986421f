package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"terragrip/internal/domain"
	"terragrip/internal/geo"
)

func newRouterFixture() (*ClickRouter, *NavigationStack, *SelectionModel, *fakeSource, *fakeCamera) {
	src := newFakeSource()
	cam := &fakeCamera{}
	nav := NewNavigationStack(nil)
	sel := NewSelectionModel(nil)
	router := NewClickRouter(nav, sel, NewFeatureResolver(src, testZoomCutoff), cam, nil)
	return router, nav, sel, src, cam
}

func TestPlainClickSelectsAndPushesDistrict(t *testing.T) {
	router, nav, sel, src, cam := newRouterFixture()
	src.put(domain.LayerVendorElevate, geo.ScreenPoint{X: 1, Y: 1}, districtFeature("d1", domain.LayerVendorElevate))

	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, false)

	require.Equal(t, domain.FeatureID("d1"), sel.Selected())
	require.Equal(t, DistrictPanel{ID: "d1"}, nav.Current())
	require.Len(t, cam.fits, 1)
	require.Equal(t, geo.Bounds{MinLon: -98, MinLat: 30, MaxLon: -97, MaxLat: 31}, cam.fits[0])
}

func TestPlainClickLeavesMultiSelectUntouched(t *testing.T) {
	router, _, sel, src, _ := newRouterFixture()
	src.put(domain.LayerVendorElevate, geo.ScreenPoint{X: 1, Y: 1}, districtFeature("d1", domain.LayerVendorElevate))
	sel.ToggleMulti("d7")

	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, false)

	require.True(t, sel.IsMultiSelected("d7"))
	require.Equal(t, 1, sel.MultiCount())
}

func TestMultiClickTogglesWithoutNavigation(t *testing.T) {
	router, nav, sel, src, cam := newRouterFixture()
	src.put(domain.LayerVendorElevate, geo.ScreenPoint{X: 1, Y: 1}, districtFeature("d1", domain.LayerVendorElevate))

	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, true)
	require.True(t, sel.IsMultiSelected("d1"))
	require.Equal(t, BrowsePanel{}, nav.Current())
	require.Empty(t, cam.fits)

	// Second modified click returns multiSelect to its pre-click state.
	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, true)
	require.False(t, sel.IsMultiSelected("d1"))
}

func TestMultiClickIgnoredOnPlanPanels(t *testing.T) {
	router, nav, sel, src, cam := newRouterFixture()
	src.put(domain.LayerVendorElevate, geo.ScreenPoint{X: 1, Y: 1}, districtFeature("d1", domain.LayerVendorElevate))

	for _, panel := range []PanelState{
		PlanNewPanel{},
		PlanWorkspacePanel{PlanID: "p1", Tab: TabOverview},
	} {
		nav.ResetToRoot()
		nav.Push(panel)

		router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, true)

		require.Zero(t, sel.MultiCount(), "%T: modified click must not toggle multiSelect", panel)
		require.Equal(t, panel, nav.Current(), "%T: no navigation change", panel)
		require.Empty(t, cam.fits)
	}
}

func TestMultiClickStillTogglesOnDistrictPanel(t *testing.T) {
	router, nav, sel, src, _ := newRouterFixture()
	src.put(domain.LayerVendorElevate, geo.ScreenPoint{X: 1, Y: 1}, districtFeature("d1", domain.LayerVendorElevate))
	nav.Push(DistrictPanel{ID: "d9"})

	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, true)

	require.True(t, sel.IsMultiSelected("d1"))
	require.Equal(t, DistrictPanel{ID: "d9"}, nav.Current())
}

func TestClickInPlanAddUnionsIdempotently(t *testing.T) {
	router, nav, sel, src, cam := newRouterFixture()
	src.put(domain.LayerVendorElevate, geo.ScreenPoint{X: 1, Y: 1}, districtFeature("d1", domain.LayerVendorElevate))
	nav.Push(PlanAddPanel{PlanID: "p1"})

	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, false)
	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, false)

	require.Equal(t, []domain.FeatureID{"d1"}, sel.PlanBuilding())
	require.Equal(t, PlanAddPanel{PlanID: "p1"}, nav.Current(), "no navigation change in plan-add mode")
	require.Empty(t, cam.fits)
	require.Equal(t, domain.FeatureID(""), sel.Selected())
}

func TestRegionClickPushesStateRegionAtLowZoom(t *testing.T) {
	router, nav, _, src, _ := newRouterFixture()
	src.put(domain.LayerRegions, geo.ScreenPoint{X: 2, Y: 2}, regionFeature("TX"))

	router.Click(geo.ScreenPoint{X: 2, Y: 2}, testZoomCutoff-1, false)
	require.Equal(t, StateRegionPanel{Code: "TX"}, nav.Current())
}

func TestRegionClickIgnoredAtHighZoom(t *testing.T) {
	router, nav, sel, src, cam := newRouterFixture()
	src.put(domain.LayerRegions, geo.ScreenPoint{X: 2, Y: 2}, regionFeature("TX"))

	router.Click(geo.ScreenPoint{X: 2, Y: 2}, testZoomCutoff+1, false)

	// Misses every district layer and the region layer is not queried:
	// no state changes at all.
	require.Equal(t, BrowsePanel{}, nav.Current())
	require.Equal(t, domain.FeatureID(""), sel.Selected())
	require.Empty(t, cam.fits)
}

func TestClickWithEmptyGeometrySkipsCameraFit(t *testing.T) {
	router, nav, sel, src, cam := newRouterFixture()
	f := districtFeature("d1", domain.LayerVendorElevate)
	f.Geometry = domain.Geometry{}
	src.put(domain.LayerVendorElevate, geo.ScreenPoint{X: 1, Y: 1}, f)

	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, false)

	require.Equal(t, domain.FeatureID("d1"), sel.Selected())
	require.Equal(t, DistrictPanel{ID: "d1"}, nav.Current())
	require.Empty(t, cam.fits, "empty first ring: camera fit skipped silently")
}

func TestEscapePopsOrClearsNeverBoth(t *testing.T) {
	router, nav, sel, src, cam := newRouterFixture()
	src.put(domain.LayerVendorElevate, geo.ScreenPoint{X: 1, Y: 1}, districtFeature("d1", domain.LayerVendorElevate))

	// Click district D1: history [Browse, District(d1)], selected d1.
	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, false)
	require.Equal(t, []PanelState{BrowsePanel{}, DistrictPanel{ID: "d1"}}, nav.History())
	require.Equal(t, domain.FeatureID("d1"), sel.Selected())

	// First Escape pops; selection is untouched.
	router.Escape()
	require.Equal(t, []PanelState{BrowsePanel{}}, nav.History())
	require.Equal(t, domain.FeatureID("d1"), sel.Selected())
	require.Zero(t, cam.resets)

	// Second Escape clears selection and resets the camera; history unchanged.
	router.Escape()
	require.Equal(t, []PanelState{BrowsePanel{}}, nav.History())
	require.Equal(t, domain.FeatureID(""), sel.Selected())
	require.Equal(t, 0, sel.MultiCount())
	require.Equal(t, 1, cam.resets)
}

func TestEscapeFromPlanAddDiscardsBuildingSet(t *testing.T) {
	router, nav, sel, src, _ := newRouterFixture()
	src.put(domain.LayerVendorElevate, geo.ScreenPoint{X: 1, Y: 1}, districtFeature("d1", domain.LayerVendorElevate))
	nav.Push(PlanWorkspacePanel{PlanID: "p1", Tab: TabOverview})
	nav.Push(PlanAddPanel{PlanID: "p1"})

	router.Click(geo.ScreenPoint{X: 1, Y: 1}, 8, false)
	require.Equal(t, 1, sel.PlanBuildingCount())

	router.Escape()
	require.Equal(t, PlanWorkspacePanel{PlanID: "p1", Tab: TabOverview}, nav.Current())
	require.Zero(t, sel.PlanBuildingCount())
}

func TestClickOnNothingChangesNothing(t *testing.T) {
	router, nav, sel, _, cam := newRouterFixture()

	router.Click(geo.ScreenPoint{X: 50, Y: 50}, 8, false)

	require.Equal(t, []PanelState{BrowsePanel{}}, nav.History())
	require.Equal(t, domain.FeatureID(""), sel.Selected())
	require.Zero(t, sel.MultiCount())
	require.Empty(t, cam.fits)
	require.Zero(t, cam.resets)
}
