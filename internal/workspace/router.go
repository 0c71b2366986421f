package workspace

import (
	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
	"terragrip/internal/geo"
)

// ClickRouter turns resolved map clicks into selection and navigation
// mutations, plus camera-fit side effects. Clicks share the hover lookup
// priority through the same resolver.
type ClickRouter struct {
	nav      *NavigationStack
	sel      *SelectionModel
	resolver *FeatureResolver
	camera   Camera
	bus      eventbus.EventBus
}

// NewClickRouter creates a click router.
func NewClickRouter(nav *NavigationStack, sel *SelectionModel, resolver *FeatureResolver, camera Camera, bus eventbus.EventBus) *ClickRouter {
	return &ClickRouter{nav: nav, sel: sel, resolver: resolver, camera: camera, bus: bus}
}

// Click routes a pointer click. multi is the shift-style modifier. A click
// that resolves no feature changes no state at all.
func (r *ClickRouter) Click(pt geo.ScreenPoint, zoom float64, multi bool) {
	f, ok := r.resolver.Resolve(pt, zoom)
	if !ok {
		return
	}

	if add, isAdd := r.nav.Current().(PlanAddPanel); isAdd {
		// Idempotent union; clicking an included feature is not a toggle.
		r.sel.AddPlanBuilding(add.PlanID, f.ID)
		return
	}

	if multi {
		// Multi-select accumulates only while browsing or on a feature
		// detail panel; plan screens ignore the modifier entirely.
		if spatialPanel(r.nav.Current()) {
			r.sel.ToggleMulti(f.ID)
		}
		return
	}

	r.sel.Select(f.ID)
	switch f.Kind {
	case domain.FeatureRegion:
		code, _ := f.Attrs["code"].(string)
		if code == "" {
			code = string(f.ID)
		}
		r.nav.Push(StateRegionPanel{Code: code})
	default:
		r.nav.Push(DistrictPanel{ID: f.ID})
	}
	r.fitCamera(f)
}

// Escape pops navigation when not at the browse root; at the root it clears
// the single and multi selection and requests a camera reset. Exactly one
// of the two happens per press.
func (r *ClickRouter) Escape() {
	if _, atRoot := r.nav.Current().(BrowsePanel); !atRoot {
		_, wasPlanAdd := r.nav.Current().(PlanAddPanel)
		r.nav.Pop()
		if wasPlanAdd {
			// Leaving plan-add without committing discards the set.
			r.sel.ClearPlanBuilding()
		}
		return
	}

	r.sel.ClearSelected()
	r.sel.ClearMulti()
	if r.camera != nil {
		r.camera.Reset()
	}
	if r.bus != nil {
		r.bus.Publish(domain.CameraResetEvent{})
	}
}

// fitCamera requests a fit over the feature's first-ring bounding box;
// empty geometry skips the request silently.
func (r *ClickRouter) fitCamera(f domain.Feature) {
	b, ok := geo.BoundsForGeometry(f.Geometry)
	if !ok {
		return
	}
	if r.camera != nil {
		r.camera.FitBounds(b)
	}
	if r.bus != nil {
		r.bus.Publish(domain.CameraFitRequestedEvent{
			MinLon: b.MinLon, MinLat: b.MinLat, MaxLon: b.MaxLon, MaxLat: b.MaxLat,
		})
	}
}

// spatialPanel reports whether the panel shows the map's feature space,
// where multi-select toggling is meaningful.
func spatialPanel(p PanelState) bool {
	switch p.(type) {
	case BrowsePanel, DistrictPanel, StateRegionPanel:
		return true
	}
	return false
}
