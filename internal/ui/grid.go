package ui

import (
	"math"

	"terragrip/internal/domain"
	"terragrip/internal/geo"
	"terragrip/internal/workspace"
)

// Default camera extent: continental US.
const (
	defaultCenterLon = -96.0
	defaultCenterLat = 38.0
	defaultZoom      = 1.0
)

// Viewport is the map camera: a lon/lat center plus a zoom level that
// doubles the scale per step. Terminal cells are roughly twice as tall as
// wide, so latitude is compressed by half when projecting.
type Viewport struct {
	CenterLon float64
	CenterLat float64
	Zoom      float64

	width  int
	height int
}

// NewViewport creates a camera at the default extent.
func NewViewport() *Viewport {
	v := &Viewport{}
	v.Reset()
	return v
}

// Resize updates the screen dimensions the projection maps onto.
func (v *Viewport) Resize(width, height int) {
	v.width = width
	v.height = height
}

// Reset returns the camera to the default extent.
func (v *Viewport) Reset() {
	v.CenterLon = defaultCenterLon
	v.CenterLat = defaultCenterLat
	v.Zoom = defaultZoom
}

// FitBounds centers on the box and zooms until it fills the viewport.
func (v *Viewport) FitBounds(b geo.Bounds) {
	v.CenterLon = (b.MinLon + b.MaxLon) / 2
	v.CenterLat = (b.MinLat + b.MaxLat) / 2

	w := b.MaxLon - b.MinLon
	h := b.MaxLat - b.MinLat
	if w <= 0 && h <= 0 {
		return
	}
	zoom := defaultZoom
	for zoom < 12 {
		scale := v.scaleAt(zoom)
		if w*scale > float64(v.width) || h*scale/2 > float64(v.height) {
			break
		}
		zoom++
	}
	if zoom > defaultZoom {
		zoom--
	}
	v.Zoom = zoom
}

// ZoomIn and ZoomOut step the zoom level within its working range.
func (v *Viewport) ZoomIn() {
	if v.Zoom < 12 {
		v.Zoom++
	}
}

func (v *Viewport) ZoomOut() {
	if v.Zoom > 0 {
		v.Zoom--
	}
}

// Pan moves the center by screen-cell deltas at the current scale.
func (v *Viewport) Pan(dx, dy int) {
	scale := v.scaleAt(v.Zoom)
	v.CenterLon += float64(dx) / scale
	v.CenterLat -= float64(dy) * 2 / scale
}

func (v *Viewport) scaleAt(zoom float64) float64 {
	// One degree of longitude occupies about one cell at zoom 1.
	return math.Pow(2, zoom-1)
}

// Project maps lon/lat to a screen cell.
func (v *Viewport) Project(lon, lat float64) geo.ScreenPoint {
	scale := v.scaleAt(v.Zoom)
	return geo.ScreenPoint{
		X: v.width/2 + int(math.Round((lon-v.CenterLon)*scale)),
		Y: v.height/2 - int(math.Round((lat-v.CenterLat)*scale/2)),
	}
}

// Unproject maps a screen cell back to lon/lat.
func (v *Viewport) Unproject(pt geo.ScreenPoint) (lon, lat float64) {
	scale := v.scaleAt(v.Zoom)
	lon = v.CenterLon + float64(pt.X-v.width/2)/scale
	lat = v.CenterLat - float64(pt.Y-v.height/2)*2/scale
	return lon, lat
}

// MapGrid renders districts and regions into screen space and answers the
// workspace's per-layer point lookups. Category layers consult the
// compiled layer predicates; hidden or predicate-filtered features are
// not hittable.
type MapGrid struct {
	viewport  *Viewport
	filters   *workspace.FilterCompiler
	districts []*domain.District
	regions   []*domain.Region
}

// NewMapGrid creates a grid over the given records. The filter compiler
// is attached after session construction; until then nothing is hittable.
func NewMapGrid(viewport *Viewport) *MapGrid {
	return &MapGrid{viewport: viewport}
}

// SetFilters attaches the compiled layer predicates.
func (g *MapGrid) SetFilters(filters *workspace.FilterCompiler) {
	g.filters = filters
}

// SetRecords replaces the rendered record sets.
func (g *MapGrid) SetRecords(districts []*domain.District, regions []*domain.Region) {
	g.districts = districts
	g.regions = regions
}

// Districts returns the rendered district set.
func (g *MapGrid) Districts() []*domain.District { return g.districts }

// Regions returns the rendered region set.
func (g *MapGrid) Regions() []*domain.Region { return g.regions }

// FeatureAtLayer reports the first feature of the layer containing the
// point. Implements workspace.FeatureSource.
func (g *MapGrid) FeatureAtLayer(layer domain.LayerKey, pt geo.ScreenPoint) (domain.Feature, bool) {
	if g.filters == nil {
		return domain.Feature{}, false
	}
	compiled, ok := g.filters.Compiled(layer)
	if !ok || !compiled.Visible {
		return domain.Feature{}, false
	}
	lon, lat := g.viewport.Unproject(pt)

	if layer == domain.LayerRegions {
		for _, r := range g.regions {
			if b, ok := geo.BoundsForGeometry(r.Geometry); ok && containsPoint(b, lon, lat) {
				f := regionFeature(r)
				if compiled.Matches(f.Attrs) {
					return f, true
				}
			}
		}
		return domain.Feature{}, false
	}

	for _, d := range g.districts {
		b, ok := geo.BoundsForGeometry(d.Geometry)
		if !ok || !containsPoint(b, lon, lat) {
			continue
		}
		f := DistrictFeature(d, layer)
		if _, carries := f.Attrs[string(layer)]; !carries {
			continue
		}
		if compiled.Matches(f.Attrs) {
			return f, true
		}
	}
	return domain.Feature{}, false
}

func containsPoint(b geo.Bounds, lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// DistrictFeature adapts a district record into a resolvable map feature.
func DistrictFeature(d *domain.District, layer domain.LayerKey) domain.Feature {
	attrs := map[string]interface{}{
		"name":       d.Name,
		"state":      d.State,
		"county":     d.County,
		"enrollment": d.Enrollment,
		"ell_pct":    d.ELLPct,
		"swd_pct":    d.SWDPct,
	}
	if d.Owner != "" {
		attrs["owner"] = d.Owner
	}
	for _, v := range d.Vendors {
		attrs["vendor_"+v] = true
	}
	if len(d.Plans) > 0 {
		plans := make([]string, len(d.Plans))
		for i, p := range d.Plans {
			plans[i] = string(p)
		}
		attrs["plans"] = plans
	}
	return domain.Feature{
		ID:       d.ID,
		Kind:     domain.FeatureDistrict,
		Layer:    layer,
		Attrs:    attrs,
		Geometry: d.Geometry,
	}
}

func regionFeature(r *domain.Region) domain.Feature {
	return domain.Feature{
		ID:    domain.FeatureID(r.Code),
		Kind:  domain.FeatureRegion,
		Layer: domain.LayerRegions,
		Attrs: map[string]interface{}{
			"code": r.Code,
			"name": r.Name,
		},
		Geometry: r.Geometry,
	}
}
