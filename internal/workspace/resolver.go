package workspace

import (
	"terragrip/internal/domain"
	"terragrip/internal/geo"
)

// FeatureSource answers point lookups against a single rendered layer. The
// renderer owns the layers; the workspace only queries them.
type FeatureSource interface {
	FeatureAtLayer(layer domain.LayerKey, pt geo.ScreenPoint) (domain.Feature, bool)
}

// Camera accepts fit and reset commands from the workspace.
type Camera interface {
	FitBounds(b geo.Bounds)
	Reset()
}

// FeatureResolver applies the shared lookup priority used by both hover and
// click: district-category layers first, then the region layer, and the
// region layer only below the configured zoom cutoff. Zoomed-in pointing
// never targets region rows even when geometrically eligible.
type FeatureResolver struct {
	source           FeatureSource
	regionZoomCutoff float64
}

// NewFeatureResolver creates a resolver over the given source.
func NewFeatureResolver(source FeatureSource, regionZoomCutoff float64) *FeatureResolver {
	return &FeatureResolver{source: source, regionZoomCutoff: regionZoomCutoff}
}

// Resolve returns the highest-priority feature at the point, if any.
func (r *FeatureResolver) Resolve(pt geo.ScreenPoint, zoom float64) (domain.Feature, bool) {
	for _, layer := range domain.CategoryLayers() {
		if f, ok := r.source.FeatureAtLayer(layer, pt); ok {
			return f, true
		}
	}
	if zoom < r.regionZoomCutoff {
		if f, ok := r.source.FeatureAtLayer(domain.LayerRegions, pt); ok {
			return f, true
		}
	}
	return domain.Feature{}, false
}
