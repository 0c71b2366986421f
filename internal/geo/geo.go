// Package geo holds the small geometry vocabulary shared by the workspace:
// screen points coming off the pointer, lon/lat bounds going to the camera.
package geo

import "terragrip/internal/domain"

// ScreenPoint is a pointer position in screen coordinates.
type ScreenPoint struct {
	X int
	Y int
}

// Bounds is a lon/lat bounding box.
type Bounds struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// BoundsForGeometry computes the bounding box of a feature geometry by
// scanning its coordinate ring. Only the first ring of the first part is
// inspected, matching the behavior of the planning tool this replaces;
// districts are single-part in practice so the shortcut holds. Returns
// false when that ring is empty.
func BoundsForGeometry(g domain.Geometry) (Bounds, bool) {
	ring := g.FirstRing()
	if len(ring) == 0 {
		return Bounds{}, false
	}

	b := Bounds{
		MinLon: ring[0][0],
		MinLat: ring[0][1],
		MaxLon: ring[0][0],
		MaxLat: ring[0][1],
	}
	for _, pos := range ring[1:] {
		if pos[0] < b.MinLon {
			b.MinLon = pos[0]
		}
		if pos[0] > b.MaxLon {
			b.MaxLon = pos[0]
		}
		if pos[1] < b.MinLat {
			b.MinLat = pos[1]
		}
		if pos[1] > b.MaxLat {
			b.MaxLat = pos[1]
		}
	}
	return b, true
}
