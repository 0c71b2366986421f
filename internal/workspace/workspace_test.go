package workspace

import (
	"time"

	"terragrip/internal/domain"
	"terragrip/internal/geo"
)

// fakeSource serves features from fixed per-layer point maps and counts
// lookups so tests can assert on throttle behavior.
type fakeSource struct {
	features map[domain.LayerKey]map[geo.ScreenPoint]domain.Feature
	lookups  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{features: make(map[domain.LayerKey]map[geo.ScreenPoint]domain.Feature)}
}

func (s *fakeSource) put(layer domain.LayerKey, pt geo.ScreenPoint, f domain.Feature) {
	if s.features[layer] == nil {
		s.features[layer] = make(map[geo.ScreenPoint]domain.Feature)
	}
	s.features[layer][pt] = f
}

func (s *fakeSource) FeatureAtLayer(layer domain.LayerKey, pt geo.ScreenPoint) (domain.Feature, bool) {
	s.lookups++
	f, ok := s.features[layer][pt]
	return f, ok
}

// fakeCamera records fit/reset commands.
type fakeCamera struct {
	fits   []geo.Bounds
	resets int
}

func (c *fakeCamera) FitBounds(b geo.Bounds) { c.fits = append(c.fits, b) }
func (c *fakeCamera) Reset()                 { c.resets++ }

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeScheduler captures scheduled hides for manual firing.
type fakeScheduler struct {
	pending   func()
	cancelled int
}

func (s *fakeScheduler) schedule(_ time.Duration, fire func()) func() {
	s.pending = fire
	return func() {
		s.pending = nil
		s.cancelled++
	}
}

func (s *fakeScheduler) fire() {
	if s.pending != nil {
		f := s.pending
		s.pending = nil
		f()
	}
}

func districtFeature(id domain.FeatureID, layer domain.LayerKey) domain.Feature {
	return domain.Feature{
		ID:    id,
		Kind:  domain.FeatureDistrict,
		Layer: layer,
		Attrs: map[string]interface{}{"name": string(id)},
		Geometry: domain.Geometry{Parts: [][][][2]float64{
			{{{-98, 30}, {-97, 30}, {-97, 31}, {-98, 31}}},
		}},
	}
}

func regionFeature(code string) domain.Feature {
	return domain.Feature{
		ID:    domain.FeatureID("region-" + code),
		Kind:  domain.FeatureRegion,
		Layer: domain.LayerRegions,
		Attrs: map[string]interface{}{"code": code},
		Geometry: domain.Geometry{Parts: [][][][2]float64{
			{{{-106, 25}, {-93, 25}, {-93, 36}, {-106, 36}}},
		}},
	}
}
