package domain

// FeatureID identifies a renderable spatial feature (district or region).
type FeatureID string

// PlanID identifies a territory plan.
type PlanID string

// LayerKey identifies a map overlay layer.
type LayerKey string

// Category layers are queried before the region layer; the region layer is
// only eligible below the region zoom cutoff.
const (
	LayerVendorElevate LayerKey = "vendor_elevate"
	LayerVendorPulse   LayerKey = "vendor_pulse"
	LayerVendorCompass LayerKey = "vendor_compass"
	LayerRegions       LayerKey = "regions"
)

// CategoryLayers lists the district-category layers in lookup priority order.
func CategoryLayers() []LayerKey {
	return []LayerKey{LayerVendorElevate, LayerVendorPulse, LayerVendorCompass}
}

// FeatureKind distinguishes district features from coarser region features.
type FeatureKind int

const (
	FeatureDistrict FeatureKind = iota
	FeatureRegion
)

// Feature is a spatial entity resolved from the map.
type Feature struct {
	ID       FeatureID
	Kind     FeatureKind
	Layer    LayerKey
	Attrs    map[string]interface{}
	Geometry Geometry
}

// Geometry is a multi-part polygon: parts -> rings -> [lon, lat] positions.
type Geometry struct {
	Parts [][][][2]float64
}

// FirstRing returns the first ring of the first part, or nil.
func (g Geometry) FirstRing() [][2]float64 {
	if len(g.Parts) == 0 || len(g.Parts[0]) == 0 {
		return nil
	}
	return g.Parts[0][0]
}

// EntityKind names a tabular entity browsed in the explore views.
type EntityKind string

const (
	EntityDistricts  EntityKind = "districts"
	EntityActivities EntityKind = "activities"
	EntityTasks      EntityKind = "tasks"
	EntityContacts   EntityKind = "contacts"
	EntityPlans      EntityKind = "plans"
)

// EntityKinds lists every explore entity kind in display order.
func EntityKinds() []EntityKind {
	return []EntityKind{EntityDistricts, EntityActivities, EntityTasks, EntityContacts, EntityPlans}
}

// District is a school-district row: the primary territory unit.
type District struct {
	ID         FeatureID
	Name       string
	State      string
	County     string
	Enrollment int
	ELLPct     float64
	SWDPct     float64
	Owner      string
	Vendors    []string
	Tags       []string
	Plans      []PlanID
	Geometry   Geometry
}

// HasVendor reports whether the district carries the given vendor attribute.
func (d *District) HasVendor(vendor string) bool {
	for _, v := range d.Vendors {
		if v == vendor {
			return true
		}
	}
	return false
}

// InPlan reports whether the district belongs to the given plan.
func (d *District) InPlan(id PlanID) bool {
	for _, p := range d.Plans {
		if p == id {
			return true
		}
	}
	return false
}

// Region is a state-level feature shown at low zoom.
type Region struct {
	Code     string // two-letter state code
	Name     string
	Geometry Geometry
}

// Plan is a territory plan: a named set of districts with an owner.
type Plan struct {
	ID        PlanID
	Name      string
	Owner     string
	Districts []FeatureID
}

// ActivityStatus enumerates activity lifecycle states.
type ActivityStatus string

const (
	ActivityOpen   ActivityStatus = "open"
	ActivityClosed ActivityStatus = "closed"
)

// Activity is a CRM activity attached to a district.
type Activity struct {
	ID         string
	DistrictID FeatureID
	Kind       string // call, email, meeting
	Subject    string
	Owner      string
	Status     ActivityStatus
	DueDate    string // ISO date
}

// Task is a CRM task, optionally attached to a plan.
type Task struct {
	ID       string
	PlanID   PlanID
	Title    string
	Owner    string
	Done     bool
	DueDate  string
	Priority int
}

// Contact is a district contact record.
type Contact struct {
	ID         string
	DistrictID FeatureID
	Name       string
	Title      string
	Email      string
	Primary    bool
}

// PlanRollup aggregates plan membership for the plans explore view.
type PlanRollup struct {
	PlanID          PlanID
	DistrictCount   int
	TotalEnrollment int
}
