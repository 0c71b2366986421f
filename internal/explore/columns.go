package explore

import (
	"strings"

	"terragrip/internal/domain"
)

// FilterKind classifies a column for operator selection.
type FilterKind int

const (
	KindText FilterKind = iota
	KindNumeric
	KindBoolean
	KindEnum
)

// OperatorsFor returns the operators offered for a column kind. The engine
// itself stores whatever it is given; this is the caller-side contract.
func OperatorsFor(kind FilterKind) []Operator {
	switch kind {
	case KindNumeric:
		return []Operator{OpGte, OpLte, OpBetween}
	case KindBoolean:
		return []Operator{OpIsTrue, OpIsFalse}
	case KindEnum:
		return []Operator{OpEquals}
	default:
		return []Operator{OpContains}
	}
}

// Row is one explore table row.
type Row interface {
	RowID() string
	Entity() domain.EntityKind
}

// DistrictRow adapts a district for the explore table.
type DistrictRow struct{ District *domain.District }

func (r DistrictRow) RowID() string             { return string(r.District.ID) }
func (r DistrictRow) Entity() domain.EntityKind { return domain.EntityDistricts }

// ActivityRow adapts an activity.
type ActivityRow struct{ Activity *domain.Activity }

func (r ActivityRow) RowID() string             { return r.Activity.ID }
func (r ActivityRow) Entity() domain.EntityKind { return domain.EntityActivities }

// TaskRow adapts a task.
type TaskRow struct{ Task *domain.Task }

func (r TaskRow) RowID() string             { return r.Task.ID }
func (r TaskRow) Entity() domain.EntityKind { return domain.EntityTasks }

// ContactRow adapts a contact.
type ContactRow struct{ Contact *domain.Contact }

func (r ContactRow) RowID() string             { return r.Contact.ID }
func (r ContactRow) Entity() domain.EntityKind { return domain.EntityContacts }

// PlanRow adapts a plan plus its rollup.
type PlanRow struct {
	Plan   *domain.Plan
	Rollup domain.PlanRollup
}

func (r PlanRow) RowID() string             { return string(r.Plan.ID) }
func (r PlanRow) Entity() domain.EntityKind { return domain.EntityPlans }

// Accessor extracts a column value from a row of the registry's entity
// kind. Rows of another kind yield nil.
type Accessor func(Row) interface{}

// ColumnSpec describes one column: label, filter kind, and typed accessor.
type ColumnSpec struct {
	Key      ColumnKey
	Label    string
	Kind     FilterKind
	Accessor Accessor
}

// Registry is the per-entity-kind column registry.
type Registry struct {
	specs map[domain.EntityKind][]ColumnSpec
}

// NewRegistry builds the canonical registry for every entity kind.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[domain.EntityKind][]ColumnSpec)}

	r.specs[domain.EntityDistricts] = []ColumnSpec{
		{Key: "name", Label: "Name", Kind: KindText, Accessor: districtCol(func(d *domain.District) interface{} { return d.Name })},
		{Key: "state", Label: "State", Kind: KindEnum, Accessor: districtCol(func(d *domain.District) interface{} { return d.State })},
		{Key: "county", Label: "County", Kind: KindText, Accessor: districtCol(func(d *domain.District) interface{} { return d.County })},
		{Key: "enrollment", Label: "Enrollment", Kind: KindNumeric, Accessor: districtCol(func(d *domain.District) interface{} { return d.Enrollment })},
		{Key: "ell_pct", Label: "ELL %", Kind: KindNumeric, Accessor: districtCol(func(d *domain.District) interface{} { return d.ELLPct })},
		{Key: "swd_pct", Label: "SWD %", Kind: KindNumeric, Accessor: districtCol(func(d *domain.District) interface{} { return d.SWDPct })},
		{Key: "owner", Label: "Owner", Kind: KindEnum, Accessor: districtCol(func(d *domain.District) interface{} { return d.Owner })},
		{Key: "vendors", Label: "Vendors", Kind: KindText, Accessor: districtCol(func(d *domain.District) interface{} { return strings.Join(d.Vendors, ",") })},
		{Key: "tags", Label: "Tags", Kind: KindText, Accessor: districtCol(func(d *domain.District) interface{} { return strings.Join(d.Tags, ",") })},
	}

	r.specs[domain.EntityActivities] = []ColumnSpec{
		{Key: "subject", Label: "Subject", Kind: KindText, Accessor: activityCol(func(a *domain.Activity) interface{} { return a.Subject })},
		{Key: "kind", Label: "Kind", Kind: KindEnum, Accessor: activityCol(func(a *domain.Activity) interface{} { return a.Kind })},
		{Key: "owner", Label: "Owner", Kind: KindEnum, Accessor: activityCol(func(a *domain.Activity) interface{} { return a.Owner })},
		{Key: "status", Label: "Status", Kind: KindEnum, Accessor: activityCol(func(a *domain.Activity) interface{} { return string(a.Status) })},
		{Key: "due_date", Label: "Due", Kind: KindText, Accessor: activityCol(func(a *domain.Activity) interface{} { return a.DueDate })},
		{Key: "district_id", Label: "District", Kind: KindText, Accessor: activityCol(func(a *domain.Activity) interface{} { return string(a.DistrictID) })},
	}

	r.specs[domain.EntityTasks] = []ColumnSpec{
		{Key: "title", Label: "Title", Kind: KindText, Accessor: taskCol(func(tk *domain.Task) interface{} { return tk.Title })},
		{Key: "owner", Label: "Owner", Kind: KindEnum, Accessor: taskCol(func(tk *domain.Task) interface{} { return tk.Owner })},
		{Key: "done", Label: "Done", Kind: KindBoolean, Accessor: taskCol(func(tk *domain.Task) interface{} { return tk.Done })},
		{Key: "due_date", Label: "Due", Kind: KindText, Accessor: taskCol(func(tk *domain.Task) interface{} { return tk.DueDate })},
		{Key: "priority", Label: "Priority", Kind: KindNumeric, Accessor: taskCol(func(tk *domain.Task) interface{} { return tk.Priority })},
		{Key: "plan_id", Label: "Plan", Kind: KindText, Accessor: taskCol(func(tk *domain.Task) interface{} { return string(tk.PlanID) })},
	}

	r.specs[domain.EntityContacts] = []ColumnSpec{
		{Key: "name", Label: "Name", Kind: KindText, Accessor: contactCol(func(c *domain.Contact) interface{} { return c.Name })},
		{Key: "title", Label: "Title", Kind: KindText, Accessor: contactCol(func(c *domain.Contact) interface{} { return c.Title })},
		{Key: "email", Label: "Email", Kind: KindText, Accessor: contactCol(func(c *domain.Contact) interface{} { return c.Email })},
		{Key: "primary", Label: "Primary", Kind: KindBoolean, Accessor: contactCol(func(c *domain.Contact) interface{} { return c.Primary })},
		{Key: "district_id", Label: "District", Kind: KindText, Accessor: contactCol(func(c *domain.Contact) interface{} { return string(c.DistrictID) })},
	}

	r.specs[domain.EntityPlans] = []ColumnSpec{
		{Key: "name", Label: "Name", Kind: KindText, Accessor: planCol(func(p PlanRow) interface{} { return p.Plan.Name })},
		{Key: "owner", Label: "Owner", Kind: KindEnum, Accessor: planCol(func(p PlanRow) interface{} { return p.Plan.Owner })},
		{Key: "district_count", Label: "Districts", Kind: KindNumeric, Accessor: planCol(func(p PlanRow) interface{} { return p.Rollup.DistrictCount })},
		{Key: "total_enrollment", Label: "Enrollment", Kind: KindNumeric, Accessor: planCol(func(p PlanRow) interface{} { return p.Rollup.TotalEnrollment })},
	}

	return r
}

// Columns returns the column specs for an entity kind.
func (r *Registry) Columns(kind domain.EntityKind) []ColumnSpec {
	return r.specs[kind]
}

// Spec returns the spec for one column.
func (r *Registry) Spec(kind domain.EntityKind, key ColumnKey) (ColumnSpec, bool) {
	for _, spec := range r.specs[kind] {
		if spec.Key == key {
			return spec, true
		}
	}
	return ColumnSpec{}, false
}

// DefaultColumns returns the full column order for an entity kind; the
// persisted preference overrides it when present.
func (r *Registry) DefaultColumns(kind domain.EntityKind) []ColumnKey {
	specs := r.specs[kind]
	out := make([]ColumnKey, len(specs))
	for i, spec := range specs {
		out[i] = spec.Key
	}
	return out
}

func districtCol(f func(*domain.District) interface{}) Accessor {
	return func(row Row) interface{} {
		if d, ok := row.(DistrictRow); ok {
			return f(d.District)
		}
		return nil
	}
}

func activityCol(f func(*domain.Activity) interface{}) Accessor {
	return func(row Row) interface{} {
		if a, ok := row.(ActivityRow); ok {
			return f(a.Activity)
		}
		return nil
	}
}

func taskCol(f func(*domain.Task) interface{}) Accessor {
	return func(row Row) interface{} {
		if tk, ok := row.(TaskRow); ok {
			return f(tk.Task)
		}
		return nil
	}
}

func contactCol(f func(*domain.Contact) interface{}) Accessor {
	return func(row Row) interface{} {
		if c, ok := row.(ContactRow); ok {
			return f(c.Contact)
		}
		return nil
	}
}

func planCol(f func(PlanRow) interface{}) Accessor {
	return func(row Row) interface{} {
		if p, ok := row.(PlanRow); ok {
			return f(p)
		}
		return nil
	}
}
