// Package memory is the in-process data source: it evaluates compiled
// explore queries against seeded domain records, the same contract the
// Postgres adapter serves remotely.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"terragrip/internal/domain"
	"terragrip/internal/explore"
)

// Store holds all entity records and serves explore queries over them.
type Store struct {
	mu sync.RWMutex

	districts  []*domain.District
	regions    []*domain.Region
	plans      []*domain.Plan
	activities []*domain.Activity
	tasks      []*domain.Task
	contacts   []*domain.Contact

	registry *explore.Registry
	eval     *evaluator
	log      logr.Logger
}

// NewStore creates an empty store.
func NewStore(log logr.Logger) (*Store, error) {
	ev, err := newEvaluator()
	if err != nil {
		return nil, err
	}
	return &Store{
		registry: explore.NewRegistry(),
		eval:     ev,
		log:      log,
	}, nil
}

// Registry exposes the column registry the store filters and sorts with.
func (s *Store) Registry() *explore.Registry { return s.registry }

// Fetch evaluates one compiled query: filter, multi-key sort, paginate.
func (s *Store) Fetch(ctx context.Context, q explore.Query) (explore.Result, error) {
	if err := ctx.Err(); err != nil {
		return explore.Result{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.rowsFor(q.Entity)
	match, err := s.eval.matchFunc(q.Filters)
	if err != nil {
		return explore.Result{}, fmt.Errorf("fetch %s: %w", q.Entity, err)
	}

	matched := make([]explore.Row, 0, len(rows))
	for _, row := range rows {
		if match(s.rowMap(row)) {
			matched = append(matched, row)
		}
	}

	s.sortRows(q.Entity, matched, q.Sorts)

	total := len(matched)
	page := paginate(matched, q.Page)

	res := explore.Result{
		Entity:  q.Entity,
		Version: q.Version,
		Rows:    page,
		Total:   total,
	}
	if q.Entity == domain.EntityPlans {
		res.Rollups = s.rollups()
	}
	return res, nil
}

// ResolveMatching materializes every matching row id, ignoring pagination.
// Bulk mutations over an all-matching selection call this at mutation
// time, so the set reflects the live filters rather than a frozen page.
func (s *Store) ResolveMatching(ctx context.Context, entity domain.EntityKind, filters []explore.Filter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	match, err := s.eval.matchFunc(filters)
	if err != nil {
		return nil, fmt.Errorf("resolve matching %s: %w", entity, err)
	}

	var ids []string
	for _, row := range s.rowsFor(entity) {
		if match(s.rowMap(row)) {
			ids = append(ids, row.RowID())
		}
	}
	return ids, nil
}

// --- record access ---

// AddDistrict inserts or replaces a district.
func (s *Store) AddDistrict(d *domain.District) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.districts {
		if cur.ID == d.ID {
			s.districts[i] = d
			return
		}
	}
	s.districts = append(s.districts, d)
}

// District returns a district by id.
func (s *Store) District(id domain.FeatureID) (*domain.District, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.districts {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// Districts returns all districts in insertion order.
func (s *Store) Districts() []*domain.District {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.District, len(s.districts))
	copy(out, s.districts)
	return out
}

// AddRegion inserts a region.
func (s *Store) AddRegion(r *domain.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions = append(s.regions, r)
}

// Regions returns all regions.
func (s *Store) Regions() []*domain.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Region, len(s.regions))
	copy(out, s.regions)
	return out
}

// AddActivity inserts an activity.
func (s *Store) AddActivity(a *domain.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, a)
}

// AddTask inserts a task.
func (s *Store) AddTask(t *domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}

// AddContact inserts a contact.
func (s *Store) AddContact(c *domain.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, c)
}

// Plan returns a plan by id.
func (s *Store) Plan(id domain.PlanID) (*domain.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.plans {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Plans returns all plans.
func (s *Store) Plans() []*domain.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Plan, len(s.plans))
	copy(out, s.plans)
	return out
}

// CreatePlan adds a plan and records membership on its districts.
func (s *Store) CreatePlan(p *domain.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = append(s.plans, p)
	for _, id := range p.Districts {
		s.addPlanMembershipLocked(id, p.ID)
	}
}

// AddDistrictsToPlan unions districts into a plan's membership.
func (s *Store) AddDistrictsToPlan(planID domain.PlanID, ids []domain.FeatureID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.planLocked(planID)
	if p == nil {
		return 0
	}
	added := 0
	for _, id := range ids {
		if containsFeature(p.Districts, id) {
			continue
		}
		p.Districts = append(p.Districts, id)
		s.addPlanMembershipLocked(id, planID)
		added++
	}
	return added
}

// --- bulk mutation hooks ---

// ApplyTag adds or removes a tag on the given district ids, returning the
// number of rows actually changed.
func (s *Store) ApplyTag(ctx context.Context, ids []string, tag string, add bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, raw := range ids {
		d := s.districtLocked(domain.FeatureID(raw))
		if d == nil {
			continue
		}
		has := containsString(d.Tags, tag)
		switch {
		case add && !has:
			d.Tags = append(d.Tags, tag)
			changed++
		case !add && has:
			d.Tags = removeString(d.Tags, tag)
			changed++
		}
	}
	return changed, nil
}

// ApplyPlan adds or removes plan membership on the given district ids.
func (s *Store) ApplyPlan(ctx context.Context, ids []string, planID domain.PlanID, add bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.planLocked(planID)
	if p == nil {
		return 0, fmt.Errorf("unknown plan %q", planID)
	}

	changed := 0
	for _, raw := range ids {
		id := domain.FeatureID(raw)
		d := s.districtLocked(id)
		if d == nil {
			continue
		}
		has := containsPlanID(d.Plans, planID)
		switch {
		case add && !has:
			d.Plans = append(d.Plans, planID)
			p.Districts = append(p.Districts, id)
			changed++
		case !add && has:
			d.Plans = removePlanID(d.Plans, planID)
			p.Districts = removeFeature(p.Districts, id)
			changed++
		}
	}
	return changed, nil
}

// --- internals ---

func (s *Store) rowsFor(entity domain.EntityKind) []explore.Row {
	switch entity {
	case domain.EntityDistricts:
		rows := make([]explore.Row, len(s.districts))
		for i, d := range s.districts {
			rows[i] = explore.DistrictRow{District: d}
		}
		return rows
	case domain.EntityActivities:
		rows := make([]explore.Row, len(s.activities))
		for i, a := range s.activities {
			rows[i] = explore.ActivityRow{Activity: a}
		}
		return rows
	case domain.EntityTasks:
		rows := make([]explore.Row, len(s.tasks))
		for i, t := range s.tasks {
			rows[i] = explore.TaskRow{Task: t}
		}
		return rows
	case domain.EntityContacts:
		rows := make([]explore.Row, len(s.contacts))
		for i, c := range s.contacts {
			rows[i] = explore.ContactRow{Contact: c}
		}
		return rows
	case domain.EntityPlans:
		rollups := s.rollups()
		rows := make([]explore.Row, len(s.plans))
		for i, p := range s.plans {
			rows[i] = explore.PlanRow{Plan: p, Rollup: rollups[p.ID]}
		}
		return rows
	default:
		return nil
	}
}

func (s *Store) rowMap(row explore.Row) map[string]interface{} {
	specs := s.registry.Columns(row.Entity())
	m := make(map[string]interface{}, len(specs))
	for _, spec := range specs {
		m[string(spec.Key)] = spec.Accessor(row)
	}
	return m
}

func (s *Store) sortRows(entity domain.EntityKind, rows []explore.Row, sorts []explore.Sort) {
	if len(sorts) == 0 {
		return
	}
	accessors := make([]explore.Accessor, 0, len(sorts))
	for _, sk := range sorts {
		spec, ok := s.registry.Spec(entity, sk.Column)
		if !ok {
			accessors = append(accessors, func(explore.Row) interface{} { return nil })
			continue
		}
		accessors = append(accessors, spec.Accessor)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for k, sk := range sorts {
			c := compareValues(accessors[k](rows[i]), accessors[k](rows[j]))
			if c == 0 {
				continue
			}
			if sk.Direction == explore.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// rollups aggregates plan membership; callers hold at least a read lock.
func (s *Store) rollups() map[domain.PlanID]domain.PlanRollup {
	byID := make(map[domain.FeatureID]*domain.District, len(s.districts))
	for _, d := range s.districts {
		byID[d.ID] = d
	}
	out := make(map[domain.PlanID]domain.PlanRollup, len(s.plans))
	for _, p := range s.plans {
		r := domain.PlanRollup{PlanID: p.ID}
		for _, id := range p.Districts {
			if d, ok := byID[id]; ok {
				r.DistrictCount++
				r.TotalEnrollment += d.Enrollment
			}
		}
		out[p.ID] = r
	}
	return out
}

func (s *Store) districtLocked(id domain.FeatureID) *domain.District {
	for _, d := range s.districts {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *Store) planLocked(id domain.PlanID) *domain.Plan {
	for _, p := range s.plans {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) addPlanMembershipLocked(id domain.FeatureID, planID domain.PlanID) {
	d := s.districtLocked(id)
	if d == nil || containsPlanID(d.Plans, planID) {
		return
	}
	d.Plans = append(d.Plans, planID)
}

func paginate(rows []explore.Row, p explore.Page) []explore.Row {
	if p.Size <= 0 {
		return rows
	}
	start := (p.Index - 1) * p.Size
	if start < 0 {
		start = 0
	}
	if start >= len(rows) {
		return nil
	}
	end := start + p.Size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// compareValues orders mixed scalar values: nil first, then by type's
// natural order. Numeric types compare as float64.
func compareValues(a, b interface{}) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	if ab, ok := a.(bool); ok {
		if bb, ok2 := b.(bool); ok2 {
			switch {
			case !ab && bb:
				return -1
			case ab && !bb:
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(
		strings.ToLower(fmt.Sprintf("%v", a)),
		strings.ToLower(fmt.Sprintf("%v", b)),
	)
}

func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	default:
		return 0, false
	}
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func containsPlanID(list []domain.PlanID, v domain.PlanID) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func removePlanID(list []domain.PlanID, v domain.PlanID) []domain.PlanID {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func containsFeature(list []domain.FeatureID, v domain.FeatureID) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func removeFeature(list []domain.FeatureID, v domain.FeatureID) []domain.FeatureID {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
