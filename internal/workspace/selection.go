package workspace

import (
	"sort"

	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
)

// SelectionModel owns the hovered/selected/multi-selected feature ids plus
// the plan-building set. multiSelect and planBuilding are disjoint
// concerns: entering plan-add mode does not consult or mutate multiSelect,
// and multiSelect survives panel changes until explicitly cleared or
// converted into a plan.
type SelectionModel struct {
	hoveredID    domain.FeatureID
	selectedID   domain.FeatureID
	multiSelect  map[domain.FeatureID]bool
	planBuilding map[domain.FeatureID]bool
	bus          eventbus.EventBus
}

// NewSelectionModel creates an empty selection model.
func NewSelectionModel(bus eventbus.EventBus) *SelectionModel {
	return &SelectionModel{
		multiSelect:  make(map[domain.FeatureID]bool),
		planBuilding: make(map[domain.FeatureID]bool),
		bus:          bus,
	}
}

// Hovered returns the hovered feature id, "" when none.
func (s *SelectionModel) Hovered() domain.FeatureID {
	return s.hoveredID
}

// SetHovered updates the hovered id and reports whether it changed.
func (s *SelectionModel) SetHovered(id domain.FeatureID) bool {
	if id == s.hoveredID {
		return false
	}
	prev := s.hoveredID
	s.hoveredID = id
	if s.bus != nil {
		s.bus.Publish(domain.HoverChangedEvent{ID: id, Previous: prev})
	}
	return true
}

// ClearHovered clears the hovered id.
func (s *SelectionModel) ClearHovered() {
	s.SetHovered("")
}

// Selected returns the single-selected feature id, "" when none.
func (s *SelectionModel) Selected() domain.FeatureID {
	return s.selectedID
}

// Select sets the single selection. multiSelect is left untouched.
func (s *SelectionModel) Select(id domain.FeatureID) {
	if id == s.selectedID {
		return
	}
	s.selectedID = id
	s.publishSelection()
}

// ClearSelected clears the single selection.
func (s *SelectionModel) ClearSelected() {
	if s.selectedID == "" {
		return
	}
	s.selectedID = ""
	s.publishSelection()
}

// ToggleMulti toggles a feature in the multi-select set and reports whether
// the feature is selected afterwards.
func (s *SelectionModel) ToggleMulti(id domain.FeatureID) bool {
	if s.multiSelect[id] {
		delete(s.multiSelect, id)
	} else {
		s.multiSelect[id] = true
	}
	s.publishSelection()
	return s.multiSelect[id]
}

// IsMultiSelected reports whether a feature is in the multi-select set.
func (s *SelectionModel) IsMultiSelected(id domain.FeatureID) bool {
	return s.multiSelect[id]
}

// MultiSelected returns the multi-selected ids in stable order.
func (s *SelectionModel) MultiSelected() []domain.FeatureID {
	return sortedIDs(s.multiSelect)
}

// MultiCount returns the multi-select set size.
func (s *SelectionModel) MultiCount() int {
	return len(s.multiSelect)
}

// ClearMulti empties the multi-select set.
func (s *SelectionModel) ClearMulti() {
	if len(s.multiSelect) == 0 {
		return
	}
	s.multiSelect = make(map[domain.FeatureID]bool)
	s.publishSelection()
}

// AddPlanBuilding unions a feature into the plan-building set. Adding an
// already-included feature is a no-op, not a toggle.
func (s *SelectionModel) AddPlanBuilding(planID domain.PlanID, id domain.FeatureID) {
	if s.planBuilding[id] {
		return
	}
	s.planBuilding[id] = true
	if s.bus != nil {
		s.bus.Publish(domain.PlanBuildChangedEvent{PlanID: planID, Count: len(s.planBuilding)})
	}
}

// InPlanBuilding reports whether a feature is in the plan-building set.
func (s *SelectionModel) InPlanBuilding(id domain.FeatureID) bool {
	return s.planBuilding[id]
}

// PlanBuilding returns the plan-building ids in stable order.
func (s *SelectionModel) PlanBuilding() []domain.FeatureID {
	return sortedIDs(s.planBuilding)
}

// PlanBuildingCount returns the plan-building set size.
func (s *SelectionModel) PlanBuildingCount() int {
	return len(s.planBuilding)
}

// ClearPlanBuilding empties the plan-building set; called whenever plan-add
// mode is exited, committed or cancelled.
func (s *SelectionModel) ClearPlanBuilding() {
	s.planBuilding = make(map[domain.FeatureID]bool)
}

func (s *SelectionModel) publishSelection() {
	if s.bus != nil {
		s.bus.Publish(domain.SelectionChangedEvent{
			SelectedID: s.selectedID,
			MultiCount: len(s.multiSelect),
		})
	}
}

func sortedIDs(set map[domain.FeatureID]bool) []domain.FeatureID {
	out := make([]domain.FeatureID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
