package workspace

import (
	"fmt"

	"github.com/go-logr/logr"

	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
)

// Session is one workspace session: the navigation stack, selection model,
// hover controller, click router, and layer filter compiler, created once
// and mutated only from the UI event-dispatch context.
type Session struct {
	Nav       *NavigationStack
	Selection *SelectionModel
	Hover     *HoverController
	Router    *ClickRouter
	Filters   *FilterCompiler

	resolver *FeatureResolver
	camera   Camera
	bus      eventbus.EventBus
	log      logr.Logger

	planSeq int
}

// SessionConfig carries the tunables a session needs.
type SessionConfig struct {
	RegionZoomCutoff float64
	HoverOptions     []HoverOption
}

// NewSession wires a workspace session over the given collaborators.
func NewSession(cfg SessionConfig, bus eventbus.EventBus, source FeatureSource, camera Camera, tooltipContent func(attrs map[string]interface{}) string, log logr.Logger) (*Session, error) {
	nav := NewNavigationStack(bus)
	sel := NewSelectionModel(bus)
	resolver := NewFeatureResolver(source, cfg.RegionZoomCutoff)

	filters, err := NewFilterCompiler(bus)
	if err != nil {
		return nil, fmt.Errorf("creating filter compiler: %w", err)
	}

	s := &Session{
		Nav:       nav,
		Selection: sel,
		Hover:     NewHoverController(sel, resolver, tooltipContent, cfg.HoverOptions...),
		Router:    NewClickRouter(nav, sel, resolver, camera, bus),
		Filters:   filters,
		resolver:  resolver,
		camera:    camera,
		bus:       bus,
		log:       log,
	}
	return s, nil
}

// OpenPlanNew navigates to the create-plan form.
func (s *Session) OpenPlanNew() {
	s.Nav.Push(PlanNewPanel{})
}

// OpenPlan navigates to a plan workspace on its overview tab.
func (s *Session) OpenPlan(id domain.PlanID) {
	s.Nav.Push(PlanWorkspacePanel{PlanID: id, Tab: TabOverview})
}

// SwitchPlanTab switches tabs within the current plan workspace; a no-op
// when the current panel is not a plan workspace.
func (s *Session) SwitchPlanTab(tab PlanTab) {
	cur, ok := s.Nav.Current().(PlanWorkspacePanel)
	if !ok || cur.Tab == tab {
		return
	}
	// Tab switches replace the top entry rather than deepening history.
	s.Nav.Pop()
	s.Nav.Push(PlanWorkspacePanel{PlanID: cur.PlanID, Tab: tab})
}

// BeginPlanAdd enters add-districts mode for a plan. Map clicks now
// accumulate into the plan-building set; multiSelect is not consulted.
func (s *Session) BeginPlanAdd(id domain.PlanID) {
	s.Nav.Push(PlanAddPanel{PlanID: id})
}

// CommitPlanAdd leaves plan-add mode and returns the accumulated district
// ids. The plan-building set is cleared either way.
func (s *Session) CommitPlanAdd() (domain.PlanID, []domain.FeatureID) {
	add, ok := s.Nav.Current().(PlanAddPanel)
	if !ok {
		return "", nil
	}
	ids := s.Selection.PlanBuilding()
	s.Selection.ClearPlanBuilding()
	s.Nav.Pop()
	if s.bus != nil {
		s.bus.Publish(domain.PlanUpdatedEvent{PlanID: add.PlanID})
	}
	return add.PlanID, ids
}

// CancelPlanAdd leaves plan-add mode discarding the accumulated set.
func (s *Session) CancelPlanAdd() {
	if _, ok := s.Nav.Current().(PlanAddPanel); !ok {
		return
	}
	s.Selection.ClearPlanBuilding()
	s.Nav.Pop()
}

// NextPlanName generates a default name for a new plan in this session.
func (s *Session) NextPlanName() string {
	s.planSeq++
	return fmt.Sprintf("Territory Plan %d", s.planSeq)
}

// ReturnToMap resets the session to its defaults: navigation back to the
// browse root, selections cleared, camera at full extent. Filter state and
// explore state are untouched.
func (s *Session) ReturnToMap() {
	s.Nav.ResetToRoot()
	s.Selection.ClearSelected()
	s.Selection.ClearMulti()
	s.Selection.ClearPlanBuilding()
	s.Selection.ClearHovered()
	if s.camera != nil {
		s.camera.Reset()
	}
	if s.bus != nil {
		s.bus.Publish(domain.CameraResetEvent{})
	}
}
