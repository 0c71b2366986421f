package workspace

import "terragrip/internal/domain"

// PlanTab is a tab within the plan workspace panel.
type PlanTab string

const (
	TabOverview    PlanTab = "overview"
	TabTasks       PlanTab = "tasks"
	TabContacts    PlanTab = "contacts"
	TabPerformance PlanTab = "performance"
)

// PanelState is the currently displayed side-panel screen. It is a closed
// set of variants; all variants are comparable so stack entries can be
// checked for equality directly.
type PanelState interface {
	panelState()
}

// BrowsePanel is the root panel: free map browsing.
type BrowsePanel struct{}

// DistrictPanel shows a single district's detail.
type DistrictPanel struct {
	ID domain.FeatureID
}

// StateRegionPanel shows a state-level rollup, reachable only at low zoom.
type StateRegionPanel struct {
	Code string
}

// PlanNewPanel is the create-plan form.
type PlanNewPanel struct{}

// PlanWorkspacePanel is the plan detail screen with its tab strip.
type PlanWorkspacePanel struct {
	PlanID domain.PlanID
	Tab    PlanTab
}

// PlanAddPanel is the add-districts-to-plan mode; map clicks accumulate
// into the plan-building set while this panel is current.
type PlanAddPanel struct {
	PlanID domain.PlanID
}

func (BrowsePanel) panelState()        {}
func (DistrictPanel) panelState()      {}
func (StateRegionPanel) panelState()   {}
func (PlanNewPanel) panelState()       {}
func (PlanWorkspacePanel) panelState() {}
func (PlanAddPanel) panelState()       {}
