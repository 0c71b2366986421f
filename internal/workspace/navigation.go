package workspace

import (
	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
)

// NavigationStack handles panel navigation. The history is a non-empty list
// of panel states; the current panel is the last entry and BrowsePanel is
// the only state reachable with a single-entry history.
type NavigationStack struct {
	history []PanelState
	bus     eventbus.EventBus
}

// NewNavigationStack creates a navigation stack rooted at BrowsePanel.
func NewNavigationStack(bus eventbus.EventBus) *NavigationStack {
	return &NavigationStack{
		history: []PanelState{BrowsePanel{}},
		bus:     bus,
	}
}

// Current returns the panel at the top of the stack.
func (n *NavigationStack) Current() PanelState {
	return n.history[len(n.history)-1]
}

// Depth returns the history length.
func (n *NavigationStack) Depth() int {
	return len(n.history)
}

// History returns a copy of the history, root first.
func (n *NavigationStack) History() []PanelState {
	out := make([]PanelState, len(n.history))
	copy(out, n.history)
	return out
}

// Push appends a panel unless it equals the current top, in which case the
// push is a no-op rather than a duplicate entry.
func (n *NavigationStack) Push(state PanelState) {
	if state == n.Current() {
		return
	}
	n.history = append(n.history, state)
	n.publishChange()
}

// Pop removes the top panel and returns true. At the single root entry it
// is an idempotent no-op and returns false; the caller falls back to its
// clear-selection/reset-camera action instead.
func (n *NavigationStack) Pop() bool {
	if len(n.history) <= 1 {
		return false
	}
	n.history = n.history[:len(n.history)-1]
	n.publishChange()
	return true
}

// ResetToRoot clears the history back to the browse root.
func (n *NavigationStack) ResetToRoot() {
	if len(n.history) == 1 {
		return
	}
	n.history = []PanelState{BrowsePanel{}}
	n.publishChange()
}

func (n *NavigationStack) publishChange() {
	if n.bus != nil {
		n.bus.Publish(domain.PanelChangedEvent{Depth: len(n.history)})
	}
}
