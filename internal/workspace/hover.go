package workspace

import (
	"time"

	"terragrip/internal/geo"
)

// Default hover timing, overridable through config.
const (
	DefaultHoverThrottle   = 50 * time.Millisecond
	DefaultTooltipHideWait = 80 * time.Millisecond
)

// TooltipPhase is the tooltip lifecycle state.
type TooltipPhase int

const (
	TooltipHidden TooltipPhase = iota
	TooltipVisible
	TooltipExiting
)

// Tooltip is the renderable tooltip snapshot.
type Tooltip struct {
	Phase   TooltipPhase
	Content string
	X, Y    int
}

// HideScheduler schedules the exiting->hidden transition after a delay and
// returns a cancel function. The TUI backs this with a tea.Tick; tests use
// a manual scheduler.
type HideScheduler func(d time.Duration, fire func()) (cancel func())

// HoverController throttles pointer movement into at most one feature
// lookup per interval and manages the tooltip lifecycle
// (Hidden -> Visible -> Exiting -> Hidden).
type HoverController struct {
	sel      *SelectionModel
	resolver *FeatureResolver
	content  func(attrs map[string]interface{}) string

	throttle time.Duration
	hideWait time.Duration
	now      func() time.Time
	schedule HideScheduler

	lastAccepted time.Time
	hasAccepted  bool
	tooltip      Tooltip
	cancelHide   func()
}

// HoverOption configures a HoverController.
type HoverOption func(*HoverController)

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) HoverOption {
	return func(h *HoverController) { h.now = now }
}

// WithHoverTiming overrides the throttle interval and hide delay.
func WithHoverTiming(throttle, hideWait time.Duration) HoverOption {
	return func(h *HoverController) {
		if throttle > 0 {
			h.throttle = throttle
		}
		if hideWait > 0 {
			h.hideWait = hideWait
		}
	}
}

// WithHideScheduler injects the delayed-hide scheduler.
func WithHideScheduler(s HideScheduler) HoverOption {
	return func(h *HoverController) { h.schedule = s }
}

// NewHoverController creates a hover controller. content recomputes tooltip
// text from feature attributes; it runs only when the hovered id changes.
func NewHoverController(sel *SelectionModel, resolver *FeatureResolver, content func(attrs map[string]interface{}) string, opts ...HoverOption) *HoverController {
	h := &HoverController{
		sel:      sel,
		resolver: resolver,
		content:  content,
		throttle: DefaultHoverThrottle,
		hideWait: DefaultTooltipHideWait,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.content == nil {
		h.content = func(map[string]interface{}) string { return "" }
	}
	return h
}

// Tooltip returns the current tooltip snapshot.
func (h *HoverController) Tooltip() Tooltip {
	return h.tooltip
}

// PointerMove processes a pointer-move event. Events arriving within the
// throttle interval of the last accepted move are dropped entirely: no
// feature lookup is issued. Returns whether the event was accepted.
func (h *HoverController) PointerMove(pt geo.ScreenPoint, zoom float64) bool {
	now := h.now()
	if h.hasAccepted && now.Sub(h.lastAccepted) < h.throttle {
		return false
	}
	h.lastAccepted = now
	h.hasAccepted = true

	f, ok := h.resolver.Resolve(pt, zoom)
	if !ok {
		h.beginExit()
		return true
	}

	h.stopPendingHide()
	if f.ID == h.sel.Hovered() {
		// Same feature: position-only update, no content recompute.
		h.tooltip.X, h.tooltip.Y = pt.X, pt.Y
		h.tooltip.Phase = TooltipVisible
		return true
	}

	h.sel.SetHovered(f.ID)
	h.tooltip = Tooltip{
		Phase:   TooltipVisible,
		Content: h.content(f.Attrs),
		X:       pt.X,
		Y:       pt.Y,
	}
	return true
}

// PointerLeave clears hover immediately and starts the tooltip exit.
func (h *HoverController) PointerLeave() {
	h.beginExit()
}

// beginExit moves a visible tooltip to Exiting and schedules the hide; a
// hover arriving before the delay elapses cancels it.
func (h *HoverController) beginExit() {
	h.sel.ClearHovered()
	if h.tooltip.Phase != TooltipVisible {
		return
	}
	h.tooltip.Phase = TooltipExiting
	if h.schedule != nil {
		h.stopPendingHide()
		h.cancelHide = h.schedule(h.hideWait, h.CompleteHide)
	}
}

// CompleteHide finishes the Exiting -> Hidden transition. Invoked by the
// scheduler after the hide delay; a no-op unless still exiting.
func (h *HoverController) CompleteHide() {
	if h.tooltip.Phase != TooltipExiting {
		return
	}
	h.tooltip = Tooltip{Phase: TooltipHidden}
}

func (h *HoverController) stopPendingHide() {
	if h.cancelHide != nil {
		h.cancelHide()
		h.cancelHide = nil
	}
}
