// Package views renders the workspace screens: the territory map, the
// explore tables, and the plan workspace. Views are pure: they draw the
// data they are handed and mutate nothing.
package views

// Renderer renders all views with a shared style set
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the style set for callers that render fragments
func (r *Renderer) Styles() *Styles { return r.styles }
