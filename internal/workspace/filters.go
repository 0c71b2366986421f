package workspace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"

	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
)

// FilterState is the user-facing layer filter input: which overlays are
// visible, plus optional owner and plan equality filters.
type FilterState struct {
	ActiveLayers map[domain.LayerKey]bool
	OwnerFilter  string        // "" means absent
	PlanFilter   domain.PlanID // "" means absent
}

// CompiledLayer is one layer's render predicate plus its visibility toggle.
// Visibility is orthogonal to eligibility: a layer can be
// predicate-eligible yet hidden, never the reverse.
type CompiledLayer struct {
	Layer   domain.LayerKey
	Visible bool
	Expr    string
	prg     cel.Program
}

// Matches evaluates the compiled predicate against feature attributes.
// Evaluation errors count as non-matching.
func (c CompiledLayer) Matches(attrs map[string]interface{}) bool {
	if c.prg == nil {
		return false
	}
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	out, _, err := c.prg.Eval(map[string]interface{}{"feature": attrs})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// layerAttr is the per-layer has-attribute precondition key: a feature is
// only eligible for a category layer when it carries that attribute at all.
var layerAttr = map[domain.LayerKey]string{
	domain.LayerVendorElevate: "vendor_elevate",
	domain.LayerVendorPulse:   "vendor_pulse",
	domain.LayerVendorCompass: "vendor_compass",
}

// FilterCompiler combines active-layer toggles and the user's equality
// filters into one render predicate per layer. Recompute is idempotent:
// the compiled expression string is the identity key, and programs are
// cached by it.
type FilterCompiler struct {
	env      *cel.Env
	state    FilterState
	compiled map[domain.LayerKey]CompiledLayer
	cache    map[string]cel.Program
	bus      eventbus.EventBus
}

// NewFilterCompiler creates a compiler with all category layers active.
func NewFilterCompiler(bus eventbus.EventBus) (*FilterCompiler, error) {
	env, err := cel.NewEnv(cel.Variable("feature", cel.MapType(cel.StringType, cel.DynType)))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	fc := &FilterCompiler{
		env:      env,
		compiled: make(map[domain.LayerKey]CompiledLayer),
		cache:    make(map[string]cel.Program),
		bus:      bus,
		state: FilterState{
			ActiveLayers: map[domain.LayerKey]bool{
				domain.LayerVendorElevate: true,
				domain.LayerVendorPulse:   true,
				domain.LayerVendorCompass: true,
				domain.LayerRegions:       true,
			},
		},
	}
	if err := fc.Recompute(); err != nil {
		return nil, err
	}
	return fc, nil
}

// State returns a copy of the current filter state.
func (fc *FilterCompiler) State() FilterState {
	layers := make(map[domain.LayerKey]bool, len(fc.state.ActiveLayers))
	for k, v := range fc.state.ActiveLayers {
		layers[k] = v
	}
	return FilterState{ActiveLayers: layers, OwnerFilter: fc.state.OwnerFilter, PlanFilter: fc.state.PlanFilter}
}

// SetOwnerFilter sets or clears ("" clears) the owner equality filter.
func (fc *FilterCompiler) SetOwnerFilter(owner string) error {
	if fc.state.OwnerFilter == owner {
		return nil
	}
	fc.state.OwnerFilter = owner
	return fc.Recompute()
}

// SetPlanFilter sets or clears ("" clears) the plan membership filter.
func (fc *FilterCompiler) SetPlanFilter(plan domain.PlanID) error {
	if fc.state.PlanFilter == plan {
		return nil
	}
	fc.state.PlanFilter = plan
	return fc.Recompute()
}

// SetLayerActive toggles a layer's visibility; applied after predicate
// filtering, it never changes the compiled predicate itself.
func (fc *FilterCompiler) SetLayerActive(layer domain.LayerKey, active bool) error {
	if fc.state.ActiveLayers[layer] == active {
		return nil
	}
	fc.state.ActiveLayers[layer] = active
	return fc.Recompute()
}

// ToggleLayer flips a layer's visibility.
func (fc *FilterCompiler) ToggleLayer(layer domain.LayerKey) error {
	return fc.SetLayerActive(layer, !fc.state.ActiveLayers[layer])
}

// Compiled returns the compiled predicate for a layer.
func (fc *FilterCompiler) Compiled(layer domain.LayerKey) (CompiledLayer, bool) {
	c, ok := fc.compiled[layer]
	return c, ok
}

// CompiledLayers returns all compiled layer predicates in priority order.
func (fc *FilterCompiler) CompiledLayers() []CompiledLayer {
	out := make([]CompiledLayer, 0, len(layerAttr)+1)
	for _, layer := range domain.CategoryLayers() {
		if c, ok := fc.compiled[layer]; ok {
			out = append(out, c)
		}
	}
	if c, ok := fc.compiled[domain.LayerRegions]; ok {
		out = append(out, c)
	}
	return out
}

// Recompute rebuilds every layer predicate from the current state. Safe to
// reapply: identical inputs compile to identical predicates.
func (fc *FilterCompiler) Recompute() error {
	var changed []domain.LayerKey

	for _, layer := range domain.CategoryLayers() {
		expr := fc.exprForLayer(layer)
		prev, had := fc.compiled[layer]
		prg, err := fc.program(expr)
		if err != nil {
			return fmt.Errorf("compiling %s filter: %w", layer, err)
		}
		next := CompiledLayer{
			Layer:   layer,
			Visible: fc.state.ActiveLayers[layer],
			Expr:    expr,
			prg:     prg,
		}
		fc.compiled[layer] = next
		if !had || prev.Expr != expr || prev.Visible != next.Visible {
			changed = append(changed, layer)
		}
	}

	// The region layer has no attribute precondition or user predicate.
	regionExpr := "true"
	prg, err := fc.program(regionExpr)
	if err != nil {
		return fmt.Errorf("compiling region filter: %w", err)
	}
	prevRegion, hadRegion := fc.compiled[domain.LayerRegions]
	region := CompiledLayer{
		Layer:   domain.LayerRegions,
		Visible: fc.state.ActiveLayers[domain.LayerRegions],
		Expr:    regionExpr,
		prg:     prg,
	}
	fc.compiled[domain.LayerRegions] = region
	if !hadRegion || prevRegion.Visible != region.Visible {
		changed = append(changed, domain.LayerRegions)
	}

	if len(changed) > 0 && fc.bus != nil {
		fc.bus.Publish(domain.LayerFiltersChangedEvent{Layers: changed})
	}
	return nil
}

// exprForLayer builds AND(hasAttributePrecondition, userPredicate); absent
// optional filters contribute identity, never false.
func (fc *FilterCompiler) exprForLayer(layer domain.LayerKey) string {
	parts := []string{fmt.Sprintf("%s in feature", strconv.Quote(layerAttr[layer]))}
	if fc.state.OwnerFilter != "" {
		parts = append(parts, fmt.Sprintf("(\"owner\" in feature && feature.owner == %s)", strconv.Quote(fc.state.OwnerFilter)))
	}
	if fc.state.PlanFilter != "" {
		parts = append(parts, fmt.Sprintf("(\"plans\" in feature && %s in feature.plans)", strconv.Quote(string(fc.state.PlanFilter))))
	}
	return strings.Join(parts, " && ")
}

func (fc *FilterCompiler) program(expr string) (cel.Program, error) {
	if prg, ok := fc.cache[expr]; ok {
		return prg, nil
	}
	ast, issues := fc.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := fc.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	fc.cache[expr] = prg
	return prg, nil
}
