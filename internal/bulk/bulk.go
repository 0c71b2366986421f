// Package bulk applies a staged action to a bulk selection: either a
// materialized id set or every row matching the live filters, resolved
// at mutation time.
package bulk

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
	"terragrip/internal/explore"
)

// ActionKind distinguishes what a bulk action mutates.
type ActionKind string

const (
	ActionAddTag     ActionKind = "add_tag"
	ActionRemoveTag  ActionKind = "remove_tag"
	ActionAddPlan    ActionKind = "add_plan"
	ActionRemovePlan ActionKind = "remove_plan"
)

// Action is one staged bulk mutation. Tag actions carry Tag; plan actions
// carry PlanID.
type Action struct {
	Kind   ActionKind
	Tag    string
	PlanID domain.PlanID
}

// Store is the mutation surface the service needs from a data source.
type Store interface {
	ApplyTag(ctx context.Context, ids []string, tag string, add bool) (int, error)
	ApplyPlan(ctx context.Context, ids []string, planID domain.PlanID, add bool) (int, error)
	ResolveMatching(ctx context.Context, entity domain.EntityKind, filters []explore.Filter) ([]string, error)
}

// Service applies bulk actions and publishes the outcome.
type Service struct {
	store Store
	bus   eventbus.EventBus
	log   logr.Logger
}

// NewService creates a bulk mutation service.
func NewService(store Store, bus eventbus.EventBus, log logr.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// Apply runs one action against the selection. An explicit selection uses
// its materialized ids; an all-matching selection is resolved against the
// given filters now, so rows that drifted in or out of the filter since
// the page was fetched are handled by their current state.
func (s *Service) Apply(ctx context.Context, entity domain.EntityKind, sel explore.BulkSelection, filters []explore.Filter, action Action) (int, error) {
	ids, err := s.resolve(ctx, entity, sel, filters)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var changed int
	switch action.Kind {
	case ActionAddTag:
		changed, err = s.store.ApplyTag(ctx, ids, action.Tag, true)
	case ActionRemoveTag:
		changed, err = s.store.ApplyTag(ctx, ids, action.Tag, false)
	case ActionAddPlan:
		changed, err = s.store.ApplyPlan(ctx, ids, action.PlanID, true)
	case ActionRemovePlan:
		changed, err = s.store.ApplyPlan(ctx, ids, action.PlanID, false)
	default:
		return 0, fmt.Errorf("unknown bulk action %q", action.Kind)
	}
	if err != nil {
		return 0, fmt.Errorf("bulk %s on %s: %w", action.Kind, entity, err)
	}

	s.log.Info("bulk action applied",
		"entity", string(entity), "action", string(action.Kind),
		"targeted", len(ids), "changed", changed)
	s.bus.Publish(domain.BulkAppliedEvent{
		Entity:   entity,
		Action:   string(action.Kind),
		Affected: changed,
	})
	if action.Kind == ActionAddPlan || action.Kind == ActionRemovePlan {
		s.bus.Publish(domain.PlanUpdatedEvent{PlanID: action.PlanID})
	}
	return changed, nil
}

func (s *Service) resolve(ctx context.Context, entity domain.EntityKind, sel explore.BulkSelection, filters []explore.Filter) ([]string, error) {
	switch t := sel.(type) {
	case *explore.Explicit:
		return t.IDs(), nil
	case explore.AllMatchingFilter:
		ids, err := s.store.ResolveMatching(ctx, entity, filters)
		if err != nil {
			return nil, fmt.Errorf("resolve all-matching %s: %w", entity, err)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("unknown selection %T", sel)
	}
}
