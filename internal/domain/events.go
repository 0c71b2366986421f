package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPanelChanged        EventType = "PanelChanged"
	EventHoverChanged        EventType = "HoverChanged"
	EventSelectionChanged    EventType = "SelectionChanged"
	EventPlanBuildChanged    EventType = "PlanBuildChanged"
	EventLayerFiltersChanged EventType = "LayerFiltersChanged"
	EventCameraFitRequested  EventType = "CameraFitRequested"
	EventCameraReset         EventType = "CameraReset"
	EventQueryIssued         EventType = "QueryIssued"
	EventResultApplied       EventType = "ResultApplied"
	EventResultDiscarded     EventType = "ResultDiscarded"
	EventPlanCreated         EventType = "PlanCreated"
	EventPlanUpdated         EventType = "PlanUpdated"
	EventBulkApplied         EventType = "BulkApplied"
	EventError               EventType = "Error"
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventConfigSaved         EventType = "ConfigSaved"
	EventColumnsChanged      EventType = "ColumnsChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PanelChangedEvent is emitted when the navigation stack changes its top panel
type PanelChangedEvent struct {
	Depth int // history length after the change
}

func (e PanelChangedEvent) Type() EventType { return EventPanelChanged }

// HoverChangedEvent is emitted when the hovered feature changes identity
type HoverChangedEvent struct {
	ID       FeatureID // "" when hover cleared
	Previous FeatureID
}

func (e HoverChangedEvent) Type() EventType { return EventHoverChanged }

// SelectionChangedEvent is emitted when selectedID or multiSelect changes
type SelectionChangedEvent struct {
	SelectedID FeatureID
	MultiCount int
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// PlanBuildChangedEvent is emitted when the plan-building set changes
type PlanBuildChangedEvent struct {
	PlanID PlanID
	Count  int
}

func (e PlanBuildChangedEvent) Type() EventType { return EventPlanBuildChanged }

// LayerFiltersChangedEvent carries freshly compiled layer predicates
type LayerFiltersChangedEvent struct {
	Layers []LayerKey // layers whose compiled predicate changed
}

func (e LayerFiltersChangedEvent) Type() EventType { return EventLayerFiltersChanged }

// CameraFitRequestedEvent asks the camera controller to fit a bounding box
type CameraFitRequestedEvent struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

func (e CameraFitRequestedEvent) Type() EventType { return EventCameraFitRequested }

// CameraResetEvent asks the camera controller to return to the default extent
type CameraResetEvent struct{}

func (e CameraResetEvent) Type() EventType { return EventCameraReset }

// QueryIssuedEvent is emitted when an explore engine issues a new query version
type QueryIssuedEvent struct {
	Entity  EntityKind
	Version uint64
}

func (e QueryIssuedEvent) Type() EventType { return EventQueryIssued }

// ResultAppliedEvent is emitted when a data source result is accepted
type ResultAppliedEvent struct {
	Entity  EntityKind
	Version uint64
	Total   int
}

func (e ResultAppliedEvent) Type() EventType { return EventResultApplied }

// ResultDiscardedEvent is emitted when a stale result is dropped
type ResultDiscardedEvent struct {
	Entity  EntityKind
	Version uint64 // the stale version
	Current uint64
}

func (e ResultDiscardedEvent) Type() EventType { return EventResultDiscarded }

// PlanCreatedEvent is emitted when a plan-building session is committed
type PlanCreatedEvent struct {
	Plan Plan
}

func (e PlanCreatedEvent) Type() EventType { return EventPlanCreated }

// PlanUpdatedEvent is emitted when districts are added to or removed from a plan
type PlanUpdatedEvent struct {
	PlanID PlanID
}

func (e PlanUpdatedEvent) Type() EventType { return EventPlanUpdated }

// BulkAppliedEvent is emitted when a bulk mutation completes
type BulkAppliedEvent struct {
	Entity   EntityKind
	Action   string
	Affected int
}

func (e BulkAppliedEvent) Type() EventType { return EventBulkApplied }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ColumnsChangedEvent is emitted when an entity's visible columns change
type ColumnsChangedEvent struct {
	Entity  EntityKind
	Columns []string
}

func (e ColumnsChangedEvent) Type() EventType { return EventColumnsChanged }
