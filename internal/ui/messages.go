package ui

import (
	"time"

	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
	"terragrip/internal/explore"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer for periodic redraws
type tickMsg time.Time

// queryResultMsg carries a data source response back to the update loop.
// Entity and version identify the issuing query so errored responses can
// be matched against the engine's current version too.
type queryResultMsg struct {
	entity  domain.EntityKind
	version uint64
	result  explore.Result
	err     error
}

// bulkDoneMsg reports a completed bulk mutation
type bulkDoneMsg struct {
	affected int
	err      error
}

// tooltipHideMsg fires a scheduled tooltip hide; stale sequence numbers
// are ignored
type tooltipHideMsg struct {
	seq uint64
}

// planRowsMsg carries plan-tab rows fetched out of band
type planRowsMsg struct {
	rows []explore.Row
	err  error
}
