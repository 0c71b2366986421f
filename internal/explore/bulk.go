package explore

import "sort"

// BulkSelection is the target of a multi-row mutation: either a
// materialized id set or a marker meaning "every row the current filter
// set would return", never both. Toggling individual ids is a method on
// the explicit representation only, so toggling while in all-matching mode
// is impossible at the type level; callers must ClearSelection first.
type BulkSelection interface {
	bulkSelection()
	// Count returns the materialized size, or -1 when the set is resolved
	// at mutation time.
	Count() int
}

// Explicit is a materialized id set.
type Explicit struct {
	ids map[string]bool
}

// NewExplicit creates an empty explicit selection.
func NewExplicit() *Explicit {
	return &Explicit{ids: make(map[string]bool)}
}

func (e *Explicit) bulkSelection() {}

// Toggle flips an id and reports whether it is selected afterwards.
func (e *Explicit) Toggle(id string) bool {
	if e.ids[id] {
		delete(e.ids, id)
		return false
	}
	e.ids[id] = true
	return true
}

// Has reports whether an id is selected.
func (e *Explicit) Has(id string) bool {
	return e.ids[id]
}

// IDs returns the selected ids in stable order.
func (e *Explicit) IDs() []string {
	out := make([]string, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of selected ids.
func (e *Explicit) Count() int {
	return len(e.ids)
}

// AllMatchingFilter marks the selection as "every row matching the live
// filters"; the bulk-mutation collaborator re-resolves the id set against
// the filters at mutation time, not against the paginated page.
type AllMatchingFilter struct{}

func (AllMatchingFilter) bulkSelection() {}

// Count returns -1: the set is not materialized.
func (AllMatchingFilter) Count() int { return -1 }
