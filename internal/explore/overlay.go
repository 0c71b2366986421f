package explore

import "terragrip/internal/domain"

// RowDiff is a pending local mutation for one row: the tag and plan edits
// applied optimistically before the server confirms them.
type RowDiff struct {
	AddTags     []string
	RemoveTags  []string
	AddPlans    []domain.PlanID
	RemovePlans []domain.PlanID
}

func (d RowDiff) empty() bool {
	return len(d.AddTags) == 0 && len(d.RemoveTags) == 0 && len(d.AddPlans) == 0 && len(d.RemovePlans) == 0
}

// Overlay applies pending local mutations on top of the last-known server
// rows. The overlay is keyed to a specific Result: the moment a different
// result reference arrives the pending diffs are cleared, by structural
// reference comparison rather than any timer.
type Overlay struct {
	baseline *Result
	pending  map[string]RowDiff
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{pending: make(map[string]RowDiff)}
}

// StageTag records a pending tag add or remove for a row.
func (o *Overlay) StageTag(rowID, tag string, add bool) {
	d := o.pending[rowID]
	if add {
		d.AddTags = appendUnique(d.AddTags, tag)
		d.RemoveTags = remove(d.RemoveTags, tag)
	} else {
		d.RemoveTags = appendUnique(d.RemoveTags, tag)
		d.AddTags = remove(d.AddTags, tag)
	}
	o.pending[rowID] = d
}

// StagePlan records a pending plan membership add or remove for a row.
func (o *Overlay) StagePlan(rowID string, plan domain.PlanID, add bool) {
	d := o.pending[rowID]
	if add {
		d.AddPlans = appendUniquePlan(d.AddPlans, plan)
		d.RemovePlans = removePlan(d.RemovePlans, plan)
	} else {
		d.RemovePlans = appendUniquePlan(d.RemovePlans, plan)
		d.AddPlans = removePlan(d.AddPlans, plan)
	}
	o.pending[rowID] = d
}

// Pending returns the pending diff for a row, if any.
func (o *Overlay) Pending(rowID string) (RowDiff, bool) {
	d, ok := o.pending[rowID]
	return d, ok && !d.empty()
}

// HasPending reports whether any diffs are staged.
func (o *Overlay) HasPending() bool {
	for _, d := range o.pending {
		if !d.empty() {
			return true
		}
	}
	return false
}

// Rebase keys the overlay to a newly accepted server result. A result
// with a different reference than the current baseline is fresh server
// state: staged diffs are dropped the moment it arrives, so diffs staged
// against the current result survive until the next one.
func (o *Overlay) Rebase(res *Result) {
	if res == o.baseline {
		return
	}
	o.baseline = res
	o.pending = make(map[string]RowDiff)
}

// Apply merges pending diffs into the given server result's district rows
// and returns the merged rows. Apply never clears state; Rebase owns the
// lifecycle.
func (o *Overlay) Apply(res *Result) []Row {
	if res == nil {
		return nil
	}
	if len(o.pending) == 0 {
		return res.Rows
	}

	out := make([]Row, len(res.Rows))
	for i, row := range res.Rows {
		out[i] = o.applyRow(row)
	}
	return out
}

func (o *Overlay) applyRow(row Row) Row {
	d, ok := o.pending[row.RowID()]
	if !ok || d.empty() {
		return row
	}
	dr, ok := row.(DistrictRow)
	if !ok {
		return row
	}

	merged := *dr.District
	merged.Tags = mergeStrings(merged.Tags, d.AddTags, d.RemoveTags)
	merged.Plans = mergePlans(merged.Plans, d.AddPlans, d.RemovePlans)
	return DistrictRow{District: &merged}
}

func mergeStrings(base, add, del []string) []string {
	out := make([]string, 0, len(base)+len(add))
	for _, v := range base {
		if !contains(del, v) {
			out = append(out, v)
		}
	}
	for _, v := range add {
		if !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func mergePlans(base, add, del []domain.PlanID) []domain.PlanID {
	out := make([]domain.PlanID, 0, len(base)+len(add))
	for _, v := range base {
		if !containsPlan(del, v) {
			out = append(out, v)
		}
	}
	for _, v := range add {
		if !containsPlan(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsPlan(list []domain.PlanID, v domain.PlanID) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string) []string {
	if contains(list, v) {
		return list
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func appendUniquePlan(list []domain.PlanID, v domain.PlanID) []domain.PlanID {
	if containsPlan(list, v) {
		return list
	}
	return append(list, v)
}

func removePlan(list []domain.PlanID, v domain.PlanID) []domain.PlanID {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
