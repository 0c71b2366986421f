// Package explore implements the generic filter/sort/paginate/bulk-select
// query engine shared by every tabular explore view.
package explore

import "terragrip/internal/domain"

// Operator is the closed set of filter operators.
type Operator string

const (
	OpContains Operator = "contains"
	OpEquals   Operator = "equals"
	OpGte      Operator = "gte"
	OpLte      Operator = "lte"
	OpBetween  Operator = "between"
	OpIsTrue   Operator = "isTrue"
	OpIsFalse  Operator = "isFalse"
)

// ColumnKey names a column within an entity kind.
type ColumnKey string

// Filter is one user-chosen column filter. The engine performs no
// column/operator compatibility validation; operator choices per column
// type are the caller's responsibility (see OperatorsFor).
type Filter struct {
	ID     int
	Column ColumnKey
	Op     Operator
	Value  interface{}
	// Value2 carries the upper bound for between filters.
	Value2 interface{}
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is one sort key; list order defines precedence, primary first.
type Sort struct {
	Column    ColumnKey
	Direction Direction
}

// Page is the pagination cursor. Index is 1-based.
type Page struct {
	Index int
	Size  int
}

// Query is the compiled query description consumed by a data source. The
// version is monotonically increasing per engine; results carrying an
// older version are discarded.
type Query struct {
	Entity  domain.EntityKind
	Filters []Filter
	Sorts   []Sort
	Page    Page
	Version uint64
}

// Result is a data source response. Rollups is populated for the plans
// entity kind only.
type Result struct {
	Entity  domain.EntityKind
	Version uint64
	Rows    []Row
	Total   int
	Rollups map[domain.PlanID]domain.PlanRollup
}
