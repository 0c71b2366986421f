package postgres

import (
	"fmt"
	"strings"

	"terragrip/internal/domain"
	"terragrip/internal/explore"
)

// entitySpec maps one entity kind onto SQL: a row source (table or
// aggregate subquery), the select list in scan order, and the column-key
// to SQL-expression mapping used for filters and sorts. Column names
// come from this table, never from user input, so identifiers are safe
// to splice into SQL text.
type entitySpec struct {
	source     string
	idColumn   string
	selectList string
	columns    map[explore.ColumnKey]string
}

var entitySpecs = map[domain.EntityKind]entitySpec{
	domain.EntityDistricts: {
		source:     "districts",
		idColumn:   "id",
		selectList: "id, name, state, county, enrollment, ell_pct, swd_pct, owner, vendors, tags",
		columns: map[explore.ColumnKey]string{
			"name":       "name",
			"state":      "state",
			"county":     "county",
			"enrollment": "enrollment",
			"ell_pct":    "ell_pct",
			"swd_pct":    "swd_pct",
			"owner":      "owner",
			"vendors":    "array_to_string(vendors, ',')",
			"tags":       "array_to_string(tags, ',')",
		},
	},
	domain.EntityActivities: {
		source:     "activities",
		idColumn:   "id",
		selectList: "id, district_id, kind, subject, owner, status, due_date",
		columns: map[explore.ColumnKey]string{
			"subject":     "subject",
			"kind":        "kind",
			"owner":       "owner",
			"status":      "status",
			"due_date":    "due_date",
			"district_id": "district_id",
		},
	},
	domain.EntityTasks: {
		source:     "tasks",
		idColumn:   "id",
		selectList: "id, plan_id, title, owner, done, due_date, priority",
		columns: map[explore.ColumnKey]string{
			"title":    "title",
			"owner":    "owner",
			"done":     "done",
			"due_date": "due_date",
			"priority": "priority",
			"plan_id":  "plan_id",
		},
	},
	domain.EntityContacts: {
		source:     "contacts",
		idColumn:   "id",
		selectList: "id, district_id, name, title, email, is_primary",
		columns: map[explore.ColumnKey]string{
			"name":        "name",
			"title":       "title",
			"email":       "email",
			"primary":     "is_primary",
			"district_id": "district_id",
		},
	},
	// Rollups are computed in the row source so filters and sorts over
	// district_count and total_enrollment work like any other column.
	domain.EntityPlans: {
		source: `(SELECT p.id, p.name, p.owner,
		COUNT(pd.district_id) AS district_count,
		COALESCE(SUM(d.enrollment), 0) AS total_enrollment
	FROM plans p
	LEFT JOIN plan_districts pd ON pd.plan_id = p.id
	LEFT JOIN districts d ON d.id = pd.district_id
	GROUP BY p.id, p.name, p.owner) plans_agg`,
		idColumn:   "id",
		selectList: "id, name, owner, district_count, total_enrollment",
		columns: map[explore.ColumnKey]string{
			"name":             "name",
			"owner":            "owner",
			"district_count":   "district_count",
			"total_enrollment": "total_enrollment",
		},
	},
}

// whereClause renders the filter list as an AND-joined WHERE body with
// $n placeholders, returning the SQL fragment and its arguments. An
// empty filter list yields an empty fragment: no filters means no
// restriction.
func whereClause(spec entitySpec, filters []explore.Filter, startArg int) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	var (
		clauses []string
		args    []interface{}
	)
	n := startArg
	for _, f := range filters {
		expr, ok := spec.columns[f.Column]
		if !ok {
			return "", nil, fmt.Errorf("unknown column %q", f.Column)
		}
		switch f.Op {
		case explore.OpContains:
			clauses = append(clauses, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", expr, n))
			args = append(args, fmt.Sprintf("%v", f.Value))
			n++
		case explore.OpEquals:
			clauses = append(clauses, fmt.Sprintf("%s = $%d", expr, n))
			args = append(args, f.Value)
			n++
		case explore.OpGte:
			clauses = append(clauses, fmt.Sprintf("%s >= $%d", expr, n))
			args = append(args, f.Value)
			n++
		case explore.OpLte:
			clauses = append(clauses, fmt.Sprintf("%s <= $%d", expr, n))
			args = append(args, f.Value)
			n++
		case explore.OpBetween:
			clauses = append(clauses, fmt.Sprintf("%s BETWEEN $%d AND $%d", expr, n, n+1))
			args = append(args, f.Value, f.Value2)
			n += 2
		case explore.OpIsTrue:
			clauses = append(clauses, fmt.Sprintf("%s = TRUE", expr))
		case explore.OpIsFalse:
			clauses = append(clauses, fmt.Sprintf("%s = FALSE", expr))
		default:
			return "", nil, fmt.Errorf("unknown operator %q", f.Op)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// orderClause renders the sort list in precedence order, with the id
// column as the final tiebreaker so pagination is stable.
func orderClause(spec entitySpec, sorts []explore.Sort) (string, error) {
	keys := make([]string, 0, len(sorts)+1)
	for _, sk := range sorts {
		expr, ok := spec.columns[sk.Column]
		if !ok {
			return "", fmt.Errorf("unknown sort column %q", sk.Column)
		}
		dir := "ASC"
		if sk.Direction == explore.Desc {
			dir = "DESC"
		}
		keys = append(keys, expr+" "+dir)
	}
	keys = append(keys, spec.idColumn+" ASC")
	return " ORDER BY " + strings.Join(keys, ", "), nil
}

// buildSelect renders the page query and its arguments.
func buildSelect(spec entitySpec, q explore.Query) (string, []interface{}, error) {
	where, args, err := whereClause(spec, q.Filters, 1)
	if err != nil {
		return "", nil, err
	}
	order, err := orderClause(spec, q.Sorts)
	if err != nil {
		return "", nil, err
	}

	sqlText := "SELECT " + spec.selectList + " FROM " + spec.source + where + order
	if q.Page.Size > 0 {
		n := len(args) + 1
		sqlText += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n, n+1)
		args = append(args, q.Page.Size, (q.Page.Index-1)*q.Page.Size)
	}
	return sqlText, args, nil
}

// buildCount renders the total-row-count query for the same filters.
func buildCount(spec entitySpec, filters []explore.Filter) (string, []interface{}, error) {
	where, args, err := whereClause(spec, filters, 1)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM " + spec.source + where, args, nil
}

// buildIDs renders the matching-id query, ignoring pagination.
func buildIDs(spec entitySpec, filters []explore.Filter) (string, []interface{}, error) {
	where, args, err := whereClause(spec, filters, 1)
	if err != nil {
		return "", nil, err
	}
	return "SELECT " + spec.idColumn + " FROM " + spec.source + where + " ORDER BY " + spec.idColumn, args, nil
}
