package ui

import (
	"fmt"
	"strconv"
	"strings"

	"terragrip/internal/domain"
	"terragrip/internal/explore"
)

// parseFilter parses "column op value [value2]" into a filter. Numeric
// columns parse their values as numbers; between takes two values.
func parseFilter(reg *explore.Registry, entity domain.EntityKind, text string) (explore.Filter, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return explore.Filter{}, fmt.Errorf("expected: column op value [value2]")
	}

	col := explore.ColumnKey(fields[0])
	spec, ok := reg.Spec(entity, col)
	if !ok {
		return explore.Filter{}, fmt.Errorf("unknown column %q for %s", col, entity)
	}

	op := explore.Operator(fields[1])
	if !operatorAllowed(spec.Kind, op) {
		return explore.Filter{}, fmt.Errorf("operator %q not available for column %q", op, col)
	}

	f := explore.Filter{Column: col, Op: op}
	switch op {
	case explore.OpIsTrue, explore.OpIsFalse:
		return f, nil
	case explore.OpBetween:
		if len(fields) < 4 {
			return explore.Filter{}, fmt.Errorf("between needs two values")
		}
		lo, err := parseValue(spec.Kind, fields[2])
		if err != nil {
			return explore.Filter{}, err
		}
		hi, err := parseValue(spec.Kind, fields[3])
		if err != nil {
			return explore.Filter{}, err
		}
		f.Value, f.Value2 = lo, hi
		return f, nil
	default:
		if len(fields) < 3 {
			return explore.Filter{}, fmt.Errorf("missing value")
		}
		v, err := parseValue(spec.Kind, strings.Join(fields[2:], " "))
		if err != nil {
			return explore.Filter{}, err
		}
		f.Value = v
		return f, nil
	}
}

// parseSort parses "column [asc|desc]"; direction defaults to ascending.
func parseSort(reg *explore.Registry, entity domain.EntityKind, text string) (explore.ColumnKey, explore.Direction, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", explore.Asc, fmt.Errorf("expected: column [asc|desc]")
	}
	col := explore.ColumnKey(fields[0])
	if _, ok := reg.Spec(entity, col); !ok {
		return "", explore.Asc, fmt.Errorf("unknown column %q for %s", col, entity)
	}
	dir := explore.Asc
	if len(fields) > 1 {
		switch fields[1] {
		case "asc":
		case "desc":
			dir = explore.Desc
		default:
			return "", explore.Asc, fmt.Errorf("direction must be asc or desc")
		}
	}
	return col, dir, nil
}

// parseColumns parses a space-separated column list, validating every key
// against the entity's registry. At least one column is required.
func parseColumns(reg *explore.Registry, entity domain.EntityKind, text string) ([]explore.ColumnKey, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}
	cols := make([]explore.ColumnKey, 0, len(fields))
	for _, f := range fields {
		col := explore.ColumnKey(f)
		if _, ok := reg.Spec(entity, col); !ok {
			return nil, fmt.Errorf("unknown column %q for %s", col, entity)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func operatorAllowed(kind explore.FilterKind, op explore.Operator) bool {
	for _, allowed := range explore.OperatorsFor(kind) {
		if allowed == op {
			return true
		}
	}
	return false
}

func parseValue(kind explore.FilterKind, raw string) (interface{}, error) {
	if kind != explore.KindNumeric {
		return raw, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return n, nil
}
