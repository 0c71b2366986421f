package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"
	celext "github.com/google/cel-go/ext"

	"terragrip/internal/explore"
)

// evaluator compiles an explore filter list into a CEL program evaluated
// against a per-row attribute map. Programs are cached by expression text.
type evaluator struct {
	env   *cel.Env
	cache map[string]cel.Program
}

func newEvaluator() (*evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
		celext.Strings(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &evaluator{env: env, cache: make(map[string]cel.Program)}, nil
}

// matchFunc returns a predicate over row maps for the filter list. An
// empty list matches everything.
func (ev *evaluator) matchFunc(filters []explore.Filter) (func(map[string]interface{}) bool, error) {
	expr := exprForFilters(filters)
	if expr == "" {
		return func(map[string]interface{}) bool { return true }, nil
	}

	prg, ok := ev.cache[expr]
	if !ok {
		ast, issues := ev.env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("compilation error: %w", issues.Err())
		}
		var err error
		prg, err = ev.env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("program error: %w", err)
		}
		ev.cache[expr] = prg
	}

	return func(row map[string]interface{}) bool {
		out, _, err := prg.Eval(map[string]interface{}{"row": row})
		if err != nil {
			// Missing or mistyped attribute: non-matching, not a failure.
			return false
		}
		b, ok := out.Value().(bool)
		return ok && b
	}, nil
}

// exprForFilters ANDs each filter's clause; filters the translator cannot
// express compile to false rather than silently matching.
func exprForFilters(filters []explore.Filter) string {
	clauses := make([]string, 0, len(filters))
	for _, f := range filters {
		clauses = append(clauses, clauseFor(f))
	}
	return strings.Join(clauses, " && ")
}

func clauseFor(f explore.Filter) string {
	col := fmt.Sprintf("row.%s", f.Column)
	switch f.Op {
	case explore.OpContains:
		return fmt.Sprintf("string(%s).lowerAscii().contains(%s)", col, quoteLower(f.Value))
	case explore.OpEquals:
		return fmt.Sprintf("%s == %s", col, literal(f.Value))
	case explore.OpGte:
		return fmt.Sprintf("double(%s) >= %s", col, numeric(f.Value))
	case explore.OpLte:
		return fmt.Sprintf("double(%s) <= %s", col, numeric(f.Value))
	case explore.OpBetween:
		return fmt.Sprintf("double(%s) >= %s && double(%s) <= %s", col, numeric(f.Value), col, numeric(f.Value2))
	case explore.OpIsTrue:
		return fmt.Sprintf("%s == true", col)
	case explore.OpIsFalse:
		return fmt.Sprintf("%s == false", col)
	default:
		return "false"
	}
}

func literal(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		return numeric(v)
	}
}

func numeric(v interface{}) string {
	switch t := v.(type) {
	case int:
		return floatLiteral(float64(t))
	case int64:
		return floatLiteral(float64(t))
	case float64:
		return floatLiteral(t)
	case float32:
		return floatLiteral(float64(t))
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// floatLiteral formats v so CEL parses it as a double: whole numbers keep
// an explicit decimal point ("40000.0"), never an int literal.
func floatLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func quoteLower(v interface{}) string {
	s, _ := v.(string)
	return strconv.Quote(strings.ToLower(s))
}
