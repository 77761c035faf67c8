// Package filter selects table rows with CEL predicates.
//
// Expressions see two variables: row, a map(string, string) of the row's
// cells, and columns, the list of column names in display order. A cell the
// row does not carry is absent from row, so has(row.x) and "x" in row report
// it.
package filter

import (
	"fmt"

	"github.com/google/cel-go/cel"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/tabler/pkg/tabular"
)

// Variables visible to filter expressions.
const (
	// RowVar is the current row, a map(string, string) holding only the
	// cells the row carries.
	RowVar = "row"
	// ColumnsVar is the list of column names in display order.
	ColumnsVar = "columns"
)

// Env compiles row predicates.
type Env struct {
	env *cel.Env
}

// New creates an Env with the string, list and math extensions enabled.
func New() (*Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(RowVar, cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable(ColumnsVar, cel.ListType(cel.StringType)),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Env{env: env}, nil
}

// Predicate is a compiled boolean expression over one row.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr. The expression must produce a bool.
func (e *Env) Compile(expr string) (*Predicate, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter %q must evaluate to bool, got %s", expr, out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate against one row.
func (p *Predicate) Match(columns []string, row tabular.Row) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{
		RowVar:     map[string]string(row),
		ColumnsVar: columns,
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, want bool", p.expr, out.Value())
	}
	return b, nil
}

// Result is the outcome of applying a predicate to a set of rows.
type Result struct {
	Rows []tabular.Row
	// Errored counts rows dropped because evaluation failed on them.
	Errored int
	// FirstErr is the first evaluation error seen, if any.
	FirstErr error
}

// Apply keeps the rows of d that match. Rows whose evaluation errors are
// dropped and counted. Order is preserved.
func (p *Predicate) Apply(d tabular.Data) Result {
	res := Result{Rows: make([]tabular.Row, 0, len(d.Rows))}
	for _, row := range d.Rows {
		ok, err := p.Match(d.Columns, row)
		if err != nil {
			res.Errored++
			if res.FirstErr == nil {
				res.FirstErr = err
			}
			continue
		}
		if ok {
			res.Rows = append(res.Rows, row)
		}
	}
	return res
}
