package views

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"stationery/internal/core/apperror"
	"stationery/internal/domain/reports"
)

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

func celEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("id", cel.StringType),
			cel.Variable("requesterName", cel.StringType),
			cel.Variable("campus", cel.StringType),
			cel.Variable("importDate", cel.StringType),
			cel.Variable("exportDate", cel.StringType),
			cel.Variable("status", cel.StringType),
			cel.Variable("items", cel.MapType(cel.StringType, cel.IntType)),
			cel.Variable("total", cel.IntType),
		)
	})
	return env, envErr
}

// Predicate is a compiled CEL filter expression such as
//
//	status == "Done" && items["Pen"] > 2
type Predicate struct {
	src string
	prg cel.Program
}

// Compile parses and type-checks expr. The expression must yield a bool.
func Compile(expr string) (*Predicate, error) {
	e, err := celEnv()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("cel env: %w", err))
	}

	ast, iss := e.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("field", "expr").
			WithDetail("reason", iss.Err().Error())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, apperror.NewValidation("filter expression must evaluate to a boolean").
			WithDetail("field", "expr")
	}

	prg, err := e.Program(ast)
	if err != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("field", "expr").
			WithDetail("reason", err.Error())
	}
	return &Predicate{src: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string { return p.src }

// Match evaluates p against r.
func (p *Predicate) Match(r reports.Report) (bool, error) {
	items := make(map[string]int64, len(r.Items))
	for name, qty := range r.Items {
		items[name] = int64(qty)
	}

	out, _, err := p.prg.Eval(map[string]any{
		"id":            r.ID,
		"requesterName": r.RequesterName,
		"campus":        r.Campus,
		"importDate":    r.ImportDate,
		"exportDate":    r.ExportDate,
		"status":        string(r.Status),
		"items":         items,
		"total":         int64(r.Items.Total()),
	})
	if err != nil {
		// Missing map keys surface as evaluation errors; treat them as no match.
		return false, nil
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, apperror.NewValidation("filter expression must evaluate to a boolean").
			WithDetail("field", "expr")
	}
	return matched, nil
}
