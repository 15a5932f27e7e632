package eval

import (
	"math"

	"github.com/theosib/FineStructureScript/parser"
	"github.com/theosib/FineStructureScript/types"
)

func (e *Evaluator) evalInfix(node *parser.Infix, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	// and/or short-circuit, so their right operand must not be evaluated
	// eagerly.
	switch node.Op {
	case "and":
		l, err := e.EvalValue(node.Left, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		if !types.Truthy(l) {
			return plain(l), nil
		}
		r, err := e.EvalValue(node.Right, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		return plain(r), nil
	case "or":
		l, err := e.EvalValue(node.Left, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		if types.Truthy(l) {
			return plain(l), nil
		}
		r, err := e.EvalValue(node.Right, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		return plain(r), nil
	case "??":
		l, err := e.EvalValue(node.Left, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		if _, isNil := l.(types.NilValue); !isNil {
			return plain(l), nil
		}
		r, err := e.EvalValue(node.Right, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		return plain(r), nil
	case "?:":
		l, err := e.EvalValue(node.Left, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		if types.Truthy(l) {
			return plain(l), nil
		}
		r, err := e.EvalValue(node.Right, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		return plain(r), nil
	}

	l, err := e.EvalValue(node.Left, scope, ctx)
	if err != nil {
		return evalResult{}, err
	}
	r, err := e.EvalValue(node.Right, scope, ctx)
	if err != nil {
		return evalResult{}, err
	}
	v, err := e.applyBinOp(node.Op, l, r, node.Loc())
	if err != nil {
		return evalResult{}, err
	}
	return plain(v), nil
}

func (e *Evaluator) applyBinOp(op string, l, r types.Value, loc types.SourceLocation) (types.Value, error) {
	switch op {
	case "==":
		return types.NewBool(l.Equal(r)), nil
	case "!=":
		return types.NewBool(!l.Equal(r)), nil
	case "<", "<=", ">", ">=":
		return compareOp(op, l, r, loc)
	case "+":
		return addOp(l, r, loc)
	case "-", "*", "/":
		return arithOp(op, l, r, loc)
	case "%":
		return modOrFormat(l, r, loc)
	case "..", "..=":
		return buildRange(op, l, r, loc)
	}
	return nil, types.NewRuntimeError(loc, "unknown operator %q", op)
}

func numericPair(l, r types.Value) (lf, rf float64, bothInt bool, ok bool) {
	li, liok := l.(types.IntValue)
	ri, riok := r.(types.IntValue)
	if liok && riok {
		return float64(li), float64(ri), true, true
	}
	lfv, lfok := toFloat(l)
	rfv, rfok := toFloat(r)
	if lfok && rfok {
		return lfv, rfv, false, true
	}
	return 0, 0, false, false
}

func toFloat(v types.Value) (float64, bool) {
	switch n := v.(type) {
	case types.IntValue:
		return float64(n), true
	case types.FloatValue:
		return float64(n), true
	}
	return 0, false
}

func compareOp(op string, l, r types.Value, loc types.SourceLocation) (types.Value, error) {
	if ls, ok := l.(*types.StringData); ok {
		rs, ok := r.(*types.StringData)
		if !ok {
			return nil, types.NewRuntimeError(loc, "cannot compare string with %s", r.Kind())
		}
		a, b := ls.String(), rs.String()
		switch op {
		case "<":
			return types.NewBool(a < b), nil
		case "<=":
			return types.NewBool(a <= b), nil
		case ">":
			return types.NewBool(a > b), nil
		default:
			return types.NewBool(a >= b), nil
		}
	}
	lf, rf, _, ok := numericPair(l, r)
	if !ok {
		return nil, types.NewRuntimeError(loc, "cannot compare %s with %s", l.Kind(), r.Kind())
	}
	switch op {
	case "<":
		return types.NewBool(lf < rf), nil
	case "<=":
		return types.NewBool(lf <= rf), nil
	case ">":
		return types.NewBool(lf > rf), nil
	default:
		return types.NewBool(lf >= rf), nil
	}
}

func addOp(l, r types.Value, loc types.SourceLocation) (types.Value, error) {
	if ls, ok := l.(*types.StringData); ok {
		rs, ok := r.(*types.StringData)
		if !ok {
			return nil, types.NewRuntimeError(loc, "cannot add string and %s", r.Kind())
		}
		return types.NewString(ls.String() + rs.String()), nil
	}
	if la, ok := l.(*types.ArrayData); ok {
		ra, ok := r.(*types.ArrayData)
		if !ok {
			return nil, types.NewRuntimeError(loc, "cannot add array and %s", r.Kind())
		}
		out := make([]types.Value, 0, len(la.Elems)+len(ra.Elems))
		out = append(out, la.Elems...)
		out = append(out, ra.Elems...)
		return types.NewArray(out), nil
	}
	return arithOp("+", l, r, loc)
}

func arithOp(op string, l, r types.Value, loc types.SourceLocation) (types.Value, error) {
	li, liok := l.(types.IntValue)
	ri, riok := r.(types.IntValue)
	if liok && riok {
		a, b := int64(li), int64(ri)
		switch op {
		case "+":
			return types.NewInt(a + b), nil
		case "-":
			return types.NewInt(a - b), nil
		case "*":
			return types.NewInt(a * b), nil
		case "/":
			if b == 0 {
				return nil, types.NewRuntimeError(loc, "division by zero")
			}
			return types.NewInt(a / b), nil
		}
	}
	lf, rf, _, ok := numericPair(l, r)
	if !ok {
		return nil, types.NewRuntimeError(loc, "cannot apply %q to %s and %s", op, l.Kind(), r.Kind())
	}
	switch op {
	case "+":
		return types.NewFloat(lf + rf), nil
	case "-":
		return types.NewFloat(lf - rf), nil
	case "*":
		return types.NewFloat(lf * rf), nil
	case "/":
		if rf == 0 {
			return nil, types.NewRuntimeError(loc, "division by zero")
		}
		return types.NewFloat(lf / rf), nil
	}
	return nil, types.NewRuntimeError(loc, "unknown arithmetic operator %q", op)
}

func modOrFormat(l, r types.Value, loc types.SourceLocation) (types.Value, error) {
	if ls, ok := l.(*types.StringData); ok {
		out, err := formatString(ls.String(), r)
		if err != nil {
			return nil, types.NewRuntimeError(loc, "%v", err)
		}
		return types.NewString(out), nil
	}
	li, liok := l.(types.IntValue)
	ri, riok := r.(types.IntValue)
	if liok && riok {
		if int64(ri) == 0 {
			return nil, types.NewRuntimeError(loc, "division by zero")
		}
		return types.NewInt(int64(li) % int64(ri)), nil
	}
	lf, rf, _, ok := numericPair(l, r)
	if !ok {
		return nil, types.NewRuntimeError(loc, "%% requires two numbers, or a string on the left")
	}
	if rf == 0 {
		return nil, types.NewRuntimeError(loc, "division by zero")
	}
	return types.NewFloat(math.Mod(lf, rf)), nil
}

func buildRange(op string, l, r types.Value, loc types.SourceLocation) (types.Value, error) {
	li, liok := l.(types.IntValue)
	ri, riok := r.(types.IntValue)
	if !liok || !riok {
		return nil, types.NewRuntimeError(loc, "range bounds must be ints")
	}
	lo, hi := int64(li), int64(ri)
	if op == "..=" {
		hi++
	}
	if hi < lo {
		return types.NewEmptyArray(), nil
	}
	out := make([]types.Value, 0, hi-lo)
	for v := lo; v < hi; v++ {
		out = append(out, types.NewInt(v))
	}
	return types.NewArray(out), nil
}
