package eval

import (
	"github.com/theosib/FineStructureScript/parser"
	"github.com/theosib/FineStructureScript/types"
)

// SourceLoader resolves a `source` statement's filename into a parsed
// program. The engine package supplies the real implementation (path
// resolution, mtime-keyed caching); eval only depends on this interface
// so it never needs to import engine.
type SourceLoader interface {
	Load(filename string) (*parser.Block, error)
}

// CallTracer receives a notification for every closure invocation, named
// by the closure's declared name (or "<anonymous>") and the current
// call-stack depth. The trace package implements this to provide
// optional, filterable call logging.
type CallTracer interface {
	OnCall(name string, depth int)
}

// Evaluator walks an AST against a Scope/ExecutionContext pair. Besides
// the injected Interner, SourceLoader and Tracer it keeps an
// unsynchronised call-depth counter that every closure call updates, so
// one Evaluator must not run several evaluations concurrently.
type Evaluator struct {
	Interner *types.Interner
	Loader   SourceLoader
	Tracer   CallTracer
	depth    int
}

func NewEvaluator(in *types.Interner) *Evaluator {
	return &Evaluator{Interner: in}
}

// evalResult threads non-local `return` control flow through eval without
// panic/recover: isReturn marks that value is a return value propagating
// out of the nearest enclosing function call, not merely this node's own
// result.
type evalResult struct {
	value    types.Value
	isReturn bool
}

func plain(v types.Value) evalResult { return evalResult{value: v} }

// Eval runs prog in ctx.Scope and returns the value of its last
// statement (or Nil for an empty program).
func (e *Evaluator) Eval(prog *parser.Block, ctx *types.ExecutionContext) (types.Value, error) {
	r, err := e.eval(prog, ctx.Scope, ctx)
	if err != nil {
		return nil, err
	}
	return r.value, nil
}

// EvalValue evaluates n and discards any return-propagation flag; used
// wherever a node is known to be a plain expression position (array
// elements, conditions, call arguments).
func (e *Evaluator) EvalValue(n parser.Node, scope *types.Scope, ctx *types.ExecutionContext) (types.Value, error) {
	r, err := e.eval(n, scope, ctx)
	if err != nil {
		return nil, err
	}
	return r.value, nil
}

func (e *Evaluator) eval(n parser.Node, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	switch node := n.(type) {

	case *parser.Block:
		return e.evalBlock(node, scope, ctx)

	case *parser.IntLit:
		return plain(types.NewInt(node.Value)), nil
	case *parser.FloatLit:
		return plain(types.NewFloat(node.Value)), nil
	case *parser.StringLit:
		return plain(types.NewString(node.Value)), nil
	case *parser.BoolLit:
		return plain(types.NewBool(node.Value)), nil
	case *parser.NilLit:
		return plain(types.Nil), nil
	case *parser.SymbolLit:
		return plain(types.NewSymbol(node.ID, e.Interner)), nil
	case *parser.Wildcard:
		return plain(types.Nil), nil

	case *parser.StringInterp:
		return e.evalStringInterp(node, scope, ctx)

	case *parser.ArrayLit:
		return e.evalArrayLit(node, scope, ctx)
	case *parser.MapLit:
		return e.evalMapLit(node, scope, ctx)

	case *parser.Name:
		v, ok := scope.Get(node.ID)
		if !ok {
			return evalResult{}, types.NewRuntimeError(node.Loc(), "undefined name %q", node.Text)
		}
		return plain(v), nil

	case *parser.DottedName:
		v, _, err := e.resolveDottedName(node, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		return plain(v), nil

	case *parser.Index:
		return e.evalIndex(node, scope, ctx)

	case *parser.Call:
		return e.evalCall(node, scope, ctx)

	case *parser.Infix:
		return e.evalInfix(node, scope, ctx)

	case *parser.UnaryNot:
		v, err := e.EvalValue(node.Operand, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		return plain(types.NewBool(!types.Truthy(v))), nil

	case *parser.UnaryNegate:
		v, err := e.EvalValue(node.Operand, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		switch nv := v.(type) {
		case types.IntValue:
			return plain(types.NewInt(-int64(nv))), nil
		case types.FloatValue:
			return plain(types.NewFloat(-float64(nv))), nil
		}
		return evalResult{}, types.NewRuntimeError(node.Loc(), "cannot negate a %s", v.Kind())

	case *parser.Ref:
		return e.eval(node.Operand, scope, ctx)

	case *parser.If:
		return e.evalIf(node, scope, ctx)
	case *parser.For:
		return e.evalFor(node, scope, ctx)
	case *parser.While:
		return e.evalWhile(node, scope, ctx)
	case *parser.Match:
		return e.evalMatch(node, scope, ctx)

	case *parser.Set:
		return e.evalSet(node, scope, ctx)
	case *parser.Let:
		v, err := e.EvalValue(node.Value, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		scope.Define(node.Name.ID, v)
		return plain(v), nil

	case *parser.Fn:
		cl := NewClosure(node, scope)
		if node.Name != "" {
			scope.Define(e.Interner.InternString(node.Name), cl)
		}
		return plain(cl), nil

	case *parser.On:
		if ctx == nil {
			return evalResult{}, types.NewRuntimeError(node.Loc(), "on requires an execution context")
		}
		event, err := e.EvalValue(node.Event, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		cl := NewClosure(&parser.Fn{Params: nil, Body: node.Body}, scope)
		ctx.AddEventHandler(event, cl)
		return plain(types.Nil), nil

	case *parser.Return:
		var v types.Value = types.Nil
		if node.Value != nil {
			var err error
			v, err = e.EvalValue(node.Value, scope, ctx)
			if err != nil {
				return evalResult{}, err
			}
		}
		return evalResult{value: v, isReturn: true}, nil

	case *parser.Source:
		return e.evalSource(node, scope, ctx)
	}

	return evalResult{}, types.NewRuntimeError(n.Loc(), "unhandled node type %T", n)
}

func (e *Evaluator) evalBlock(node *parser.Block, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	result := plain(types.Nil)
	for _, stmt := range node.Stmts {
		r, err := e.eval(stmt, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		result = r
		if r.isReturn {
			return r, nil
		}
	}
	return result, nil
}

func (e *Evaluator) evalStringInterp(node *parser.StringInterp, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	out := make([]byte, 0, 32)
	for _, part := range node.Parts {
		if lit, ok := part.(*parser.StringLit); ok {
			out = append(out, lit.Value...)
			continue
		}
		v, err := e.EvalValue(part, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		out = append(out, v.String()...)
	}
	return plain(types.NewStringBytes(out)), nil
}

func (e *Evaluator) evalArrayLit(node *parser.ArrayLit, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	elems := make([]types.Value, len(node.Elems))
	for i, el := range node.Elems {
		v, err := e.EvalValue(el, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		elems[i] = v
	}
	return plain(types.NewArray(elems)), nil
}

func (e *Evaluator) evalMapLit(node *parser.MapLit, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	m := types.NewMapData(e.Interner)
	for i, k := range node.Keys {
		v, err := e.EvalValue(node.Values[i], scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		setMapFieldAutoMethod(m, k.ID, v)
	}
	return plain(m), nil
}

// setMapFieldAutoMethod implements the auto-method rule: a closure whose
// first declared parameter is literally named "self" is flagged as a
// method on the key it's stored under.
func setMapFieldAutoMethod(m *types.MapData, id int, v types.Value) {
	key := types.SymbolValue{ID: id}
	m.Set(key, v)
	if cl, ok := v.(*Closure); ok && len(cl.Node.Params) > 0 && cl.Node.Params[0].Text == "self" {
		m.SetMethodFlag(key, true)
	} else {
		m.SetMethodFlag(key, false)
	}
}

func (e *Evaluator) evalIndex(node *parser.Index, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	base, err := e.EvalValue(node.Base, scope, ctx)
	if err != nil {
		return evalResult{}, err
	}
	idx, err := e.EvalValue(node.Index, scope, ctx)
	if err != nil {
		return evalResult{}, err
	}
	switch b := base.(type) {
	case *types.ArrayData:
		i, ok := idx.(types.IntValue)
		if !ok {
			return evalResult{}, types.NewRuntimeError(node.Loc(), "array index must be an int, got %s", idx.Kind())
		}
		v, ok := b.Get(int(i))
		if !ok {
			return evalResult{}, types.NewRuntimeError(node.Loc(), "array index %d out of range", i)
		}
		return plain(v), nil
	case *types.StringData:
		i, ok := idx.(types.IntValue)
		if !ok {
			return evalResult{}, types.NewRuntimeError(node.Loc(), "string index must be an int, got %s", idx.Kind())
		}
		s, ok := b.ByteAt(int(i))
		if !ok {
			return evalResult{}, types.NewRuntimeError(node.Loc(), "string index %d out of range", i)
		}
		return plain(types.NewString(s)), nil
	case *types.MapData:
		return plain(b.GetOrNil(idx)), nil
	}
	return evalResult{}, types.NewRuntimeError(node.Loc(), "cannot index a %s", base.Kind())
}

func (e *Evaluator) evalIf(node *parser.If, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	for i, cond := range node.Conds {
		v, err := e.EvalValue(cond, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		if types.Truthy(v) {
			return e.eval(node.Bodies[i], scope, ctx)
		}
	}
	if node.Else != nil {
		return e.eval(node.Else, scope, ctx)
	}
	return plain(types.Nil), nil
}

// evalFor creates a fresh child scope for each iteration, so closures
// created inside the loop body each capture their own binding of Var.
func (e *Evaluator) evalFor(node *parser.For, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	iterable, err := e.EvalValue(node.Iterable, scope, ctx)
	if err != nil {
		return evalResult{}, err
	}
	arr, ok := iterable.(*types.ArrayData)
	if !ok {
		return evalResult{}, types.NewRuntimeError(node.Loc(), "for loop requires an array, got %s", iterable.Kind())
	}
	for _, elem := range arr.Elems {
		iterScope := types.NewScope(scope)
		iterScope.Define(node.Var.ID, elem)
		r, err := e.eval(node.Body, iterScope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		if r.isReturn {
			return r, nil
		}
	}
	return plain(types.Nil), nil
}

func (e *Evaluator) evalWhile(node *parser.While, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	for {
		v, err := e.EvalValue(node.Cond, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		if !types.Truthy(v) {
			return plain(types.Nil), nil
		}
		r, err := e.eval(node.Body, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		if r.isReturn {
			return r, nil
		}
	}
}

func (e *Evaluator) evalMatch(node *parser.Match, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	scrutinee, err := e.EvalValue(node.Scrutinee, scope, ctx)
	if err != nil {
		return evalResult{}, err
	}
	for i, pat := range node.Patterns {
		if _, isWild := pat.(*parser.Wildcard); isWild {
			return e.eval(node.Bodies[i], scope, ctx)
		}
		pv, err := e.EvalValue(pat, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		if scrutinee.Equal(pv) {
			return e.eval(node.Bodies[i], scope, ctx)
		}
	}
	return plain(types.Nil), nil
}

func (e *Evaluator) evalSet(node *parser.Set, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	v, err := e.EvalValue(node.Value, scope, ctx)
	if err != nil {
		return evalResult{}, err
	}
	if len(node.Path) == 1 {
		scope.Set(node.Path[0].ID, v)
		return plain(v), nil
	}
	root, ok := scope.Get(node.Path[0].ID)
	if !ok {
		return evalResult{}, types.NewRuntimeError(node.Loc(), "undefined name %q", node.Path[0].Text)
	}
	cur := root
	for _, f := range node.Path[1 : len(node.Path)-1] {
		m, ok := cur.(*types.MapData)
		if !ok {
			return evalResult{}, types.NewRuntimeError(node.Loc(), "cannot set a field on a %s", cur.Kind())
		}
		cur = m.GetOrNil(types.SymbolValue{ID: f.ID})
	}
	m, ok := cur.(*types.MapData)
	if !ok {
		return evalResult{}, types.NewRuntimeError(node.Loc(), "cannot set a field on a %s", cur.Kind())
	}
	last := node.Path[len(node.Path)-1]
	setMapFieldAutoMethod(m, last.ID, v)
	return plain(v), nil
}

func (e *Evaluator) evalSource(node *parser.Source, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	if e.Loader == nil {
		return evalResult{}, types.NewRuntimeError(node.Loc(), "source statement used with no script loader configured")
	}
	fv, err := e.EvalValue(node.Filename, scope, ctx)
	if err != nil {
		return evalResult{}, err
	}
	prog, err := e.Loader.Load(fv.String())
	if err != nil {
		switch err.(type) {
		case *types.LexError, *types.ParseError:
			return evalResult{}, err
		}
		return evalResult{}, types.NewRuntimeError(node.Loc(), "cannot source %q: %v", fv.String(), err)
	}
	return e.eval(prog, scope, ctx)
}

// resolveDottedName walks node.Base.Fields, returning the final value and,
// if the last hop resolved a method on a map, the receiver it should be
// bound to when called.
func (e *Evaluator) resolveDottedName(node *parser.DottedName, scope *types.Scope, ctx *types.ExecutionContext) (types.Value, types.Value, error) {
	cur, err := e.EvalValue(node.Base, scope, ctx)
	if err != nil {
		return nil, nil, err
	}
	var implicitSelf types.Value
	for i, f := range node.Fields {
		implicitSelf = nil
		if m, ok := cur.(*types.MapData); ok {
			key := types.SymbolValue{ID: f.ID}
			if method, ok := e.mapMethod(m, f.Text); ok {
				cur = method
				continue
			}
			next := m.GetOrNil(key)
			if i == len(node.Fields)-1 && m.IsMethod(key) {
				implicitSelf = cur
			}
			cur = next
			continue
		}
		method, ok := e.lookupBuiltinMethod(cur, f.Text)
		if !ok {
			return nil, nil, types.NewRuntimeError(node.Loc(), "no field or method %q on a %s", f.Text, cur.Kind())
		}
		cur = method
	}
	return cur, implicitSelf, nil
}
