package eval

import (
	"github.com/theosib/FineStructureScript/parser"
	"github.com/theosib/FineStructureScript/types"
)

func (e *Evaluator) evalCall(node *parser.Call, scope *types.Scope, ctx *types.ExecutionContext) (evalResult, error) {
	var callee types.Value
	var implicitSelf types.Value
	var err error

	if dn, ok := node.Head.(*parser.DottedName); ok {
		callee, implicitSelf, err = e.resolveDottedName(dn, scope, ctx)
	} else {
		callee, err = e.EvalValue(node.Head, scope, ctx)
	}
	if err != nil {
		return evalResult{}, err
	}

	_, isClosure := callee.(*Closure)
	_, isNative := callee.(*types.NativeFunction)
	if node.Wrapped && !isClosure && !isNative {
		// Auto-call on a bare name/dotted-name that isn't actually
		// callable just yields the plain value.
		return plain(callee), nil
	}

	positional := make([]types.Value, 0, len(node.Args))
	for _, a := range node.Args {
		v, err := e.EvalValue(a, scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		positional = append(positional, v)
	}
	namedIDs := make([]int, len(node.NamedKeys))
	namedVals := make([]types.Value, len(node.NamedVals))
	for i, k := range node.NamedKeys {
		namedIDs[i] = k.ID
		v, err := e.EvalValue(node.NamedVals[i], scope, ctx)
		if err != nil {
			return evalResult{}, err
		}
		namedVals[i] = v
	}

	v, err := e.applyCallable(callee, implicitSelf, positional, namedIDs, namedVals, ctx, node.Loc())
	if err != nil {
		return evalResult{}, err
	}
	return plain(v), nil
}

// Apply invokes a value as a callable with no implicit receiver. It is
// the hook built-in container methods (map/filter/sort_by/foreach) use to
// call back into a script-supplied closure.
func (e *Evaluator) Apply(callee types.Value, args []types.Value, ctx *types.ExecutionContext, loc types.SourceLocation) (types.Value, error) {
	return e.applyCallable(callee, nil, args, nil, nil, ctx, loc)
}

func (e *Evaluator) applyCallable(callee, implicitSelf types.Value, positional []types.Value, namedIDs []int, namedVals []types.Value, ctx *types.ExecutionContext, loc types.SourceLocation) (types.Value, error) {
	if implicitSelf != nil {
		positional = append([]types.Value{implicitSelf}, positional...)
	}

	switch fn := callee.(type) {
	case *Closure:
		return e.callClosure(fn, positional, namedIDs, namedVals, ctx, loc)
	case *types.NativeFunction:
		if len(namedIDs) > 0 {
			kwargs := types.NewMapData(e.Interner)
			for i, id := range namedIDs {
				kwargs.Set(types.SymbolValue{ID: id}, namedVals[i])
			}
			positional = append(positional, kwargs)
		}
		v, err := fn.Fn(ctx, positional)
		if err != nil {
			if _, ok := err.(*types.RuntimeError); ok {
				return nil, err
			}
			return nil, types.NewRuntimeError(loc, "%s: %v", fn.Name, err)
		}
		return v, nil
	}
	return nil, types.NewRuntimeError(loc, "value of kind %s is not callable", callee.Kind())
}

// callClosure implements the full calling convention: positional, named,
// default, rest, and kwargs parameters.
func (e *Evaluator) callClosure(cl *Closure, positional []types.Value, namedIDs []int, namedVals []types.Value, ctx *types.ExecutionContext, loc types.SourceLocation) (types.Value, error) {
	fn := cl.Node
	fnScope := types.NewScope(cl.Scope)

	named := make(map[int]types.Value, len(namedIDs))
	for i, id := range namedIDs {
		named[id] = namedVals[i]
	}

	i := 0
	for ; i < len(fn.Params) && i < len(positional); i++ {
		fnScope.Define(fn.Params[i].ID, positional[i])
	}
	for ; i < len(fn.Params); i++ {
		p := fn.Params[i]
		if v, ok := named[p.ID]; ok {
			fnScope.Define(p.ID, v)
			delete(named, p.ID)
			continue
		}
		if i < fn.NumRequired {
			fnScope.Define(p.ID, types.Nil)
			continue
		}
		defVal, err := e.EvalValue(fn.Defaults[i-fn.NumRequired], fnScope, ctx)
		if err != nil {
			return nil, err
		}
		fnScope.Define(p.ID, defVal)
	}

	if len(positional) > len(fn.Params) {
		if fn.RestParam != nil {
			rest := positional[len(fn.Params):]
			fnScope.Define(fn.RestParam.ID, types.NewArray(append([]types.Value{}, rest...)))
		}
	} else if fn.RestParam != nil {
		fnScope.Define(fn.RestParam.ID, types.NewEmptyArray())
	}

	if fn.KwargsParam != nil {
		kw := types.NewMapData(e.Interner)
		for id, v := range named {
			kw.Set(types.SymbolValue{ID: id}, v)
		}
		fnScope.Define(fn.KwargsParam.ID, kw)
	} else if len(named) > 0 {
		return nil, types.NewRuntimeError(loc, "unexpected named argument")
	}

	if !ctx.EnterCall() {
		return nil, types.NewRuntimeError(loc, "call depth limit exceeded")
	}
	defer ctx.LeaveCall()

	if e.Tracer != nil {
		name := fn.Name
		if name == "" {
			name = "<anonymous>"
		}
		e.depth++
		e.Tracer.OnCall(name, e.depth)
		defer func() { e.depth-- }()
	}

	r, err := e.eval(fn.Body, fnScope, ctx)
	if err != nil {
		return nil, err
	}
	return r.value, nil
}
