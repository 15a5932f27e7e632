package eval

import (
	"sort"

	"github.com/theosib/FineStructureScript/types"
)

// lookupBuiltinMethod resolves name against recv's built-in method set:
// Array, String and Map each expose a fixed vocabulary of dot-callable
// operations. The returned Value is always a bound
// *types.NativeFunction closing over recv, ready to be invoked by
// applyCallable with the remaining (non-self) arguments.
func (e *Evaluator) lookupBuiltinMethod(recv types.Value, name string) (types.Value, bool) {
	switch r := recv.(type) {
	case *types.ArrayData:
		return e.arrayMethod(r, name)
	case *types.StringData:
		return stringMethod(r, name)
	case *types.MapData:
		return e.mapMethod(r, name)
	}
	return nil, false
}

func native(name string, fn types.NativeFunc) types.Value {
	return types.NewNativeFunction(name, fn)
}

func argInt(args []types.Value, i int, loc types.SourceLocation) (int64, error) {
	if i >= len(args) {
		return 0, types.NewRuntimeError(loc, "missing argument %d", i)
	}
	n, ok := args[i].(types.IntValue)
	if !ok {
		return 0, types.NewRuntimeError(loc, "argument %d must be an int, got %s", i, args[i].Kind())
	}
	return int64(n), nil
}

func argString(args []types.Value, i int, loc types.SourceLocation) (string, error) {
	if i >= len(args) {
		return "", types.NewRuntimeError(loc, "missing argument %d", i)
	}
	s, ok := args[i].(*types.StringData)
	if !ok {
		return "", types.NewRuntimeError(loc, "argument %d must be a string, got %s", i, args[i].Kind())
	}
	return s.String(), nil
}

var callLoc = types.SourceLocation{}

func (e *Evaluator) arrayMethod(a *types.ArrayData, name string) (types.Value, bool) {
	switch name {
	case "length":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			return types.NewInt(int64(a.Len())), nil
		}), true
	case "push":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			a.Push(args...)
			return types.NewInt(int64(a.Len())), nil
		}), true
	case "pop":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			v, ok := a.Pop()
			if !ok {
				return nil, types.NewRuntimeError(callLoc, "cannot pop from an empty array")
			}
			return v, nil
		}), true
	case "get":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			i, err := argInt(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			v, ok := a.Get(int(i))
			if !ok {
				return types.Nil, nil
			}
			return v, nil
		}), true
	case "set":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			i, err := argInt(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			if len(args) < 2 {
				return nil, types.NewRuntimeError(callLoc, "set requires an index and a value")
			}
			if !a.Set(int(i), args[1]) {
				return nil, types.NewRuntimeError(callLoc, "array index %d out of range", i)
			}
			return args[1], nil
		}), true
	case "slice":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			start, err := argInt(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			end := int64(a.Len())
			if len(args) > 1 {
				end, err = argInt(args, 1, callLoc)
				if err != nil {
					return nil, err
				}
			}
			return a.Slice(int(start), int(end)), nil
		}), true
	case "contains":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 1 {
				return nil, types.NewRuntimeError(callLoc, "contains requires a value")
			}
			return types.NewBool(a.Contains(args[0])), nil
		}), true
	case "sort":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			sort.SliceStable(a.Elems, func(i, j int) bool {
				v, _ := compareOp("<", a.Elems[i], a.Elems[j], callLoc)
				b, _ := v.(types.BoolValue)
				return bool(b)
			})
			return a, nil
		}), true
	case "sort_by":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 1 {
				return nil, types.NewRuntimeError(callLoc, "sort_by requires a comparator")
			}
			cmp := args[0]
			var sortErr error
			sort.SliceStable(a.Elems, func(i, j int) bool {
				if sortErr != nil {
					return false
				}
				v, err := e.Apply(cmp, []types.Value{a.Elems[i], a.Elems[j]}, ctx, callLoc)
				if err != nil {
					sortErr = err
					return false
				}
				return types.Truthy(v)
			})
			if sortErr != nil {
				return nil, sortErr
			}
			return a, nil
		}), true
	case "map":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 1 {
				return nil, types.NewRuntimeError(callLoc, "map requires a function")
			}
			out := make([]types.Value, len(a.Elems))
			for i, el := range a.Elems {
				v, err := e.Apply(args[0], []types.Value{el}, ctx, callLoc)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return types.NewArray(out), nil
		}), true
	case "filter":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 1 {
				return nil, types.NewRuntimeError(callLoc, "filter requires a function")
			}
			var out []types.Value
			for _, el := range a.Elems {
				v, err := e.Apply(args[0], []types.Value{el}, ctx, callLoc)
				if err != nil {
					return nil, err
				}
				if types.Truthy(v) {
					out = append(out, el)
				}
			}
			return types.NewArray(out), nil
		}), true
	case "foreach":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 1 {
				return nil, types.NewRuntimeError(callLoc, "foreach requires a function")
			}
			for _, el := range a.Elems {
				if _, err := e.Apply(args[0], []types.Value{el}, ctx, callLoc); err != nil {
					return nil, err
				}
			}
			return types.Nil, nil
		}), true
	}
	return nil, false
}

func stringMethod(s *types.StringData, name string) (types.Value, bool) {
	switch name {
	case "length":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			return types.NewInt(int64(s.Len())), nil
		}), true
	case "get", "char_at":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			i, err := argInt(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			v, ok := s.ByteAt(int(i))
			if !ok {
				return types.Nil, nil
			}
			return types.NewString(v), nil
		}), true
	case "set":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			i, err := argInt(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			v, err := argString(args, 1, callLoc)
			if err != nil {
				return nil, err
			}
			if v == "" || !s.SetByteAt(int(i), v[0]) {
				return nil, types.NewRuntimeError(callLoc, "string index %d out of range", i)
			}
			return s, nil
		}), true
	case "push":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			v, err := argString(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			s.Push(v)
			return s, nil
		}), true
	case "insert":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			i, err := argInt(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			v, err := argString(args, 1, callLoc)
			if err != nil {
				return nil, err
			}
			if !s.InsertAt(int(i), v) {
				return nil, types.NewRuntimeError(callLoc, "string index %d out of range", i)
			}
			return s, nil
		}), true
	case "delete":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			i, err := argInt(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			n, err := argInt(args, 1, callLoc)
			if err != nil {
				return nil, err
			}
			if !s.DeleteAt(int(i), int(n)) {
				return nil, types.NewRuntimeError(callLoc, "string index %d out of range", i)
			}
			return s, nil
		}), true
	case "replace":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			oldS, err := argString(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			newS, err := argString(args, 1, callLoc)
			if err != nil {
				return nil, err
			}
			s.Replace(oldS, newS)
			return s, nil
		}), true
	case "find":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			needle, err := argString(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			start := int64(0)
			if len(args) > 1 {
				start, err = argInt(args, 1, callLoc)
				if err != nil {
					return nil, err
				}
			}
			return types.NewInt(int64(s.Find(needle, int(start)))), nil
		}), true
	case "contains":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			needle, err := argString(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			return types.NewBool(s.Contains(needle)), nil
		}), true
	case "substr":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			start, err := argInt(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			n := int64(s.Len())
			if len(args) > 1 {
				n, err = argInt(args, 1, callLoc)
				if err != nil {
					return nil, err
				}
			}
			return types.NewString(s.Substr(int(start), int(n))), nil
		}), true
	case "slice":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			start, err := argInt(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			end, err := argInt(args, 1, callLoc)
			if err != nil {
				return nil, err
			}
			return types.NewString(s.Slice(int(start), int(end))), nil
		}), true
	case "split":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			delim, err := argString(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			parts := s.Split(delim)
			out := make([]types.Value, len(parts))
			for i, p := range parts {
				out[i] = types.NewString(p)
			}
			return types.NewArray(out), nil
		}), true
	case "upper":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			return types.NewString(s.Upper()), nil
		}), true
	case "lower":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			return types.NewString(s.Lower()), nil
		}), true
	case "trim":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			return types.NewString(s.Trim()), nil
		}), true
	case "starts_with":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			p, err := argString(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			return types.NewBool(s.StartsWith(p)), nil
		}), true
	case "ends_with":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			p, err := argString(args, 0, callLoc)
			if err != nil {
				return nil, err
			}
			return types.NewBool(s.EndsWith(p)), nil
		}), true
	}
	return nil, false
}

func (e *Evaluator) mapMethod(m *types.MapData, name string) (types.Value, bool) {
	switch name {
	case "get":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 1 {
				return nil, types.NewRuntimeError(callLoc, "get requires a key")
			}
			return m.GetOrNil(args[0]), nil
		}), true
	case "set":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 2 {
				return nil, types.NewRuntimeError(callLoc, "set requires a key and a value")
			}
			sym, ok := args[0].(types.SymbolValue)
			if !ok {
				return nil, types.NewRuntimeError(callLoc, "map key must be a symbol")
			}
			setMapFieldAutoMethod(m, sym.ID, args[1])
			return args[1], nil
		}), true
	case "has":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 1 {
				return nil, types.NewRuntimeError(callLoc, "has requires a key")
			}
			return types.NewBool(m.Has(args[0])), nil
		}), true
	case "remove":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 1 {
				return nil, types.NewRuntimeError(callLoc, "remove requires a key")
			}
			return types.NewBool(m.Remove(args[0])), nil
		}), true
	case "keys":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			return types.NewArray(m.Keys()), nil
		}), true
	case "values":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			keys := m.Keys()
			out := make([]types.Value, len(keys))
			for i, k := range keys {
				out[i] = m.GetOrNil(k)
			}
			return types.NewArray(out), nil
		}), true
	case "setMethod":
		return native(name, func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
			if len(args) < 2 {
				return nil, types.NewRuntimeError(callLoc, "setMethod requires a key and a value")
			}
			m.Set(args[0], args[1])
			m.SetMethodFlag(args[0], true)
			return args[1], nil
		}), true
	}
	return nil, false
}
