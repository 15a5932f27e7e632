package types

// EventHandler is an {eventSymbol, callable} pair accumulated by `on`.
// Registration is a pure collection operation: nothing in the core
// dispatches these; the host iterates and invokes them via
// Engine.CallFunction.
type EventHandler struct {
	Event    Value // a Symbol
	Callback Value
}

// ExecutionContext is the per-invocation collaborator passed through
// evaluation. It owns a scope that is a child of the engine's global
// scope, a list of accumulated event handlers, and an opaque host
// user-data pointer.
//
// MaxCallDepth guards against Go stack exhaustion on runaway recursive
// scripts: exceeding it fails with a catchable *RuntimeError instead of
// crashing the process. It defaults to a generous constant and is
// checked by the evaluator's call path.
type ExecutionContext struct {
	Scope         *Scope
	EventHandlers []EventHandler
	UserData      interface{}
	MaxCallDepth  int
	callDepth     int
}

const defaultMaxCallDepth = 10000

// NewExecutionContext creates a context whose scope is a child of global,
// pre-populated with a `global` binding that is a ScopeProxyMap over the
// context's own scope (so `global.x` reaches past local `let` shadowing).
func NewExecutionContext(global *Scope, in *Interner) *ExecutionContext {
	ctxScope := NewScope(global)
	ec := &ExecutionContext{Scope: ctxScope, MaxCallDepth: defaultMaxCallDepth}
	globalID := in.InternString("global")
	ctxScope.Define(globalID, NewProxyMapData(NewScopeProxyMap(ctxScope, in)))
	return ec
}

func (ec *ExecutionContext) Get(name string, in *Interner) (Value, bool) {
	return ec.Scope.Get(in.InternString(name))
}

func (ec *ExecutionContext) Set(name string, v Value, in *Interner) {
	ec.Scope.Set(in.InternString(name), v)
}

func (ec *ExecutionContext) AddEventHandler(event, callback Value) {
	ec.EventHandlers = append(ec.EventHandlers, EventHandler{Event: event, Callback: callback})
}

// EnterCall increments the call-depth counter, failing if MaxCallDepth
// would be exceeded. LeaveCall must be called (typically via defer) to
// balance it.
func (ec *ExecutionContext) EnterCall() bool {
	if ec.MaxCallDepth > 0 && ec.callDepth >= ec.MaxCallDepth {
		return false
	}
	ec.callDepth++
	return true
}

func (ec *ExecutionContext) LeaveCall() {
	ec.callDepth--
}
