// Package engine is the host-facing façade: it owns the shared interner
// and global scope, wires the parser/eval packages together, resolves
// and caches `source`d scripts by path and mtime, and exposes the
// register/call surface a host application embeds finescript through.
package engine

import (
	"os"

	"github.com/theosib/FineStructureScript/eval"
	"github.com/theosib/FineStructureScript/parser"
	"github.com/theosib/FineStructureScript/trace"
	"github.com/theosib/FineStructureScript/types"
)

// ResourceFinder resolves a script name (as written in a `source`
// statement or passed to ExecuteFile) to a filesystem path. Hosts that
// ship scripts alongside other game/app assets supply their own finder;
// the zero value behaves as identity (name is already a path).
type ResourceFinder interface {
	Find(name string) (path string, ok bool)
}

type cacheEntry struct {
	mtime int64
	prog  *parser.Block
}

// ScriptEngine is the embeddable core. It is not safe for concurrent use
// from multiple goroutines without external synchronization, matching
// the single-threaded Scope/Interner it wraps.
type ScriptEngine struct {
	Interner  *types.Interner
	Global    *types.Scope
	Evaluator *eval.Evaluator
	Finder    ResourceFinder
	Tracer    *trace.Tracer

	cache      map[string]cacheEntry
	fileIDs    map[string]int
	nextFileID int
}

func New() *ScriptEngine {
	in := types.NewInterner()
	global := types.NewScope(nil)
	ev := eval.NewEvaluator(in)
	e := &ScriptEngine{
		Interner: in, Global: global, Evaluator: ev,
		cache: make(map[string]cacheEntry), fileIDs: make(map[string]int),
	}
	ev.Loader = e
	return e
}

// SetInterner replaces the engine's interner before any scripts have been
// parsed, for hosts that maintain one shared interner across several
// engine instances (e.g. to compare symbols cheaply by ID across them).
func (e *ScriptEngine) SetInterner(in *types.Interner) {
	e.Interner = in
	e.Evaluator.Interner = in
}

// SetTracer attaches (or, with nil, detaches) a call tracer.
func (e *ScriptEngine) SetTracer(t *trace.Tracer) {
	e.Tracer = t
	if t == nil {
		e.Evaluator.Tracer = nil
	} else {
		e.Evaluator.Tracer = t
	}
}

func (e *ScriptEngine) fileID(path string) int {
	if id, ok := e.fileIDs[path]; ok {
		return id
	}
	id := e.nextFileID
	e.nextFileID++
	e.fileIDs[path] = id
	return id
}

// NewContext creates a fresh per-invocation ExecutionContext whose scope
// chains to the engine's global scope.
func (e *ScriptEngine) NewContext() *types.ExecutionContext {
	return types.NewExecutionContext(e.Global, e.Interner)
}

func (e *ScriptEngine) Parse(src []byte, sourceName string) (*parser.Block, error) {
	p := parser.NewParser(src, e.fileID(sourceName), e.Interner)
	return p.ParseProgram()
}

// ParseExpression parses a single statement/expression for REPL and
// one-shot command use.
func (e *ScriptEngine) ParseExpression(src []byte) (parser.Node, error) {
	p := parser.NewParser(src, e.fileID("<expr>"), e.Interner)
	return p.ParseExpression()
}

func (e *ScriptEngine) Execute(src []byte, sourceName string, ctx *types.ExecutionContext) (types.Value, error) {
	prog, err := e.Parse(src, sourceName)
	if err != nil {
		return nil, err
	}
	return e.Evaluator.Eval(prog, ctx)
}

// ExecuteFile resolves, loads (with mtime-keyed caching) and runs a
// script file.
func (e *ScriptEngine) ExecuteFile(path string, ctx *types.ExecutionContext) (types.Value, error) {
	prog, err := e.Load(path)
	if err != nil {
		return nil, err
	}
	return e.Evaluator.Eval(prog, ctx)
}

// ExecuteCommand evaluates a single expression/statement in ctx, for
// interactive (REPL) use.
func (e *ScriptEngine) ExecuteCommand(src []byte, ctx *types.ExecutionContext) (types.Value, error) {
	node, err := e.ParseExpression(src)
	if err != nil {
		return nil, err
	}
	return e.Evaluator.EvalValue(node, ctx.Scope, ctx)
}

func (e *ScriptEngine) CallFunction(fn types.Value, ctx *types.ExecutionContext, args ...types.Value) (types.Value, error) {
	return e.Evaluator.Apply(fn, args, ctx, types.SourceLocation{})
}

func (e *ScriptEngine) RegisterFunction(name string, fn types.NativeFunc) {
	e.Global.Define(e.Interner.InternString(name), types.NewNativeFunction(name, fn))
}

func (e *ScriptEngine) RegisterConstant(name string, v types.Value) {
	e.Global.Define(e.Interner.InternString(name), v)
}

func (e *ScriptEngine) Intern(s string) int { return e.Interner.InternString(s) }

func (e *ScriptEngine) LookupSymbol(id int) (string, bool) {
	b, ok := e.Interner.Lookup(id)
	if !ok {
		return "", false
	}
	return string(b), true
}

// Load implements eval.SourceLoader: it resolves name through Finder (if
// set), then parses and caches by (resolved path, mtime) so a script
// `source`d from several places is only reparsed when it changes on
// disk.
func (e *ScriptEngine) Load(name string) (*parser.Block, error) {
	resolved := name
	if e.Finder != nil {
		if p, ok := e.Finder.Find(name); ok {
			resolved = p
		}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}
	mtime := info.ModTime().UnixNano()
	if ent, ok := e.cache[resolved]; ok && ent.mtime == mtime {
		return ent.prog, nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, err
	}
	prog, err := e.Parse(data, resolved)
	if err != nil {
		return nil, err
	}
	e.cache[resolved] = cacheEntry{mtime: mtime, prog: prog}
	return prog, nil
}

// RootsFinder resolves a script name by joining it to each root in
// order, returning the first path that exists on disk. It is a
// ResourceFinder a host can install; New sets no Finder, and with none
// installed names are used as given. Its Roots take the same form as
// config.EngineConfig.ScriptRoots.
type RootsFinder struct {
	Roots []string
}

func (f RootsFinder) Find(name string) (string, bool) {
	for _, root := range f.Roots {
		candidate := root + "/" + name
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// DispatchEvent invokes, in registration order, every handler registered
// (via `on`) for event in ctx's handler list, stopping at the first
// error. `on`
// itself only collects handlers; dispatch is a host-level concern, and
// this is the convenience the host is expected to call.
func (e *ScriptEngine) DispatchEvent(ctx *types.ExecutionContext, event types.Value, args ...types.Value) error {
	for _, h := range ctx.EventHandlers {
		if !h.Event.Equal(event) {
			continue
		}
		if _, err := e.CallFunction(h.Callback, ctx, args...); err != nil {
			return err
		}
	}
	return nil
}
