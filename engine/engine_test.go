package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theosib/FineStructureScript/types"
)

func TestEngineExecuteEvaluatesSource(t *testing.T) {
	e := New()
	ctx := e.NewContext()
	got, err := e.Execute([]byte("(1 + 2)"), "<test>", ctx)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !got.Equal(types.NewInt(3)) {
		t.Errorf("got %v, want 3", got)
	}
}

func TestEngineExecuteCommandEvaluatesSingleExpression(t *testing.T) {
	e := New()
	ctx := e.NewContext()
	got, err := e.ExecuteCommand([]byte(`"hi"`), ctx)
	if err != nil {
		t.Fatalf("ExecuteCommand error: %v", err)
	}
	if !got.Equal(types.NewString("hi")) {
		t.Errorf("got %v, want %q", got, "hi")
	}
}

func TestEngineRegisterFunctionIsCallableFromScript(t *testing.T) {
	e := New()
	e.RegisterFunction("double", func(ctx *types.ExecutionContext, args []types.Value) (types.Value, error) {
		n, ok := args[0].(types.IntValue)
		if !ok {
			return nil, nil
		}
		return types.NewInt(int64(n) * 2), nil
	})
	ctx := e.NewContext()
	got, err := e.Execute([]byte("double 21"), "<test>", ctx)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !got.Equal(types.NewInt(42)) {
		t.Errorf("got %v, want 42", got)
	}
}

func TestEngineRegisterConstantIsVisibleToAllContexts(t *testing.T) {
	e := New()
	e.RegisterConstant("ANSWER", types.NewInt(42))
	ctx := e.NewContext()
	got, err := e.Execute([]byte("ANSWER"), "<test>", ctx)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !got.Equal(types.NewInt(42)) {
		t.Errorf("got %v, want 42", got)
	}
}

func TestEngineCallFunctionInvokesAClosureValue(t *testing.T) {
	e := New()
	ctx := e.NewContext()
	fn, err := e.Execute([]byte("fn [x] (x * x)"), "<test>", ctx)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	got, err := e.CallFunction(fn, ctx, types.NewInt(6))
	if err != nil {
		t.Fatalf("CallFunction error: %v", err)
	}
	if !got.Equal(types.NewInt(36)) {
		t.Errorf("got %v, want 36", got)
	}
}

func TestEngineExecuteFileCachesByModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.fine")
	if err := os.WriteFile(path, []byte("41"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := New()
	ctx := e.NewContext()
	got, err := e.ExecuteFile(path, ctx)
	if err != nil {
		t.Fatalf("first ExecuteFile error: %v", err)
	}
	if !got.Equal(types.NewInt(41)) {
		t.Errorf("got %v, want 41", got)
	}

	first, ok := e.cache[path]
	if !ok {
		t.Fatal("expected the script to be cached after first load")
	}

	got, err = e.ExecuteFile(path, ctx)
	if err != nil {
		t.Fatalf("second ExecuteFile error: %v", err)
	}
	if !got.Equal(types.NewInt(41)) {
		t.Errorf("got %v, want 41", got)
	}
	if e.cache[path].prog != first.prog {
		t.Error("expected the cached parse tree to be reused when mtime is unchanged")
	}

	if err := os.WriteFile(path, []byte("42"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err = e.ExecuteFile(path, ctx)
	if err != nil {
		t.Fatalf("third ExecuteFile error: %v", err)
	}
	if !got.Equal(types.NewInt(42)) {
		t.Errorf("got %v, want 42 after the file changed on disk", got)
	}
}

func TestRootsFinderTriesRootsInOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	if err := os.WriteFile(filepath.Join(dirB, "shared.fine"), []byte("1"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f := RootsFinder{Roots: []string{dirA, dirB}}
	path, ok := f.Find("shared.fine")
	if !ok {
		t.Fatal("expected to find shared.fine under dirB")
	}
	if path != filepath.Join(dirB, "shared.fine") {
		t.Errorf("got %q, want the path under dirB", path)
	}

	if _, ok := f.Find("missing.fine"); ok {
		t.Error("expected not to find a nonexistent script")
	}
}

func TestEngineDispatchEventInvokesRegisteredHandlers(t *testing.T) {
	e := New()
	ctx := e.NewContext()
	_, err := e.Execute([]byte(`
let heard []
on :ping { set heard (heard + ["pong"]) }
`), "<test>", ctx)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	ping := types.SymbolValue{ID: e.Intern("ping")}
	if err := e.DispatchEvent(ctx, ping); err != nil {
		t.Fatalf("DispatchEvent error: %v", err)
	}

	got, err := e.ExecuteCommand([]byte("heard.length"), ctx)
	if err != nil {
		t.Fatalf("ExecuteCommand error: %v", err)
	}
	if !got.Equal(types.NewInt(1)) {
		t.Errorf("heard.length = %v, want 1 handler invocation", got)
	}
}
