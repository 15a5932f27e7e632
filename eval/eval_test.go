package eval

import (
	"testing"

	"github.com/theosib/FineStructureScript/parser"
	"github.com/theosib/FineStructureScript/types"
)

// runSrc parses and evaluates src against a fresh global scope and
// context, sharing one Interner between parse and eval.
func runSrc(t *testing.T, src string) types.Value {
	t.Helper()
	in := types.NewInterner()
	p := parser.NewParser([]byte(src), 0, in)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error on %q: %v", src, err)
	}
	global := types.NewScope(nil)
	ctx := types.NewExecutionContext(global, in)
	ev := NewEvaluator(in)
	v, err := ev.Eval(prog, ctx)
	if err != nil {
		t.Fatalf("eval error on %q: %v", src, err)
	}
	return v
}

func runSrcErr(t *testing.T, src string) error {
	t.Helper()
	in := types.NewInterner()
	p := parser.NewParser([]byte(src), 0, in)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error on %q: %v", src, err)
	}
	global := types.NewScope(nil)
	ctx := types.NewExecutionContext(global, in)
	ev := NewEvaluator(in)
	_, err = ev.Eval(prog, ctx)
	return err
}

func TestEvalArithmeticPromotion(t *testing.T) {
	tests := []struct {
		src  string
		want types.Value
	}{
		{"(1 + 2)", types.NewInt(3)},
		{"(1 + 2.0)", types.NewFloat(3)},
		{"(7 / 2)", types.NewInt(3)},
		{"(7.0 / 2)", types.NewFloat(3.5)},
		{`("a" + "b")`, types.NewString("ab")},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := runSrc(t, tt.src)
			if !got.Equal(tt.want) {
				t.Errorf("%s = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvalDivisionByZeroErrors(t *testing.T) {
	if err := runSrcErr(t, "(1 / 0)"); err == nil {
		t.Error("expected an error dividing by zero")
	}
}

func TestEvalLetAndSet(t *testing.T) {
	got := runSrc(t, "let x 1\nset x (x + 1)\nx")
	if !got.Equal(types.NewInt(2)) {
		t.Errorf("got %v, want 2", got)
	}
}

func TestEvalSetWalksNestedScopeChain(t *testing.T) {
	got := runSrc(t, `
let counter 0
fn bump [] { set counter (counter + 1) }
bump
bump
counter
`)
	if !got.Equal(types.NewInt(2)) {
		t.Errorf("got %v, want 2", got)
	}
}

func TestEvalClosureCapturesLexicalScope(t *testing.T) {
	got := runSrc(t, `
fn make_adder [n] (fn [x] (x + n))
let add5 do make_adder 5 end
add5 10
`)
	if !got.Equal(types.NewInt(15)) {
		t.Errorf("got %v, want 15", got)
	}
}

func TestEvalForBindsFreshScopePerIteration(t *testing.T) {
	got := runSrc(t, `
let fns []
for i in (1..=3) do
  set fns (fns + [fn [] i])
end
let f1 fns[0]
let f2 fns[1]
let f3 fns[2]
(f1 + f2 + f3)
`)
	// each captured i keeps its own iteration's value: 1 + 2 + 3
	if !got.Equal(types.NewInt(6)) {
		t.Errorf("got %v, want 6", got)
	}
}

func TestEvalAutoMethodDispatch(t *testing.T) {
	got := runSrc(t, `
let obj { =value 41 =bump (fn [self] (self.value + 1)) }
obj.bump
`)
	if !got.Equal(types.NewInt(42)) {
		t.Errorf("got %v, want 42", got)
	}
}

func TestEvalMatchFallsThroughToWildcard(t *testing.T) {
	got := runSrc(t, `
match 5
  1 "one"
  _ "other"
end
`)
	if !got.Equal(types.NewString("other")) {
		t.Errorf("got %v, want %q", got, "other")
	}
}

func TestEvalTruthyEmptyMapAndArray(t *testing.T) {
	got := runSrc(t, `if ({}) {"truthy"} {"falsy"}`)
	if !got.Equal(types.NewString("truthy")) {
		t.Errorf("empty map should be truthy, got %v", got)
	}
	got = runSrc(t, `if ([]) {"truthy"} {"falsy"}`)
	if !got.Equal(types.NewString("truthy")) {
		t.Errorf("empty array should be truthy, got %v", got)
	}
}

func TestEvalUndefinedNameErrors(t *testing.T) {
	if err := runSrcErr(t, "nonexistent_name_xyz"); err == nil {
		t.Error("expected an error referencing an undefined name")
	}
}
