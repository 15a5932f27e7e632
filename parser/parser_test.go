package parser

import (
	"testing"

	"github.com/theosib/FineStructureScript/types"
)

func parseOneStmt(t *testing.T, src string) Node {
	t.Helper()
	p := NewParser([]byte(src), 0, types.NewInterner())
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error on %q: %v", src, err)
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(prog.Stmts))
	}
	return prog.Stmts[0]
}

func TestAutoCallWrapsBareName(t *testing.T) {
	n := parseOneStmt(t, "greet")
	call, ok := n.(*Call)
	if !ok {
		t.Fatalf("expected *Call, got %T", n)
	}
	if !call.Wrapped {
		t.Error("expected Wrapped=true for a bare zero-arg name")
	}
	if _, ok := call.Head.(*Name); !ok {
		t.Errorf("expected Head to be *Name, got %T", call.Head)
	}
}

func TestAutoCallWrapsDottedName(t *testing.T) {
	n := parseOneStmt(t, "obj.greet")
	call, ok := n.(*Call)
	if !ok {
		t.Fatalf("expected *Call, got %T", n)
	}
	if !call.Wrapped {
		t.Error("expected Wrapped=true for a bare zero-arg dotted name")
	}
	if _, ok := call.Head.(*DottedName); !ok {
		t.Errorf("expected Head to be *DottedName, got %T", call.Head)
	}
}

func TestBareLiteralIsNotWrapped(t *testing.T) {
	n := parseOneStmt(t, "42")
	if _, ok := n.(*IntLit); !ok {
		t.Errorf("bare literal should not be auto-call wrapped, got %T", n)
	}
}

func TestTildeSuppressesAutoCall(t *testing.T) {
	n := parseOneStmt(t, "~greet")
	ref, ok := n.(*Ref)
	if !ok {
		t.Fatalf("expected *Ref, got %T", n)
	}
	if _, ok := ref.Operand.(*Name); !ok {
		t.Errorf("Ref's operand should be the raw *Name, got %T", ref.Operand)
	}
}

func TestExplicitArgsProduceUnwrappedCall(t *testing.T) {
	n := parseOneStmt(t, `print "hi"`)
	call, ok := n.(*Call)
	if !ok {
		t.Fatalf("expected *Call, got %T", n)
	}
	if call.Wrapped {
		t.Error("a call with explicit arguments should not be marked Wrapped")
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected one argument, got %d", len(call.Args))
	}
}

func TestIndexVsArrayLiteralArgument(t *testing.T) {
	n := parseOneStmt(t, "a[0]")
	if _, ok := n.(*Index); !ok {
		t.Errorf("a[0] should parse as *Index, got %T", n)
	}

	n = parseOneStmt(t, "a [0]")
	call, ok := n.(*Call)
	if !ok {
		t.Fatalf("a [0] should parse as a prefix call, got %T", n)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected one argument, got %d", len(call.Args))
	}
	if _, ok := call.Args[0].(*ArrayLit); !ok {
		t.Errorf("a [0]'s argument should be an *ArrayLit, got %T", call.Args[0])
	}
}

func TestFnParamListOrdering(t *testing.T) {
	n := parseOneStmt(t, "fn [a b =c 1 [rest] {kw}] a")
	fn, ok := n.(*Fn)
	if !ok {
		t.Fatalf("expected *Fn, got %T", n)
	}
	if fn.NumRequired != 2 {
		t.Errorf("expected 2 required params, got %d", fn.NumRequired)
	}
	if len(fn.Defaults) != 1 {
		t.Errorf("expected 1 default, got %d", len(fn.Defaults))
	}
	if fn.RestParam == nil || fn.RestParam.Text != "rest" {
		t.Errorf("expected rest param %q, got %v", "rest", fn.RestParam)
	}
	if fn.KwargsParam == nil || fn.KwargsParam.Text != "kw" {
		t.Errorf("expected kwargs param %q, got %v", "kw", fn.KwargsParam)
	}
}

func TestFnParamListRejectsRequiredAfterOptional(t *testing.T) {
	p := NewParser([]byte("fn [=a 1 b] a"), 0, types.NewInterner())
	if _, err := p.ParseProgram(); err == nil {
		t.Error("expected a parse error for a required parameter after an optional one")
	}
}

func TestIfOneLineAndMultiLineForms(t *testing.T) {
	n := parseOneStmt(t, "if (1 < 2) {true} {false}")
	ifn, ok := n.(*If)
	if !ok {
		t.Fatalf("expected *If, got %T", n)
	}
	if ifn.Else == nil {
		t.Error("expected an else body for the one-line if/else form")
	}

	n = parseOneStmt(t, "if (1 < 2) do\n  1\nelif (2 < 3) do\n  2\nelse\n  3\nend")
	ifn, ok = n.(*If)
	if !ok {
		t.Fatalf("expected *If for the multi-line form, got %T", n)
	}
	if len(ifn.Conds) != 2 {
		t.Errorf("expected 2 conditions (if + elif), got %d", len(ifn.Conds))
	}
	if ifn.Else == nil {
		t.Error("expected an else body for the multi-line if/elif/else form")
	}
}
