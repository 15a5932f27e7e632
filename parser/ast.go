package parser

import "github.com/theosib/FineStructureScript/types"

// Node is any AST node. Every node carries a source location.
type Node interface {
	Loc() types.SourceLocation
}

type base struct {
	loc types.SourceLocation
}

func (b base) Loc() types.SourceLocation { return b.loc }

// FieldRef names a field/parameter by both its interned ID (for fast
// lookup) and its raw text (for diagnostics and unparsing).
type FieldRef struct {
	ID   int
	Text string
}

type IntLit struct {
	base
	Value int64
}

type FloatLit struct {
	base
	Value float64
}

type StringLit struct {
	base
	Value string
}

// StringInterp holds the fragments of an interpolated string: each
// element is either a *StringLit (literal text) or an expression node to
// be evaluated and stringified.
type StringInterp struct {
	base
	Parts []Node
}

type SymbolLit struct {
	base
	FieldRef
}

type BoolLit struct {
	base
	Value bool
}

type NilLit struct {
	base
}

// Wildcard is the `_` match pattern, which matches unconditionally.
type Wildcard struct {
	base
}

type ArrayLit struct {
	base
	Elems []Node
}

// MapLit is a brace expression whose body is a sequence of `=key atom`
// pairs.
type MapLit struct {
	base
	Keys   []FieldRef
	Values []Node
}

// Name is a bare identifier reference.
type Name struct {
	base
	FieldRef
}

// DottedName is base.a.b.c...: a base expression followed by one or more
// field accesses.
type DottedName struct {
	base
	Base   Node
	Fields []FieldRef
}

// Call is a prefix call: Head followed by positional Args and named
// (KeyName, value) pairs. Wrapped is true when this Call was synthesized
// by the auto-call rule around a bare Name/DottedName in statement or
// argument position that had no explicit arguments.
type Call struct {
	base
	Head       Node
	Args       []Node
	NamedKeys  []FieldRef
	NamedVals  []Node
	Wrapped    bool
}

type Infix struct {
	base
	Op    string
	Left  Node
	Right Node
}

type UnaryNot struct {
	base
	Operand Node
}

type UnaryNegate struct {
	base
	Operand Node
}

// Ref is `~expr`: suppresses the auto-call rule for its operand, which is
// parsed as a raw atom (never auto-call wrapped).
type Ref struct {
	base
	Operand Node
}

type Block struct {
	base
	Stmts []Node
}

type Index struct {
	base
	Base  Node
	Index Node
}

type If struct {
	base
	Conds  []Node
	Bodies []Node
	Else   Node // nil if absent
}

type For struct {
	base
	Var      FieldRef
	Iterable Node
	Body     Node
}

type While struct {
	base
	Cond Node
	Body Node
}

type Match struct {
	base
	Scrutinee Node
	Patterns  []Node
	Bodies    []Node
}

// Set assigns Value to the dotted path named by Path (Path[0] is a scope
// variable name, any further entries are map field names walked from the
// root's resolved value).
type Set struct {
	base
	Path  []FieldRef
	Value Node
}

type Let struct {
	base
	Name  FieldRef
	Value Node
}

type Fn struct {
	base
	Name         string
	Params       []FieldRef
	NumRequired  int
	Defaults     []Node // aligned to Params[NumRequired:]
	RestParam    *FieldRef
	KwargsParam  *FieldRef
	Body         Node
}

type On struct {
	base
	Event Node
	Body  Node
}

type Return struct {
	base
	Value Node // nil means Nil
}

type Source struct {
	base
	Filename Node
}
