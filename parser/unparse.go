package parser

import (
	"strconv"
	"strings"
)

// Unparse renders an AST node back into finescript source text. It is not
// guaranteed to reproduce the original formatting (comments, blank lines,
// the exact choice between `{then}` and `do ... end` forms), but
// re-parsing its output must yield an AST that evaluates identically --
// the property parser/unparse_test.go exercises.
func Unparse(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *IntLit:
		b.WriteString(strconv.FormatInt(v.Value, 10))
	case *FloatLit:
		b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *StringLit:
		b.WriteString(strconv.Quote(v.Value))
	case *StringInterp:
		writeStringInterp(b, v)
	case *SymbolLit:
		b.WriteByte(':')
		b.WriteString(v.Text)
	case *BoolLit:
		if v.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *NilLit:
		b.WriteString("nil")
	case *Wildcard:
		b.WriteString("_")
	case *ArrayLit:
		b.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeNode(b, e)
		}
		b.WriteByte(']')
	case *MapLit:
		b.WriteString("{")
		for i, k := range v.Keys {
			b.WriteString(" =")
			b.WriteString(k.Text)
			b.WriteByte(' ')
			writeNode(b, v.Values[i])
		}
		b.WriteString(" }")
	case *Name:
		b.WriteString(v.Text)
	case *DottedName:
		writeNode(b, v.Base)
		for _, f := range v.Fields {
			b.WriteByte('.')
			b.WriteString(f.Text)
		}
	case *Call:
		writeCall(b, v)
	case *Infix:
		b.WriteByte('(')
		writeNode(b, v.Left)
		b.WriteByte(' ')
		b.WriteString(v.Op)
		b.WriteByte(' ')
		writeNode(b, v.Right)
		b.WriteByte(')')
	case *UnaryNot:
		b.WriteString("not ")
		writeNode(b, v.Operand)
	case *UnaryNegate:
		b.WriteByte('-')
		writeNode(b, v.Operand)
	case *Ref:
		b.WriteByte('~')
		writeNode(b, v.Operand)
	case *Block:
		b.WriteString("do\n")
		for _, s := range v.Stmts {
			writeNode(b, s)
			b.WriteByte('\n')
		}
		b.WriteString("end")
	case *Index:
		writeNode(b, v.Base)
		b.WriteByte('[')
		writeNode(b, v.Index)
		b.WriteByte(']')
	case *If:
		writeIf(b, v)
	case *For:
		b.WriteString("for ")
		b.WriteString(v.Var.Text)
		b.WriteString(" in ")
		writeNode(b, v.Iterable)
		b.WriteString(" do\n")
		writeBody(b, v.Body)
		b.WriteString("end")
	case *While:
		b.WriteString("while ")
		writeNode(b, v.Cond)
		b.WriteString(" do\n")
		writeBody(b, v.Body)
		b.WriteString("end")
	case *Match:
		writeMatch(b, v)
	case *Set:
		b.WriteString("set ")
		for i, f := range v.Path {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(f.Text)
		}
		b.WriteByte(' ')
		writeNode(b, v.Value)
	case *Let:
		b.WriteString("let ")
		b.WriteString(v.Name.Text)
		b.WriteByte(' ')
		writeNode(b, v.Value)
	case *Fn:
		writeFn(b, v)
	case *On:
		b.WriteString("on ")
		writeNode(b, v.Event)
		b.WriteByte(' ')
		writeNode(b, v.Body)
	case *Return:
		b.WriteString("return")
		if v.Value != nil {
			b.WriteByte(' ')
			writeNode(b, v.Value)
		}
	case *Source:
		b.WriteString("source ")
		writeNode(b, v.Filename)
	default:
		b.WriteString("<?>")
	}
}

func writeStringInterp(b *strings.Builder, v *StringInterp) {
	b.WriteByte('"')
	for _, p := range v.Parts {
		if s, ok := p.(*StringLit); ok {
			b.WriteString(s.Value)
			continue
		}
		b.WriteByte('{')
		writeNode(b, p)
		b.WriteByte('}')
	}
	b.WriteByte('"')
}

func writeCall(b *strings.Builder, v *Call) {
	writeNode(b, v.Head)
	for _, a := range v.Args {
		b.WriteByte(' ')
		writeNode(b, a)
	}
	for i, k := range v.NamedKeys {
		b.WriteString(" =")
		b.WriteString(k.Text)
		b.WriteByte(' ')
		writeNode(b, v.NamedVals[i])
	}
}

func writeBody(b *strings.Builder, body Node) {
	if block, ok := body.(*Block); ok {
		for _, s := range block.Stmts {
			writeNode(b, s)
			b.WriteByte('\n')
		}
		return
	}
	writeNode(b, body)
	b.WriteByte('\n')
}

func writeIf(b *strings.Builder, v *If) {
	b.WriteString("if ")
	writeNode(b, v.Conds[0])
	b.WriteString(" do\n")
	writeBody(b, v.Bodies[0])
	for i := 1; i < len(v.Conds); i++ {
		b.WriteString("elif ")
		writeNode(b, v.Conds[i])
		b.WriteString(" do\n")
		writeBody(b, v.Bodies[i])
	}
	if v.Else != nil {
		b.WriteString("else\n")
		writeBody(b, v.Else)
	}
	b.WriteString("end")
}

func writeMatch(b *strings.Builder, v *Match) {
	b.WriteString("match ")
	writeNode(b, v.Scrutinee)
	b.WriteByte('\n')
	for i, p := range v.Patterns {
		writeNode(b, p)
		b.WriteByte(' ')
		writeNode(b, v.Bodies[i])
		b.WriteByte('\n')
	}
	b.WriteString("end")
}

func writeFn(b *strings.Builder, v *Fn) {
	b.WriteString("fn ")
	if v.Name != "" {
		b.WriteString(v.Name)
		b.WriteByte(' ')
	}
	b.WriteByte('[')
	for i, p := range v.Params {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i >= v.NumRequired {
			b.WriteByte('=')
			b.WriteString(p.Text)
			b.WriteByte(' ')
			writeNode(b, v.Defaults[i-v.NumRequired])
		} else {
			b.WriteString(p.Text)
		}
	}
	if v.RestParam != nil {
		b.WriteString(" [")
		b.WriteString(v.RestParam.Text)
		b.WriteByte(']')
	}
	if v.KwargsParam != nil {
		b.WriteString(" {")
		b.WriteString(v.KwargsParam.Text)
		b.WriteByte('}')
	}
	b.WriteString("] ")
	writeNode(b, v.Body)
}
