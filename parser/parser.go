package parser

import (
	"fmt"

	"github.com/theosib/FineStructureScript/types"
)

// Parser builds an AST by consuming a Lexer. Internal parse* helpers
// report failure by panicking with a parseErr, recovered only at the
// public entry points (ParseProgram/ParseExpression) -- the same shape
// Go's own go/parser uses internally, and it keeps this recursive-descent
// grammar free of error-plumbing noise at every call site.
type Parser struct {
	lex    *Lexer
	in     *types.Interner
	fileID int
}

func NewParser(src []byte, fileID int, in *types.Interner) *Parser {
	return &Parser{lex: NewLexer(src, fileID), in: in, fileID: fileID}
}

type parseErr struct{ err error }

func (p *Parser) fail(loc types.SourceLocation, format string, args ...interface{}) {
	panic(parseErr{&types.ParseError{Loc: loc, Msg: fmt.Sprintf(format, args...)}})
}

func (p *Parser) peek() Token {
	t, err := p.lex.Peek()
	if err != nil {
		panic(parseErr{err})
	}
	return t
}

func (p *Parser) advance() Token {
	t, err := p.lex.Next()
	if err != nil {
		panic(parseErr{err})
	}
	return t
}

func (p *Parser) expect(tt TokenType) Token {
	t := p.advance()
	if t.Type != tt {
		p.fail(t.Loc, "expected %s, got %s", tt, t.Type)
	}
	return t
}

func (p *Parser) intern(s string) int { return p.in.InternString(s) }

// ParseProgram parses a whole source file into a Block root.
func (p *Parser) ParseProgram() (prog *Block, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(parseErr); ok {
				err = pe.err
				return
			}
			panic(r)
		}
	}()
	loc := p.peek().Loc
	stmts := p.parseStatementsUntil(EOF)
	return &Block{base: base{loc: loc}, Stmts: stmts}, nil
}

// ParseExpression is the single-expression variant for REPL/one-shot use.
func (p *Parser) ParseExpression() (n Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(parseErr); ok {
				err = pe.err
				return
			}
			panic(r)
		}
	}()
	p.skipSeparators()
	return p.parseStatement(), nil
}

func (p *Parser) skipSeparators() {
	for p.peek().Type == NEWLINE || p.peek().Type == SEMI {
		p.advance()
	}
}

func (p *Parser) parseStatementsUntil(terminators ...TokenType) []Node {
	isTerm := func(tt TokenType) bool {
		for _, t := range terminators {
			if tt == t {
				return true
			}
		}
		return false
	}
	var stmts []Node
	for {
		p.skipSeparators()
		if isTerm(p.peek().Type) || p.peek().Type == EOF {
			return stmts
		}
		stmts = append(stmts, p.parseStatement())
	}
}

func (p *Parser) parseStatement() Node {
	tok := p.peek()
	switch tok.Type {
	case SET:
		return p.parseSet()
	case LET:
		return p.parseLet()
	case FN:
		return p.parseFn()
	case IF:
		return p.parseIf()
	case FOR:
		return p.parseFor()
	case WHILE:
		return p.parseWhile()
	case MATCH:
		return p.parseMatch()
	case ON:
		return p.parseOn()
	case RETURN:
		return p.parseReturn()
	case SOURCE:
		return p.parseSource()
	case DO:
		return p.parseDoBlock()
	case QQ, QC:
		p.advance()
		op := "??"
		if tok.Type == QC {
			op = "?:"
		}
		left := p.parseAtom()
		right := p.parseAtom()
		return &Infix{base: base{loc: tok.Loc}, Op: op, Left: left, Right: right}
	default:
		return p.parsePrefixCall()
	}
}

// parsePrefixCall implements the "head atom followed by juxtaposed
// positional atoms followed by KeyName/atom named-argument pairs"
// statement form, and applies the auto-call rule when there turn out to
// be zero arguments.
func (p *Parser) parsePrefixCall() Node {
	loc := p.peek().Loc
	head := p.parseAtomRaw()

	var args []Node
	for startsAtom(p.peek().Type) {
		args = append(args, p.parseAtom())
	}

	var namedKeys []FieldRef
	var namedVals []Node
	for p.peek().Type == KEYNAME {
		kt := p.advance()
		namedKeys = append(namedKeys, FieldRef{ID: p.intern(kt.Text), Text: kt.Text})
		namedVals = append(namedVals, p.parseAtom())
	}

	if len(args) == 0 && len(namedKeys) == 0 {
		return wrapAutoCall(head)
	}
	return &Call{base: base{loc: loc}, Head: head, Args: args, NamedKeys: namedKeys, NamedVals: namedVals}
}

func wrapAutoCall(n Node) Node {
	switch n.(type) {
	case *Name, *DottedName:
		return &Call{base: base{loc: n.Loc()}, Head: n, Wrapped: true}
	}
	return n
}

func startsAtom(tt TokenType) bool {
	switch tt {
	case INT, FLOAT, STRING, STRING_INTERP_START, SYMBOL, TRUE, FALSE, NIL_LIT,
		NAME, LPAREN, LBRACE, LBRACKET, MINUS, NOT, TILDE, FN, DO:
		return true
	}
	return false
}

// ---- atoms ----

// parseAtom parses one atom and applies the auto-call rule to the result.
func (p *Parser) parseAtom() Node {
	return wrapAutoCall(p.parseAtomRaw())
}

// parseAtomRaw parses one atom, including any postfix .field/[index]
// chain, WITHOUT applying the auto-call rule. Used for call heads (which
// get wrapped separately depending on whether args follow) and for Ref's
// operand (never wrapped).
func (p *Parser) parseAtomRaw() Node {
	n := p.parsePrimaryAtom()
	for {
		tok := p.peek()
		switch {
		case tok.Type == DOT:
			p.advance()
			fieldTok := p.advance()
			if fieldTok.Text == "" {
				p.fail(fieldTok.Loc, "expected field name after '.', got %s", fieldTok.Type)
			}
			field := FieldRef{ID: p.intern(fieldTok.Text), Text: fieldTok.Text}
			if dn, ok := n.(*DottedName); ok {
				dn.Fields = append(dn.Fields, field)
			} else {
				n = &DottedName{base: base{loc: n.Loc()}, Base: n, Fields: []FieldRef{field}}
			}
		case tok.Type == LBRACKET && !tok.HasLeadingSpace:
			p.advance()
			idx := p.parseInfixExpr(0)
			p.expect(RBRACKET)
			n = &Index{base: base{loc: n.Loc()}, Base: n, Index: idx}
		default:
			return n
		}
	}
}

func (p *Parser) parsePrimaryAtom() Node {
	tok := p.peek()
	switch tok.Type {
	case INT:
		p.advance()
		var v int64
		fmt.Sscanf(tok.Literal, "%d", &v)
		return &IntLit{base: base{loc: tok.Loc}, Value: v}
	case FLOAT:
		p.advance()
		var v float64
		fmt.Sscanf(tok.Literal, "%g", &v)
		return &FloatLit{base: base{loc: tok.Loc}, Value: v}
	case STRING:
		p.advance()
		return &StringLit{base: base{loc: tok.Loc}, Value: tok.Literal}
	case STRING_INTERP_START:
		return p.parseStringInterp()
	case SYMBOL:
		p.advance()
		return &SymbolLit{base: base{loc: tok.Loc}, FieldRef: FieldRef{ID: p.intern(tok.Text), Text: tok.Text}}
	case TRUE:
		p.advance()
		return &BoolLit{base: base{loc: tok.Loc}, Value: true}
	case FALSE:
		p.advance()
		return &BoolLit{base: base{loc: tok.Loc}, Value: false}
	case NIL_LIT:
		p.advance()
		return &NilLit{base: base{loc: tok.Loc}}
	case NAME:
		p.advance()
		return &Name{base: base{loc: tok.Loc}, FieldRef: FieldRef{ID: p.intern(tok.Text), Text: tok.Text}}
	case LPAREN:
		p.advance()
		inner := p.parseInfixExpr(0)
		p.expect(RPAREN)
		return inner
	case LBRACE:
		return p.parseBraceExpr()
	case LBRACKET:
		return p.parseArrayLit()
	case MINUS:
		p.advance()
		return &UnaryNegate{base: base{loc: tok.Loc}, Operand: p.parseAtom()}
	case NOT:
		p.advance()
		return &UnaryNot{base: base{loc: tok.Loc}, Operand: p.parseAtom()}
	case TILDE:
		p.advance()
		return &Ref{base: base{loc: tok.Loc}, Operand: p.parseAtomRaw()}
	case FN:
		return p.parseFn()
	case DO:
		return p.parseDoBlock()
	}
	p.fail(tok.Loc, "unexpected token %s in expression position", tok.Type)
	return nil
}

func (p *Parser) parseStringInterp() Node {
	start := p.advance() // STRING_INTERP_START
	parts := []Node{&StringLit{base: base{loc: start.Loc}, Value: start.Literal}}
	for {
		expr := p.parseInfixExpr(0)
		parts = append(parts, expr)
		next := p.advance()
		parts = append(parts, &StringLit{base: base{loc: next.Loc}, Value: next.Literal})
		if next.Type == STRING_INTERP_END {
			break
		}
		if next.Type != STRING_INTERP_MID {
			p.fail(next.Loc, "malformed string interpolation")
		}
	}
	return &StringInterp{base: base{loc: start.Loc}, Parts: parts}
}

func (p *Parser) parseArrayLit() Node {
	start := p.expect(LBRACKET)
	var elems []Node
	for p.peek().Type != RBRACKET && p.peek().Type != EOF {
		elems = append(elems, p.parseAtom())
	}
	p.expect(RBRACKET)
	return &ArrayLit{base: base{loc: start.Loc}, Elems: elems}
}

// parseBraceExpr parses `{ ... }`: a map literal if the first token is a
// KeyName, otherwise a statement list (unwrapped if exactly one
// statement).
func (p *Parser) parseBraceExpr() Node {
	start := p.expect(LBRACE)
	p.skipSeparators()
	if p.peek().Type == RBRACE {
		p.advance()
		return &MapLit{base: base{loc: start.Loc}}
	}
	if p.peek().Type == KEYNAME {
		var keys []FieldRef
		var vals []Node
		for p.peek().Type == KEYNAME {
			kt := p.advance()
			keys = append(keys, FieldRef{ID: p.intern(kt.Text), Text: kt.Text})
			vals = append(vals, p.parseAtom())
			p.skipSeparators()
		}
		p.expect(RBRACE)
		return &MapLit{base: base{loc: start.Loc}, Keys: keys, Values: vals}
	}
	stmts := p.parseStatementsUntil(RBRACE)
	p.expect(RBRACE)
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &Block{base: base{loc: start.Loc}, Stmts: stmts}
}

func (p *Parser) parseDoBlock() Node {
	start := p.expect(DO)
	stmts := p.parseStatementsUntil(END)
	p.expect(END)
	return &Block{base: base{loc: start.Loc}, Stmts: stmts}
}

// ---- infix expressions (parenthesised expressions, index brackets,
// interpolation parts, and if/elif/while/match heads) ----

func precOf(tt TokenType) int {
	switch tt {
	case QQ, QC:
		return 1
	case OR:
		return 2
	case AND:
		return 3
	case EQEQ, NE:
		return 4
	case LT, GT, LE, GE:
		return 5
	case RANGE, RANGE_EQ:
		return 6
	case PLUS, MINUS:
		return 7
	case STAR, SLASH, PERCENT:
		return 8
	}
	return -1
}

func opText(tok Token) string {
	switch tok.Type {
	case QQ:
		return "??"
	case QC:
		return "?:"
	case OR:
		return "or"
	case AND:
		return "and"
	case EQEQ:
		return "=="
	case NE:
		return "!="
	case LT:
		return "<"
	case GT:
		return ">"
	case LE:
		return "<="
	case GE:
		return ">="
	case RANGE:
		return ".."
	case RANGE_EQ:
		return "..="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case PERCENT:
		return "%"
	}
	return tok.Type.String()
}

func (p *Parser) parseInfixExpr(minPrec int) Node {
	left := p.parseAtom()
	for {
		tok := p.peek()
		prec := precOf(tok.Type)
		if prec < 0 || prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseInfixExpr(prec + 1)
		left = &Infix{base: base{loc: tok.Loc}, Op: opText(tok), Left: left, Right: right}
	}
}

// parseRangeOrAtom parses an atom, optionally followed by a bare `..`/
// `..=` (allowed without parens specifically in `for ... in` position).
func (p *Parser) parseRangeOrAtom() Node {
	left := p.parseAtom()
	tok := p.peek()
	if tok.Type == RANGE || tok.Type == RANGE_EQ {
		p.advance()
		right := p.parseAtom()
		return &Infix{base: base{loc: tok.Loc}, Op: opText(tok), Left: left, Right: right}
	}
	return left
}

// ---- statement forms ----

func (p *Parser) parseSet() Node {
	start := p.expect(SET)
	nt := p.expect(NAME)
	path := []FieldRef{{ID: p.intern(nt.Text), Text: nt.Text}}
	for p.peek().Type == DOT {
		p.advance()
		ft := p.advance()
		path = append(path, FieldRef{ID: p.intern(ft.Text), Text: ft.Text})
	}
	val := p.parseAtom()
	return &Set{base: base{loc: start.Loc}, Path: path, Value: val}
}

func (p *Parser) parseLet() Node {
	start := p.expect(LET)
	nt := p.expect(NAME)
	val := p.parseAtom()
	return &Let{base: base{loc: start.Loc}, Name: FieldRef{ID: p.intern(nt.Text), Text: nt.Text}, Value: val}
}

func (p *Parser) parseFn() Node {
	start := p.expect(FN)
	name := ""
	if p.peek().Type == NAME {
		name = p.advance().Text
	}
	params, numRequired, defaults, rest, kwargs := p.parseParamList()
	body := p.parseAtom()
	return &Fn{
		base: base{loc: start.Loc}, Name: name, Params: params, NumRequired: numRequired,
		Defaults: defaults, RestParam: rest, KwargsParam: kwargs, Body: body,
	}
}

func (p *Parser) parseParamList() ([]FieldRef, int, []Node, *FieldRef, *FieldRef) {
	p.expect(LBRACKET)
	var params []FieldRef
	var defaults []Node
	var rest, kwargs *FieldRef
	numRequired := 0
	phase := 0 // 0=required, 1=optional, 2=after-rest, 3=done

	for p.peek().Type != RBRACKET {
		tok := p.peek()
		switch {
		case tok.Type == NAME && phase == 0:
			p.advance()
			params = append(params, FieldRef{ID: p.intern(tok.Text), Text: tok.Text})
			numRequired++
		case tok.Type == KEYNAME && phase <= 1:
			phase = 1
			p.advance()
			def := p.parseAtom()
			params = append(params, FieldRef{ID: p.intern(tok.Text), Text: tok.Text})
			defaults = append(defaults, def)
		case tok.Type == LBRACKET && phase <= 1:
			phase = 2
			p.advance()
			nt := p.expect(NAME)
			p.expect(RBRACKET)
			r := FieldRef{ID: p.intern(nt.Text), Text: nt.Text}
			rest = &r
		case tok.Type == LBRACE && phase <= 2:
			phase = 3
			p.advance()
			nt := p.expect(NAME)
			p.expect(RBRACE)
			k := FieldRef{ID: p.intern(nt.Text), Text: nt.Text}
			kwargs = &k
		default:
			p.fail(tok.Loc, "invalid parameter list ordering at %s", tok.Type)
		}
	}
	p.expect(RBRACKET)
	return params, numRequired, defaults, rest, kwargs
}

func (p *Parser) parseIf() Node {
	start := p.expect(IF)
	cond := p.parseInfixExpr(0)

	if p.peek().Type == LBRACE {
		thenBody := p.parseBraceExpr()
		var elseBody Node
		if p.peek().Type == LBRACE {
			elseBody = p.parseBraceExpr()
		}
		return &If{base: base{loc: start.Loc}, Conds: []Node{cond}, Bodies: []Node{thenBody}, Else: elseBody}
	}

	p.expect(DO)
	conds := []Node{cond}
	bodies := []Node{&Block{Stmts: p.parseStatementsUntil(ELIF, ELSE, END)}}
	for p.peek().Type == ELIF {
		p.advance()
		c := p.parseInfixExpr(0)
		p.expect(DO)
		b := &Block{Stmts: p.parseStatementsUntil(ELIF, ELSE, END)}
		conds = append(conds, c)
		bodies = append(bodies, b)
	}
	var elseBody Node
	if p.peek().Type == ELSE {
		p.advance()
		elseBody = &Block{Stmts: p.parseStatementsUntil(END)}
	}
	p.expect(END)
	return &If{base: base{loc: start.Loc}, Conds: conds, Bodies: bodies, Else: elseBody}
}

func (p *Parser) parseFor() Node {
	start := p.expect(FOR)
	nt := p.expect(NAME)
	p.expect(IN)
	iterable := p.parseRangeOrAtom()
	p.expect(DO)
	body := &Block{Stmts: p.parseStatementsUntil(END)}
	p.expect(END)
	return &For{base: base{loc: start.Loc}, Var: FieldRef{ID: p.intern(nt.Text), Text: nt.Text}, Iterable: iterable, Body: body}
}

func (p *Parser) parseWhile() Node {
	start := p.expect(WHILE)
	cond := p.parseInfixExpr(0)
	p.expect(DO)
	body := &Block{Stmts: p.parseStatementsUntil(END)}
	p.expect(END)
	return &While{base: base{loc: start.Loc}, Cond: cond, Body: body}
}

func (p *Parser) parseMatch() Node {
	start := p.expect(MATCH)
	scrutinee := p.parseInfixExpr(0)
	p.skipSeparators()
	var patterns, bodies []Node
	for p.peek().Type != END {
		patterns = append(patterns, p.parsePattern())
		bodies = append(bodies, p.parseStatement())
		p.skipSeparators()
	}
	p.expect(END)
	return &Match{base: base{loc: start.Loc}, Scrutinee: scrutinee, Patterns: patterns, Bodies: bodies}
}

func (p *Parser) parsePattern() Node {
	if p.peek().Type == WILDCARD {
		t := p.advance()
		return &Wildcard{base: base{loc: t.Loc}}
	}
	return p.parseAtom()
}

func (p *Parser) parseOn() Node {
	start := p.expect(ON)
	event := p.parseAtom()
	body := p.parseAtom()
	return &On{base: base{loc: start.Loc}, Event: event, Body: body}
}

func (p *Parser) parseReturn() Node {
	start := p.expect(RETURN)
	var val Node
	if startsAtom(p.peek().Type) {
		val = p.parseAtom()
	}
	return &Return{base: base{loc: start.Loc}, Value: val}
}

func (p *Parser) parseSource() Node {
	start := p.expect(SOURCE)
	fn := p.parseAtom()
	return &Source{base: base{loc: start.Loc}, Filename: fn}
}
