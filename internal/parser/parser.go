// Package parser builds an AST from source text with a recursive-descent parser.
//
// Grammar sketch, lowest precedence first:
//
//	program    = { statement separator }
//	statement  = if | while | for | fn | sub | return | break | continue | assignment | call | empty
//	if         = "if" expr block [ "else" block ] "end"
//	while      = "while" expr block "end"
//	for        = "for" ident [ "," ] expr block "end"
//	fn         = "fn" ident "(" params ")" ( block | "->" expr ) "end"
//	sub        = "sub" ident "(" params ")" ( block | "->" statement ) "end"
//	block      = "{" { statement separator } "}"
//	expr       = or
//	or         = and { "or" and }
//	and        = equality { "and" equality }
//	equality   = relational { ( "==" | "!=" ) relational }
//	relational = additive { ( "<" | "<=" | ">" | ">=" ) additive }
//	additive   = term { ( "+" | "-" ) term }
//	term       = unary { ( "*" | "/" | "%" ) unary }
//	unary      = ( "-" | "not" ) unary | postfix
//	postfix    = primary { "(" args ")" | "[" expr "]" | ":" primary }
//	primary    = number | boolean | string | ident | "(" expr ")" | "[" [ expr { "," expr } ] "]"
//
// Parsing stops at the first failure; there is no error recovery.
package parser

import (
	"math"

	"github.com/xyproto/aurora/internal/ast"
	"github.com/xyproto/aurora/internal/lexer"
)

// invalid marks a lookahead slot that holds a lexical error
const invalid lexer.Kind = -1

var binaryOps = map[lexer.Kind]ast.BinOp{
	lexer.Or:        ast.Or,
	lexer.And:       ast.And,
	lexer.Eq:        ast.Eq,
	lexer.NotEq:     ast.NotEq,
	lexer.Less:      ast.Less,
	lexer.LessEq:    ast.LessEq,
	lexer.Greater:   ast.Greater,
	lexer.GreaterEq: ast.GreaterEq,
	lexer.Plus:      ast.Add,
	lexer.Minus:     ast.Sub,
	lexer.Star:      ast.Mul,
	lexer.Slash:     ast.Div,
	lexer.Mod:       ast.Mod,
}

var assignOps = map[lexer.Kind]ast.AssignOp{
	lexer.Assign:      ast.Assign,
	lexer.PlusAssign:  ast.AddAssign,
	lexer.MinusAssign: ast.SubAssign,
	lexer.StarAssign:  ast.MulAssign,
	lexer.SlashAssign: ast.DivAssign,
	lexer.ModAssign:   ast.ModAssign,
}

var statementStarts = []lexer.Kind{
	lexer.If, lexer.While, lexer.For, lexer.Fn, lexer.Sub, lexer.Return,
	lexer.Break, lexer.Continue, lexer.Ident, lexer.Newline,
}

var primaryStarts = []lexer.Kind{
	lexer.Number, lexer.Boolean, lexer.String, lexer.Ident,
	lexer.LParen, lexer.LBracket, lexer.Minus, lexer.Not,
}

type Parser struct {
	lexer   *lexer.Lexer
	current lexer.Token
	peek    lexer.Token
	peekErr error
}

func New(input string) *Parser {
	return &Parser{lexer: lexer.New(input)}
}

// Parse parses a complete source unit
func Parse(input string) (*ast.Program, error) {
	return New(input).ParseProgram()
}

// ParseProgram parses the whole token stream. The returned error is always a *Error.
func (p *Parser) ParseProgram() (program *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			program, err = nil, perr
		}
	}()

	p.lexer.Reset()
	p.fill()
	p.next()

	program = &ast.Program{Statements: p.parseStatements(lexer.EOF)}
	return program, nil
}

// fill reads the next token into the lookahead slot
func (p *Parser) fill() {
	p.peek, p.peekErr = p.lexer.Next()
	if p.peekErr != nil {
		p.peek = lexer.Token{Kind: invalid}
	}
}

// next advances the window. A lexical error is only raised once the parser moves onto it,
// so that an earlier syntax error is reported first.
func (p *Parser) next() {
	if p.peekErr != nil {
		lexErr, ok := p.peekErr.(*lexer.Error)
		if !ok {
			lexErr = &lexer.Error{Kind: lexer.UnrecognizedToken, Offset: p.current.End}
		}
		panic(&Error{Kind: Lexical, Lex: lexErr})
	}
	p.current = p.peek
	p.fill()
}

// fail reports that the current token is not one of the expected symbols
func (p *Parser) fail(expected ...lexer.Kind) {
	kind := UnrecognizedToken
	if p.current.Kind == lexer.EOF {
		kind = UnexpectedEOF
	}
	panic(&Error{Kind: kind, Token: p.current, Expected: symbols(expected...)})
}

func (p *Parser) expect(kind lexer.Kind) lexer.Token {
	if p.current.Kind != kind {
		p.fail(kind)
	}
	tok := p.current
	p.next()
	return tok
}

func (p *Parser) skipNewline() {
	if p.current.Kind == lexer.Newline {
		p.next()
	}
}

// identifier consumes an identifier that is usable as a name in the generated unit
func (p *Parser) identifier() string {
	if p.current.Kind != lexer.Ident {
		p.fail(lexer.Ident)
	}
	tok := p.current
	if reserved(tok.Text) {
		panic(&Error{Kind: InvalidToken, Token: tok})
	}
	p.next()
	return tok.Text
}

// parseStatements reads separated statements until the terminator token.
// The terminator itself is left for the caller.
func (p *Parser) parseStatements(terminator lexer.Kind) []ast.Stmt {
	var statements []ast.Stmt
	for p.current.Kind != terminator {
		if p.current.Kind == lexer.Newline {
			statements = append(statements, &ast.EmptyStmt{})
			p.next()
			continue
		}
		if p.current.Kind == lexer.EOF {
			p.fail(terminator)
		}

		statements = append(statements, p.parseStatement())

		switch p.current.Kind {
		case lexer.Newline:
			p.next()
		case terminator:
		default:
			if terminator == lexer.EOF {
				panic(&Error{Kind: ExtraToken, Token: p.current})
			}
			p.fail(lexer.Newline, terminator)
		}
	}
	return statements
}

func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(lexer.LBrace)
	body := p.parseStatements(lexer.RBrace)
	p.expect(lexer.RBrace)
	return body
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.current.Kind {
	case lexer.If:
		return p.parseIf()
	case lexer.While:
		return p.parseWhile()
	case lexer.For:
		return p.parseFor()
	case lexer.Fn:
		return p.parseFunc()
	case lexer.Sub:
		return p.parseSub()
	case lexer.Return:
		return p.parseReturn()
	case lexer.Break:
		p.next()
		return &ast.BreakStmt{}
	case lexer.Continue:
		p.next()
		return &ast.ContinueStmt{}
	case lexer.Ident:
		return p.parseIdentStatement()
	}
	p.fail(statementStarts...)
	return nil
}

func (p *Parser) parseIf() ast.Stmt {
	p.next() // skip 'if'
	stmt := &ast.IfStmt{Condition: p.parseExpression()}
	stmt.Then = p.parseBlock()
	p.skipNewline()

	if p.current.Kind == lexer.Else {
		p.next()
		stmt.Else = p.parseBlock()
		p.skipNewline()
		p.expect(lexer.End)
		return stmt
	}

	if p.current.Kind != lexer.End {
		p.fail(lexer.Else, lexer.End)
	}
	p.next()
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	p.next() // skip 'while'
	stmt := &ast.WhileStmt{Condition: p.parseExpression()}
	stmt.Body = p.parseBlock()
	p.skipNewline()
	p.expect(lexer.End)
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	p.next() // skip 'for'
	stmt := &ast.ForStmt{Variable: p.identifier()}
	if p.current.Kind == lexer.Comma {
		p.next()
	}
	stmt.Iterable = p.parseExpression()
	stmt.Body = p.parseBlock()
	p.skipNewline()
	p.expect(lexer.End)
	return stmt
}

// parseSignature reads the name and parameter list shared by fn and sub
func (p *Parser) parseSignature() (string, []string) {
	name := p.identifier()
	p.expect(lexer.LParen)
	params := []string{}
	if p.current.Kind != lexer.RParen {
		for {
			params = append(params, p.identifier())
			if p.current.Kind != lexer.Comma {
				break
			}
			p.next()
		}
	}
	if p.current.Kind != lexer.RParen {
		p.fail(lexer.Comma, lexer.RParen)
	}
	p.next()
	return name, params
}

func (p *Parser) parseFunc() ast.Stmt {
	p.next() // skip 'fn'
	name, params := p.parseSignature()
	stmt := &ast.FuncStmt{Name: name, Params: params}

	switch p.current.Kind {
	case lexer.Arrow:
		p.next()
		stmt.Body = []ast.Stmt{&ast.ReturnStmt{Value: p.parseExpression()}}
	case lexer.LBrace:
		stmt.Body = p.parseBlock()
	default:
		p.fail(lexer.LBrace, lexer.Arrow)
	}
	p.skipNewline()
	p.expect(lexer.End)
	return stmt
}

func (p *Parser) parseSub() ast.Stmt {
	p.next() // skip 'sub'
	name, params := p.parseSignature()
	stmt := &ast.SubStmt{Name: name, Params: params}

	switch p.current.Kind {
	case lexer.Arrow:
		p.next()
		stmt.Body = []ast.Stmt{p.parseStatement()}
	case lexer.LBrace:
		stmt.Body = p.parseBlock()
	default:
		p.fail(lexer.LBrace, lexer.Arrow)
	}
	p.skipNewline()
	p.expect(lexer.End)
	return stmt
}

// endsStatement reports if the current token cannot begin an expression in statement position
func (p *Parser) endsStatement() bool {
	switch p.current.Kind {
	case lexer.Newline, lexer.EOF, lexer.RBrace, lexer.End:
		return true
	}
	return false
}

func (p *Parser) parseReturn() ast.Stmt {
	p.next() // skip 'return'
	if p.endsStatement() {
		return &ast.ReturnStmt{}
	}
	return &ast.ReturnStmt{Value: p.parseExpression()}
}

// parseIdentStatement handles assignment, indexed assignment and call statements
func (p *Parser) parseIdentStatement() ast.Stmt {
	nameEnd := p.current.End
	name := p.identifier()
	// "xs[0] = 1" and "f(x)" need the bracket right after the name.
	// With a space in between it starts the first argument of "print [1, 2]".
	attached := p.current.Start == nameEnd

	if op, ok := assignOps[p.current.Kind]; ok {
		p.next()
		return &ast.AssignStmt{Name: name, Operator: op, Value: p.parseExpression()}
	}

	switch {
	case p.current.Kind == lexer.LBracket && attached:
		p.next()
		index := p.parseExpression()
		p.expect(lexer.RBracket)
		p.expect(lexer.Assign)
		return &ast.IndexAssignStmt{Name: name, Index: index, Value: p.parseExpression()}
	case p.current.Kind == lexer.Colon:
		p.next()
		index := p.parsePrimary()
		p.expect(lexer.Assign)
		return &ast.IndexAssignStmt{Name: name, Index: index, Value: p.parseExpression()}
	case p.current.Kind == lexer.LParen && attached:
		return &ast.CallStmt{Name: name, Args: p.parseArgs()}
	}

	// Call without parentheses: print "a", b
	stmt := &ast.CallStmt{Name: name, Args: []ast.Expr{}}
	if p.endsStatement() {
		return stmt
	}
	for {
		stmt.Args = append(stmt.Args, p.parseExpression())
		if p.current.Kind != lexer.Comma {
			break
		}
		p.next()
	}
	return stmt
}

// parseArgs reads a parenthesized argument list, starting at '('
func (p *Parser) parseArgs() []ast.Expr {
	p.expect(lexer.LParen)
	args := []ast.Expr{}
	if p.current.Kind == lexer.RParen {
		p.next()
		return args
	}
	for {
		args = append(args, p.parseExpression())
		if p.current.Kind != lexer.Comma {
			break
		}
		p.next()
	}
	if p.current.Kind != lexer.RParen {
		p.fail(lexer.Comma, lexer.RParen)
	}
	p.next()
	return args
}

func (p *Parser) parseExpression() ast.Expr {
	return p.parseOr()
}

// parseBinary parses a left-associative level whose operands come from operand
func (p *Parser) parseBinary(operand func() ast.Expr, kinds ...lexer.Kind) ast.Expr {
	left := operand()
	for {
		matched := false
		for _, k := range kinds {
			if p.current.Kind == k {
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
		op := binaryOps[p.current.Kind]
		p.next()
		right := operand()
		left = &ast.BinaryExpr{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseOr() ast.Expr {
	return p.parseBinary(p.parseAnd, lexer.Or)
}

func (p *Parser) parseAnd() ast.Expr {
	return p.parseBinary(p.parseEquality, lexer.And)
}

func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinary(p.parseRelational, lexer.Eq, lexer.NotEq)
}

func (p *Parser) parseRelational() ast.Expr {
	return p.parseBinary(p.parseAdditive, lexer.Less, lexer.LessEq, lexer.Greater, lexer.GreaterEq)
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.parseBinary(p.parseMultiplicative, lexer.Plus, lexer.Minus)
}

func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseBinary(p.parseUnary, lexer.Star, lexer.Slash, lexer.Mod)
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.current.Kind {
	case lexer.Minus:
		p.next()
		return &ast.UnaryExpr{Operator: ast.Neg, Operand: p.parseUnary()}
	case lexer.Not:
		p.next()
		return &ast.UnaryExpr{Operator: ast.Not, Operand: p.parseUnary()}
	}
	return p.parsePostfix()
}

// parsePostfix handles chained calls and indexing: f(x)[0], xs:1
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.current.Kind {
		case lexer.LParen:
			expr = &ast.CallExpr{Callee: expr, Args: p.parseArgs()}
		case lexer.LBracket:
			p.next()
			index := p.parseExpression()
			p.expect(lexer.RBracket)
			expr = &ast.IndexExpr{Target: expr, Index: index}
		case lexer.Colon:
			p.next()
			expr = &ast.IndexExpr{Target: expr, Index: p.parsePrimary()}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.current
	switch tok.Kind {
	case lexer.Number:
		if math.IsInf(tok.Num, 0) {
			panic(&Error{Kind: InvalidToken, Token: tok})
		}
		p.next()
		return &ast.NumberExpr{Value: tok.Num}
	case lexer.Boolean:
		p.next()
		return &ast.BoolExpr{Value: tok.Bool}
	case lexer.String:
		p.next()
		return &ast.StringExpr{Value: tok.Text}
	case lexer.Ident:
		return &ast.VariableExpr{Name: p.identifier()}
	case lexer.LParen:
		p.next()
		expr := p.parseExpression()
		p.expect(lexer.RParen)
		return expr
	case lexer.LBracket:
		return p.parseList()
	}
	p.fail(primaryStarts...)
	return nil
}

// parseList reads [a, b, c]; line breaks are allowed between elements
func (p *Parser) parseList() ast.Expr {
	p.next() // skip '['
	list := &ast.ListExpr{Elements: []ast.Expr{}}
	p.skipNewline()
	for p.current.Kind != lexer.RBracket {
		list.Elements = append(list.Elements, p.parseExpression())
		p.skipNewline()
		if p.current.Kind != lexer.Comma {
			break
		}
		p.next()
		p.skipNewline()
	}
	if p.current.Kind != lexer.RBracket {
		p.fail(lexer.Comma, lexer.RBracket)
	}
	p.next()
	return list
}
