package lox

// Parser is a recursive-descent parser producing an Ast from a token
// stream. It reports syntax errors through the Reporter and recovers by
// synchronizing at the next statement boundary, so a single malformed
// statement does not abort parsing of the rest of the file.
type Parser struct {
	tokens   []Token
	current  int
	reporter Reporter
}

// NewParser prepares a Parser over tokens (as produced by Scanner.ScanTokens,
// including its trailing EOF marker).
func NewParser(tokens []Token, reporter Reporter) *Parser {
	return &Parser{tokens: tokens, reporter: reporter}
}

// Parse runs the parser to completion, returning every declaration it could
// recover. Callers should check reporter.HadError() before trusting the
// result — a program with syntax errors still returns as much of the Ast as
// parsing could reconstruct around them, matching the book's REPL-friendly
// error recovery.
func (p *Parser) Parse() []Declaration {
	var decls []Declaration
	for !p.isAtEnd() {
		if d := p.declaration(); d != nil {
			decls = append(decls, d)
		}
	}
	return decls
}

func (p *Parser) declaration() Declaration {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*ParseError); ok {
				p.synchronize()
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.matchType(Class):
		return p.classDeclaration()
	case p.matchType(Fun):
		return p.function("function")
	case p.matchType(Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() Declaration {
	name := p.consume(Identifier, "Expect class name.")

	var superclass *VariableExpr
	if p.matchType(Less) {
		superName := p.consume(Identifier, "Expect superclass name.")
		superclass = &VariableExpr{Name: superName}
	}

	p.consume(LeftBrace, "Expect '{' before class body.")

	methods := make(map[string]*FunDecl)
	var order []string
	for !p.check(RightBrace) && !p.isAtEnd() {
		m := p.function("method").(*FunDecl)
		methods[m.Name.Lexeme] = m
		order = append(order, m.Name.Lexeme)
	}

	p.consume(RightBrace, "Expect '}' after class body.")

	return &ClassDecl{Name: name, Superclass: superclass, Methods: methods, MethodOrder: order}
}

func (p *Parser) function(kind string) Declaration {
	name := p.consume(Identifier, "Expect "+kind+" name.")
	p.consume(LeftParen, "Expect '(' after "+kind+" name.")

	var params []Token
	if !p.check(RightParen) {
		for {
			if len(params) >= 255 {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(Identifier, "Expect parameter name."))
			if !p.matchType(Comma) {
				break
			}
		}
	}
	p.consume(RightParen, "Expect ')' after parameters.")

	p.consume(LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &FunDecl{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() Declaration {
	name := p.consume(Identifier, "Expect variable name.")

	var initializer Expr
	if p.matchType(Equal) {
		initializer = p.expression()
	}

	p.consume(Semicolon, "Expect ';' after variable declaration.")
	return &VarDecl{Name: name, Initializer: initializer}
}

func (p *Parser) statement() Declaration {
	switch {
	case p.matchType(For):
		return p.forStatement()
	case p.matchType(If):
		return p.ifStatement()
	case p.matchType(Print):
		return p.printStatement()
	case p.matchType(Return):
		return p.returnStatement()
	case p.matchType(While):
		return p.whileStatement()
	case p.matchType(LeftBrace):
		return &Block{Decls: p.block()}
	default:
		return p.exprStatement()
	}
}

// forStatement desugars the C-style for loop into a Block wrapping an
// optional initializer and a While whose body re-appends the increment, per
// the book's "syntactic sugar" treatment — no dedicated For node survives
// into the Ast.
func (p *Parser) forStatement() Declaration {
	p.consume(LeftParen, "Expect '(' after 'for'.")

	var initializer Declaration
	switch {
	case p.matchType(Semicolon):
		initializer = nil
	case p.matchType(Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.exprStatement()
	}

	var condition Expr
	if !p.check(Semicolon) {
		condition = p.expression()
	}
	p.consume(Semicolon, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(RightParen) {
		increment = p.expression()
	}
	p.consume(RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &Block{Decls: []Declaration{body, &ExprStmt{Expr: increment}}}
	}
	if condition == nil {
		condition = &Literal{Token: Token{Type: True, Lexeme: "true"}}
	}
	body = &While{Cond: condition, Body: body}

	if initializer != nil {
		body = &Block{Decls: []Declaration{initializer, body}}
	}
	return body
}

func (p *Parser) ifStatement() Declaration {
	p.consume(LeftParen, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch Declaration
	if p.matchType(Else) {
		elseBranch = p.statement()
	}
	return &If{Cond: cond, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) printStatement() Declaration {
	expr := p.expression()
	p.consume(Semicolon, "Expect ';' after value.")
	return &Print{Expr: expr}
}

func (p *Parser) returnStatement() Declaration {
	keyword := p.previous()
	var value Expr
	if !p.check(Semicolon) {
		value = p.expression()
	}
	p.consume(Semicolon, "Expect ';' after return value.")
	return &Return{Keyword: keyword, Expr: value}
}

func (p *Parser) whileStatement() Declaration {
	p.consume(LeftParen, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &While{Cond: cond, Body: body}
}

func (p *Parser) block() []Declaration {
	var decls []Declaration
	for !p.check(RightBrace) && !p.isAtEnd() {
		if d := p.declaration(); d != nil {
			decls = append(decls, d)
		}
	}
	p.consume(RightBrace, "Expect '}' after block.")
	return decls
}

func (p *Parser) exprStatement() Declaration {
	expr := p.expression()
	p.consume(Semicolon, "Expect ';' after expression.")
	return &ExprStmt{Expr: expr}
}

func (p *Parser) expression() Expr {
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	expr := p.or()

	if p.matchType(Equal) {
		equals := p.previous()
		value := p.assignment()

		switch e := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: e.Name, Value: value}
		case *GetExpr:
			return &SetExpr{Object: e.Object, Name: e.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return expr
		}
	}
	return expr
}

func (p *Parser) or() Expr {
	expr := p.and()
	for p.matchType(Or) {
		op := p.previous()
		right := p.and()
		expr = &LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) and() Expr {
	expr := p.equality()
	for p.matchType(And) {
		op := p.previous()
		right := p.equality()
		expr = &LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.matchType(BangEqual, EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.matchType(Greater, GreaterEqual, Less, LessEqual) {
		op := p.previous()
		right := p.term()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) term() Expr {
	expr := p.factor()
	for p.matchType(Minus, Plus) {
		op := p.previous()
		right := p.factor()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.matchType(Slash, Star) {
		op := p.previous()
		right := p.unary()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.matchType(Bang, Minus) {
		op := p.previous()
		right := p.unary()
		return &UnaryExpr{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()

	for {
		switch {
		case p.matchType(LeftParen):
			expr = p.finishCall(expr)
		case p.matchType(Dot):
			name := p.consume(Identifier, "Expect property name after '.'.")
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

// finishCall parses the comma-separated argument list. The loop condition
// is "keep going while a comma was just consumed" — not "stop at the first
// comma" — so `f(1, 2, 3)` correctly collects all three arguments instead of
// bailing out after the first.
func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(RightParen) {
		for {
			if len(args) >= 255 {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.matchType(Comma) {
				break
			}
		}
	}
	paren := p.consume(RightParen, "Expect ')' after arguments.")
	return &CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.matchType(False):
		return &Literal{Token: p.previous()}
	case p.matchType(True):
		return &Literal{Token: p.previous()}
	case p.matchType(Nil):
		return &Literal{Token: p.previous()}
	case p.matchType(Number, String):
		return &Literal{Token: p.previous()}
	case p.matchType(Super):
		keyword := p.previous()
		p.consume(Dot, "Expect '.' after 'super'.")
		method := p.consume(Identifier, "Expect superclass method name.")
		return &SuperExpr{Keyword: keyword, Method: method}
	case p.matchType(This):
		return &ThisExpr{Keyword: p.previous()}
	case p.matchType(Identifier):
		return &VariableExpr{Name: p.previous()}
	case p.matchType(LeftParen):
		lparen := p.previous()
		expr := p.expression()
		p.consume(RightParen, "Expect ')' after expression.")
		return &GroupingExpr{LParen: lparen, Inner: expr}
	default:
		panic(p.errorAt(p.peek(), "Expect expression."))
	}
}

// synchronize discards tokens until it reaches a plausible statement
// boundary, so one malformed statement doesn't cascade into spurious errors
// for the rest of the file.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == Semicolon {
			return
		}
		switch p.peek().Type {
		case Class, Fun, Var, For, If, While, Print, Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) matchType(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) consume(t TokenType, message string) Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), message))
}

func (p *Parser) errorAt(token Token, message string) *ParseError {
	p.reporter.ErrorAt(token, message)
	return &ParseError{Token: token, Message: message}
}
