package calc

import (
	"github.com/dhamidi/grammarkit/genparse"
	"github.com/dhamidi/grammarkit/syntax"
)

// The rules below follow the shape of generated parser code: one function
// per grammar rule, each entering and exiting exactly one section.

var greedyLeft = syntax.EdgeBinder(syntax.GreedyLeftBinder)

const (
	comparePriority = 0
	addPriority     = 1
	mulPriority     = 2
	unaryPriority   = 3
	powPriority     = 4
	callPriority    = 5
)

// file ::= item*
func file(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "file") {
		return false
	}
	for {
		c := rt.CurrentPosition()
		if !item(rt, l+1) {
			break
		}
		if !rt.EmptyElementParsedGuard("file", c) {
			break
		}
	}
	return true
}

// item ::= !<<eof>> statement {pin=1 recoverWhile=statement_recover}
func item(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "item") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, nil, "")
	r := !rt.EOF()
	p := r
	r = r && statement(rt, l+1)
	rt.ExitSection(l, s, r, p, statementRecover)
	return r || p
}

// statement ::= let_statement | print_statement | if_statement
//
//	| while_statement | fn_declaration | return_statement
//	| assign_or_expr_statement {name="<statement>"}
func statement(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "statement") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, nil, "<statement>")
	r := letStatement(rt, l+1)
	if !r {
		r = printStatement(rt, l+1)
	}
	if !r {
		r = ifStatement(rt, l+1)
	}
	if !r {
		r = whileStatement(rt, l+1)
	}
	if !r {
		r = fnDeclaration(rt, l+1)
	}
	if !r {
		r = returnStatement(rt, l+1)
	}
	if !r {
		r = assignOrExprStatement(rt, l+1)
	}
	rt.ExitSection(l, s, r, false, nil)
	return r
}

// statement_recover ::= !('}' | 'let' | 'print' | 'if' | 'while' | 'fn' | 'return')
func statementRecover(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "statement_recover") {
		return false
	}
	s := rt.EnterSection(l, genparse.Not, nil, "")
	r := !statementStart(rt)
	rt.ExitSection(l, s, r, false, nil)
	return r
}

func statementStart(rt *genparse.Runtime) bool {
	if rt.ConsumeToken(RBRACE) {
		return true
	}
	for _, keyword := range []string{"let", "print", "if", "while", "fn", "return"} {
		if rt.ConsumeTokenText(keyword) {
			return true
		}
	}
	return false
}

// let_statement ::= 'let' IDENTIFIER '=' expression ';' {pin=1 hooks=[leftBinder=GREEDY_LEFT_BINDER]}
func letStatement(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "let_statement") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, LET_STATEMENT, "")
	r := rt.ConsumeTokenText("let")
	p := r
	r = r && rt.ReportError(rt.ConsumeToken(IDENTIFIER))
	r = p && rt.ReportError(rt.ConsumeToken(ASSIGN)) && r
	r = p && rt.ReportError(expression(rt, l+1)) && r
	r = p && rt.ConsumeToken(SEMICOLON) && r
	if r || p {
		genparse.RegisterHook[syntax.EdgeBinder](rt, genparse.LeftBinderHook, greedyLeft)
	}
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// print_statement ::= 'print' expression ';' {pin=1}
func printStatement(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "print_statement") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, PRINT_STATEMENT, "")
	r := rt.ConsumeTokenText("print")
	p := r
	r = r && rt.ReportError(expression(rt, l+1))
	r = p && rt.ConsumeToken(SEMICOLON) && r
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// if_statement ::= 'if' expression block else_branch? {pin=1}
func ifStatement(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "if_statement") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, IF_STATEMENT, "")
	r := rt.ConsumeTokenText("if")
	p := r
	r = r && rt.ReportError(expression(rt, l+1))
	r = p && rt.ReportError(block(rt, l+1)) && r
	r = p && ifStatementElse(rt, l+1) && r
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// else_branch?
func ifStatementElse(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "if_statement_3") {
		return false
	}
	elseBranch(rt, l+1)
	return true
}

// else_branch ::= 'else' (if_statement | block) {pin=1}
func elseBranch(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "else_branch") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, ELSE_BRANCH, "")
	r := rt.ConsumeTokenText("else")
	p := r
	if r {
		r = ifStatement(rt, l+1)
		if !r {
			r = block(rt, l+1)
		}
	}
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// while_statement ::= 'while' expression block {pin=1}
func whileStatement(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "while_statement") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, WHILE_STATEMENT, "")
	r := rt.ConsumeTokenText("while")
	p := r
	r = r && rt.ReportError(expression(rt, l+1))
	r = p && block(rt, l+1) && r
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// fn_declaration ::= 'fn' IDENTIFIER &'(' parameter_list block {pin=3 hooks=[leftBinder=GREEDY_LEFT_BINDER]}
func fnDeclaration(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "fn_declaration") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, FN_DECLARATION, "")
	r := rt.ConsumeTokenText("fn")
	r = r && rt.ConsumeToken(IDENTIFIER)
	r = r && fnDeclarationParen(rt, l+1)
	p := r
	r = r && rt.ReportError(parameterList(rt, l+1))
	r = p && block(rt, l+1) && r
	if r || p {
		genparse.RegisterHook[syntax.EdgeBinder](rt, genparse.LeftBinderHook, greedyLeft)
	}
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// &'('
func fnDeclarationParen(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "fn_declaration_2") {
		return false
	}
	s := rt.EnterSection(l, genparse.And, nil, "")
	r := rt.ConsumeToken(LPAREN)
	rt.ExitSection(l, s, r, false, nil)
	return r
}

// parameter_list ::= '(' [parameter (',' parameter)*] ')' {pin=1}
func parameterList(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "parameter_list") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, PARAMETER_LIST, "")
	r := rt.ConsumeToken(LPAREN)
	p := r
	r = r && rt.ReportError(separatedList(rt, l+1, "parameter_list_1", parameter))
	r = p && rt.ConsumeToken(RPAREN) && r
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// parameter ::= IDENTIFIER
func parameter(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "parameter") {
		return false
	}
	m := rt.Mark()
	r := rt.ConsumeToken(IDENTIFIER)
	rt.ExitMarker(m, PARAMETER, r)
	return r
}

// [element (',' element)*]
func separatedList(rt *genparse.Runtime, l int, name string, element genparse.Parser) bool {
	if !rt.RecursionGuard(l, name) {
		return false
	}
	if !element(rt, l+1) {
		return true
	}
	for {
		c := rt.CurrentPosition()
		if !separatedListElement(rt, l+1, element) {
			break
		}
		if !rt.EmptyElementParsedGuard(name, c) {
			break
		}
	}
	return true
}

// ',' element {pin=1}
func separatedListElement(rt *genparse.Runtime, l int, element genparse.Parser) bool {
	s := rt.EnterSection(l, genparse.None, nil, "")
	r := rt.ConsumeToken(COMMA)
	p := r
	r = r && element(rt, l+1)
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// block ::= '{' (!'}' item)* '}' {pin=1}
func block(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "block") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, BLOCK, "")
	r := rt.ConsumeToken(LBRACE)
	p := r
	r = r && blockBody(rt, l+1)
	r = p && rt.ConsumeToken(RBRACE) && r
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

func blockBody(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "block_1") {
		return false
	}
	for !rt.EOF() && !rt.NextTokenIsFast(RBRACE) {
		c := rt.CurrentPosition()
		if !item(rt, l+1) {
			break
		}
		if !rt.EmptyElementParsedGuard("block_1", c) {
			break
		}
	}
	return true
}

// return_statement ::= 'return' expression? ';' {pin=1}
func returnStatement(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "return_statement") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, RETURN_STATEMENT, "")
	r := rt.ConsumeTokenText("return")
	p := r
	if r && !rt.NextTokenIsFast(SEMICOLON) {
		r = rt.ReportError(expression(rt, l+1))
	}
	r = p && rt.ConsumeToken(SEMICOLON) && r
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// assign_or_expr_statement ::= assign_statement | expr_statement
//
// The assignment is tried speculatively: if IDENTIFIER '=' does not match,
// everything it recorded is discarded and the statement is parsed as an
// expression.
func assignOrExprStatement(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "assign_statement") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, ASSIGN_STATEMENT, "")
	if rt.ConsumeToken(IDENTIFIER) && rt.ConsumeToken(ASSIGN) {
		r := rt.ReportError(expression(rt, l+1))
		r = rt.ConsumeToken(SEMICOLON) && r
		rt.ExitSection(l, s, r, true, nil)
		return true
	}
	rt.Backtrack(l, s)
	return exprStatement(rt, l+1)
}

// expr_statement ::= expression ';' {pin=1}
func exprStatement(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "expr_statement") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, EXPR_STATEMENT, "")
	r := expression(rt, l+1)
	p := r
	r = r && rt.ConsumeToken(SEMICOLON)
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// expression ::= expr {name="<expression>" collapse}
func expression(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "expression") {
		return false
	}
	s := rt.EnterSection(l, genparse.Collapse, EXPR, "<expression>")
	r := expr(rt, l+1, -1)
	rt.ExitSection(l, s, r, false, nil)
	return r
}

// expr is the operator precedence parser. Operands are parsed first; the
// operators that bind tighter than priority then wrap the operand parsed
// so far in a Left section.
func expr(rt *genparse.Runtime, l int, priority int) bool {
	if !rt.RecursionGuard(l, "expr") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, nil, "<expression>")
	r := unaryExpr(rt, l+1)
	if !r {
		r = literalExpr(rt, l+1)
	}
	if !r {
		r = refExpr(rt, l+1)
	}
	if !r {
		r = parenExpr(rt, l+1)
	}
	p := r
	r = r && exprTail(rt, l+1, priority)
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

func exprTail(rt *genparse.Runtime, l int, priority int) bool {
	if !rt.RecursionGuard(l, "expr_0") {
		return false
	}
	r := true
	for {
		s := rt.EnterSection(l, genparse.Left, nil, "")
		switch {
		case priority < comparePriority && compareOp(rt):
			r = expr(rt, l+1, comparePriority)
			rt.ExitSectionAs(l, s, COMPARE_EXPR, r, true, nil)
		case priority < addPriority && (rt.ConsumeToken(PLUS) || rt.ConsumeToken(MINUS)):
			r = expr(rt, l+1, addPriority)
			rt.ExitSectionAs(l, s, ADD_EXPR, r, true, nil)
		case priority < mulPriority && (rt.ConsumeToken(STAR) || rt.ConsumeToken(SLASH)):
			r = expr(rt, l+1, mulPriority)
			rt.ExitSectionAs(l, s, MUL_EXPR, r, true, nil)
		case priority < powPriority && rt.ConsumeToken(CARET):
			// Right associative.
			r = expr(rt, l+1, powPriority-1)
			rt.ExitSectionAs(l, s, POW_EXPR, r, true, nil)
		case priority < callPriority && rt.NextTokenIsFast(LPAREN):
			r = argumentList(rt, l+1)
			rt.ExitSectionAs(l, s, CALL_EXPR, r, true, nil)
		default:
			rt.ExitSection(l, s, false, false, nil)
			return r
		}
	}
}

func compareOp(rt *genparse.Runtime) bool {
	for _, t := range []*syntax.ElementType{EQEQ, NOTEQ, LESSEQ, GREATEREQ, LESS, GREATER} {
		if rt.ConsumeToken(t) {
			return true
		}
	}
	return false
}

// unary_expr ::= negative_literal | ('-' | '!') expr
func unaryExpr(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "unary_expr") {
		return false
	}
	if !rt.NextTokenIsFrame("", MINUS, BANG) {
		return false
	}
	s := rt.EnterSection(l, genparse.None, UNARY_EXPR, "")
	r := negativeLiteral(rt, l+1)
	p := r
	if !r {
		r = rt.ConsumeToken(MINUS) || rt.ConsumeToken(BANG)
		p = r
		r = r && expr(rt, l+1, unaryPriority)
	}
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// negative_literal ::= '-' NUMBER !'^' {elementType=LITERAL_EXPR upper}
//
// A minus directly followed by a number is a literal, unless the number is
// the base of a power: -2^2 is -(2^2).
func negativeLiteral(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "negative_literal") {
		return false
	}
	s := rt.EnterSection(l, genparse.Upper, LITERAL_EXPR, "")
	r := rt.ConsumeTokens(0, MINUS, NUMBER)
	r = r && negativeLiteralNoPower(rt, l+1)
	rt.ExitSection(l, s, r, false, nil)
	return r
}

// !'^'
func negativeLiteralNoPower(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "negative_literal_2") {
		return false
	}
	s := rt.EnterSection(l, genparse.Not, nil, "")
	r := !rt.ConsumeToken(CARET)
	rt.ExitSection(l, s, r, false, nil)
	return r
}

// literal_expr ::= NUMBER | STRING | 'true' | 'false'
func literalExpr(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "literal_expr") {
		return false
	}
	m := rt.Mark()
	r := rt.ConsumeToken(NUMBER) ||
		rt.ConsumeToken(STRING) ||
		rt.ConsumeTokenText("true") ||
		rt.ConsumeTokenText("false")
	rt.ExitMarker(m, LITERAL_EXPR, r)
	return r
}

// ref_expr ::= IDENTIFIER
func refExpr(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "ref_expr") {
		return false
	}
	m := rt.Mark()
	r := rt.ConsumeToken(IDENTIFIER)
	rt.ExitMarker(m, REF_EXPR, r)
	return r
}

// paren_expr ::= '(' expression ')' {pin=1}
func parenExpr(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "paren_expr") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, PAREN_EXPR, "")
	r := rt.ConsumeToken(LPAREN)
	p := r
	r = r && rt.ReportError(expression(rt, l+1))
	r = p && rt.ConsumeToken(RPAREN) && r
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// argument_list ::= '(' [expression (',' expression)*] ')' {pin=1}
func argumentList(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "argument_list") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, ARGUMENT_LIST, "")
	r := rt.ConsumeToken(LPAREN)
	p := r
	r = r && rt.ReportError(separatedList(rt, l+1, "argument_list_1", expression))
	r = p && rt.ConsumeToken(RPAREN) && r
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}
