package calc

import "github.com/dhamidi/grammarkit/syntax"

// Token types.
var (
	IDENTIFIER = syntax.NewElementType("IDENTIFIER")
	NUMBER     = syntax.NewElementType("NUMBER")
	STRING     = syntax.NewElementType("STRING")

	EQEQ      = syntax.NewElementType("==")
	NOTEQ     = syntax.NewElementType("!=")
	LESSEQ    = syntax.NewElementType("<=")
	GREATEREQ = syntax.NewElementType(">=")
	LESS      = syntax.NewElementType("<")
	GREATER   = syntax.NewElementType(">")
	ASSIGN    = syntax.NewElementType("=")
	PLUS      = syntax.NewElementType("+")
	MINUS     = syntax.NewElementType("-")
	STAR      = syntax.NewElementType("*")
	SLASH     = syntax.NewElementType("/")
	CARET     = syntax.NewElementType("^")
	BANG      = syntax.NewElementType("!")
	LPAREN    = syntax.NewElementType("(")
	RPAREN    = syntax.NewElementType(")")
	LBRACE    = syntax.NewElementType("{")
	RBRACE    = syntax.NewElementType("}")
	COMMA     = syntax.NewElementType(",")
	SEMICOLON = syntax.NewElementType(";")
)

// Node types.
var (
	FILE = syntax.NewElementType("FILE")

	LET_STATEMENT    = syntax.NewElementType("LET_STATEMENT")
	ASSIGN_STATEMENT = syntax.NewElementType("ASSIGN_STATEMENT")
	PRINT_STATEMENT  = syntax.NewElementType("PRINT_STATEMENT")
	IF_STATEMENT     = syntax.NewElementType("IF_STATEMENT")
	ELSE_BRANCH      = syntax.NewElementType("ELSE_BRANCH")
	WHILE_STATEMENT  = syntax.NewElementType("WHILE_STATEMENT")
	FN_DECLARATION   = syntax.NewElementType("FN_DECLARATION")
	RETURN_STATEMENT = syntax.NewElementType("RETURN_STATEMENT")
	EXPR_STATEMENT   = syntax.NewElementType("EXPR_STATEMENT")
	BLOCK            = syntax.NewElementType("BLOCK")
	PARAMETER_LIST   = syntax.NewElementType("PARAMETER_LIST")
	PARAMETER        = syntax.NewElementType("PARAMETER")
	ARGUMENT_LIST    = syntax.NewElementType("ARGUMENT_LIST")

	EXPR         = syntax.NewElementType("EXPR")
	LITERAL_EXPR = syntax.NewElementType("LITERAL_EXPR")
	REF_EXPR     = syntax.NewElementType("REF_EXPR")
	PAREN_EXPR   = syntax.NewElementType("PAREN_EXPR")
	UNARY_EXPR   = syntax.NewElementType("UNARY_EXPR")
	ADD_EXPR     = syntax.NewElementType("ADD_EXPR")
	MUL_EXPR     = syntax.NewElementType("MUL_EXPR")
	POW_EXPR     = syntax.NewElementType("POW_EXPR")
	COMPARE_EXPR = syntax.NewElementType("COMPARE_EXPR")
	CALL_EXPR    = syntax.NewElementType("CALL_EXPR")
)

var (
	expressionTypes = syntax.NewTokenSet(EXPR, LITERAL_EXPR, REF_EXPR, PAREN_EXPR, UNARY_EXPR,
		ADD_EXPR, MUL_EXPR, POW_EXPR, COMPARE_EXPR, CALL_EXPR)
	statementTypes = syntax.NewTokenSet(LET_STATEMENT, ASSIGN_STATEMENT, PRINT_STATEMENT, IF_STATEMENT,
		WHILE_STATEMENT, FN_DECLARATION, RETURN_STATEMENT, EXPR_STATEMENT)
)

// tokenKinds maps the token productions of calc.ebnf to their types.
var tokenKinds = map[string]*syntax.ElementType{
	"Identifier": IDENTIFIER,
	"Number":     NUMBER,
	"String":     STRING,
	"EqEq":       EQEQ,
	"NotEq":      NOTEQ,
	"LessEq":     LESSEQ,
	"GreaterEq":  GREATEREQ,
	"Less":       LESS,
	"Greater":    GREATER,
	"Assign":     ASSIGN,
	"Plus":       PLUS,
	"Minus":      MINUS,
	"Star":       STAR,
	"Slash":      SLASH,
	"Caret":      CARET,
	"Bang":       BANG,
	"LParen":     LPAREN,
	"RParen":     RPAREN,
	"LBrace":     LBRACE,
	"RBrace":     RBRACE,
	"Comma":      COMMA,
	"Semicolon":  SEMICOLON,
}
