package compiler

import "github.com/rizonlang/rizon/lang/token"

// precedence levels, lowest to highest, driving the Pratt expression
// parser (spec.md §4.2: "Pratt expression parsing").
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ( )
	precPrimary
)

type (
	prefixParseFn func(p *Parser, canAssign bool)
	infixParseFn  func(p *Parser, canAssign bool)
)

type parseRule struct {
	prefix     prefixParseFn
	infix      infixParseFn
	precedence precedence
}

var rules map[token.Token]parseRule

func init() {
	rules = map[token.Token]parseRule{
		token.LPAREN: {prefix: (*Parser).grouping, infix: (*Parser).call, precedence: precCall},
		token.DOT:    {infix: (*Parser).dot, precedence: precCall},
		token.MINUS:  {prefix: (*Parser).unary, infix: (*Parser).binary, precedence: precTerm},
		token.PLUS:   {infix: (*Parser).binary, precedence: precTerm},
		token.SLASH:  {infix: (*Parser).binary, precedence: precFactor},
		token.STAR:   {infix: (*Parser).binary, precedence: precFactor},
		token.BANG:   {prefix: (*Parser).unary},
		token.BANGEQ: {infix: (*Parser).binary, precedence: precEquality},
		token.EQEQ:   {infix: (*Parser).binary, precedence: precEquality},
		token.GT:     {infix: (*Parser).binary, precedence: precComparison},
		token.GE:     {infix: (*Parser).binary, precedence: precComparison},
		token.LT:     {infix: (*Parser).binary, precedence: precComparison},
		token.LE:     {infix: (*Parser).binary, precedence: precComparison},
		token.IDENT:  {prefix: (*Parser).variable},
		token.STRING: {prefix: (*Parser).stringLiteral},
		token.INT:    {prefix: (*Parser).number},
		token.FLOAT:  {prefix: (*Parser).number},
		token.AND:    {infix: (*Parser).and, precedence: precAnd},
		token.OR:     {infix: (*Parser).or, precedence: precOr},
		token.FALSE:  {prefix: (*Parser).literal},
		token.TRUE:   {prefix: (*Parser).literal},
		token.NULL:   {prefix: (*Parser).literal},
		token.SELF:   {prefix: (*Parser).self},
	}
}

func getRule(tok token.Token) parseRule { return rules[tok] }
