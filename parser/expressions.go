package parser

import (
	"fmt"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/token"
	"github.com/surqlx/surlint/typ"
)

// Expression parsing is a chain of precedence levels, loosest to tightest:
// ternary/coalesce, or, and, not, comparison, containment, range, additive,
// multiplicative, power (right-assoc), unary, cast, postfix, primary.

func (p *Parser) parseExpression() *ast.Node {
	return p.parseTernary()
}

func (p *Parser) parseTernary() *ast.Node {
	left := p.parseOr()
	for {
		switch p.cur().Kind {
		case token.QuestionMark, token.QuestionCol:
			n := ast.New(ast.KindBinaryExpression)
			n.AddNode(left)
			n.AddToken(p.advance())
			n.AddNode(p.parseOr())
			left = n
		case token.Question:
			n := ast.New(ast.KindTernaryExpression)
			n.AddNode(left)
			n.AddToken(p.advance())
			n.AddNode(p.parseTernary())
			p.expect(n, token.Colon, ":")
			n.AddNode(p.parseTernary())
			return n
		default:
			return left
		}
	}
}

func (p *Parser) parseOr() *ast.Node {
	left := p.parseAnd()
	for p.at(token.OrOr) || p.atKeyword("OR") {
		n := ast.New(ast.KindBinaryExpression)
		n.AddNode(left)
		n.AddToken(p.advance())
		n.AddNode(p.parseAnd())
		left = n
	}
	return left
}

func (p *Parser) parseAnd() *ast.Node {
	left := p.parseNot()
	for p.at(token.AndAnd) || p.atKeyword("AND") {
		n := ast.New(ast.KindBinaryExpression)
		n.AddNode(left)
		n.AddToken(p.advance())
		n.AddNode(p.parseNot())
		left = n
	}
	return left
}

func (p *Parser) parseNot() *ast.Node {
	if p.at(token.Bang) || p.atKeyword("NOT") {
		n := ast.New(ast.KindUnaryExpression)
		n.AddToken(p.advance())
		n.AddNode(p.parseNot())
		return n
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() *ast.Node {
	left := p.parseContainment()
	for {
		switch {
		case p.at(token.Assign), p.at(token.Equal), p.at(token.NotEqual),
			p.at(token.AnyEqual), p.at(token.AllEqual),
			p.at(token.LessEq), p.at(token.GreaterEq), p.at(token.Greater):
			n := ast.New(ast.KindBinaryExpression)
			n.AddNode(left)
			n.AddToken(p.advance())
			n.AddNode(p.parseContainment())
			left = n
		case p.at(token.Less):
			// `<` may open a type cast rather than a comparison; only
			// treat it as a comparison when what follows is a value.
			if p.looksLikeCast() {
				return left
			}
			n := ast.New(ast.KindBinaryExpression)
			n.AddNode(left)
			n.AddToken(p.advance())
			n.AddNode(p.parseContainment())
			left = n
		case p.atKeyword("IS"):
			n := ast.New(ast.KindBinaryExpression)
			n.AddNode(left)
			n.AddToken(p.advance())
			p.accept(n, "NOT")
			n.AddNode(p.parseContainment())
			left = n
		default:
			return left
		}
	}
}

var containmentOps = map[string]bool{
	"CONTAINS": true, "CONTAINSALL": true, "CONTAINSANY": true,
	"CONTAINSNONE": true, "CONTAINSNOT": true,
	"INSIDE": true, "NOTINSIDE": true, "ALLINSIDE": true,
	"ANYINSIDE": true, "NONEINSIDE": true, "OUTSIDE": true,
	"INTERSECTS": true, "IN": true, "LIKE": true, "MATCHES": true,
	"KNN": true,
}

func (p *Parser) parseContainment() *ast.Node {
	left := p.parseRange()
	for {
		t := p.cur()
		switch {
		case t.Kind == token.Keyword && containmentOps[t.Keyword()]:
			n := ast.New(ast.KindBinaryExpression)
			n.AddNode(left)
			n.AddToken(p.advance())
			n.AddNode(p.parseRange())
			left = n
		case t.Kind == token.Keyword && t.Keyword() == "NOT" && p.peek(1).Is("IN"):
			n := ast.New(ast.KindBinaryExpression)
			n.AddNode(left)
			n.AddToken(p.advance())
			n.AddToken(p.advance())
			n.AddNode(p.parseRange())
			left = n
		case t.Kind == token.Matches || t.Kind == token.NotMatch:
			n := ast.New(ast.KindBinaryExpression)
			n.AddNode(left)
			n.AddToken(p.advance())
			n.AddNode(p.parseRange())
			left = n
		default:
			return left
		}
	}
}

func (p *Parser) parseRange() *ast.Node {
	left := p.parseAdditive()
	if p.at(token.DotDot) || p.at(token.Ellipsis) {
		n := ast.New(ast.KindBinaryExpression)
		n.AddNode(left)
		n.AddToken(p.advance())
		if p.at(token.Assign) { // inclusive upper bound ..=
			n.AddToken(p.advance())
		}
		n.AddNode(p.parseAdditive())
		return n
	}
	return left
}

func (p *Parser) parseAdditive() *ast.Node {
	left := p.parseMultiplicative()
	for p.at(token.Plus) || p.at(token.Minus) {
		n := ast.New(ast.KindBinaryExpression)
		n.AddNode(left)
		n.AddToken(p.advance())
		n.AddNode(p.parseMultiplicative())
		left = n
	}
	return left
}

func (p *Parser) parseMultiplicative() *ast.Node {
	left := p.parsePower()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		n := ast.New(ast.KindBinaryExpression)
		n.AddNode(left)
		n.AddToken(p.advance())
		n.AddNode(p.parsePower())
		left = n
	}
	return left
}

// parsePower is right-associative: 2 ^ 3 ^ 2 is 2 ^ (3 ^ 2).
func (p *Parser) parsePower() *ast.Node {
	left := p.parseUnary()
	if p.at(token.Caret) {
		n := ast.New(ast.KindBinaryExpression)
		n.AddNode(left)
		n.AddToken(p.advance())
		n.AddNode(p.parsePower())
		return n
	}
	return left
}

func (p *Parser) parseUnary() *ast.Node {
	if p.at(token.Minus) || p.at(token.Plus) {
		n := ast.New(ast.KindUnaryExpression)
		n.AddToken(p.advance())
		n.AddNode(p.parseUnary())
		return n
	}
	return p.parseCast()
}

// looksLikeCast reports whether a `<` at the current position opens a type
// cast: the next token must denote a type name and a matching `>` must
// follow within the type syntax. The position is left untouched.
func (p *Parser) looksLikeCast() bool {
	if !p.at(token.Less) {
		return false
	}
	next := p.peek(1)
	name := next.Text
	if next.Kind != token.Keyword && next.Kind != token.Identifier {
		return false
	}
	if next.Is("FUTURE") {
		return true
	}
	if t, ok := typ.ParseName(name); ok && t.Kind != typ.KindUnknown {
		// generic heads (array<...>) parse as the bare name too, so a
		// simple name check covers both forms
		return p.peek(2).Kind == token.Greater || p.peek(2).Kind == token.Less ||
			p.peek(2).Kind == token.VerticalBar
	}
	return false
}

func (p *Parser) parseCast() *ast.Node {
	if p.at(token.Less) && p.looksLikeCast() {
		mark := p.pos
		if p.peek(1).Is("FUTURE") {
			// <future> { ... } is a deferred computation literal, not a
			// cast.
			n := ast.New(ast.KindFutureLiteral)
			n.AddToken(p.advance()) // <
			n.AddToken(p.advance()) // future
			p.expect(n, token.Greater, ">")
			if p.at(token.LBrace) {
				n.AddNode(p.parseBlock())
			} else {
				p.bail("expected a block after <future>")
			}
			return n
		}

		n := ast.New(ast.KindCastExpression)
		n.AddToken(p.advance()) // <
		tn := p.parseTypeName()
		if !p.at(token.Greater) {
			// not a cast after all: roll back and let the comparison
			// level handle `<`
			p.pos = mark
			return p.parsePostfix()
		}
		for _, t := range tn.Tokens() {
			n.AddToken(t)
		}
		n.AddToken(p.advance()) // >
		n.AddNode(p.parseCast())
		return n
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.Dot:
			n := ast.New(ast.KindFieldAccess)
			n.AddNode(expr)
			n.AddToken(p.advance())
			switch p.cur().Kind {
			case token.Identifier, token.Keyword, token.Star:
				n.AddToken(p.advance())
			default:
				p.bail(fmt.Sprintf("expected a field name after '.', found %q", p.cur().Text))
			}
			expr = n
		case token.LBracket:
			n := ast.New(ast.KindIndexExpression)
			n.AddNode(expr)
			n.AddToken(p.advance())
			switch {
			case p.at(token.Star):
				n.AddToken(p.advance())
			case p.at(token.Question), p.atKeyword("WHERE"):
				n.AddToken(p.advance())
				n.AddNode(p.parseExpression())
			case p.at(token.RBracket):
				// empty index: flatten
			default:
				n.AddNode(p.parseExpression())
			}
			p.expect(n, token.RBracket, "]")
			expr = n
		case token.LParen:
			if expr.Kind != ast.KindIdentifier {
				return expr
			}
			n := ast.New(ast.KindCallExpression)
			n.AddNode(expr)
			n.AddToken(p.advance())
			if !p.at(token.RParen) {
				p.parseExprList(n)
			}
			p.expect(n, token.RParen, ")")
			expr = n
		case token.Arrow, token.BackArrow, token.BothArrow:
			expr = p.parseGraphStep(expr)
		default:
			return expr
		}
	}
}

// parseGraphStep parses one graph-traversal hop: `->edge`, `<-edge`,
// `<->edge`, `->?`, or `->(edge WHERE cond)`.
func (p *Parser) parseGraphStep(base *ast.Node) *ast.Node {
	n := ast.New(ast.KindGraphTraversal)
	n.AddNode(base)
	n.AddToken(p.advance()) // -> / <- / <->
	switch {
	case p.at(token.Identifier) || p.cur().Kind == token.Keyword:
		// the target may be a plain edge name or a record id (person:2)
		n.AddNode(p.parseIdentifierExpr())
	case p.at(token.Question):
		n.AddToken(p.advance())
	case p.at(token.LParen):
		n.AddToken(p.advance())
		p.parseExprList(n)
		p.expect(n, token.RParen, ")")
	default:
		p.bail("expected a traversal target")
	}
	return n
}

func (p *Parser) parsePrimary() *ast.Node {
	t := p.cur()
	switch t.Kind {
	case token.Number:
		return p.leaf(ast.KindNumberLiteral)
	case token.String:
		return p.leaf(ast.KindStringLiteral)
	case token.DatetimeString:
		return p.leaf(ast.KindDatetimeLiteral)
	case token.UuidString:
		return p.leaf(ast.KindUuidLiteral)
	case token.RecordString:
		return p.leaf(ast.KindRecordIDLiteral)
	case token.Duration:
		return p.leaf(ast.KindDurationLiteral)
	case token.Regex:
		return p.leaf(ast.KindRegexLiteral)
	case token.Parameter:
		return p.leaf(ast.KindParameter)
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseBraced()
	case token.LParen:
		return p.parseParenOrSubquery()
	case token.Identifier:
		return p.parseIdentifierExpr()
	case token.Star:
		return p.leaf(ast.KindIdentifier)
	case token.Keyword:
		switch t.Keyword() {
		case "TRUE", "FALSE":
			return p.leaf(ast.KindBoolLiteral)
		case "NULL":
			return p.leaf(ast.KindNullLiteral)
		case "NONE":
			return p.leaf(ast.KindNoneLiteral)
		case "SELECT", "CREATE", "UPDATE", "UPSERT", "DELETE", "INSERT",
			"RELATE", "RETURN", "IF":
			// embedded statement used as a value
			sub := ast.New(ast.KindSubquery)
			sub.AddNode(p.parseStatement())
			return sub
		default:
			// keywords double as plain identifiers in value position
			// (field named `type`, table named `user`, ...)
			return p.parseIdentifierExpr()
		}
	}
	return p.bail(fmt.Sprintf("unexpected token %q in expression", t.Text))
}

func (p *Parser) leaf(kind ast.Kind) *ast.Node {
	n := ast.New(kind)
	n.AddToken(p.advance())
	return n
}

// parseIdentifierExpr parses an identifier, reinterpreting it as a record
// id when a `:` immediately follows (table:id), and absorbing `::`-joined
// function paths (string::split).
func (p *Parser) parseIdentifierExpr() *ast.Node {
	ident := p.advance()

	// record id: the colon must touch the identifier (no whitespace)
	if p.at(token.Colon) && p.cur().Span.Start == ident.Span.End {
		n := ast.New(ast.KindRecordIDLiteral)
		n.AddToken(ident)
		n.AddToken(p.advance()) // :
		switch p.cur().Kind {
		case token.Identifier, token.Number, token.String, token.Keyword:
			n.AddToken(p.advance())
		case token.LBracket: // compound ids: table:[a, b]
			n.AddToken(p.advance())
			p.parseExprList(n)
			p.expect(n, token.RBracket, "]")
		case token.LBrace: // object ids: table:{a: 1}
			n.AddNode(p.parseObjectLiteral())
		default:
			p.bail("expected a record id after ':'")
		}
		return n
	}

	n := ast.New(ast.KindIdentifier)
	n.AddToken(ident)
	for p.at(token.DoubleColon) {
		n.AddToken(p.advance())
		if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
			n.AddToken(p.advance())
		} else {
			p.bail("expected a name after '::'")
		}
	}
	return n
}

func (p *Parser) parseArrayLiteral() *ast.Node {
	n := ast.New(ast.KindArrayLiteral)
	n.AddToken(p.advance()) // [
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		n.AddNode(p.parseExpression())
		if !p.at(token.Comma) {
			break
		}
		n.AddToken(p.advance())
	}
	p.expect(n, token.RBracket, "]")
	return n
}

// parseBraced disambiguates `{...}` between an object literal and a block:
// an empty brace pair or a leading `key :` means an object.
func (p *Parser) parseBraced() *ast.Node {
	if p.isObjectStart() {
		return p.parseObjectLiteral()
	}
	return p.parseBlock()
}

func (p *Parser) isObjectStart() bool {
	if p.peek(1).Kind == token.RBrace {
		return true
	}
	first := p.peek(1)
	if first.Kind == token.Identifier || first.Kind == token.String || first.Kind == token.Keyword {
		return p.peek(2).Kind == token.Colon
	}
	return false
}

func (p *Parser) parseObjectLiteral() *ast.Node {
	n := ast.New(ast.KindObjectLiteral)
	n.AddToken(p.advance()) // {
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		entry := ast.New(ast.KindObjectEntry)
		switch p.cur().Kind {
		case token.Identifier, token.String, token.Keyword, token.Number:
			entry.AddToken(p.advance())
		default:
			p.bail(fmt.Sprintf("expected an object key, found %q", p.cur().Text))
		}
		p.expect(entry, token.Colon, ":")
		entry.AddNode(p.parseExpression())
		n.AddNode(entry)
		if !p.at(token.Comma) {
			break
		}
		n.AddToken(p.advance())
	}
	p.expect(n, token.RBrace, "}")
	return n
}

// parseParenOrSubquery parses `( ... )`: a subquery when a statement
// keyword follows the paren, otherwise a parenthesized expression.
func (p *Parser) parseParenOrSubquery() *ast.Node {
	next := p.peek(1)
	if next.Kind == token.Keyword && token.IsStatementKeyword(next.Text) {
		switch next.Keyword() {
		case "SELECT", "CREATE", "UPDATE", "UPSERT", "DELETE", "INSERT",
			"RELATE", "DEFINE", "REMOVE", "RETURN", "IF", "LET":
			n := ast.New(ast.KindSubquery)
			n.AddToken(p.advance()) // (
			n.AddNode(p.parseStatement())
			p.expect(n, token.RParen, ")")
			return n
		}
	}
	n := ast.New(ast.KindSubquery)
	n.AddToken(p.advance()) // (
	n.AddNode(p.parseExpression())
	p.expect(n, token.RParen, ")")
	return n
}
