package parser

import (
	"fmt"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/token"
)

func (p *Parser) parseDefine() *ast.Node {
	n := ast.New(ast.KindDefineStatement)
	n.AddToken(p.advance()) // DEFINE

	t := p.cur()
	if t.Kind != token.Keyword {
		n.AddNode(p.recover(fmt.Sprintf("expected a definition target after DEFINE, found %q", t.Text)))
		return n
	}

	switch t.Keyword() {
	case "TABLE":
		n.AddNode(p.parseDefineTable())
	case "FIELD":
		n.AddNode(p.parseDefineField())
	case "INDEX":
		n.AddNode(p.parseDefineIndex())
	case "EVENT":
		n.AddNode(p.parseDefineEvent())
	case "FUNCTION":
		n.AddNode(p.parseDefineFunction())
	case "PARAM":
		n.AddNode(p.parseDefineParam())
	case "ANALYZER":
		n.AddNode(p.parseDefineAnalyzer())
	case "ACCESS", "SCOPE", "TOKEN", "USER", "NAMESPACE", "DATABASE":
		n.AddNode(p.parseDefineAccess())
	default:
		n.AddNode(p.recover(fmt.Sprintf("unknown definition target %q", t.Text)))
	}
	return n
}

// parseDefName consumes the optional OVERWRITE / IF NOT EXISTS prefix and
// the definition's name.
func (p *Parser) parseDefName(n *ast.Node) {
	p.accept(n, "OVERWRITE")
	if p.accept(n, "IF") {
		p.expectKeyword(n, "NOT")
		p.expectKeyword(n, "EXISTS")
	}
	switch p.cur().Kind {
	case token.Identifier, token.Keyword, token.Parameter:
		n.AddToken(p.advance())
	default:
		p.bail(fmt.Sprintf("expected a name, found %q", p.cur().Text))
	}
}

// parseOn consumes `ON [TABLE] name` into n.
func (p *Parser) parseOn(n *ast.Node) {
	if !p.accept(n, "ON") {
		p.bail(fmt.Sprintf("expected ON, found %q", p.cur().Text))
	}
	p.accept(n, "TABLE")
	if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
		n.AddToken(p.advance())
	} else {
		p.bail("expected a table name after ON")
	}
}

func (p *Parser) parseDefineTable() *ast.Node {
	n := ast.New(ast.KindTableDefinition)
	n.AddToken(p.advance()) // TABLE
	p.parseDefName(n)

	for {
		switch {
		case p.accept(n, "DROP"):
		case p.accept(n, "SCHEMAFULL"):
		case p.accept(n, "SCHEMALESS"):
		case p.atKeyword("TYPE"):
			n.AddToken(p.advance())
			// TYPE ANY | NORMAL | RELATION [IN t] [OUT t]
			if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
				n.AddToken(p.advance())
			}
			for p.atKeyword("IN") || (p.at(token.Identifier) && (p.cur().Text == "OUT" || p.cur().Text == "out")) {
				n.AddToken(p.advance())
				if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
					n.AddToken(p.advance())
				}
			}
		case p.accept(n, "AS"):
			n.AddNode(p.parseStatement())
		case p.accept(n, "CHANGEFEED"):
			n.AddNode(p.parseExpression())
		case p.atKeyword("PERMISSIONS"):
			p.parsePermissions(n)
		case p.accept(n, "COMMENT"):
			n.AddNode(p.parseExpression())
		default:
			return n
		}
	}
}

func (p *Parser) parseDefineField() *ast.Node {
	n := ast.New(ast.KindFieldDefinition)
	n.AddToken(p.advance()) // FIELD
	p.accept(n, "OVERWRITE")
	if p.accept(n, "IF") {
		p.expectKeyword(n, "NOT")
		p.expectKeyword(n, "EXISTS")
	}
	n.AddNode(p.parseFieldPath())
	p.parseOn(n)

	for {
		switch {
		case p.accept(n, "FLEXIBLE"):
			if p.accept(n, "TYPE") {
				n.AddNode(p.parseTypeName())
			}
		case p.accept(n, "TYPE"):
			n.AddNode(p.parseTypeName())
		case p.atKeyword("DEFAULT"):
			def := ast.New(ast.KindReturnClause)
			def.AddToken(p.advance())
			p.accept(def, "ALWAYS")
			def.AddNode(p.parseExpression())
			n.AddNode(def)
		case p.atKeyword("VALUE"):
			val := ast.New(ast.KindContentClause)
			val.AddToken(p.advance())
			val.AddNode(p.parseExpression())
			n.AddNode(val)
		case p.atKeyword("ASSERT"):
			as := ast.New(ast.KindWhereClause)
			as.AddToken(p.advance())
			as.AddNode(p.parseExpression())
			n.AddNode(as)
		case p.accept(n, "READONLY"):
		case p.atKeyword("PERMISSIONS"):
			p.parsePermissions(n)
		case p.accept(n, "COMMENT"):
			n.AddNode(p.parseExpression())
		default:
			return n
		}
	}
}

// parseFieldPath parses a possibly dotted field path (address.city,
// tags[*] or tags.*) as a single identifier node.
func (p *Parser) parseFieldPath() *ast.Node {
	n := ast.New(ast.KindIdentifier)
	if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
		n.AddToken(p.advance())
	} else {
		p.bail(fmt.Sprintf("expected a field name, found %q", p.cur().Text))
	}
	for {
		switch {
		case p.at(token.Dot):
			n.AddToken(p.advance())
			switch p.cur().Kind {
			case token.Identifier, token.Keyword, token.Star:
				n.AddToken(p.advance())
			default:
				p.bail("expected a field name after '.'")
			}
		case p.at(token.LBracket) && p.peek(1).Kind == token.Star && p.peek(2).Kind == token.RBracket:
			n.AddToken(p.advance())
			n.AddToken(p.advance())
			n.AddToken(p.advance())
		default:
			return n
		}
	}
}

func (p *Parser) parseDefineIndex() *ast.Node {
	n := ast.New(ast.KindIndexDefinition)
	n.AddToken(p.advance()) // INDEX
	p.parseDefName(n)
	p.parseOn(n)

	for {
		switch {
		case p.atKeyword("FIELDS", "COLUMNS"):
			n.AddToken(p.advance())
			n.AddNode(p.parseFieldPath())
			for p.at(token.Comma) {
				n.AddToken(p.advance())
				n.AddNode(p.parseFieldPath())
			}
		case p.accept(n, "UNIQUE"):
		case p.accept(n, "SEARCH"):
			p.parseSearchOptions(n)
		case p.accept(n, "MTREE"):
			p.parseVectorOptions(n)
		case p.accept(n, "HNSW"):
			p.parseVectorOptions(n)
		case p.accept(n, "CONCURRENTLY"):
		case p.accept(n, "COMMENT"):
			n.AddNode(p.parseExpression())
		default:
			return n
		}
	}
}

// parseSearchOptions consumes the full-text index sub-grammar:
// ANALYZER name [BM25 [(k1, b)]] [HIGHLIGHTS].
func (p *Parser) parseSearchOptions(n *ast.Node) {
	for {
		switch {
		case p.accept(n, "ANALYZER"):
			if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
				n.AddToken(p.advance())
			}
		case p.accept(n, "BM25"):
			if p.at(token.LParen) {
				n.AddToken(p.advance())
				p.parseExprList(n)
				p.expect(n, token.RParen, ")")
			}
		case p.accept(n, "HIGHLIGHTS"):
		default:
			return
		}
	}
}

// parseVectorOptions consumes MTREE/HNSW sub-options:
// DIMENSION n [TYPE t] [DIST d] [CAPACITY n] [EFC n] [M n].
func (p *Parser) parseVectorOptions(n *ast.Node) {
	for {
		switch {
		case p.accept(n, "DIMENSION"), p.accept(n, "CAPACITY"), p.accept(n, "EFC"):
			if p.at(token.Number) {
				n.AddToken(p.advance())
			}
		case p.accept(n, "DIST"):
			if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
				n.AddToken(p.advance())
			}
		case p.accept(n, "TYPE"):
			n.AddNode(p.parseTypeName())
		case p.at(token.Identifier) && (p.cur().Text == "M" || p.cur().Text == "m"):
			n.AddToken(p.advance())
			if p.at(token.Number) {
				n.AddToken(p.advance())
			}
		default:
			return
		}
	}
}

func (p *Parser) parseDefineEvent() *ast.Node {
	n := ast.New(ast.KindEventDefinition)
	n.AddToken(p.advance()) // EVENT
	p.parseDefName(n)
	p.parseOn(n)
	if p.atKeyword("WHEN") {
		when := ast.New(ast.KindWhereClause)
		when.AddToken(p.advance())
		when.AddNode(p.parseExpression())
		n.AddNode(when)
	}
	if p.atKeyword("THEN") {
		then := ast.New(ast.KindContentClause)
		then.AddToken(p.advance())
		if p.at(token.LBrace) {
			then.AddNode(p.parseBlock())
		} else {
			then.AddNode(p.parseExpression())
		}
		n.AddNode(then)
	}
	if p.accept(n, "COMMENT") {
		n.AddNode(p.parseExpression())
	}
	return n
}

func (p *Parser) parseDefineFunction() *ast.Node {
	n := ast.New(ast.KindFunctionDefinition)
	n.AddToken(p.advance()) // FUNCTION
	p.accept(n, "OVERWRITE")
	if p.accept(n, "IF") {
		p.expectKeyword(n, "NOT")
		p.expectKeyword(n, "EXISTS")
	}

	// fn::name or fn::nested::name
	name := ast.New(ast.KindIdentifier)
	for {
		if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
			name.AddToken(p.advance())
		} else {
			p.bail("expected a function name")
		}
		if !p.at(token.DoubleColon) {
			break
		}
		name.AddToken(p.advance())
	}
	n.AddNode(name)

	if p.expect(n, token.LParen, "(") {
		for !p.at(token.RParen) && !p.at(token.EOF) {
			param := ast.New(ast.KindParameter)
			if p.at(token.Parameter) {
				param.AddToken(p.advance())
			} else {
				p.bail(fmt.Sprintf("expected a parameter, found %q", p.cur().Text))
			}
			if p.at(token.Colon) {
				param.AddToken(p.advance())
				param.AddNode(p.parseTypeName())
			}
			n.AddNode(param)
			if !p.at(token.Comma) {
				break
			}
			n.AddToken(p.advance())
		}
		p.expect(n, token.RParen, ")")
	}

	// optional declared return type
	if p.at(token.Arrow) {
		n.AddToken(p.advance())
		n.AddNode(p.parseTypeName())
	}

	if p.at(token.LBrace) {
		n.AddNode(p.parseBlock())
	} else {
		p.bail("expected a function body")
	}

	if p.atKeyword("PERMISSIONS") {
		p.parsePermissions(n)
	}
	if p.accept(n, "COMMENT") {
		n.AddNode(p.parseExpression())
	}
	return n
}

func (p *Parser) parseDefineParam() *ast.Node {
	n := ast.New(ast.KindParamDefinition)
	n.AddToken(p.advance()) // PARAM
	p.accept(n, "OVERWRITE")
	if p.accept(n, "IF") {
		p.expectKeyword(n, "NOT")
		p.expectKeyword(n, "EXISTS")
	}
	if p.at(token.Parameter) {
		n.AddToken(p.advance())
	} else {
		p.bail("expected a $parameter name")
	}
	if p.accept(n, "TYPE") {
		n.AddNode(p.parseTypeName())
	}
	if p.accept(n, "VALUE") {
		n.AddNode(p.parseExpression())
	}
	if p.atKeyword("PERMISSIONS") {
		p.parsePermissions(n)
	}
	if p.accept(n, "COMMENT") {
		n.AddNode(p.parseExpression())
	}
	return n
}

func (p *Parser) parseDefineAnalyzer() *ast.Node {
	n := ast.New(ast.KindAnalyzerDefinition)
	n.AddToken(p.advance()) // ANALYZER
	p.parseDefName(n)
	for {
		switch {
		case p.accept(n, "TOKENIZERS"), p.accept(n, "FILTERS"):
			// comma-separated names, some parameterized: edgengram(1,3)
			for {
				if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
					n.AddToken(p.advance())
				} else {
					break
				}
				if p.at(token.LParen) {
					n.AddToken(p.advance())
					p.parseExprList(n)
					p.expect(n, token.RParen, ")")
				}
				if !p.at(token.Comma) {
					break
				}
				n.AddToken(p.advance())
			}
		case p.accept(n, "FUNCTION"):
			if p.at(token.Identifier) {
				n.AddToken(p.advance())
			}
			for p.at(token.DoubleColon) {
				n.AddToken(p.advance())
				if p.at(token.Identifier) {
					n.AddToken(p.advance())
				}
			}
		case p.accept(n, "COMMENT"):
			n.AddNode(p.parseExpression())
		default:
			return n
		}
	}
}

// parseDefineAccess covers ACCESS plus the legacy SCOPE/TOKEN forms and
// USER/NAMESPACE/DATABASE definitions, all of which are name + option
// keywords with expression payloads.
func (p *Parser) parseDefineAccess() *ast.Node {
	n := ast.New(ast.KindAccessDefinition)
	n.AddToken(p.advance()) // ACCESS / SCOPE / TOKEN / USER / NAMESPACE / DATABASE
	p.parseDefName(n)

	for {
		switch {
		case p.accept(n, "ON"):
			if p.atKeyword("ROOT", "NAMESPACE", "DATABASE", "TABLE", "SCOPE") {
				n.AddToken(p.advance())
				if p.at(token.Identifier) {
					n.AddToken(p.advance())
				}
			}
		case p.accept(n, "TYPE"):
			// JWT / RECORD / BEARER with their sub-grammars
			switch {
			case p.accept(n, "JWT"):
				p.parseJwtOptions(n)
			case p.accept(n, "RECORD"):
			recordOpts:
				for {
					switch {
					case p.accept(n, "SIGNUP"), p.accept(n, "SIGNIN"), p.accept(n, "AUTHENTICATE"):
						n.AddNode(p.parseExpression())
					case p.accept(n, "WITH"):
						if p.accept(n, "JWT") {
							p.parseJwtOptions(n)
						}
					default:
						break recordOpts
					}
				}
			case p.accept(n, "BEARER"):
				if p.accept(n, "FOR") {
					if p.atKeyword("USER", "RECORD") {
						n.AddToken(p.advance())
					}
				}
			}
		case p.accept(n, "SIGNUP"), p.accept(n, "SIGNIN"), p.accept(n, "AUTHENTICATE"),
			p.accept(n, "VALUE"), p.accept(n, "PASSWORD"), p.accept(n, "PASSHASH"),
			p.accept(n, "SESSION"):
			n.AddNode(p.parseExpression())
		case p.accept(n, "DURATION"):
			// DURATION FOR TOKEN 15m, FOR SESSION 12h
			for {
				if p.accept(n, "FOR") {
					if p.atKeyword("TOKEN", "SESSION") {
						n.AddToken(p.advance())
					}
					n.AddNode(p.parseExpression())
					if p.at(token.Comma) {
						n.AddToken(p.advance())
						continue
					}
				}
				break
			}
		case p.accept(n, "ROLES"):
			for p.at(token.Identifier) || p.cur().Kind == token.Keyword {
				n.AddToken(p.advance())
				if !p.at(token.Comma) {
					break
				}
				n.AddToken(p.advance())
			}
		case p.accept(n, "ALGORITHM"):
			if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
				n.AddToken(p.advance())
			}
		case p.at(token.Identifier) && (p.cur().Text == "KEY" || p.cur().Text == "URL"):
			n.AddToken(p.advance())
			n.AddNode(p.parseExpression())
		case p.atKeyword("KEY"):
			n.AddToken(p.advance())
			n.AddNode(p.parseExpression())
		case p.accept(n, "ISSUER"):
		case p.accept(n, "COMMENT"):
			n.AddNode(p.parseExpression())
		default:
			return n
		}
	}
}

func (p *Parser) parseJwtOptions(n *ast.Node) {
	for {
		switch {
		case p.accept(n, "ALGORITHM"):
			if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
				n.AddToken(p.advance())
			}
		case p.atKeyword("KEY"):
			n.AddToken(p.advance())
			n.AddNode(p.parseExpression())
		case p.at(token.Identifier) && (p.cur().Text == "URL" || p.cur().Text == "url"):
			n.AddToken(p.advance())
			n.AddNode(p.parseExpression())
		case p.accept(n, "ISSUER"):
		default:
			return
		}
	}
}

// parsePermissions consumes PERMISSIONS NONE | FULL |
// FOR select|create|update|delete [, ...] WHERE-expr ...
func (p *Parser) parsePermissions(n *ast.Node) {
	n.AddToken(p.advance()) // PERMISSIONS
	if p.accept(n, "NONE") || p.accept(n, "FULL") {
		return
	}
	for p.accept(n, "FOR") {
		for p.atKeyword("SELECT", "CREATE", "UPDATE", "DELETE") {
			n.AddToken(p.advance())
			if !p.at(token.Comma) {
				break
			}
			n.AddToken(p.advance())
		}
		switch {
		case p.accept(n, "NONE"), p.accept(n, "FULL"):
		case p.atKeyword("WHERE"):
			n.AddNode(p.parseClause("WHERE"))
		}
	}
}

func (p *Parser) parseRemove() *ast.Node {
	n := ast.New(ast.KindRemoveStatement)
	n.AddToken(p.advance()) // REMOVE
	if p.cur().Kind != token.Keyword {
		n.AddNode(p.recover("expected a removal target after REMOVE"))
		return n
	}
	n.AddToken(p.advance()) // TABLE / FIELD / INDEX / ...
	if p.accept(n, "IF") {
		p.expectKeyword(n, "EXISTS")
	}
	switch p.cur().Kind {
	case token.Identifier, token.Keyword, token.Parameter:
		n.AddToken(p.advance())
		for p.at(token.DoubleColon) || p.at(token.Dot) {
			n.AddToken(p.advance())
			if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
				n.AddToken(p.advance())
			}
		}
	default:
		p.bail("expected a name to remove")
	}
	if p.accept(n, "ON") {
		p.accept(n, "TABLE")
		if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
			n.AddToken(p.advance())
		}
	}
	return n
}

func (p *Parser) parseAlter() *ast.Node {
	n := ast.New(ast.KindAlterStatement)
	n.AddToken(p.advance()) // ALTER
	p.expectKeyword(n, "TABLE")
	if p.accept(n, "IF") {
		p.expectKeyword(n, "EXISTS")
	}
	if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
		n.AddToken(p.advance())
	} else {
		p.bail("expected a table name")
	}
	for {
		switch {
		case p.accept(n, "DROP"), p.accept(n, "SCHEMAFULL"), p.accept(n, "SCHEMALESS"):
		case p.atKeyword("PERMISSIONS"):
			p.parsePermissions(n)
		case p.accept(n, "COMMENT"):
			n.AddNode(p.parseExpression())
		default:
			return n
		}
	}
}
