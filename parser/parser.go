// Package parser builds the concrete syntax tree for query-language source
// text. Parsing always returns a tree: malformed regions become error nodes
// carrying a message, and parsing resumes at the next statement boundary.
package parser

import (
	"fmt"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/token"
)

// Parser consumes the token stream and produces a CST.
type Parser struct {
	src    string
	tokens []token.Token
	pos    int

	nextScope  ast.ScopeID
	scopeStack []ast.ScopeID
	parents    map[ast.ScopeID]ast.ScopeID

	// depth tracks open brackets so recovery does not resynchronize on a
	// `;` nested inside a block.
	depth int
}

// Parse tokenizes and parses the given source text.
func Parse(src string) *ast.Tree {
	return ParseTokens(src, token.Tokenize(src))
}

// ParseTokens parses an already tokenized source text.
func ParseTokens(src string, tokens []token.Token) *ast.Tree {
	p := &Parser{
		src:        src,
		tokens:     tokens,
		nextScope:  ast.FileScope + 1,
		scopeStack: []ast.ScopeID{ast.FileScope},
		parents:    map[ast.ScopeID]ast.ScopeID{ast.FileScope: 0},
	}

	root := ast.New(ast.KindFile)
	root.Scope = ast.FileScope
	for !p.at(token.EOF) {
		if p.at(token.Semicolon) {
			root.AddToken(p.advance())
			continue
		}
		root.AddNode(p.parseStatement())
	}

	return &ast.Tree{Root: root, Source: src, ParentScope: p.parents}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) at(kind token.Kind) bool { return p.cur().Kind == kind }

func (p *Parser) atKeyword(kws ...string) bool {
	t := p.cur()
	for _, kw := range kws {
		if t.Is(kw) {
			return true
		}
	}
	return false
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	switch t.Kind {
	case token.LParen, token.LBracket, token.LBrace:
		p.depth++
	case token.RParen, token.RBracket, token.RBrace:
		if p.depth > 0 {
			p.depth--
		}
	}
	return t
}

// accept consumes the current token into n when it is the given keyword.
func (p *Parser) accept(n *ast.Node, kw string) bool {
	if p.atKeyword(kw) {
		n.AddToken(p.advance())
		return true
	}
	return false
}

// expect consumes a token of the given kind into n, or aborts the current
// statement.
func (p *Parser) expect(n *ast.Node, kind token.Kind, what string) bool {
	if p.at(kind) {
		n.AddToken(p.advance())
		return true
	}
	p.bail(fmt.Sprintf("expected %s, found %q", what, p.cur().Text))
	return false
}

func (p *Parser) expectKeyword(n *ast.Node, kw string) bool {
	if p.atKeyword(kw) {
		n.AddToken(p.advance())
		return true
	}
	p.bail(fmt.Sprintf("expected %s, found %q", kw, p.cur().Text))
	return false
}

// bailout carries the first failure message out of a statement parser.
// parseStatement turns it into a single error node spanning the rest of the
// statement, so one malformed statement never produces a cascade of errors.
type bailout struct {
	msg string
}

// bail aborts the current statement parser. The return type lets expression
// parsers use it in return position; it never actually returns.
func (p *Parser) bail(msg string) *ast.Node {
	panic(bailout{msg: msg})
}

// recover consumes tokens into an error node until the next statement
// boundary: a `;` at the statement's bracket depth, a keyword that starts a
// statement, or a bracket that closes an already-open one.
func (p *Parser) recover(msg string) *ast.Node {
	n := ast.New(ast.KindError)
	n.Err = msg
	baseDepth := p.depth
	if p.at(token.EOF) {
		n.AddToken(p.cur())
		return n
	}
	for !p.at(token.EOF) {
		t := p.cur()
		if t.Kind == token.Semicolon && p.depth <= baseDepth {
			break
		}
		if t.Kind == token.Keyword && token.IsStatementKeyword(t.Text) &&
			p.depth <= baseDepth && len(n.Children) > 0 {
			break
		}
		switch t.Kind {
		case token.RParen, token.RBracket, token.RBrace:
			if p.depth <= baseDepth {
				// a stray closer at statement level starts nothing;
				// consume it so parsing always progresses
				if len(n.Children) == 0 {
					n.AddToken(p.advance())
				}
				return n
			}
		}
		n.AddToken(p.advance())
	}
	return n
}

// scopes

func (p *Parser) pushScope() ast.ScopeID {
	id := p.nextScope
	p.nextScope++
	p.parents[id] = p.scopeStack[len(p.scopeStack)-1]
	p.scopeStack = append(p.scopeStack, id)
	return id
}

func (p *Parser) popScope() {
	p.scopeStack = p.scopeStack[:len(p.scopeStack)-1]
}
