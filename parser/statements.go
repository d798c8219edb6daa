package parser

import (
	"fmt"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/token"
)

// clauseSet names the clause keywords a statement accepts. The clause loop
// keeps consuming clauses while the next keyword is in the set, which is
// what distinguishes, say, DELETE's trailing clauses from SELECT's.
type clauseSet map[string]bool

var (
	selectClauses = clauseSet{
		"WHERE": true, "SPLIT": true, "GROUP": true, "ORDER": true,
		"LIMIT": true, "START": true, "FETCH": true, "TIMEOUT": true,
		"PARALLEL": true, "EXPLAIN": true, "WITH": true, "OMIT": true,
		"VERSION": true,
	}
	createClauses = clauseSet{
		"SET": true, "UNSET": true, "CONTENT": true, "RETURN": true,
		"TIMEOUT": true, "PARALLEL": true, "VERSION": true,
	}
	updateClauses = clauseSet{
		"SET": true, "UNSET": true, "CONTENT": true, "MERGE": true,
		"PATCH": true, "REPLACE": true, "WHERE": true, "RETURN": true,
		"TIMEOUT": true, "PARALLEL": true,
	}
	deleteClauses = clauseSet{
		"WHERE": true, "RETURN": true, "TIMEOUT": true, "PARALLEL": true,
	}
	insertClauses = clauseSet{
		"ON": true, "RETURN": true, "TIMEOUT": true, "PARALLEL": true,
	}
	relateClauses = clauseSet{
		"SET": true, "CONTENT": true, "RETURN": true, "TIMEOUT": true,
		"PARALLEL": true,
	}
	liveClauses = clauseSet{
		"WHERE": true, "FETCH": true,
	}
)

// parseStatement dispatches on the leading keyword. A bailout raised by any
// failed expectation inside the statement is caught here: the parser rewinds
// to the statement start and folds the malformed region into one error node,
// resuming at the next statement boundary.
func (p *Parser) parseStatement() (stmt *ast.Node) {
	start := p.pos
	startDepth := p.depth
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		p.pos = start
		p.depth = startDepth
		stmt = p.recover(b.msg)
	}()

	t := p.cur()
	if t.Kind != token.Keyword {
		return p.recover(fmt.Sprintf("expected a statement, found %q", t.Text))
	}

	switch t.Keyword() {
	case "SELECT":
		return p.parseSelect()
	case "CREATE":
		return p.parseMutation(ast.KindCreateStatement, createClauses)
	case "UPDATE":
		return p.parseMutation(ast.KindUpdateStatement, updateClauses)
	case "UPSERT":
		return p.parseMutation(ast.KindUpsertStatement, updateClauses)
	case "DELETE":
		return p.parseMutation(ast.KindDeleteStatement, deleteClauses)
	case "INSERT":
		return p.parseInsert()
	case "RELATE":
		return p.parseRelate()
	case "DEFINE":
		return p.parseDefine()
	case "REMOVE":
		return p.parseRemove()
	case "ALTER":
		return p.parseAlter()
	case "LET":
		return p.parseLet()
	case "IF":
		return p.parseIf()
	case "FOR":
		return p.parseFor()
	case "RETURN":
		return p.parseReturn()
	case "THROW":
		return p.parseThrow()
	case "BEGIN":
		return p.parseTransaction(ast.KindBeginStatement)
	case "COMMIT":
		return p.parseTransaction(ast.KindCommitStatement)
	case "CANCEL":
		return p.parseTransaction(ast.KindCancelStatement)
	case "USE":
		return p.parseUse()
	case "INFO":
		return p.parseInfo()
	case "LIVE":
		return p.parseLive()
	case "KILL":
		return p.parseKill()
	case "SLEEP":
		return p.parseSleep()
	case "SHOW":
		return p.parseShow()
	case "REBUILD":
		return p.parseRebuild()
	case "OPTION":
		return p.parseOption()
	case "BREAK":
		n := ast.New(ast.KindBreakStatement)
		n.AddToken(p.advance())
		return n
	case "CONTINUE":
		n := ast.New(ast.KindContinueStatement)
		n.AddToken(p.advance())
		return n
	}
	return p.recover(fmt.Sprintf("unexpected keyword %q at statement start", t.Text))
}

// atStatementStart reports whether the current token begins a statement.
func (p *Parser) atStatementStart() bool {
	t := p.cur()
	return t.Kind == token.Keyword && token.IsStatementKeyword(t.Text)
}

func (p *Parser) atStatementEnd() bool {
	switch p.cur().Kind {
	case token.EOF, token.Semicolon, token.RParen, token.RBrace, token.RBracket:
		return true
	}
	return false
}

// parseClauses consumes trailing clauses whose keyword is in the allowed
// set, stopping at the first keyword outside it or a statement boundary.
func (p *Parser) parseClauses(stmt *ast.Node, allowed clauseSet) {
	for {
		t := p.cur()
		if t.Kind != token.Keyword || !allowed[t.Keyword()] {
			return
		}
		stmt.AddNode(p.parseClause(t.Keyword()))
	}
}

func (p *Parser) parseClause(kw string) *ast.Node {
	switch kw {
	case "WHERE":
		n := ast.New(ast.KindWhereClause)
		n.AddToken(p.advance())
		n.AddNode(p.parseExpression())
		return n
	case "SET":
		return p.parseSetClause()
	case "UNSET":
		n := ast.New(ast.KindUnsetClause)
		n.AddToken(p.advance())
		p.parseExprList(n)
		return n
	case "CONTENT":
		n := ast.New(ast.KindContentClause)
		n.AddToken(p.advance())
		n.AddNode(p.parseExpression())
		return n
	case "MERGE":
		n := ast.New(ast.KindMergeClause)
		n.AddToken(p.advance())
		n.AddNode(p.parseExpression())
		return n
	case "PATCH":
		n := ast.New(ast.KindPatchClause)
		n.AddToken(p.advance())
		n.AddNode(p.parseExpression())
		return n
	case "REPLACE":
		n := ast.New(ast.KindReplaceClause)
		n.AddToken(p.advance())
		n.AddNode(p.parseExpression())
		return n
	case "LIMIT":
		n := ast.New(ast.KindLimitClause)
		n.AddToken(p.advance())
		p.accept(n, "BY")
		n.AddNode(p.parseExpression())
		return n
	case "START":
		n := ast.New(ast.KindStartClause)
		n.AddToken(p.advance())
		p.accept(n, "AT")
		n.AddNode(p.parseExpression())
		return n
	case "ORDER":
		return p.parseOrderBy()
	case "GROUP":
		n := ast.New(ast.KindGroupByClause)
		n.AddToken(p.advance())
		p.accept(n, "BY")
		if p.accept(n, "ALL") {
			return n
		}
		p.parseExprList(n)
		return n
	case "SPLIT":
		n := ast.New(ast.KindSplitClause)
		n.AddToken(p.advance())
		p.accept(n, "AT")
		p.parseExprList(n)
		return n
	case "FETCH":
		n := ast.New(ast.KindFetchClause)
		n.AddToken(p.advance())
		p.parseExprList(n)
		return n
	case "TIMEOUT":
		n := ast.New(ast.KindTimeoutClause)
		n.AddToken(p.advance())
		n.AddNode(p.parseExpression())
		return n
	case "PARALLEL":
		n := ast.New(ast.KindParallelClause)
		n.AddToken(p.advance())
		return n
	case "EXPLAIN":
		n := ast.New(ast.KindExplainClause)
		n.AddToken(p.advance())
		p.accept(n, "FULL")
		return n
	case "WITH":
		n := ast.New(ast.KindWithClause)
		n.AddToken(p.advance())
		if p.accept(n, "NOINDEX") {
			return n
		}
		p.accept(n, "INDEX")
		for p.at(token.Identifier) {
			n.AddToken(p.advance())
			if !p.at(token.Comma) {
				break
			}
			n.AddToken(p.advance())
		}
		return n
	case "OMIT":
		n := ast.New(ast.KindOmitClause)
		n.AddToken(p.advance())
		p.parseExprList(n)
		return n
	case "VERSION":
		n := ast.New(ast.KindVersionClause)
		n.AddToken(p.advance())
		n.AddNode(p.parseExpression())
		return n
	case "RETURN":
		n := ast.New(ast.KindReturnClause)
		n.AddToken(p.advance())
		// RETURN NONE | BEFORE | AFTER | DIFF | fields
		if p.atKeyword("NONE", "DIFF") {
			n.AddToken(p.advance())
			return n
		}
		if p.at(token.Identifier) && (p.cur().Text == "BEFORE" || p.cur().Text == "AFTER" ||
			p.cur().Text == "before" || p.cur().Text == "after") {
			n.AddToken(p.advance())
			return n
		}
		p.parseExprList(n)
		return n
	case "ON":
		// ON DUPLICATE KEY UPDATE field = expr, ...
		n := ast.New(ast.KindOnDuplicateClause)
		n.AddToken(p.advance())
		p.expectKeyword(n, "DUPLICATE")
		p.expectKeyword(n, "KEY")
		p.expectKeyword(n, "UPDATE")
		p.parseAssignmentList(n)
		return n
	}
	return p.recover(fmt.Sprintf("unsupported clause %q", kw))
}

func (p *Parser) parseSetClause() *ast.Node {
	n := ast.New(ast.KindSetClause)
	n.AddToken(p.advance())
	p.parseAssignmentList(n)
	return n
}

// parseAssignmentList parses `field op expr` pairs separated by commas,
// where op is =, += or -=.
func (p *Parser) parseAssignmentList(n *ast.Node) {
	for {
		assign := ast.New(ast.KindBinaryExpression)
		assign.AddNode(p.parsePostfix())
		switch p.cur().Kind {
		case token.Assign, token.PlusEq, token.MinusEq:
			assign.AddToken(p.advance())
		default:
			p.bail(fmt.Sprintf("expected assignment operator, found %q", p.cur().Text))
		}
		assign.AddNode(p.parseExpression())
		n.AddNode(assign)
		if !p.at(token.Comma) {
			return
		}
		n.AddToken(p.advance())
	}
}

func (p *Parser) parseOrderBy() *ast.Node {
	n := ast.New(ast.KindOrderByClause)
	n.AddToken(p.advance()) // ORDER
	p.accept(n, "BY")
	for {
		n.AddNode(p.parseExpression())
		p.accept(n, "COLLATE")
		p.accept(n, "NUMERIC")
		if !p.accept(n, "ASC") {
			p.accept(n, "DESC")
		}
		if !p.at(token.Comma) {
			return n
		}
		n.AddToken(p.advance())
	}
}

// parseExprList parses a comma-separated expression list into n.
func (p *Parser) parseExprList(n *ast.Node) {
	for {
		n.AddNode(p.parseExpression())
		if !p.at(token.Comma) {
			return
		}
		n.AddToken(p.advance())
	}
}

func (p *Parser) parseSelect() *ast.Node {
	n := ast.New(ast.KindSelectStatement)
	n.AddToken(p.advance()) // SELECT
	p.accept(n, "VALUE")

	// projection list: * or expressions with optional AS alias
	for {
		if p.at(token.Star) {
			proj := ast.New(ast.KindIdentifier)
			proj.AddToken(p.advance())
			n.AddNode(proj)
		} else {
			n.AddNode(p.parseExpression())
		}
		if p.accept(n, "AS") {
			if !p.at(token.Identifier) && p.cur().Kind != token.Keyword {
				p.bail("expected alias name after AS")
			} else {
				n.AddToken(p.advance())
			}
		}
		if !p.at(token.Comma) {
			break
		}
		n.AddToken(p.advance())
	}

	from := ast.New(ast.KindFromClause)
	if p.expectKeyword(from, "FROM") {
		p.accept(from, "ONLY")
		p.parseExprList(from)
	}
	n.AddNode(from)

	p.parseClauses(n, selectClauses)
	return n
}

// parseMutation covers CREATE, UPDATE, UPSERT and DELETE, which share the
// shape `KEYWORD [ONLY] targets clauses...`.
func (p *Parser) parseMutation(kind ast.Kind, clauses clauseSet) *ast.Node {
	n := ast.New(kind)
	n.AddToken(p.advance())
	if kind == ast.KindDeleteStatement {
		p.accept(n, "FROM")
	}
	p.accept(n, "ONLY")
	p.parseExprList(n)
	p.parseClauses(n, clauses)
	return n
}

func (p *Parser) parseInsert() *ast.Node {
	n := ast.New(ast.KindInsertStatement)
	n.AddToken(p.advance()) // INSERT
	p.accept(n, "RELATION")
	p.accept(n, "IGNORE")
	p.expectKeyword(n, "INTO")
	if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
		target := ast.New(ast.KindIdentifier)
		target.AddToken(p.advance())
		n.AddNode(target)
	} else {
		p.bail("expected a table name after INTO")
	}

	// Either a value expression (object/array/param) or
	// (cols...) VALUES (vals...), ...
	if p.at(token.LParen) {
		cols := ast.New(ast.KindValuesClause)
		cols.AddToken(p.advance())
		p.parseExprList(cols)
		p.expect(cols, token.RParen, ")")
		p.expectKeyword(cols, "VALUES")
		for p.at(token.LParen) {
			cols.AddToken(p.advance())
			p.parseExprList(cols)
			p.expect(cols, token.RParen, ")")
			if !p.at(token.Comma) {
				break
			}
			cols.AddToken(p.advance())
		}
		n.AddNode(cols)
	} else {
		n.AddNode(p.parseExpression())
	}

	p.parseClauses(n, insertClauses)
	return n
}

func (p *Parser) parseRelate() *ast.Node {
	n := ast.New(ast.KindRelateStatement)
	n.AddToken(p.advance())
	p.accept(n, "ONLY")
	n.AddNode(p.parseExpression()) // from->edge->to, parsed as graph expr
	p.parseClauses(n, relateClauses)
	return n
}

func (p *Parser) parseLet() *ast.Node {
	n := ast.New(ast.KindLetStatement)
	n.AddToken(p.advance()) // LET
	if p.at(token.Parameter) {
		param := ast.New(ast.KindParameter)
		param.AddToken(p.advance())
		n.AddNode(param)
	} else {
		p.bail(fmt.Sprintf("expected a parameter after LET, found %q", p.cur().Text))
	}
	// optional declared type: LET $x: int = ...
	if p.at(token.Colon) {
		n.AddToken(p.advance())
		n.AddNode(p.parseTypeName())
	}
	p.expect(n, token.Assign, "=")
	n.AddNode(p.parseExpression())
	return n
}

func (p *Parser) parseIf() *ast.Node {
	n := ast.New(ast.KindIfStatement)
	n.AddToken(p.advance()) // IF
	n.AddNode(p.parseExpression())

	if p.accept(n, "THEN") {
		// legacy form: IF c THEN e [ELSE e] END
		n.AddNode(p.parseBranchValue())
		for p.accept(n, "ELSE") {
			if p.atKeyword("IF") {
				n.AddToken(p.advance())
				n.AddNode(p.parseExpression())
				p.expectKeyword(n, "THEN")
			}
			n.AddNode(p.parseBranchValue())
		}
		p.accept(n, "END")
		return n
	}

	n.AddNode(p.parseBlock())
	for p.accept(n, "ELSE") {
		if p.atKeyword("IF") {
			n.AddToken(p.advance())
			n.AddNode(p.parseExpression())
		}
		if p.at(token.LBrace) {
			n.AddNode(p.parseBlock())
		} else {
			n.AddNode(p.parseBranchValue())
		}
	}
	return n
}

// parseBranchValue parses an if-branch body that is a single value or a
// block.
func (p *Parser) parseBranchValue() *ast.Node {
	if p.at(token.LBrace) {
		return p.parseBlock()
	}
	return p.parseExpression()
}

func (p *Parser) parseFor() *ast.Node {
	n := ast.New(ast.KindForStatement)
	n.AddToken(p.advance()) // FOR
	if p.at(token.Parameter) {
		param := ast.New(ast.KindParameter)
		param.AddToken(p.advance())
		n.AddNode(param)
	} else {
		p.bail("expected a parameter after FOR")
	}
	p.expectKeyword(n, "IN")
	n.AddNode(p.parseExpression())
	if p.at(token.LBrace) {
		n.AddNode(p.parseBlock())
	} else {
		p.bail("expected a block after FOR")
	}
	return n
}

// parseBlock parses `{ statements }` and introduces a new scope.
func (p *Parser) parseBlock() *ast.Node {
	n := ast.New(ast.KindBlock)
	n.Scope = p.pushScope()
	defer p.popScope()

	n.AddToken(p.advance()) // {
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.Semicolon) {
			n.AddToken(p.advance())
			continue
		}
		if p.atStatementStart() {
			n.AddNode(p.parseStatement())
		} else {
			n.AddNode(p.parseExpression())
		}
	}
	p.expect(n, token.RBrace, "}")
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	n := ast.New(ast.KindReturnStatement)
	n.AddToken(p.advance())
	if !p.atStatementEnd() {
		n.AddNode(p.parseExpression())
	}
	return n
}

func (p *Parser) parseThrow() *ast.Node {
	n := ast.New(ast.KindThrowStatement)
	n.AddToken(p.advance())
	n.AddNode(p.parseExpression())
	return n
}

func (p *Parser) parseTransaction(kind ast.Kind) *ast.Node {
	n := ast.New(kind)
	n.AddToken(p.advance())
	p.accept(n, "TRANSACTION")
	return n
}

func (p *Parser) parseUse() *ast.Node {
	n := ast.New(ast.KindUseStatement)
	n.AddToken(p.advance())
	for {
		switch {
		case p.atKeyword("NAMESPACE", "DATABASE"):
			n.AddToken(p.advance())
			if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
				n.AddToken(p.advance())
			}
		case p.at(token.Identifier) && (p.cur().Text == "NS" || p.cur().Text == "DB" ||
			p.cur().Text == "ns" || p.cur().Text == "db"):
			n.AddToken(p.advance())
			if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
				n.AddToken(p.advance())
			}
		default:
			return n
		}
	}
}

func (p *Parser) parseInfo() *ast.Node {
	n := ast.New(ast.KindInfoStatement)
	n.AddToken(p.advance())
	p.expectKeyword(n, "FOR")
	switch {
	case p.atKeyword("ROOT", "NAMESPACE", "DATABASE"):
		n.AddToken(p.advance())
	case p.atKeyword("TABLE", "USER", "INDEX"):
		n.AddToken(p.advance())
		if p.at(token.Identifier) {
			n.AddToken(p.advance())
		}
		if p.accept(n, "ON") {
			p.accept(n, "TABLE")
			if p.at(token.Identifier) {
				n.AddToken(p.advance())
			}
		}
	default:
		p.bail("expected an INFO target")
	}
	return n
}

func (p *Parser) parseLive() *ast.Node {
	n := ast.New(ast.KindLiveStatement)
	n.AddToken(p.advance()) // LIVE
	if p.atKeyword("SELECT") {
		n.AddToken(p.advance())
		if !p.accept(n, "DIFF") {
			if p.at(token.Star) {
				n.AddToken(p.advance())
			} else {
				p.parseExprList(n)
			}
		}
		from := ast.New(ast.KindFromClause)
		if p.expectKeyword(from, "FROM") {
			p.parseExprList(from)
		}
		n.AddNode(from)
		p.parseClauses(n, liveClauses)
		return n
	}
	p.bail("expected SELECT after LIVE")
	return n
}

func (p *Parser) parseKill() *ast.Node {
	n := ast.New(ast.KindKillStatement)
	n.AddToken(p.advance())
	n.AddNode(p.parseExpression())
	return n
}

func (p *Parser) parseSleep() *ast.Node {
	n := ast.New(ast.KindSleepStatement)
	n.AddToken(p.advance())
	n.AddNode(p.parseExpression())
	return n
}

func (p *Parser) parseShow() *ast.Node {
	n := ast.New(ast.KindShowStatement)
	n.AddToken(p.advance()) // SHOW
	p.expectKeyword(n, "CHANGES")
	p.expectKeyword(n, "FOR")
	p.expectKeyword(n, "TABLE")
	if p.at(token.Identifier) {
		n.AddToken(p.advance())
	} else {
		p.bail("expected a table name")
	}
	if p.accept(n, "SINCE") {
		n.AddNode(p.parseExpression())
	}
	if p.accept(n, "LIMIT") {
		n.AddNode(p.parseExpression())
	}
	return n
}

func (p *Parser) parseRebuild() *ast.Node {
	n := ast.New(ast.KindRebuildStatement)
	n.AddToken(p.advance()) // REBUILD
	p.expectKeyword(n, "INDEX")
	if p.accept(n, "IF") {
		p.expectKeyword(n, "EXISTS")
	}
	if p.at(token.Identifier) {
		n.AddToken(p.advance())
	}
	if p.accept(n, "ON") {
		p.accept(n, "TABLE")
		if p.at(token.Identifier) {
			n.AddToken(p.advance())
		}
	}
	return n
}

func (p *Parser) parseOption() *ast.Node {
	n := ast.New(ast.KindOptionStatement)
	n.AddToken(p.advance()) // OPTION
	if p.at(token.Identifier) || p.cur().Kind == token.Keyword {
		n.AddToken(p.advance())
	} else {
		p.bail("expected an option name")
	}
	if p.at(token.Assign) {
		n.AddToken(p.advance())
		n.AddNode(p.parseExpression())
	}
	return n
}

// parseTypeName consumes a declared type name (possibly generic or a `|`
// union) as raw tokens, tracking angle-bracket depth.
func (p *Parser) parseTypeName() *ast.Node {
	n := ast.New(ast.KindTypeName)
	depth := 0
	for {
		t := p.cur()
		switch t.Kind {
		case token.Less:
			depth++
		case token.Greater:
			if depth == 0 {
				return n
			}
			depth--
		case token.Identifier, token.Keyword, token.Number,
			token.String, token.Comma, token.VerticalBar, token.Dot:
			// part of the name
		default:
			return n
		}
		n.AddToken(p.advance())
		if depth == 0 {
			// a simple name ends unless a generic or union continues it
			if !p.at(token.Less) && !p.at(token.VerticalBar) {
				return n
			}
		}
	}
}
