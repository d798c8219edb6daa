package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/token"
)

// returnedExpr parses a single RETURN statement and yields its expression.
func returnedExpr(t *testing.T, src string) *ast.Node {
	t.Helper()
	tree := Parse(src)
	require.Empty(t, tree.Errors(), "unexpected parse errors in %q", src)
	stmts := tree.Statements()
	require.Len(t, stmts, 1)
	require.Equal(t, ast.KindReturnStatement, stmts[0].Kind)
	expr := stmts[0].NthNode(0)
	require.NotNil(t, expr)
	return expr
}

// collectTexts flattens every token of the tree back into source order.
func collectTexts(n *ast.Node) []string {
	var out []string
	for _, c := range n.Children {
		if c.Token != nil {
			if c.Token.Kind != token.EOF {
				out = append(out, c.Token.Text)
			}
			continue
		}
		out = append(out, collectTexts(c.Node)...)
	}
	return out
}

func TestParseStatementKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		kind ast.Kind
	}{
		{"SELECT * FROM person", ast.KindSelectStatement},
		{"CREATE person SET name = 'x'", ast.KindCreateStatement},
		{"UPDATE person:1 SET age = 2", ast.KindUpdateStatement},
		{"UPSERT person SET age = 2", ast.KindUpsertStatement},
		{"DELETE person WHERE age < 18", ast.KindDeleteStatement},
		{"INSERT INTO person { name: 'x' }", ast.KindInsertStatement},
		{"RELATE person:1->knows->person:2", ast.KindRelateStatement},
		{"DEFINE TABLE person SCHEMAFULL", ast.KindDefineStatement},
		{"REMOVE TABLE person", ast.KindRemoveStatement},
		{"LET $x = 1", ast.KindLetStatement},
		{"IF $x > 1 { RETURN 1 }", ast.KindIfStatement},
		{"FOR $item IN [1, 2] { RETURN $item }", ast.KindForStatement},
		{"RETURN 42", ast.KindReturnStatement},
		{"THROW 'boom'", ast.KindThrowStatement},
		{"BEGIN TRANSACTION", ast.KindBeginStatement},
		{"COMMIT TRANSACTION", ast.KindCommitStatement},
		{"USE NS test DB test", ast.KindUseStatement},
		{"INFO FOR DATABASE", ast.KindInfoStatement},
		{"BREAK", ast.KindBreakStatement},
		{"CONTINUE", ast.KindContinueStatement},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			tree := Parse(tc.src)
			require.Empty(t, tree.Errors(), "source: %s", tc.src)
			stmts := tree.Statements()
			require.Len(t, stmts, 1)
			assert.Equal(t, tc.kind, stmts[0].Kind)
		})
	}
}

func TestParseRetainsEveryToken(t *testing.T) {
	t.Parallel()

	sources := []string{
		"SELECT name, age FROM person WHERE age >= 18 ORDER BY age DESC LIMIT 10;",
		"DEFINE FIELD email ON TABLE person TYPE string ASSERT string::is::email($value);",
		"LET $totals = (SELECT math::sum(amount) FROM payment GROUP ALL);",
		"UPDATE person SET tags += 'vip' WHERE score > 9000;",
	}
	for _, src := range sources {
		tree := Parse(src)
		require.Empty(t, tree.Errors(), "source: %s", src)

		// every source token survives in the tree, in order
		rendered := strings.Join(collectTexts(tree.Root), "")
		stripped := strings.Join(strings.Fields(src), "")
		assert.Equal(t, stripped, rendered)
	}
}

func TestParsePrecedence(t *testing.T) {
	t.Parallel()

	expr := returnedExpr(t, "RETURN 1 + 2 * 3")
	require.Equal(t, ast.KindBinaryExpression, expr.Kind)
	assert.Equal(t, "+", expr.Operator())

	right := expr.Right()
	require.NotNil(t, right)
	assert.Equal(t, ast.KindBinaryExpression, right.Kind)
	assert.Equal(t, "*", right.Operator())
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	t.Parallel()

	expr := returnedExpr(t, "RETURN 2 ^ 3 ^ 2")
	require.Equal(t, ast.KindBinaryExpression, expr.Kind)
	assert.Equal(t, "^", expr.Operator())
	assert.Equal(t, "2", expr.Left().Text())

	right := expr.Right()
	require.Equal(t, ast.KindBinaryExpression, right.Kind)
	assert.Equal(t, "^", right.Operator())
}

func TestParseWordOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src string
		op  string
	}{
		{"RETURN $a IS NOT $b", "IS NOT"},
		{"RETURN $a NOT IN $b", "NOT IN"},
		{"RETURN $a CONTAINS $b", "CONTAINS"},
		{"RETURN $a AND $b", "AND"},
		{"RETURN $a ?? $b", "??"},
	}
	for _, tc := range tests {
		t.Run(tc.op, func(t *testing.T) {
			expr := returnedExpr(t, tc.src)
			require.Equal(t, ast.KindBinaryExpression, expr.Kind)
			assert.Equal(t, tc.op, expr.Operator())
		})
	}
}

func TestParseFieldAccessChain(t *testing.T) {
	t.Parallel()

	expr := returnedExpr(t, "RETURN person:1.address.city")
	require.Equal(t, ast.KindFieldAccess, expr.Kind)
	assert.Equal(t, "city", expr.FieldName())

	base := expr.Base()
	require.Equal(t, ast.KindFieldAccess, base.Kind)
	assert.Equal(t, "address", base.FieldName())
	assert.Equal(t, ast.KindRecordIDLiteral, base.Base().Kind)
	assert.Equal(t, "person", base.Base().RecordTable())
}

func TestParseCallExpression(t *testing.T) {
	t.Parallel()

	expr := returnedExpr(t, `RETURN string::split("a,b", ",")`)
	require.Equal(t, ast.KindCallExpression, expr.Kind)
	assert.Equal(t, "string::split", expr.Callee())
	assert.Len(t, expr.Args(), 2)
}

func TestParseErrorRecovery(t *testing.T) {
	t.Parallel()

	src := "SELECT * FROM person; LET = 5; CREATE person SET name = 'x';"
	tree := Parse(src)

	var kinds []ast.Kind
	for _, stmt := range tree.Statements() {
		kinds = append(kinds, stmt.Kind)
	}
	assert.Contains(t, kinds, ast.KindSelectStatement)
	assert.Contains(t, kinds, ast.KindCreateStatement)

	// one malformed statement between two good ones yields exactly one
	// error node, not a cascade
	errs := tree.Errors()
	require.Len(t, errs, 1)
	assert.NotEmpty(t, errs[0].Err)

	// the statements on either side of the bad one survive intact
	first := tree.Statements()[0]
	assert.Equal(t, ast.KindSelectStatement, first.Kind)
	last := tree.Statements()[len(tree.Statements())-1]
	assert.Equal(t, ast.KindCreateStatement, last.Kind)
}

func TestParseErrorRecoveryFoldsCascades(t *testing.T) {
	t.Parallel()

	// every failed expectation after the first must fold into the same
	// error node instead of minting its own
	tests := []string{
		"LET = 5;",
		"SELECT * FROM;",
		"DEFINE FIELD ON person;",
		"RETURN 1; LET $x: = ; RETURN 2;",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			tree := Parse(src)
			assert.Len(t, tree.Errors(), 1)
		})
	}
}

func TestParseNeverReturnsNilTree(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"", ";;;", "garbage tokens here", "SELECT"} {
		tree := Parse(src)
		require.NotNil(t, tree)
		require.NotNil(t, tree.Root)
		assert.Equal(t, ast.KindFile, tree.Root.Kind)
	}
}

func TestParseScopes(t *testing.T) {
	t.Parallel()

	tree := Parse("FOR $x IN [1] { LET $y = $x; };")
	require.Empty(t, tree.Errors())

	assert.Equal(t, ast.ScopeID(0), tree.ParentScope[ast.FileScope])

	var body *ast.Node
	ast.Walk(tree.Root, func(n *ast.Node) bool {
		if n.Kind == ast.KindBlock {
			body = n
		}
		return true
	})
	require.NotNil(t, body)
	require.NotZero(t, body.Scope)
	assert.Equal(t, ast.FileScope, tree.ParentScope[body.Scope])
}

func TestParseSubquery(t *testing.T) {
	t.Parallel()

	expr := returnedExpr(t, "RETURN (SELECT * FROM person)")
	require.Equal(t, ast.KindSubquery, expr.Kind)
	inner := expr.NthNode(0)
	require.NotNil(t, inner)
	assert.Equal(t, ast.KindSelectStatement, inner.Kind)
}

func TestParseCastExpression(t *testing.T) {
	t.Parallel()

	expr := returnedExpr(t, "RETURN <int> \"42\"")
	require.Equal(t, ast.KindCastExpression, expr.Kind)
	assert.Equal(t, "int", expr.CastType())
	require.NotNil(t, expr.Operand())
	assert.Equal(t, ast.KindStringLiteral, expr.Operand().Kind)
}
