package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/parser"
	"github.com/surqlx/surlint/typ"
)

func extract(t *testing.T, src string) *Model {
	t.Helper()
	tree := parser.Parse(src)
	require.Empty(t, tree.Errors(), "unexpected parse errors in %q", src)
	return Extract(tree)
}

func TestExtractTable(t *testing.T) {
	t.Parallel()

	m := extract(t, `
		DEFINE TABLE person SCHEMAFULL;
		DEFINE TABLE log SCHEMALESS;
	`)

	person := m.Table("person")
	require.NotNil(t, person)
	assert.Equal(t, Schemafull, person.Mode)

	log := m.Table("log")
	require.NotNil(t, log)
	assert.Equal(t, Schemaless, log.Mode)

	assert.Nil(t, m.Table("missing"))
}

func TestExtractField(t *testing.T) {
	t.Parallel()

	m := extract(t, `
		DEFINE TABLE person SCHEMAFULL;
		DEFINE FIELD age ON TABLE person TYPE int;
		DEFINE FIELD address.city ON TABLE person TYPE string;
		DEFINE FIELD meta ON TABLE person FLEXIBLE TYPE object;
		DEFINE FIELD name ON TABLE person TYPE string DEFAULT 'anon';
	`)

	person := m.Table("person")
	require.NotNil(t, person)

	age := person.Fields["age"]
	require.NotNil(t, age)
	assert.True(t, age.Type.Equal(typ.Int))

	city := person.Fields["address.city"]
	require.NotNil(t, city)
	assert.Equal(t, "city", city.Name)
	assert.True(t, city.Type.Equal(typ.String))

	meta := person.Fields["meta"]
	require.NotNil(t, meta)
	assert.True(t, meta.Flexible)

	name := person.Fields["name"]
	require.NotNil(t, name)
	require.NotNil(t, name.Default)
	assert.Equal(t, ast.KindStringLiteral, name.Default.Kind)
}

func TestFieldDefinitionMayPrecedeTable(t *testing.T) {
	t.Parallel()

	m := extract(t, `
		DEFINE FIELD age ON TABLE person TYPE int;
		DEFINE TABLE person SCHEMAFULL;
	`)

	person := m.Table("person")
	require.NotNil(t, person)
	assert.Equal(t, Schemafull, person.Mode)
	require.NotNil(t, person.Fields["age"])
}

func TestFieldType(t *testing.T) {
	t.Parallel()

	m := extract(t, `
		DEFINE TABLE person SCHEMAFULL;
		DEFINE FIELD age ON TABLE person TYPE int;
		DEFINE FIELD meta ON TABLE person FLEXIBLE TYPE object;
		DEFINE TABLE log SCHEMALESS;
	`)

	assert.True(t, m.FieldType("person", "age").Equal(typ.Int))
	assert.True(t, m.FieldType("person", "missing").Equal(typ.Unknown),
		"an undeclared field on a schemafull table is unknown")
	assert.True(t, m.FieldType("person", "meta.anything").Equal(typ.Any),
		"a flexible parent admits any nested path")
	assert.True(t, m.FieldType("log", "whatever").Equal(typ.Any),
		"a schemaless table admits any field")
	assert.True(t, m.FieldType("missing", "x").Equal(typ.Unknown))
}

func TestExtractIndex(t *testing.T) {
	t.Parallel()

	m := extract(t, `
		DEFINE INDEX uniq_email ON TABLE person COLUMNS email UNIQUE;
	`)

	person := m.Table("person")
	require.NotNil(t, person)
	idx := person.Indexes["uniq_email"]
	require.NotNil(t, idx)
	assert.Equal(t, IndexUnique, idx.Kind)
	assert.Equal(t, []string{"email"}, idx.Fields)
}

func TestExtractEvent(t *testing.T) {
	t.Parallel()

	m := extract(t, `
		DEFINE EVENT created ON TABLE person WHEN $event = 'CREATE' THEN (CREATE log SET at = time::now());
	`)

	person := m.Table("person")
	require.NotNil(t, person)
	ev := person.Events["created"]
	require.NotNil(t, ev)
	assert.NotNil(t, ev.When)
	assert.NotNil(t, ev.Then)
}

func TestExtractFunction(t *testing.T) {
	t.Parallel()

	m := extract(t, `
		DEFINE FUNCTION fn::greet($name: string) -> string {
			RETURN 'hello, ' + $name;
		};
	`)

	fn := m.Function("fn::greet")
	require.NotNil(t, fn)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "name", fn.Params[0].Name)
	assert.True(t, fn.Params[0].HasType)
	assert.True(t, fn.Params[0].Type.Equal(typ.String))
	assert.True(t, fn.HasReturn)
	assert.True(t, fn.Return.Equal(typ.String))
}

func TestExtractGlobalParam(t *testing.T) {
	t.Parallel()

	m := extract(t, `DEFINE PARAM $endpoint TYPE string VALUE 'https://example.com';`)

	p := m.Globals["endpoint"]
	require.NotNil(t, p)
	assert.Equal(t, GlobalParam, p.Scope)
	assert.True(t, p.Type.Equal(typ.String))
	require.NotNil(t, p.Value)
	assert.Equal(t, ast.KindStringLiteral, p.Value.Kind)
}

func TestLetBindingScope(t *testing.T) {
	t.Parallel()

	m := extract(t, `LET $x = 1;`)

	assert.True(t, m.IsParameterDefined("x", ast.FileScope))
	assert.True(t, m.IsParameterDefined("$x", ast.FileScope), "the $ prefix is accepted")
	assert.False(t, m.IsParameterDefined("y", ast.FileScope))
}

func TestForBindingIsLocalToTheBody(t *testing.T) {
	t.Parallel()

	src := `
		FOR $item IN [1, 2, 3] {
			LET $double = $item * 2;
		};
		SELECT * FROM person WHERE age > $item;
	`
	tree := parser.Parse(src)
	require.Empty(t, tree.Errors())
	m := Extract(tree)

	var body *ast.Node
	ast.Walk(tree.Root, func(n *ast.Node) bool {
		if n.Kind == ast.KindBlock && body == nil {
			body = n
		}
		return true
	})
	require.NotNil(t, body)
	require.NotZero(t, body.Scope)

	// inside the loop body both bindings are visible
	assert.True(t, m.IsParameterDefined("item", body.Scope))
	assert.True(t, m.IsParameterDefined("double", body.Scope))

	// outside, neither is
	assert.False(t, m.IsParameterDefined("item", ast.FileScope))
	assert.False(t, m.IsParameterDefined("double", ast.FileScope))
}

func TestFunctionParamsAreLocalToTheBody(t *testing.T) {
	t.Parallel()

	src := `
		DEFINE FUNCTION fn::greet($name: string) {
			RETURN 'hello, ' + $name;
		};
	`
	tree := parser.Parse(src)
	require.Empty(t, tree.Errors())
	m := Extract(tree)

	var body *ast.Node
	ast.Walk(tree.Root, func(n *ast.Node) bool {
		if n.Kind == ast.KindBlock && body == nil {
			body = n
		}
		return true
	})
	require.NotNil(t, body)

	assert.True(t, m.IsParameterDefined("name", body.Scope))
	assert.False(t, m.IsParameterDefined("name", ast.FileScope))
}

func TestCache(t *testing.T) {
	t.Parallel()

	c := NewCache()
	src := "DEFINE TABLE person SCHEMAFULL;"

	m1 := c.ForSource(src)
	m2 := c.ForSource(src)
	assert.Same(t, m1, m2, "identical source hits the cache")
	assert.Equal(t, 1, c.Len())

	m3 := c.ForSource(src + " ")
	assert.NotSame(t, m1, m3, "any text change is a different key")
	assert.Equal(t, 2, c.Len())

	c.Invalidate(src)
	assert.Equal(t, 1, c.Len())

	m4 := c.ForSource(src)
	assert.NotSame(t, m1, m4, "invalidation forces re-extraction")
}

func TestCacheForTree(t *testing.T) {
	t.Parallel()

	c := NewCache()
	tree := parser.Parse("DEFINE TABLE person SCHEMAFULL;")

	m1 := c.ForTree(tree)
	m2 := c.ForSource(tree.Source)
	assert.Same(t, m1, m2, "tree and source share the same key")
}
