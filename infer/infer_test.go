package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/parser"
	"github.com/surqlx/surlint/schema"
	"github.com/surqlx/surlint/typ"
)

const personSchema = `
	DEFINE TABLE person SCHEMAFULL;
	DEFINE FIELD age ON TABLE person TYPE int;
	DEFINE FIELD name ON TABLE person TYPE string;
	DEFINE FIELD address.city ON TABLE person TYPE string;
	DEFINE FIELD tags ON TABLE person TYPE array<string>;
`

// inferReturn parses schema plus a RETURN statement and types the returned
// expression.
func inferReturn(t *testing.T, schemaSrc, expr string) typ.Type {
	t.Helper()
	src := schemaSrc + "\nRETURN " + expr + ";"
	tree := parser.Parse(src)
	require.Empty(t, tree.Errors(), "unexpected parse errors in %q", expr)

	stmts := tree.Statements()
	ret := stmts[len(stmts)-1]
	require.Equal(t, ast.KindReturnStatement, ret.Kind)

	inf := New(schema.Extract(tree))
	return inf.InferType(ret.NthNode(0))
}

func assertType(t *testing.T, want, got typ.Type) {
	t.Helper()
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
}

func TestInferLiterals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want typ.Type
	}{
		{"42", typ.Int},
		{"3.14", typ.Float},
		{"1e3", typ.Float},
		{"1.5f", typ.Float},
		{"42dec", typ.Decimal},
		{"'hello'", typ.String},
		{"true", typ.Bool},
		{"NULL", typ.Null},
		{"NONE", typ.None},
		{"2h", typ.Duration},
		{`d"2024-01-01T00:00:00Z"`, typ.Datetime},
		{`u"018e1c8f-0000-7000-8000-000000000000"`, typ.Uuid},
		{"person:1", typ.RecordOf("person")},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			assertType(t, tc.want, inferReturn(t, "", tc.expr))
		})
	}
}

func TestInferArrayUnifiesElements(t *testing.T) {
	t.Parallel()

	assertType(t, typ.ArrayOf(typ.Int, 0), inferReturn(t, "", "[1, 2, 3]"))
	assertType(t, typ.ArrayOf(typ.Number, 0), inferReturn(t, "", "[1, 2.5]"))
	assertType(t, typ.ArrayOf(typ.OptionOf(typ.Int), 0), inferReturn(t, "", "[1, NULL]"))
	assertType(t, typ.ArrayOf(typ.Any, 0), inferReturn(t, "", "[]"))
}

func TestInferObject(t *testing.T) {
	t.Parallel()

	got := inferReturn(t, "", "{ name: 'x', age: 30 }")
	want := typ.ObjectOf(map[string]typ.Type{"name": typ.String, "age": typ.Int}, false)
	assertType(t, want, got)
}

func TestInferComparisonAndLogical(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{
		"1 < 2", "1 = 1", "'a' != 'b'", "true AND false",
		"1 IN [1, 2]", "[1] CONTAINS 1", "'a' ~ 'b'",
	} {
		t.Run(expr, func(t *testing.T) {
			assertType(t, typ.Bool, inferReturn(t, "", expr))
		})
	}
}

func TestInferArithmetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want typ.Type
	}{
		{"1 + 2", typ.Int},
		{"1 + 2.5", typ.Float},
		{"1 + 2dec", typ.Decimal},
		{"10 / 2", typ.Int},
		{"10.0 / 2", typ.Number},
		{"2 ^ 3", typ.Float},
		{"'a' + 'b'", typ.String},
		{"1h + 30m", typ.Duration},
		{`d"2024-01-01T00:00:00Z" + 1h`, typ.Datetime},
		{`d"2024-01-02T00:00:00Z" - d"2024-01-01T00:00:00Z"`, typ.Duration},
		{"[1, 2] + [3]", typ.ArrayOf(typ.Int, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			assertType(t, tc.want, inferReturn(t, "", tc.expr))
		})
	}
}

func TestInferRange(t *testing.T) {
	t.Parallel()

	assertType(t, typ.ArrayOf(typ.Int, 0), inferReturn(t, "", "1..5"))
}

func TestInferCoalescing(t *testing.T) {
	t.Parallel()

	// NULL on the left contributes nothing once coalesced away
	assertType(t, typ.Int, inferReturn(t, "", "NULL ?? 1"))
	assertType(t, typ.String, inferReturn(t, "", "NONE ?: 'fallback'"))

	// an optional left side loses its option layer
	schemaSrc := `
		DEFINE TABLE person SCHEMAFULL;
		DEFINE FIELD nick ON TABLE person TYPE option<string>;
	`
	assertType(t, typ.String, inferReturn(t, schemaSrc, "person:1.nick ?? 'anon'"))
}

func TestInferRecordFieldAccess(t *testing.T) {
	t.Parallel()

	assertType(t, typ.Int, inferReturn(t, personSchema, "person:1.age"))
	assertType(t, typ.String, inferReturn(t, personSchema, "person:1.address.city"))
	assertType(t, typ.Unknown, inferReturn(t, personSchema, "person:1.missing"))
	assertType(t, typ.ArrayOf(typ.String, 0), inferReturn(t, personSchema, "person:1.tags"))
}

func TestInferFieldAccessOnObject(t *testing.T) {
	t.Parallel()

	assertType(t, typ.Int, inferReturn(t, "", "{ age: 30 }.age"))
	assertType(t, typ.Unknown, inferReturn(t, "", "{ age: 30 }.missing"))
}

func TestInferIndexExpression(t *testing.T) {
	t.Parallel()

	assertType(t, typ.String, inferReturn(t, personSchema, "person:1.tags[0]"))
	assertType(t, typ.ArrayOf(typ.String, 0), inferReturn(t, personSchema, "person:1.tags[*]"))
	assertType(t, typ.Int, inferReturn(t, "", `{ age: 30 }["age"]`))
}

func TestInferParameter(t *testing.T) {
	t.Parallel()

	// a LET binding without a declared type takes its value's type
	assertType(t, typ.Int, inferReturn(t, "LET $x = 1;", "$x"))

	// a declared type wins over the value
	assertType(t, typ.String, inferReturn(t, "LET $x: string = 1;", "$x"))

	// cyclic definitions resolve to unknown instead of looping
	src := "LET $a = $b; LET $b = $a;"
	assertType(t, typ.Unknown, inferReturn(t, src, "$a"))

	// undefined parameters stay unknown
	assertType(t, typ.Unknown, inferReturn(t, "", "$ghost"))
}

func TestInferCall(t *testing.T) {
	t.Parallel()

	assertType(t, typ.ArrayOf(typ.String, 0), inferReturn(t, "", `string::split("a,b", ",")`))
	assertType(t, typ.Datetime, inferReturn(t, "", "time::now()"))
	assertType(t, typ.Int, inferReturn(t, "", "count([1, 2])"))

	fnSchema := `
		DEFINE FUNCTION fn::greet($name: string) -> string {
			RETURN 'hello, ' + $name;
		};
	`
	assertType(t, typ.String, inferReturn(t, fnSchema, "fn::greet('x')"))
	assertType(t, typ.Unknown, inferReturn(t, "", "fn::missing()"))
}

func TestInferCast(t *testing.T) {
	t.Parallel()

	assertType(t, typ.Int, inferReturn(t, "", `<int> "42"`))
	assertType(t, typ.ArrayOf(typ.String, 0), inferReturn(t, "", "<array<string>> []"))
}

func TestInferSubquery(t *testing.T) {
	t.Parallel()

	assertType(t, typ.ArrayOf(typ.FreeObject(), 0),
		inferReturn(t, personSchema, "(SELECT * FROM person)"))
	assertType(t, typ.FreeObject(),
		inferReturn(t, personSchema, "(SELECT * FROM ONLY person:1)"))
	assertType(t, typ.ArrayOf(typ.RecordOf("person"), 0),
		inferReturn(t, personSchema, "(CREATE person SET name = 'x')"))
	assertType(t, typ.RecordOf("person"),
		inferReturn(t, personSchema, "(CREATE ONLY person SET name = 'x')"))
}

func TestInferSchemalessField(t *testing.T) {
	t.Parallel()

	src := "DEFINE TABLE log SCHEMALESS;"
	assertType(t, typ.Any, inferReturn(t, src, "log:1.whatever"))
}
