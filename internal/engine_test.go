package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/surqlx/surlint/internal/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(nil)
	require.NoError(t, err)
	return engine
}

func issuesOf(issues []tt.Issue, rule string) []tt.Issue {
	var out []tt.Issue
	for _, issue := range issues {
		if issue.Rule == rule {
			out = append(out, issue)
		}
	}
	return out
}

func TestEngineCleanSource(t *testing.T) {
	t.Parallel()

	src := `
		DEFINE TABLE person SCHEMAFULL;
		DEFINE FIELD name ON TABLE person TYPE string;
		DEFINE FIELD age ON TABLE person TYPE int;

		SELECT name, age FROM person WHERE age >= 18;
		CREATE person SET name = 'tobie', age = 30;
	`
	issues, err := newTestEngine(t).RunSource([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestEngineDetectsSyntaxErrors(t *testing.T) {
	t.Parallel()

	issues, err := newTestEngine(t).RunSource([]byte("SELECT * FROM;"))
	require.NoError(t, err)

	found := issuesOf(issues, "syntax-error")
	require.NotEmpty(t, found)
	assert.Equal(t, tt.SeverityError, found[0].Severity)
	assert.NotEmpty(t, found[0].Message)
}

func TestEngineDetectsFieldTypeMismatch(t *testing.T) {
	t.Parallel()

	src := `
		DEFINE TABLE person SCHEMAFULL;
		DEFINE FIELD age ON TABLE person TYPE int;

		CREATE person SET age = 'not a number';
	`
	issues, err := newTestEngine(t).RunSource([]byte(src))
	require.NoError(t, err)

	found := issuesOf(issues, "field-type-mismatch")
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "person.age")
	assert.Equal(t, "int", found[0].Expected)
	assert.Equal(t, "string", found[0].Actual)
}

func TestEngineDetectsOperatorTypeMismatch(t *testing.T) {
	t.Parallel()

	issues, err := newTestEngine(t).RunSource([]byte("RETURN true + 1;"))
	require.NoError(t, err)

	found := issuesOf(issues, "operator-type-mismatch")
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "+")
}

func TestEngineDetectsBadFunctionArguments(t *testing.T) {
	t.Parallel()

	issues, err := newTestEngine(t).RunSource([]byte(`RETURN string::split("a,b", 1);`))
	require.NoError(t, err)

	found := issuesOf(issues, "function-arguments")
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "argument 2 (separator) of string::split")
}

func TestEngineDetectsUnknownFunction(t *testing.T) {
	t.Parallel()

	issues, err := newTestEngine(t).RunSource([]byte("RETURN string::frobnicate('x');"))
	require.NoError(t, err)

	found := issuesOf(issues, "function-arguments")
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "unknown function string::frobnicate")
}

func TestEngineDetectsUnknownFields(t *testing.T) {
	t.Parallel()

	src := `
		DEFINE TABLE person SCHEMAFULL;
		DEFINE FIELD name ON TABLE person TYPE string;

		SELECT name, nickname FROM person;
	`
	issues, err := newTestEngine(t).RunSource([]byte(src))
	require.NoError(t, err)

	found := issuesOf(issues, "unknown-field")
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "nickname")
	assert.Contains(t, found[0].Message, "person")
	assert.Equal(t, tt.SeverityWarning, found[0].Severity)
}

func TestEngineSchemalessTableIsNotChecked(t *testing.T) {
	t.Parallel()

	src := `
		DEFINE TABLE log SCHEMALESS;
		SELECT anything, at, level FROM log;
	`
	issues, err := newTestEngine(t).RunSource([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, issuesOf(issues, "unknown-field"))
}

func TestEngineDetectsUndefinedParameters(t *testing.T) {
	t.Parallel()

	issues, err := newTestEngine(t).RunSource([]byte("RETURN $nope;"))
	require.NoError(t, err)

	found := issuesOf(issues, "undefined-parameter")
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "$nope")
}

func TestEngineRespectsParameterScope(t *testing.T) {
	t.Parallel()

	src := `
		FOR $item IN [1, 2] {
			LET $double = $item * 2;
		};
		RETURN $item;
	`
	issues, err := newTestEngine(t).RunSource([]byte(src))
	require.NoError(t, err)

	found := issuesOf(issues, "undefined-parameter")
	require.Len(t, found, 1, "only the reference outside the loop is undefined")
	assert.Contains(t, found[0].Message, "$item")
}

func TestEngineIgnoreRule(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	engine.IgnoreRule("undefined-parameter")

	issues, err := engine.RunSource([]byte("RETURN $nope;"))
	require.NoError(t, err)
	assert.Empty(t, issuesOf(issues, "undefined-parameter"))
}

func TestEngineSeverityOff(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(map[string]tt.ConfigRule{
		"undefined-parameter": {Severity: tt.SeverityOff},
	})
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte("RETURN $nope;"))
	require.NoError(t, err)
	assert.Empty(t, issuesOf(issues, "undefined-parameter"))
}

func TestEngineSeverityOverride(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(map[string]tt.ConfigRule{
		"unknown-field": {Severity: tt.SeverityError},
	})
	require.NoError(t, err)

	src := `
		DEFINE TABLE person SCHEMAFULL;
		SELECT nickname FROM person;
	`
	issues, err := engine.RunSource([]byte(src))
	require.NoError(t, err)

	found := issuesOf(issues, "unknown-field")
	require.Len(t, found, 1)
	assert.Equal(t, tt.SeverityError, found[0].Severity)
}

func TestEngineRunReadsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "query.surql")
	require.NoError(t, os.WriteFile(path, []byte("RETURN $nope;"), 0o644))

	issues, err := newTestEngine(t).Run(path)
	require.NoError(t, err)

	found := issuesOf(issues, "undefined-parameter")
	require.Len(t, found, 1)
	assert.Equal(t, path, found[0].Filename)
}

func TestEngineIssuePositions(t *testing.T) {
	t.Parallel()

	issues, err := newTestEngine(t).RunSource([]byte("RETURN $nope;"))
	require.NoError(t, err)

	found := issuesOf(issues, "undefined-parameter")
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].Start.Line)
	assert.Equal(t, 8, found[0].Start.Column)
}
