package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/surqlx/surlint/internal"
	tt "github.com/surqlx/surlint/internal/types"
	"github.com/surqlx/surlint/token"
)

func TestGenerateFormattedIssue(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"SELECT * FROM person;",
			"RETURN $nope;",
			"LET = 5;",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "undefined-parameter",
			Severity: tt.SeverityWarning,
			Filename: "query.surql",
			Start:    token.Position{Line: 2, Column: 8},
			End:      token.Position{Line: 2, Column: 13},
			Message:  "parameter $nope is not defined",
		},
		{
			Rule:     "syntax-error",
			Severity: tt.SeverityError,
			Filename: "query.surql",
			Start:    token.Position{Line: 3, Column: 5},
			End:      token.Position{Line: 3, Column: 6},
			Message:  "expected a parameter name",
		},
	}

	expected := `warning: undefined-parameter
 --> query.surql:2:8
  |
2 | RETURN $nope;
  |        ~~~~~
  = parameter $nope is not defined

error: syntax-error
 --> query.surql:3:5
  |
3 | LET = 5;
  |     ~
  = expected a parameter name

`

	result := GenerateFormattedIssue(issues, code)

	assert.Equal(t, expected, result, "Formatted output does not match expected")
}

func TestGenerateFormattedIssue_TypeMismatch(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"DEFINE TABLE person SCHEMAFULL;",
			"DEFINE FIELD age ON TABLE person TYPE int;",
			"",
			"CREATE person SET age = 'x';",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "field-type-mismatch",
			Severity: tt.SeverityError,
			Filename: "query.surql",
			Start:    token.Position{Line: 4, Column: 25},
			End:      token.Position{Line: 4, Column: 28},
			Message:  "field person.age expects int, got string",
			Expected: "int",
			Actual:   "string",
			Note:     "value expressions are checked against the declared field type",
		},
	}

	expected := `error: field-type-mismatch
 --> query.surql:4:25
  |
4 | CREATE person SET age = 'x';
  |                         ~~~
  = field person.age expects int, got string
  = expected: int
  = actual:   string

Note: value expressions are checked against the declared field type

`

	result := GenerateFormattedIssue(issues, code)

	assert.Equal(t, expected, result, "Formatted output does not match expected")
}

func TestGenerateFormattedIssue_MultipleDigitsLineNumbers(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"DEFINE TABLE person SCHEMAFULL;",
			"DEFINE FIELD name ON TABLE person TYPE string;",
			"",
			"BEGIN TRANSACTION;",
			"",
			"CREATE person SET name = 'tobie';",
			"CREATE person SET name = 'jaime';",
			"",
			"IF true {",
			"    RETURN missing_field;",
			"};",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "unknown-field",
			Severity: tt.SeverityWarning,
			Filename: "query.surql",
			Start:    token.Position{Line: 10, Column: 12},
			End:      token.Position{Line: 10, Column: 25},
			Message:  "field missing_field is not declared on table person",
		},
	}

	expected := `warning: unknown-field
  --> query.surql:10:12
   |
10 | RETURN missing_field;
   |        ~~~~~~~~~~~~~
   = field missing_field is not declared on table person

`

	result := GenerateFormattedIssue(issues, code)

	assert.Equal(t, expected, result, "Formatted output does not match expected")
}

func TestGenerateFormattedIssue_SuggestionAndNote(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"RETURN $nope;",
		},
	}

	issues := []tt.Issue{
		{
			Rule:       "undefined-parameter",
			Severity:   tt.SeverityWarning,
			Filename:   "query.surql",
			Start:      token.Position{Line: 1, Column: 8},
			End:        token.Position{Line: 1, Column: 13},
			Message:    "parameter $nope is not defined",
			Suggestion: "LET $nope = /* value */;\nRETURN $nope;",
			Note:       "parameters must be bound before use",
		},
	}

	result := GenerateFormattedIssue(issues, code)

	assert.Contains(t, result, "warning: undefined-parameter")
	assert.Contains(t, result, "parameter $nope is not defined")
	assert.Contains(t, result, "Suggestion:")
	assert.Contains(t, result, "1 | LET $nope = /* value */;")
	assert.Contains(t, result, "2 | RETURN $nope;")
	assert.Contains(t, result, "Note: parameters must be bound before use")
}

func TestGenerateFormattedIssue_ExpectedActualOnAnyRule(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"RETURN [1, 2] CONTAINS 'x';",
		},
	}

	// every rule shares one template; the expected/actual block renders
	// whenever the issue carries the types
	issues := []tt.Issue{
		{
			Rule:     "operator-type-mismatch",
			Severity: tt.SeverityError,
			Filename: "query.surql",
			Start:    token.Position{Line: 1, Column: 8},
			End:      token.Position{Line: 1, Column: 27},
			Message:  "operator CONTAINS expects a matching element type",
			Expected: "int",
			Actual:   "string",
		},
	}

	result := GenerateFormattedIssue(issues, code)

	assert.Contains(t, result, "= expected: int")
	assert.Contains(t, result, "= actual:   string")
}

func TestFindCommonIndent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		lines    []string
		expected string
	}{
		{
			name:     "no indent",
			lines:    []string{"SELECT * FROM person;"},
			expected: "",
		},
		{
			name:     "uniform spaces",
			lines:    []string{"    LET $a = 1;", "    RETURN $a;"},
			expected: "    ",
		},
		{
			name:     "mixed depth takes the shallowest",
			lines:    []string{"    LET $a = 1;", "        RETURN $a;"},
			expected: "    ",
		},
		{
			name:     "empty lines are ignored",
			lines:    []string{"    LET $a = 1;", "", "    RETURN $a;"},
			expected: "    ",
		},
		{
			name:     "no common prefix",
			lines:    []string{"\tLET $a = 1;", "    RETURN $a;"},
			expected: "",
		},
		{
			name:     "empty input",
			lines:    []string{},
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, findCommonIndent(tc.lines))
		})
	}
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		line     string
		column   int
		expected int
	}{
		{"plain text", "RETURN $a;", 8, 7},
		{"column one", "RETURN $a;", 1, 0},
		{"tab expands to the next stop", "\tRETURN $a;", 2, 8},
		{"negative column", "RETURN $a;", -1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, calculateVisualColumn(tc.line, tc.column))
		})
	}
}
