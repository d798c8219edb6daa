package lints

import (
	"fmt"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/check"
	"github.com/surqlx/surlint/infer"
	tt "github.com/surqlx/surlint/internal/types"
	"github.com/surqlx/surlint/schema"
	"github.com/surqlx/surlint/typ"
)

// DetectFieldTypeMismatch checks that values written into declared fields
// match the field's type: DEFAULT and VALUE expressions on field
// definitions, and SET assignments in mutation statements whose target
// table is statically known.
func DetectFieldTypeMismatch(f string, tree *ast.Tree, model *schema.Model, severity tt.Severity) ([]tt.Issue, error) {
	inf := infer.New(model)
	var issues []tt.Issue

	report := func(field string, declared typ.Type, value *ast.Node, scope ast.ScopeID) {
		actual := inf.InferTypeIn(value, scope)
		r := check.Assignable(declared, actual)
		if r.Verdict != check.Incompatible {
			return
		}
		issue := issueAt("field-type-mismatch", f,
			fmt.Sprintf("field %s expects %s, got %s", field, declared, actual),
			severity, tree.Source, value.Span())
		issue.Expected = declared.String()
		issue.Actual = actual.String()
		issue.Note = r.Reason
		issues = append(issues, issue)
	}

	// DEFAULT and VALUE expressions on field definitions
	for _, table := range model.Tables {
		for path, field := range table.Fields {
			name := table.Name + "." + path
			if field.Default != nil {
				report(name, field.Type, field.Default, ast.FileScope)
			}
			if field.Value != nil {
				report(name, field.Type, field.Value, ast.FileScope)
			}
		}
	}

	// SET assignments in mutations
	walkScoped(tree.Root, ast.FileScope, func(n *ast.Node, scope ast.ScopeID) bool {
		switch n.Kind {
		case ast.KindCreateStatement, ast.KindUpdateStatement, ast.KindUpsertStatement:
		default:
			return true
		}
		tables := targetTables(n)
		if len(tables) != 1 {
			return true
		}
		set := n.Child(ast.KindSetClause)
		if set == nil {
			return true
		}
		for _, assign := range set.ChildrenOf(ast.KindBinaryExpression) {
			if assign.Operator() != "=" {
				continue
			}
			fieldNode, value := assign.Left(), assign.Right()
			if fieldNode == nil || value == nil {
				continue
			}
			path := fieldPathText(fieldNode)
			if path == "" {
				continue
			}
			declared := model.FieldType(tables[0], path)
			if declared.Kind == typ.KindAny || declared.Kind == typ.KindUnknown {
				continue
			}
			report(tables[0]+"."+path, declared, value, scope)
		}
		return true
	})

	return issues, nil
}
