package lints

import (
	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/check"
	"github.com/surqlx/surlint/infer"
	tt "github.com/surqlx/surlint/internal/types"
	"github.com/surqlx/surlint/schema"
)

// DetectOperatorTypeMismatch checks every binary expression's operand types
// against the operator's requirements. Comparison and logical operators are
// permissive; arithmetic and containment are not.
func DetectOperatorTypeMismatch(f string, tree *ast.Tree, model *schema.Model, severity tt.Severity) ([]tt.Issue, error) {
	inf := infer.New(model)
	var issues []tt.Issue

	walkScoped(tree.Root, ast.FileScope, func(n *ast.Node, scope ast.ScopeID) bool {
		if n.Kind != ast.KindBinaryExpression {
			return true
		}
		op := n.Operator()
		left, right := n.Left(), n.Right()
		if op == "" || left == nil || right == nil {
			return true
		}
		lt := inf.InferTypeIn(left, scope)
		rt := inf.InferTypeIn(right, scope)
		r := check.BinaryOperator(op, lt, rt)
		if r.Verdict == check.Incompatible {
			issue := issueAt("operator-type-mismatch", f, r.Reason, severity, tree.Source, n.Span())
			issue.Expected = r.Expected.String()
			issue.Actual = r.Actual.String()
			issues = append(issues, issue)
		}
		return true
	})

	return issues, nil
}
