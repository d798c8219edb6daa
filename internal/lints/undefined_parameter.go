package lints

import (
	"fmt"

	"github.com/surqlx/surlint/ast"
	tt "github.com/surqlx/surlint/internal/types"
	"github.com/surqlx/surlint/schema"
)

// parameters the runtime predefines in events, field VALUE/ASSERT clauses
// and access methods.
var predefinedParams = map[string]bool{
	"this": true, "parent": true, "value": true, "input": true,
	"before": true, "after": true, "event": true,
	"auth": true, "token": true, "session": true, "access": true,
}

// DetectUndefinedParameters reports $parameter references that no LET
// binding, FOR loop variable, function parameter or DEFINE PARAM declares
// in the referencing scope.
func DetectUndefinedParameters(f string, tree *ast.Tree, model *schema.Model, severity tt.Severity) ([]tt.Issue, error) {
	var issues []tt.Issue

	checkRef := func(n *ast.Node, scope ast.ScopeID) {
		name := n.ParamName()
		if name == "" || predefinedParams[name] {
			return
		}
		if model.IsParameterDefined(name, scope) {
			return
		}
		issues = append(issues, issueAt("undefined-parameter", f,
			fmt.Sprintf("parameter $%s is not defined in this scope", name),
			severity, tree.Source, n.Span()))
	}

	var visit func(n *ast.Node, scope ast.ScopeID)
	visit = func(n *ast.Node, scope ast.ScopeID) {
		if n == nil {
			return
		}
		if n.Scope != 0 {
			scope = n.Scope
		}
		switch n.Kind {
		case ast.KindParameter:
			checkRef(n, scope)
			return
		case ast.KindLetStatement, ast.KindForStatement, ast.KindParamDefinition:
			// the first parameter child is the binder, not a reference
			binderSeen := false
			for _, c := range n.Children {
				if c.Node == nil {
					continue
				}
				if c.Node.Kind == ast.KindParameter && !binderSeen {
					binderSeen = true
					continue
				}
				visit(c.Node, scope)
			}
			return
		case ast.KindFunctionDefinition:
			// signature parameters bind into the body; only the body holds
			// references
			if body := n.Child(ast.KindBlock); body != nil {
				visit(body, scope)
			}
			return
		}
		for _, c := range n.Children {
			if c.Node != nil {
				visit(c.Node, scope)
			}
		}
	}
	visit(tree.Root, ast.FileScope)

	return issues, nil
}
