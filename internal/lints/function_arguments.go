package lints

import (
	"fmt"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/builtin"
	"github.com/surqlx/surlint/check"
	"github.com/surqlx/surlint/infer"
	tt "github.com/surqlx/surlint/internal/types"
	"github.com/surqlx/surlint/schema"
	"github.com/surqlx/surlint/typ"
)

// aggregate pseudo-functions have no registry entry but are always valid
// call targets.
var aggregateNames = map[string]bool{
	"count": true, "sum": true, "avg": true, "mean": true,
	"min": true, "max": true,
}

// DetectFunctionArguments checks every call's argument count and types
// against the builtin registry, falling back to user-defined function
// signatures for fn:: calls.
func DetectFunctionArguments(f string, tree *ast.Tree, model *schema.Model, severity tt.Severity) ([]tt.Issue, error) {
	inf := infer.New(model)
	var issues []tt.Issue

	walkScoped(tree.Root, ast.FileScope, func(n *ast.Node, scope ast.ScopeID) bool {
		if n.Kind != ast.KindCallExpression {
			return true
		}
		name := n.Callee()
		if name == "" || aggregateNames[name] {
			return true
		}

		sig, known := builtin.Lookup(name)
		if !known {
			if fn := model.Function(name); fn != nil {
				sig = signatureOf(fn)
				known = true
			}
		}
		if !known {
			issues = append(issues, issueAt("function-arguments", f,
				fmt.Sprintf("unknown function %s", name),
				severity, tree.Source, n.Span()))
			return true
		}

		args := n.Args()
		argTypes := make([]typ.Type, len(args))
		for i, a := range args {
			argTypes[i] = inf.InferTypeIn(a, scope)
		}
		r := check.FunctionArguments(sig, argTypes)
		if r.Verdict == check.Incompatible {
			issue := issueAt("function-arguments", f, r.Reason, severity, tree.Source, n.Span())
			issue.Expected = r.Expected.String()
			issue.Actual = r.Actual.String()
			issues = append(issues, issue)
		}
		return true
	})

	return issues, nil
}

// signatureOf adapts a user-defined function declaration to the registry's
// signature shape. An untyped parameter accepts anything.
func signatureOf(fn *schema.Function) builtin.Signature {
	sig := builtin.Signature{Name: fn.Name, MinArgs: len(fn.Params), Result: typ.Unknown}
	for _, p := range fn.Params {
		t := typ.Any
		if p.HasType {
			t = p.Type
		}
		sig.Params = append(sig.Params, builtin.Param{Name: p.Name, Type: t})
	}
	if fn.HasReturn {
		sig.Result = fn.Return
	}
	return sig
}
