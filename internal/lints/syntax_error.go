package lints

import (
	"github.com/surqlx/surlint/ast"
	tt "github.com/surqlx/surlint/internal/types"
)

// DetectSyntaxErrors reports every error node the parser produced during
// recovery. Parsing never fails outright, so this is the only place lexical
// and syntactic problems surface.
func DetectSyntaxErrors(f string, tree *ast.Tree, severity tt.Severity) ([]tt.Issue, error) {
	var issues []tt.Issue
	for _, errNode := range tree.Errors() {
		msg := errNode.Err
		if msg == "" {
			msg = "syntax error"
		}
		issues = append(issues, issueAt("syntax-error", f, msg, severity, tree.Source, errNode.Span()))
	}
	return issues, nil
}
