package lints

import (
	"github.com/surqlx/surlint/ast"
	tt "github.com/surqlx/surlint/internal/types"
	"github.com/surqlx/surlint/token"
)

// issueAt builds an issue whose range covers the given span.
func issueAt(rule, filename, message string, severity tt.Severity, src string, span token.Span) tt.Issue {
	return tt.Issue{
		Rule:     rule,
		Severity: severity,
		Filename: filename,
		Message:  message,
		Start:    token.PositionFor(src, span.Start),
		End:      token.PositionFor(src, span.End),
	}
}

// walkScoped visits every node depth-first while tracking the innermost
// lexical scope. Returning false from fn skips the node's children.
func walkScoped(n *ast.Node, scope ast.ScopeID, fn func(*ast.Node, ast.ScopeID) bool) {
	if n == nil {
		return
	}
	if n.Scope != 0 {
		scope = n.Scope
	}
	if !fn(n, scope) {
		return
	}
	for _, c := range n.Children {
		if c.Node != nil {
			walkScoped(c.Node, scope, fn)
		}
	}
}

// targetTables returns the table names a statement targets, when the target
// is statically known. A subquery or parameter target returns nil.
func targetTables(stmt *ast.Node) []string {
	var targets []*ast.Node
	switch stmt.Kind {
	case ast.KindSelectStatement:
		from := stmt.Child(ast.KindFromClause)
		if from == nil {
			return nil
		}
		targets = from.Nodes()
	case ast.KindCreateStatement, ast.KindUpdateStatement,
		ast.KindUpsertStatement, ast.KindDeleteStatement,
		ast.KindInsertStatement:
		if t := stmt.NthNode(0); t != nil {
			targets = []*ast.Node{t}
		}
	}

	var tables []string
	for _, t := range targets {
		switch t.Kind {
		case ast.KindIdentifier:
			tables = append(tables, t.Name())
		case ast.KindRecordIDLiteral:
			if name := t.RecordTable(); name != "" {
				tables = append(tables, name)
			}
		default:
			return nil
		}
	}
	return tables
}

// fieldPathText renders a field reference as a dotted path, or "" when it
// is not a plain identifier chain.
func fieldPathText(n *ast.Node) string {
	switch n.Kind {
	case ast.KindIdentifier:
		return n.Name()
	case ast.KindFieldAccess:
		base := fieldPathText(n.Base())
		name := n.FieldName()
		if base == "" || name == "" || name == "*" {
			return ""
		}
		return base + "." + name
	}
	return ""
}
