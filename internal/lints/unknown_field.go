package lints

import (
	"fmt"
	"strings"

	"github.com/surqlx/surlint/ast"
	tt "github.com/surqlx/surlint/internal/types"
	"github.com/surqlx/surlint/schema"
	"github.com/surqlx/surlint/typ"
)

// DetectUnknownFields reports field references that no schemafull target
// table declares. Schemaless tables, flexible fields and dynamically
// targeted statements are never reported.
func DetectUnknownFields(f string, tree *ast.Tree, model *schema.Model, severity tt.Severity) ([]tt.Issue, error) {
	var issues []tt.Issue

	walkScoped(tree.Root, ast.FileScope, func(stmt *ast.Node, _ ast.ScopeID) bool {
		switch stmt.Kind {
		case ast.KindSelectStatement, ast.KindCreateStatement,
			ast.KindUpdateStatement, ast.KindUpsertStatement,
			ast.KindDeleteStatement:
		default:
			return true
		}
		tables := targetTables(stmt)
		if len(tables) == 0 || !allSchemafull(model, tables) {
			return true
		}

		for _, region := range fieldRegions(stmt) {
			collectFieldRefs(region, func(ref *ast.Node, path string) {
				if knownField(model, tables, path) {
					return
				}
				issues = append(issues, issueAt("unknown-field", f,
					fmt.Sprintf("field %s is not declared on table %s", path, strings.Join(tables, ", ")),
					severity, tree.Source, ref.Span()))
			})
		}
		return true
	})

	return issues, nil
}

func allSchemafull(model *schema.Model, tables []string) bool {
	for _, name := range tables {
		t := model.Table(name)
		if t == nil || t.Mode != schema.Schemafull {
			return false
		}
	}
	return true
}

func knownField(model *schema.Model, tables []string, path string) bool {
	for _, table := range tables {
		if model.FieldType(table, path).Kind != typ.KindUnknown {
			return true
		}
	}
	return false
}

// fieldRegions returns the statement parts whose bare identifiers refer to
// fields of the target table: the projection list and the filtering and
// shaping clauses.
func fieldRegions(stmt *ast.Node) []*ast.Node {
	var regions []*ast.Node
	if stmt.Kind == ast.KindSelectStatement {
		for _, c := range stmt.Nodes() {
			if c.Kind == ast.KindFromClause {
				break
			}
			regions = append(regions, c)
		}
	}
	for _, kind := range []ast.Kind{
		ast.KindWhereClause, ast.KindOrderByClause, ast.KindGroupByClause,
		ast.KindSplitClause, ast.KindFetchClause, ast.KindOmitClause,
		ast.KindSetClause, ast.KindUnsetClause,
	} {
		if c := stmt.Child(kind); c != nil {
			regions = append(regions, c)
		}
	}
	return regions
}

// collectFieldRefs finds the field references in an expression: bare
// identifiers and field-access chains rooted in an identifier. Call
// arguments are descended into; a call's name, parameters, record ids and
// subqueries are not field references.
func collectFieldRefs(n *ast.Node, visit func(*ast.Node, string)) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindIdentifier:
		name := n.Name()
		if name != "" && name != "*" {
			visit(n, name)
		}
		return
	case ast.KindFieldAccess:
		if path := fieldPathText(n); path != "" {
			visit(n, path)
			return
		}
		// dynamic chain: still inspect the base expression
		collectFieldRefs(n.Base(), visit)
		return
	case ast.KindCallExpression:
		for _, arg := range n.Args() {
			collectFieldRefs(arg, visit)
		}
		return
	case ast.KindSubquery, ast.KindRecordIDLiteral, ast.KindParameter,
		ast.KindGraphTraversal:
		// a subquery has its own target; the rest are not field names
		return
	}
	for _, c := range n.Children {
		if c.Node != nil {
			collectFieldRefs(c.Node, visit)
		}
	}
}
