// Package schema mines table, field, index, event, function and parameter
// declarations out of a parsed tree. Extraction is a single deterministic
// pass; the resulting Model is read-only and safe to share.
package schema

import (
	"strings"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/typ"
)

// Mode is a table's schema mode.
type Mode int

const (
	Schemaless Mode = iota
	Schemafull
)

func (m Mode) String() string {
	if m == Schemafull {
		return "schemafull"
	}
	return "schemaless"
}

// Field describes one declared field of a table.
type Field struct {
	Name string // last path segment
	Path string // full dotted path, e.g. address.city
	Type typ.Type

	Flexible bool
	Readonly bool

	// Default, Value and Assert reference the defining expressions in the
	// original tree; they are never re-evaluated.
	Default *ast.Node
	Value   *ast.Node
	Assert  *ast.Node
}

// IndexKind distinguishes the index grammars.
type IndexKind int

const (
	IndexPlain IndexKind = iota
	IndexUnique
	IndexSearch
	IndexMTree
	IndexHnsw
)

// Index describes a declared index.
type Index struct {
	Name   string
	Table  string
	Kind   IndexKind
	Fields []string
}

// Event describes a declared table event.
type Event struct {
	Name  string
	Table string
	When  *ast.Node
	Then  *ast.Node
}

// Table owns its fields, indexes and events; they are built and discarded
// together.
type Table struct {
	Name    string
	Mode    Mode
	Fields  map[string]*Field // keyed by dotted path
	Indexes map[string]*Index
	Events  map[string]*Event
}

// FunctionParam is one declared parameter of a user-defined function.
type FunctionParam struct {
	Name    string
	Type    typ.Type
	HasType bool
}

// Function describes a user-defined function signature.
type Function struct {
	Name      string // fully qualified, e.g. fn::greet
	Params    []FunctionParam
	Return    typ.Type
	HasReturn bool
}

// ParamScope distinguishes globally visible parameters from lexically
// scoped LET bindings.
type ParamScope int

const (
	GlobalParam ParamScope = iota
	LocalParam
)

// Param describes a declared parameter.
type Param struct {
	Name  string
	Type  typ.Type
	Scope ParamScope

	// ScopeID is the lexical scope a local binding belongs to.
	ScopeID ast.ScopeID

	// Value references the bound expression, if any.
	Value *ast.Node
}

// Model is the extracted schema of one file.
type Model struct {
	Tables    map[string]*Table
	Functions map[string]*Function
	Globals   map[string]*Param

	// Locals holds LET bindings per lexical scope. Scope lookup walks the
	// parentScope table rather than live tree pointers.
	Locals map[ast.ScopeID]map[string]*Param

	parentScope map[ast.ScopeID]ast.ScopeID
}

// Table returns the named table, or nil.
func (m *Model) Table(name string) *Table { return m.Tables[name] }

// Function returns the named user-defined function, or nil.
func (m *Model) Function(name string) *Function { return m.Functions[name] }

// tableFor returns the table entry for name, creating it on demand so a
// field definition may precede its table definition.
func (m *Model) tableFor(name string) *Table {
	if t, ok := m.Tables[name]; ok {
		return t
	}
	t := &Table{
		Name:    name,
		Fields:  make(map[string]*Field),
		Indexes: make(map[string]*Index),
		Events:  make(map[string]*Event),
	}
	m.Tables[name] = t
	return t
}

// Param resolves a parameter name visible from the given scope: local
// bindings of the scope and its ancestors first, then globals.
func (m *Model) Param(name string, scope ast.ScopeID) *Param {
	name = strings.TrimPrefix(name, "$")
	for scope != 0 {
		if binds, ok := m.Locals[scope]; ok {
			if p, ok := binds[name]; ok {
				return p
			}
		}
		scope = m.parentScope[scope]
	}
	return m.Globals[name]
}

// IsParameterDefined reports whether the parameter is visible from scope.
func (m *Model) IsParameterDefined(name string, scope ast.ScopeID) bool {
	return m.Param(name, scope) != nil
}

// FieldType resolves a field path on a table. A declared field returns its
// type; an undeclared field returns Any on a schemaless table and Unknown
// on a schemafull one.
func (m *Model) FieldType(table, path string) typ.Type {
	t, ok := m.Tables[table]
	if !ok {
		return typ.Unknown
	}
	if f, ok := t.Fields[path]; ok {
		return f.Type
	}
	// a flexible parent field admits anything beneath it
	for parent := parentPath(path); parent != ""; parent = parentPath(parent) {
		if f, ok := t.Fields[parent]; ok && (f.Flexible || f.Type.Kind == typ.KindAny) {
			return typ.Any
		}
	}
	if t.Mode == Schemaless {
		return typ.Any
	}
	return typ.Unknown
}

func parentPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[:i]
}
