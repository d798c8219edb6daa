package schema

import (
	"strings"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/token"
	"github.com/surqlx/surlint/typ"
)

// Extract walks a parsed tree once and builds its schema model. It is
// deterministic and idempotent for unchanged input. All names and types
// are read from the structured children the parser assigned, never by
// re-parsing rendered text.
func Extract(tree *ast.Tree) *Model {
	m := &Model{
		Tables:      make(map[string]*Table),
		Functions:   make(map[string]*Function),
		Globals:     make(map[string]*Param),
		Locals:      make(map[ast.ScopeID]map[string]*Param),
		parentScope: tree.ParentScope,
	}
	m.walk(tree.Root, ast.FileScope)
	return m
}

// walk visits every statement, tracking the innermost lexical scope so LET
// bindings land in the right place.
func (m *Model) walk(n *ast.Node, scope ast.ScopeID) {
	if n.Scope != 0 {
		scope = n.Scope
	}
	switch n.Kind {
	case ast.KindDefineStatement:
		m.extractDefinition(n)
	case ast.KindLetStatement:
		m.extractLet(n, scope)
	case ast.KindForStatement:
		m.extractForBinding(n)
	}
	for _, c := range n.Children {
		if c.Node != nil {
			m.walk(c.Node, scope)
		}
	}
}

func (m *Model) extractDefinition(stmt *ast.Node) {
	for _, def := range stmt.Nodes() {
		switch def.Kind {
		case ast.KindTableDefinition:
			m.extractTable(def)
		case ast.KindFieldDefinition:
			m.extractField(def)
		case ast.KindIndexDefinition:
			m.extractIndex(def)
		case ast.KindEventDefinition:
			m.extractEvent(def)
		case ast.KindFunctionDefinition:
			m.extractFunction(def)
		case ast.KindParamDefinition:
			m.extractParam(def)
		}
	}
}

func (m *Model) extractTable(def *ast.Node) {
	name := nameAfter(def, "TABLE")
	if name == "" {
		return
	}
	t := m.tableFor(name)
	if _, ok := def.KeywordToken("SCHEMAFULL"); ok {
		t.Mode = Schemafull
	}
	if _, ok := def.KeywordToken("SCHEMALESS"); ok {
		t.Mode = Schemaless
	}
}

func (m *Model) extractField(def *ast.Node) {
	pathNode := def.Child(ast.KindIdentifier)
	if pathNode == nil {
		return
	}
	path := normalizePath(pathNode.Name())
	table := onTableName(def)
	if path == "" || table == "" {
		return
	}

	f := &Field{
		Name: lastSegment(path),
		Path: path,
		Type: typ.Any,
	}
	if tn := def.Child(ast.KindTypeName); tn != nil {
		if t, ok := typ.ParseName(tn.Name()); ok {
			f.Type = t
		} else {
			f.Type = typ.Unknown
		}
	}
	if _, ok := def.KeywordToken("FLEXIBLE"); ok {
		f.Flexible = true
	}
	if _, ok := def.KeywordToken("READONLY"); ok {
		f.Readonly = true
	}
	for _, c := range def.Nodes() {
		switch {
		case leadingKeyword(c, "DEFAULT"):
			f.Default = c.NthNode(0)
		case leadingKeyword(c, "VALUE"):
			f.Value = c.NthNode(0)
		case leadingKeyword(c, "ASSERT"):
			f.Assert = c.NthNode(0)
		}
	}

	m.tableFor(table).Fields[path] = f
}

func (m *Model) extractIndex(def *ast.Node) {
	name := nameAfter(def, "INDEX")
	table := onTableName(def)
	if name == "" || table == "" {
		return
	}
	idx := &Index{Name: name, Table: table}
	switch {
	case hasKeyword(def, "UNIQUE"):
		idx.Kind = IndexUnique
	case hasKeyword(def, "SEARCH"):
		idx.Kind = IndexSearch
	case hasKeyword(def, "MTREE"):
		idx.Kind = IndexMTree
	case hasKeyword(def, "HNSW"):
		idx.Kind = IndexHnsw
	}
	for _, fieldNode := range def.ChildrenOf(ast.KindIdentifier) {
		idx.Fields = append(idx.Fields, normalizePath(fieldNode.Name()))
	}
	m.tableFor(table).Indexes[name] = idx
}

func (m *Model) extractEvent(def *ast.Node) {
	name := nameAfter(def, "EVENT")
	table := onTableName(def)
	if name == "" || table == "" {
		return
	}
	ev := &Event{Name: name, Table: table}
	for _, c := range def.Nodes() {
		switch {
		case leadingKeyword(c, "WHEN"):
			ev.When = c.NthNode(0)
		case leadingKeyword(c, "THEN"):
			ev.Then = c.NthNode(0)
		}
	}
	m.tableFor(table).Events[name] = ev
}

func (m *Model) extractFunction(def *ast.Node) {
	nameNode := def.Child(ast.KindIdentifier)
	if nameNode == nil {
		return
	}
	fn := &Function{Name: nameNode.Name()}
	for _, paramNode := range def.ChildrenOf(ast.KindParameter) {
		fp := FunctionParam{Name: paramNode.ParamName()}
		if tn := paramNode.Child(ast.KindTypeName); tn != nil {
			if t, ok := typ.ParseName(tn.Name()); ok {
				fp.Type = t
				fp.HasType = true
			}
		}
		fn.Params = append(fn.Params, fp)
	}
	if tn := def.Child(ast.KindTypeName); tn != nil {
		if t, ok := typ.ParseName(tn.Name()); ok {
			fn.Return = t
			fn.HasReturn = true
		}
	}
	m.Functions[fn.Name] = fn

	// the declared parameters are local bindings of the function body
	if body := def.Child(ast.KindBlock); body != nil && body.Scope != 0 {
		for _, fp := range fn.Params {
			t := typ.Unknown
			if fp.HasType {
				t = fp.Type
			}
			m.bindLocal(body.Scope, &Param{
				Name:    fp.Name,
				Type:    t,
				Scope:   LocalParam,
				ScopeID: body.Scope,
			})
		}
	}
}

// extractForBinding registers a FOR statement's loop variable as a local of
// the loop body's scope.
func (m *Model) extractForBinding(stmt *ast.Node) {
	paramNode := stmt.Child(ast.KindParameter)
	body := stmt.Child(ast.KindBlock)
	if paramNode == nil || body == nil || body.Scope == 0 {
		return
	}
	m.bindLocal(body.Scope, &Param{
		Name:    paramNode.ParamName(),
		Type:    typ.Unknown,
		Scope:   LocalParam,
		ScopeID: body.Scope,
	})
}

func (m *Model) bindLocal(scope ast.ScopeID, p *Param) {
	if m.Locals[scope] == nil {
		m.Locals[scope] = make(map[string]*Param)
	}
	m.Locals[scope][p.Name] = p
}

func (m *Model) extractParam(def *ast.Node) {
	t, ok := def.TokenOf(token.Parameter)
	if !ok {
		return
	}
	p := &Param{
		Name:  strings.TrimPrefix(t.Text, "$"),
		Type:  typ.Unknown,
		Scope: GlobalParam,
	}
	if tn := def.Child(ast.KindTypeName); tn != nil {
		if declared, ok := typ.ParseName(tn.Name()); ok {
			p.Type = declared
		}
	}
	for _, c := range def.Nodes() {
		if c.Kind != ast.KindTypeName && c.Kind != ast.KindError {
			p.Value = c
			break
		}
	}
	m.Globals[p.Name] = p
}

func (m *Model) extractLet(stmt *ast.Node, scope ast.ScopeID) {
	paramNode := stmt.Child(ast.KindParameter)
	if paramNode == nil {
		return
	}
	p := &Param{
		Name:    paramNode.ParamName(),
		Type:    typ.Unknown,
		Scope:   LocalParam,
		ScopeID: scope,
	}
	if tn := stmt.Child(ast.KindTypeName); tn != nil {
		if declared, ok := typ.ParseName(tn.Name()); ok {
			p.Type = declared
		}
	}
	// the bound expression is the last non-type child node
	nodes := stmt.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Kind != ast.KindTypeName && nodes[i].Kind != ast.KindParameter &&
			nodes[i].Kind != ast.KindError {
			p.Value = nodes[i]
			break
		}
	}
	m.bindLocal(scope, p)
}

// nameAfter returns the first name token following the given keyword,
// skipping the OVERWRITE / IF NOT EXISTS prefix.
func nameAfter(def *ast.Node, kw string) string {
	seen := false
	for _, t := range def.Tokens() {
		if !seen {
			if t.Is(kw) {
				seen = true
			}
			continue
		}
		switch {
		case t.Is("OVERWRITE"), t.Is("IF"), t.Is("NOT"), t.Is("EXISTS"):
			continue
		case t.Kind == token.Identifier, t.Kind == token.Keyword:
			return t.Text
		default:
			return ""
		}
	}
	return ""
}

// onTableName returns the table name bound by an `ON [TABLE] name` clause.
func onTableName(def *ast.Node) string {
	seen := false
	for _, t := range def.Tokens() {
		if !seen {
			if t.Is("ON") {
				seen = true
			}
			continue
		}
		if t.Is("TABLE") {
			continue
		}
		if t.Kind == token.Identifier || t.Kind == token.Keyword {
			return t.Text
		}
		return ""
	}
	return ""
}

func hasKeyword(n *ast.Node, kw string) bool {
	_, ok := n.KeywordToken(kw)
	return ok
}

// leadingKeyword reports whether the node's first token is the keyword.
func leadingKeyword(n *ast.Node, kw string) bool {
	return n.FirstToken().Is(kw)
}

// normalizePath strips array wildcards so `tags[*].name` and `tags.*.name`
// key the same field as `tags.name`.
func normalizePath(path string) string {
	path = strings.ReplaceAll(path, "[*]", "")
	path = strings.ReplaceAll(path, ".*", "")
	return path
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
