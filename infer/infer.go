// Package infer derives types for expression nodes against an extracted
// schema model. Inference is total: when information is missing it returns
// Unknown (or Any for deliberately open positions) instead of failing, so
// one untypeable expression never aborts analysis of a file.
package infer

import (
	"strings"

	"github.com/surqlx/surlint/ast"
	"github.com/surqlx/surlint/builtin"
	"github.com/surqlx/surlint/schema"
	"github.com/surqlx/surlint/typ"
)

// Inferrer types expression nodes against one schema model.
type Inferrer struct {
	model *schema.Model

	// resolving guards against cyclic parameter definitions
	// (LET $a = $b; LET $b = $a).
	resolving map[string]bool
}

// New returns an inferrer over the given model.
func New(model *schema.Model) *Inferrer {
	return &Inferrer{model: model, resolving: make(map[string]bool)}
}

// InferType types a node appearing at file scope.
func (inf *Inferrer) InferType(n *ast.Node) typ.Type {
	return inf.InferTypeIn(n, ast.FileScope)
}

// InferTypeIn types a node appearing inside the given lexical scope. The
// scope only affects parameter resolution.
func (inf *Inferrer) InferTypeIn(n *ast.Node, scope ast.ScopeID) typ.Type {
	if n == nil {
		return typ.Unknown
	}
	if n.Scope != 0 {
		scope = n.Scope
	}
	switch n.Kind {
	case ast.KindNumberLiteral:
		return numberLiteralType(n.FirstToken().Text)
	case ast.KindStringLiteral:
		return typ.String
	case ast.KindDatetimeLiteral:
		return typ.Datetime
	case ast.KindUuidLiteral:
		return typ.Uuid
	case ast.KindDurationLiteral:
		return typ.Duration
	case ast.KindBoolLiteral:
		return typ.Bool
	case ast.KindNullLiteral:
		return typ.Null
	case ast.KindNoneLiteral:
		return typ.None
	case ast.KindRegexLiteral:
		return typ.Any
	case ast.KindRecordIDLiteral:
		if table := n.RecordTable(); table != "" {
			return typ.RecordOf(table)
		}
		return typ.RecordOf()
	case ast.KindArrayLiteral:
		return inf.inferArray(n, scope)
	case ast.KindObjectLiteral:
		return inf.inferObject(n, scope)
	case ast.KindFutureLiteral:
		return typ.FutureOf(typ.Any)
	case ast.KindParameter:
		return inf.inferParameter(n, scope)
	case ast.KindIdentifier:
		// a bare identifier is a field of the surrounding target; without
		// that context it stays open
		return typ.Any
	case ast.KindBinaryExpression:
		return inf.inferBinary(n, scope)
	case ast.KindUnaryExpression:
		return inf.inferUnary(n, scope)
	case ast.KindTernaryExpression:
		return typ.CommonType(inf.InferTypeIn(n.Then(), scope), inf.InferTypeIn(n.Else(), scope))
	case ast.KindCastExpression:
		if t, ok := typ.ParseName(n.CastType()); ok {
			return t
		}
		return typ.Unknown
	case ast.KindFieldAccess:
		return inf.inferFieldAccess(n, scope)
	case ast.KindIndexExpression:
		return inf.inferIndex(n, scope)
	case ast.KindCallExpression:
		return inf.inferCall(n, scope)
	case ast.KindGraphTraversal:
		return typ.ArrayOf(typ.RecordOf(), 0)
	case ast.KindSubquery:
		return inf.inferSubquery(n, scope)
	case ast.KindBlock:
		return inf.inferBlock(n, scope)
	}
	return typ.Unknown
}

// numberLiteralType classifies a number token. A decimal point or exponent
// makes it a float; explicit `f` and `dec` suffixes override.
func numberLiteralType(text string) typ.Type {
	if strings.HasSuffix(text, "dec") {
		return typ.Decimal
	}
	if strings.HasSuffix(text, "f") {
		return typ.Float
	}
	if strings.ContainsAny(text, ".eE") {
		return typ.Float
	}
	return typ.Int
}

func (inf *Inferrer) inferArray(n *ast.Node, scope ast.ScopeID) typ.Type {
	elems := n.Nodes()
	if len(elems) == 0 {
		return typ.ArrayOf(typ.Any, 0)
	}
	elem := inf.InferTypeIn(elems[0], scope)
	for _, e := range elems[1:] {
		elem = typ.CommonType(elem, inf.InferTypeIn(e, scope))
	}
	return typ.ArrayOf(elem, 0)
}

func (inf *Inferrer) inferObject(n *ast.Node, scope ast.ScopeID) typ.Type {
	fields := make(map[string]typ.Type)
	for _, entry := range n.ChildrenOf(ast.KindObjectEntry) {
		key := entry.EntryKey()
		if key == "" {
			continue
		}
		fields[key] = inf.InferTypeIn(entry.EntryValue(), scope)
	}
	return typ.ObjectOf(fields, false)
}

func (inf *Inferrer) inferParameter(n *ast.Node, scope ast.ScopeID) typ.Type {
	name := n.ParamName()
	p := inf.model.Param(name, scope)
	if p == nil {
		return builtinParamType(name)
	}
	if p.Type.Kind != typ.KindUnknown {
		return p.Type
	}
	if p.Value == nil || inf.resolving[name] {
		return typ.Unknown
	}
	inf.resolving[name] = true
	defer delete(inf.resolving, name)
	valueScope := ast.FileScope
	if p.Scope == schema.LocalParam {
		valueScope = p.ScopeID
	}
	return inf.InferTypeIn(p.Value, valueScope)
}

// builtinParamType covers the parameters the runtime predefines.
func builtinParamType(name string) typ.Type {
	switch name {
	case "this", "parent", "value", "input":
		return typ.Any
	case "before", "after":
		return typ.FreeObject()
	case "event":
		return typ.String
	case "auth", "token", "session", "access":
		return typ.Any
	}
	return typ.Unknown
}

var comparisonOps = map[string]bool{
	"=": true, "==": true, "!=": true, "<": true, "<=": true,
	">": true, ">=": true, "IS": true, "IS NOT": true,
	"?=": true, "*=": true,
}

var logicalOps = map[string]bool{
	"AND": true, "OR": true, "&&": true, "||": true,
}

var containmentOps = map[string]bool{
	"CONTAINS": true, "CONTAINSALL": true, "CONTAINSANY": true,
	"CONTAINSNONE": true, "CONTAINSNOT": true,
	"IN": true, "NOT IN": true, "INSIDE": true, "NOTINSIDE": true,
	"ALLINSIDE": true, "ANYINSIDE": true, "NONEINSIDE": true,
	"OUTSIDE": true, "INTERSECTS": true, "LIKE": true, "MATCHES": true,
	"KNN": true,
}

var patternOps = map[string]bool{
	"~": true, "!~": true, "?~": true, "*~": true, "@@": true,
}

func (inf *Inferrer) inferBinary(n *ast.Node, scope ast.ScopeID) typ.Type {
	op := n.Operator()
	switch {
	case comparisonOps[op], logicalOps[op], containmentOps[op], patternOps[op]:
		return typ.Bool
	case op == "+", op == "-", op == "*", op == "/", op == "%", op == "×", op == "÷":
		return inf.inferArithmetic(op, n, scope)
	case op == "^", op == "**":
		return typ.Float
	case op == "..", op == "..=", op == "...":
		bound := typ.CommonType(inf.InferTypeIn(n.Left(), scope), inf.InferTypeIn(n.Right(), scope))
		return typ.ArrayOf(bound, 0)
	case op == "??", op == "?:":
		left := stripAbsent(inf.InferTypeIn(n.Left(), scope))
		right := inf.InferTypeIn(n.Right(), scope)
		if left.Kind == typ.KindNever {
			return right
		}
		return typ.CommonType(left, right)
	}
	return typ.Unknown
}

// stripAbsent removes the Null/None/Option layers the coalescing operator
// filters out of its left side.
func stripAbsent(t typ.Type) typ.Type {
	switch t.Kind {
	case typ.KindOption:
		return *t.Elem
	case typ.KindNull, typ.KindNone:
		return typ.Never
	case typ.KindUnion:
		var kept []typ.Type
		for _, m := range t.Members {
			s := stripAbsent(m)
			if s.Kind != typ.KindNever {
				kept = append(kept, s)
			}
		}
		return typ.UnionOf(kept...)
	}
	return t
}

func (inf *Inferrer) inferArithmetic(op string, n *ast.Node, scope ast.ScopeID) typ.Type {
	left := inf.InferTypeIn(n.Left(), scope)
	right := inf.InferTypeIn(n.Right(), scope)

	// string concatenation
	if op == "+" && (left.Kind == typ.KindString || right.Kind == typ.KindString) {
		return typ.String
	}

	// duration and datetime arithmetic
	if t, ok := temporalArithmetic(op, left.Kind, right.Kind); ok {
		return t
	}

	// collection union / difference
	if (op == "+" || op == "-") && left.IsCollection() && right.IsCollection() {
		return typ.CommonType(left, right)
	}

	if left.IsNumeric() && right.IsNumeric() {
		return numericPromotion(op, left, right)
	}
	if left.Kind == typ.KindAny || right.Kind == typ.KindAny {
		return typ.Any
	}
	return typ.Unknown
}

// temporalArithmetic is the fixed table of allowed duration/datetime
// combinations.
func temporalArithmetic(op string, l, r typ.Kind) (typ.Type, bool) {
	dt, dur := typ.KindDatetime, typ.KindDuration
	switch {
	case op == "+" && l == dt && r == dur,
		op == "+" && l == dur && r == dt,
		op == "-" && l == dt && r == dur:
		return typ.Datetime, true
	case op == "-" && l == dt && r == dt:
		return typ.Duration, true
	case (op == "+" || op == "-") && l == dur && r == dur:
		return typ.Duration, true
	case (op == "*" || op == "/") && l == dur && r != dur:
		return typ.Duration, true
	case op == "*" && l != dt && r == dur:
		return typ.Duration, true
	}
	return typ.Type{}, false
}

func numericPromotion(op string, left, right typ.Type) typ.Type {
	if left.Kind == typ.KindDecimal || right.Kind == typ.KindDecimal {
		return typ.Decimal
	}
	if op == "/" {
		// division leaves Int only when both sides are Int
		if left.Kind == typ.KindInt && right.Kind == typ.KindInt {
			return typ.Int
		}
		return typ.Number
	}
	if left.Kind == typ.KindFloat || right.Kind == typ.KindFloat {
		return typ.Float
	}
	if left.Kind == typ.KindInt && right.Kind == typ.KindInt {
		return typ.Int
	}
	return typ.Number
}

func (inf *Inferrer) inferUnary(n *ast.Node, scope ast.ScopeID) typ.Type {
	op := n.Operator()
	if op == "!" || op == "NOT" {
		return typ.Bool
	}
	operand := inf.InferTypeIn(n.Operand(), scope)
	if operand.IsNumeric() {
		return operand
	}
	if operand.Kind == typ.KindDuration {
		return typ.Duration
	}
	return typ.Number
}

func (inf *Inferrer) inferFieldAccess(n *ast.Node, scope ast.ScopeID) typ.Type {
	// a chain of plain segments rooted in a record resolves through the
	// schema by full dotted path, so nested declared fields are found
	if root, path, ok := fieldPath(n); ok {
		rt := inf.InferTypeIn(root, scope)
		if rt.Kind == typ.KindOption && rt.Elem != nil {
			rt = *rt.Elem
		}
		if rt.Kind == typ.KindRecord {
			return inf.recordField(rt, path)
		}
	}
	base := inf.InferTypeIn(n.Base(), scope)
	return inf.fieldOn(base, n.FieldName())
}

// fieldPath decomposes a field-access chain into its root expression and
// dotted path. It fails on wildcard segments.
func fieldPath(n *ast.Node) (*ast.Node, string, bool) {
	var segments []string
	for n.Kind == ast.KindFieldAccess {
		name := n.FieldName()
		if name == "" || name == "*" {
			return nil, "", false
		}
		segments = append(segments, name)
		n = n.Base()
		if n == nil {
			return nil, "", false
		}
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return n, strings.Join(segments, "."), true
}

// recordField resolves a field path against the record's table set, unioning
// across tables when the record spans more than one.
func (inf *Inferrer) recordField(record typ.Type, path string) typ.Type {
	if len(record.Tables) == 0 {
		return typ.Any
	}
	var members []typ.Type
	for _, table := range record.Tables {
		members = append(members, inf.model.FieldType(table, path))
	}
	return typ.UnionOf(members...)
}

// fieldOn resolves one field name against an already inferred base type.
func (inf *Inferrer) fieldOn(base typ.Type, name string) typ.Type {
	switch base.Kind {
	case typ.KindAny:
		return typ.Any
	case typ.KindUnknown:
		return typ.Unknown
	case typ.KindOption:
		return typ.OptionOf(inf.fieldOn(*base.Elem, name))
	case typ.KindObject:
		if name == "*" {
			return typ.Any
		}
		if t, ok := base.Fields[name]; ok {
			return t
		}
		if base.Flexible || len(base.Fields) == 0 {
			return typ.Any
		}
		return typ.Unknown
	case typ.KindRecord:
		if name == "*" {
			return typ.Any
		}
		return inf.recordField(base, name)
	case typ.KindArray, typ.KindSet:
		// field access distributes over collections
		elem, _ := base.ElemType()
		return typ.ArrayOf(inf.fieldOn(elem, name), 0)
	case typ.KindUnion:
		var members []typ.Type
		for _, m := range base.Members {
			members = append(members, inf.fieldOn(m, name))
		}
		return typ.UnionOf(members...)
	}
	return typ.Unknown
}

func (inf *Inferrer) inferIndex(n *ast.Node, scope ast.ScopeID) typ.Type {
	base := inf.InferTypeIn(n.Base(), scope)
	operand := n.IndexOperand()

	if elem, ok := base.ElemType(); ok {
		if operand == nil {
			// [*] and [?] forms keep the collection shape
			return typ.ArrayOf(elem, 0)
		}
		if operand.Kind == ast.KindWhereClause {
			return typ.ArrayOf(elem, 0)
		}
		return elem
	}
	switch base.Kind {
	case typ.KindObject:
		if operand != nil && operand.Kind == ast.KindStringLiteral {
			key := strings.Trim(operand.FirstToken().Text, `"'`)
			return inf.fieldOn(base, key)
		}
		return typ.Any
	case typ.KindAny:
		return typ.Any
	}
	return typ.Unknown
}

func (inf *Inferrer) inferCall(n *ast.Node, scope ast.ScopeID) typ.Type {
	name := n.Callee()
	if sig, ok := builtin.Lookup(name); ok {
		return sig.Result
	}
	if fn := inf.model.Function(name); fn != nil {
		if fn.HasReturn {
			return fn.Return
		}
		return typ.Unknown
	}
	switch name {
	case "count":
		return typ.Int
	case "sum", "avg", "mean", "min", "max":
		return typ.Number
	}
	return typ.Unknown
}

// inferSubquery types an embedded statement by its leading keyword.
func (inf *Inferrer) inferSubquery(n *ast.Node, scope ast.ScopeID) typ.Type {
	stmt := n.NthNode(0)
	if stmt == nil {
		return typ.Unknown
	}
	switch stmt.Kind {
	case ast.KindSelectStatement:
		if _, only := stmt.KeywordToken("ONLY"); only {
			return typ.FreeObject()
		}
		// FROM ONLY attaches the keyword to the from clause
		if from := stmt.Child(ast.KindFromClause); from != nil {
			if _, only := from.KeywordToken("ONLY"); only {
				return typ.FreeObject()
			}
		}
		return typ.ArrayOf(typ.FreeObject(), 0)
	case ast.KindCreateStatement, ast.KindUpdateStatement,
		ast.KindUpsertStatement, ast.KindDeleteStatement,
		ast.KindInsertStatement, ast.KindRelateStatement:
		record := mutationTarget(stmt)
		if _, only := stmt.KeywordToken("ONLY"); only {
			return record
		}
		return typ.ArrayOf(record, 0)
	case ast.KindReturnStatement:
		return inf.InferTypeIn(stmt.NthNode(0), scope)
	case ast.KindIfStatement:
		return typ.Any
	}
	return typ.Unknown
}

// mutationTarget derives the record type a mutation statement produces.
func mutationTarget(stmt *ast.Node) typ.Type {
	target := stmt.NthNode(0)
	if target == nil {
		return typ.RecordOf()
	}
	switch target.Kind {
	case ast.KindIdentifier:
		return typ.RecordOf(target.Name())
	case ast.KindRecordIDLiteral:
		if table := target.RecordTable(); table != "" {
			return typ.RecordOf(table)
		}
	}
	return typ.RecordOf()
}

// inferBlock types a brace block by its trailing expression or RETURN.
func (inf *Inferrer) inferBlock(n *ast.Node, scope ast.ScopeID) typ.Type {
	if n.Scope != 0 {
		scope = n.Scope
	}
	nodes := n.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		switch nodes[i].Kind {
		case ast.KindReturnStatement:
			return inf.InferTypeIn(nodes[i].NthNode(0), scope)
		case ast.KindLetStatement, ast.KindError:
			continue
		default:
			return inf.InferTypeIn(nodes[i], scope)
		}
	}
	return typ.None
}
