// Package ast defines the concrete syntax tree produced by the parser.
// Every token of the source is retained as a child of some node, so a
// node's text can be re-rendered from its children. Trees are immutable
// once built; re-parsing produces a new tree.
package ast

import (
	"strings"

	"github.com/surqlx/surlint/token"
)

// Kind tags a syntax node.
type Kind int

const (
	KindFile Kind = iota

	// statements
	KindSelectStatement
	KindCreateStatement
	KindUpdateStatement
	KindDeleteStatement
	KindInsertStatement
	KindUpsertStatement
	KindRelateStatement
	KindDefineStatement
	KindRemoveStatement
	KindAlterStatement
	KindLetStatement
	KindIfStatement
	KindForStatement
	KindReturnStatement
	KindThrowStatement
	KindBeginStatement
	KindCommitStatement
	KindCancelStatement
	KindUseStatement
	KindInfoStatement
	KindLiveStatement
	KindKillStatement
	KindSleepStatement
	KindShowStatement
	KindRebuildStatement
	KindOptionStatement
	KindBreakStatement
	KindContinueStatement

	// clauses
	KindWhereClause
	KindSetClause
	KindUnsetClause
	KindContentClause
	KindMergeClause
	KindPatchClause
	KindReplaceClause
	KindLimitClause
	KindStartClause
	KindOrderByClause
	KindGroupByClause
	KindSplitClause
	KindFetchClause
	KindTimeoutClause
	KindParallelClause
	KindExplainClause
	KindWithClause
	KindOmitClause
	KindVersionClause
	KindReturnClause
	KindOnDuplicateClause
	KindFromClause
	KindOnlyClause
	KindValuesClause

	// definitions
	KindTableDefinition
	KindFieldDefinition
	KindIndexDefinition
	KindEventDefinition
	KindFunctionDefinition
	KindParamDefinition
	KindAnalyzerDefinition
	KindAccessDefinition

	// expressions
	KindBinaryExpression
	KindUnaryExpression
	KindTernaryExpression
	KindCastExpression
	KindFieldAccess
	KindIndexExpression
	KindCallExpression
	KindGraphTraversal
	KindIdentifier
	KindParameter
	KindNumberLiteral
	KindStringLiteral
	KindDatetimeLiteral
	KindUuidLiteral
	KindDurationLiteral
	KindRegexLiteral
	KindRecordIDLiteral
	KindBoolLiteral
	KindNullLiteral
	KindNoneLiteral
	KindArrayLiteral
	KindObjectLiteral
	KindObjectEntry
	KindSubquery
	KindBlock
	KindFutureLiteral
	KindTypeName

	KindError
)

var kindNames = map[Kind]string{
	KindFile:              "File",
	KindSelectStatement:   "SelectStatement",
	KindCreateStatement:   "CreateStatement",
	KindUpdateStatement:   "UpdateStatement",
	KindDeleteStatement:   "DeleteStatement",
	KindInsertStatement:   "InsertStatement",
	KindUpsertStatement:   "UpsertStatement",
	KindRelateStatement:   "RelateStatement",
	KindDefineStatement:   "DefineStatement",
	KindRemoveStatement:   "RemoveStatement",
	KindAlterStatement:    "AlterStatement",
	KindLetStatement:      "LetStatement",
	KindIfStatement:       "IfStatement",
	KindForStatement:      "ForStatement",
	KindReturnStatement:   "ReturnStatement",
	KindThrowStatement:    "ThrowStatement",
	KindBeginStatement:    "BeginStatement",
	KindCommitStatement:   "CommitStatement",
	KindCancelStatement:   "CancelStatement",
	KindUseStatement:      "UseStatement",
	KindInfoStatement:     "InfoStatement",
	KindLiveStatement:     "LiveStatement",
	KindKillStatement:     "KillStatement",
	KindSleepStatement:    "SleepStatement",
	KindShowStatement:     "ShowStatement",
	KindRebuildStatement:  "RebuildStatement",
	KindOptionStatement:   "OptionStatement",
	KindBreakStatement:    "BreakStatement",
	KindContinueStatement: "ContinueStatement",
	KindWhereClause:       "WhereClause",
	KindSetClause:         "SetClause",
	KindUnsetClause:       "UnsetClause",
	KindContentClause:     "ContentClause",
	KindMergeClause:       "MergeClause",
	KindPatchClause:       "PatchClause",
	KindReplaceClause:     "ReplaceClause",
	KindLimitClause:       "LimitClause",
	KindStartClause:       "StartClause",
	KindOrderByClause:     "OrderByClause",
	KindGroupByClause:     "GroupByClause",
	KindSplitClause:       "SplitClause",
	KindFetchClause:       "FetchClause",
	KindTimeoutClause:     "TimeoutClause",
	KindParallelClause:    "ParallelClause",
	KindExplainClause:     "ExplainClause",
	KindWithClause:        "WithClause",
	KindOmitClause:        "OmitClause",
	KindVersionClause:     "VersionClause",
	KindReturnClause:      "ReturnClause",
	KindOnDuplicateClause: "OnDuplicateClause",
	KindFromClause:        "FromClause",
	KindOnlyClause:        "OnlyClause",
	KindValuesClause:      "ValuesClause",
	KindTableDefinition:   "TableDefinition",
	KindFieldDefinition:   "FieldDefinition",
	KindIndexDefinition:   "IndexDefinition",
	KindEventDefinition:   "EventDefinition",
	KindFunctionDefinition: "FunctionDefinition",
	KindParamDefinition:    "ParamDefinition",
	KindAnalyzerDefinition: "AnalyzerDefinition",
	KindAccessDefinition:   "AccessDefinition",
	KindBinaryExpression:   "BinaryExpression",
	KindUnaryExpression:    "UnaryExpression",
	KindTernaryExpression:  "TernaryExpression",
	KindCastExpression:     "CastExpression",
	KindFieldAccess:        "FieldAccess",
	KindIndexExpression:    "IndexExpression",
	KindCallExpression:     "CallExpression",
	KindGraphTraversal:     "GraphTraversal",
	KindIdentifier:         "Identifier",
	KindParameter:          "Parameter",
	KindNumberLiteral:      "NumberLiteral",
	KindStringLiteral:      "StringLiteral",
	KindDatetimeLiteral:    "DatetimeLiteral",
	KindUuidLiteral:        "UuidLiteral",
	KindDurationLiteral:    "DurationLiteral",
	KindRegexLiteral:       "RegexLiteral",
	KindRecordIDLiteral:    "RecordIDLiteral",
	KindBoolLiteral:        "BoolLiteral",
	KindNullLiteral:        "NullLiteral",
	KindNoneLiteral:        "NoneLiteral",
	KindArrayLiteral:       "ArrayLiteral",
	KindObjectLiteral:      "ObjectLiteral",
	KindObjectEntry:        "ObjectEntry",
	KindSubquery:           "Subquery",
	KindBlock:              "Block",
	KindFutureLiteral:      "FutureLiteral",
	KindTypeName:           "TypeName",
	KindError:              "Error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ScopeID identifies a scope-introducing node (the file, a for body, an if
// body, a transaction body, a block). Zero means "no scope".
type ScopeID int

// FileScope is the scope id of the file root.
const FileScope ScopeID = 1

// Child is one ordered slot of a node: either a child node or a token.
type Child struct {
	Node  *Node
	Token *token.Token
}

// Span returns the source span of the child.
func (c Child) Span() token.Span {
	if c.Node != nil {
		return c.Node.Span()
	}
	return c.Token.Span
}

// Node is a tagged CST node owning an ordered sequence of children.
type Node struct {
	Kind     Kind
	Children []Child

	// Err carries the diagnostic message for KindError nodes.
	Err string

	// Scope is nonzero on scope-introducing nodes.
	Scope ScopeID

	span    token.Span
	hasSpan bool
}

// New creates a node of the given kind with no children.
func New(kind Kind) *Node {
	return &Node{Kind: kind}
}

// AddNode appends a child node, extending the parent's span.
func (n *Node) AddNode(child *Node) *Node {
	if child == nil {
		return n
	}
	n.Children = append(n.Children, Child{Node: child})
	n.extend(child.Span())
	return n
}

// AddToken appends a child token, extending the parent's span.
func (n *Node) AddToken(t token.Token) *Node {
	tok := t
	n.Children = append(n.Children, Child{Token: &tok})
	n.extend(t.Span)
	return n
}

func (n *Node) extend(s token.Span) {
	if !n.hasSpan {
		n.span = s
		n.hasSpan = true
		return
	}
	n.span = n.span.Union(s)
}

// Span returns the node's source span: the union of its children's spans.
func (n *Node) Span() token.Span { return n.span }

// Nodes returns the child nodes, in order.
func (n *Node) Nodes() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Node != nil {
			out = append(out, c.Node)
		}
	}
	return out
}

// Tokens returns the child tokens, in order.
func (n *Node) Tokens() []token.Token {
	out := make([]token.Token, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Token != nil {
			out = append(out, *c.Token)
		}
	}
	return out
}

// Child returns the first child node of the given kind, or nil.
func (n *Node) Child(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Node != nil && c.Node.Kind == kind {
			return c.Node
		}
	}
	return nil
}

// ChildrenOf returns all child nodes of the given kind.
func (n *Node) ChildrenOf(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Node != nil && c.Node.Kind == kind {
			out = append(out, c.Node)
		}
	}
	return out
}

// NthNode returns the i-th child node (0-based), or nil.
func (n *Node) NthNode(i int) *Node {
	for _, c := range n.Children {
		if c.Node == nil {
			continue
		}
		if i == 0 {
			return c.Node
		}
		i--
	}
	return nil
}

// FirstToken returns the first child token, or a zero token.
func (n *Node) FirstToken() token.Token {
	for _, c := range n.Children {
		if c.Token != nil {
			return *c.Token
		}
	}
	return token.Token{}
}

// TokenOf returns the first child token of the given kind, or false.
func (n *Node) TokenOf(kind token.Kind) (token.Token, bool) {
	for _, c := range n.Children {
		if c.Token != nil && c.Token.Kind == kind {
			return *c.Token, true
		}
	}
	return token.Token{}, false
}

// KeywordToken returns the first child keyword equal to kw, or false.
func (n *Node) KeywordToken(kw string) (token.Token, bool) {
	for _, c := range n.Children {
		if c.Token != nil && c.Token.Is(kw) {
			return *c.Token, true
		}
	}
	return token.Token{}, false
}

// Text re-renders the node's token texts, space-separated. Good enough for
// names and diagnostics; not a formatter.
func (n *Node) Text() string {
	var parts []string
	n.appendText(&parts)
	return strings.Join(parts, " ")
}

func (n *Node) appendText(parts *[]string) {
	for _, c := range n.Children {
		if c.Token != nil {
			*parts = append(*parts, c.Token.Text)
		} else {
			c.Node.appendText(parts)
		}
	}
}

// Walk visits n and every descendant node in document order. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		if c.Node != nil {
			Walk(c.Node, fn)
		}
	}
}

// Tree is the result of one parse: the file root plus the scope tables the
// schema layer uses to resolve lexically scoped parameters without live
// parent pointers.
type Tree struct {
	Root   *Node
	Source string

	// ParentScope maps every scope id to its enclosing scope id; the file
	// scope maps to 0.
	ParentScope map[ScopeID]ScopeID
}

// Statements returns the top-level statements of the file.
func (t *Tree) Statements() []*Node { return t.Root.Nodes() }

// Errors returns every error node in the tree.
func (t *Tree) Errors() []*Node {
	var out []*Node
	Walk(t.Root, func(n *Node) bool {
		if n.Kind == KindError {
			out = append(out, n)
		}
		return true
	})
	return out
}
