package ast

import (
	"strings"

	"github.com/surqlx/surlint/token"
)

// Typed accessors over the generic child list. Each accessor assumes the
// child layout the parser produces for that node kind and degrades to nil
// or "" on malformed (error-recovered) nodes.

// Left returns the left operand of a binary expression.
func (n *Node) Left() *Node { return n.NthNode(0) }

// Right returns the right operand of a binary expression.
func (n *Node) Right() *Node { return n.NthNode(1) }

// Operator returns the normalized operator text of a binary or unary
// expression. Word operators are uppercased and joined ("IS NOT").
func (n *Node) Operator() string {
	var parts []string
	for _, c := range n.Children {
		if c.Token == nil {
			continue
		}
		switch c.Token.Kind {
		case token.Keyword:
			parts = append(parts, c.Token.Keyword())
		case token.LBracket, token.RBracket, token.Comma, token.Number:
			// knn operator payload `<|2|>` style brackets are not part
			// of the operator name
		default:
			parts = append(parts, c.Token.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Operand returns the single operand of a unary or cast expression.
func (n *Node) Operand() *Node { return n.NthNode(0) }

// Condition, Then and Else address a ternary expression's three operands.
func (n *Node) Condition() *Node { return n.NthNode(0) }
func (n *Node) Then() *Node      { return n.NthNode(1) }
func (n *Node) Else() *Node      { return n.NthNode(2) }

// CastType returns the type name inside a cast's angle brackets.
func (n *Node) CastType() string {
	var sb strings.Builder
	depth := 0
	for _, c := range n.Children {
		if c.Token == nil {
			continue
		}
		switch c.Token.Kind {
		case token.Less:
			depth++
			if depth == 1 {
				continue
			}
		case token.Greater:
			depth--
			if depth == 0 {
				continue
			}
		}
		sb.WriteString(c.Token.Text)
	}
	return sb.String()
}

// Base returns the receiver of a field access, index or graph traversal.
func (n *Node) Base() *Node { return n.NthNode(0) }

// FieldName returns the accessed field name of a field access.
func (n *Node) FieldName() string {
	for _, c := range n.Children {
		if c.Token != nil && (c.Token.Kind == token.Identifier || c.Token.Kind == token.Keyword || c.Token.Kind == token.Star) {
			return c.Token.Text
		}
	}
	return ""
}

// IndexOperand returns the bracketed operand of an index expression.
func (n *Node) IndexOperand() *Node { return n.NthNode(1) }

// Name returns the identifier text with all token texts joined directly,
// so `string::split` renders without spaces.
func (n *Node) Name() string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Token != nil {
			sb.WriteString(c.Token.Text)
		}
	}
	return sb.String()
}

// Callee returns the called function path of a call expression.
func (n *Node) Callee() string {
	if fn := n.NthNode(0); fn != nil {
		return fn.Name()
	}
	return ""
}

// Args returns the argument expressions of a call expression.
func (n *Node) Args() []*Node {
	nodes := n.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	return nodes[1:]
}

// ParamName returns a parameter node's name without the leading $.
func (n *Node) ParamName() string {
	t := n.FirstToken()
	return strings.TrimPrefix(t.Text, "$")
}

// RecordTable returns the table half of a record-id literal.
func (n *Node) RecordTable() string {
	toks := n.Tokens()
	if len(toks) == 0 {
		return ""
	}
	text := toks[0].Text
	if toks[0].Kind == token.RecordString {
		// r"table:id": strip prefix and quote, take the table half.
		text = strings.Trim(text[1:], `"'`)
		if i := strings.IndexByte(text, ':'); i >= 0 {
			return text[:i]
		}
	}
	return text
}

// Direction returns "->", "<-" or "<->" for a graph traversal.
func (n *Node) Direction() string {
	for _, c := range n.Children {
		if c.Token == nil {
			continue
		}
		switch c.Token.Kind {
		case token.Arrow, token.BackArrow, token.BothArrow:
			return c.Token.Text
		}
	}
	return ""
}

// EntryKey returns an object entry's key text, unquoting string keys.
func (n *Node) EntryKey() string {
	t := n.FirstToken()
	if t.Kind == token.String && len(t.Text) >= 2 {
		return t.Text[1 : len(t.Text)-1]
	}
	return t.Text
}

// EntryValue returns an object entry's value expression.
func (n *Node) EntryValue() *Node { return n.NthNode(0) }
