package syntax

import "strings"

// Node is an element of the syntax tree built from a marker production
// list. Leaves carry a Token; error elements carry a message.
type Node struct {
	Type     *ElementType
	Span     Span
	Token    *Token
	Error    string
	Children []*Node
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Type == ErrorElement
}

func (n *Node) IsLeaf() bool {
	return n.Token != nil
}

func (n *Node) FirstChildOfType(t *ElementType) *Node {
	for _, child := range n.Children {
		if child.Type == t {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfType(t *ElementType) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Type == t {
			result = append(result, child)
		}
	}
	return result
}

// Text returns the concatenated token text below n.
func (n *Node) Text() string {
	var sb strings.Builder
	n.Walk(func(node *Node) bool {
		if node.Token != nil {
			sb.WriteString(node.Token.Text)
		}
		return true
	})
	return sb.String()
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Errors returns every error element below n in document order.
func (n *Node) Errors() []*Node {
	var errs []*Node
	n.Walk(func(node *Node) bool {
		if node.IsError() {
			errs = append(errs, node)
		}
		return true
	})
	return errs
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Type.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + quoteText(n.Token.Text))
	}
	if n.IsError() {
		sb.WriteString(" ERROR: " + n.Error)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}

func quoteText(s string) string {
	r := strings.NewReplacer("\n", "\\n", "\t", "\\t", "\r", "\\r")
	return "'" + r.Replace(s) + "'"
}
