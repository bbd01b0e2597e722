// Package platformtree holds the labelled configuration tree consumed by
// the platform compiler.
package platformtree

import (
	"fmt"
	"strings"
)

type Pos struct {
	Line   int
	Column int
}

func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Attribute struct {
	Name  string
	Value Value
	Pos   Pos
}

// Node is one element of a platform tree. Children are owned by their
// parent; the parent link is a plain back-reference.
type Node struct {
	Kind string
	Name string
	Pos  Pos

	attrs    []Attribute
	children []*Node
	parent   *Node
}

func NewNode(kind, name string) *Node {
	return &Node{Kind: kind, Name: name}
}

// SetAttr replaces the attribute called name or appends it.
func (n *Node) SetAttr(name string, v Value) {
	n.SetAttrAt(name, v, Pos{})
}

func (n *Node) SetAttrAt(name string, v Value, pos Pos) {
	if child, ok := v.AsNode(); ok {
		child.parent = n
	}
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i] = Attribute{Name: name, Value: v, Pos: pos}
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: v, Pos: pos})
}

func (n *Node) Attr(name string) (Value, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return Value{}, false
}

// Attrs returns the attributes in declaration order.
func (n *Node) Attrs() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) ChildrenOf(kind string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Label is kind[@name].
func (n *Node) Label() string {
	if n.Name == "" {
		return n.Kind
	}
	return n.Kind + "@" + n.Name
}

// Path joins the labels from the root down to n. Parent links are followed
// at most once per node so a malformed tree still terminates.
func (n *Node) Path() string {
	var labels []string
	seen := map[*Node]bool{}
	for cur := n; cur != nil && !seen[cur]; cur = cur.parent {
		seen[cur] = true
		labels = append(labels, cur.Label())
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return strings.Join(labels, ".")
}

func (n *Node) String() string {
	if n.Pos.IsValid() {
		return n.Pos.String() + ": " + n.Path()
	}
	return n.Path()
}
