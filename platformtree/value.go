package platformtree

import (
	"fmt"
	"strconv"
)

type ValueKind int

const (
	IntValue ValueKind = iota
	StringValue
	BoolValue
	NodeValue
)

func (k ValueKind) String() string {
	switch k {
	case IntValue:
		return "integer"
	case StringValue:
		return "string"
	case BoolValue:
		return "boolean"
	case NodeValue:
		return "node"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Value is an attribute value. Exactly one of the payloads is meaningful,
// selected by Kind.
type Value struct {
	kind ValueKind
	i    int64
	s    string
	b    bool
	n    *Node
}

func Int(n int64) Value {
	return Value{kind: IntValue, i: n}
}

func Str(s string) Value {
	return Value{kind: StringValue, s: s}
}

func Bool(b bool) Value {
	return Value{kind: BoolValue, b: b}
}

func NodeRef(n *Node) Value {
	return Value{kind: NodeValue, n: n}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == IntValue
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == StringValue
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == BoolValue
}

func (v Value) AsNode() (*Node, bool) {
	return v.n, v.kind == NodeValue && v.n != nil
}

func (v Value) String() string {
	switch v.kind {
	case IntValue:
		return strconv.FormatInt(v.i, 10)
	case StringValue:
		return strconv.Quote(v.s)
	case BoolValue:
		return strconv.FormatBool(v.b)
	case NodeValue:
		if v.n == nil {
			return "<nil>"
		}
		return v.n.Label()
	}
	return "<invalid>"
}
