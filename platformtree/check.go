package platformtree

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	ErrCycle  = errors.New("platform tree contains a cycle")
	ErrShared = errors.New("node is owned by more than one parent")
)

// CheckTree verifies that everything reachable from root forms a tree:
// no node is its own ancestor and no node has two owners. Children and
// node-valued attributes both count as owned.
func CheckTree(root *Node) error {
	ids := map[*Node]int64{}
	var order []*Node
	owners := map[*Node]int{}

	g := simple.NewDirectedGraph()
	var selfLoop *Node

	var visit func(n *Node) int64
	visit = func(n *Node) int64 {
		if id, ok := ids[n]; ok {
			return id
		}
		id := int64(len(order))
		ids[n] = id
		order = append(order, n)
		g.AddNode(simple.Node(id))

		link := func(child *Node) {
			owners[child]++
			childID := visit(child)
			if childID == id {
				selfLoop = n
				return
			}
			g.SetEdge(g.NewEdge(simple.Node(id), simple.Node(childID)))
		}
		for _, child := range n.children {
			link(child)
		}
		for _, a := range n.attrs {
			if child, ok := a.Value.AsNode(); ok {
				link(child)
			}
		}
		return id
	}
	visit(root)

	if selfLoop != nil {
		return fmt.Errorf("%w: %s", ErrCycle, selfLoop.Label())
	}
	if _, err := topo.Sort(g); err != nil {
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) && len(unorderable) > 0 && len(unorderable[0]) > 0 {
			return fmt.Errorf("%w: through %s", ErrCycle, order[unorderable[0][0].ID()].Label())
		}
		return fmt.Errorf("%w: %v", ErrCycle, err)
	}
	if owners[root] > 0 {
		return fmt.Errorf("%w: %s", ErrCycle, root.Label())
	}
	for _, n := range order {
		if owners[n] > 1 {
			return fmt.Errorf("%w: %s", ErrShared, n.Path())
		}
	}
	return nil
}
