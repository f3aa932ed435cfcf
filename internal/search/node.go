package search

import "slices"

// Node is one state reached during a search, linked to the node it was
// expanded from. Nodes are never modified after construction.
type Node[S comparable] struct {
	state     S
	parent    *Node[S]
	cost      float64
	heuristic float64
}

// NewNode creates a node with zero cost and zero heuristic.
func NewNode[S comparable](state S, parent *Node[S]) *Node[S] {
	return &Node[S]{state: state, parent: parent}
}

// NewCostNode creates a node carrying an accumulated path cost and a
// heuristic estimate of the remaining distance.
func NewCostNode[S comparable](state S, parent *Node[S], cost, heuristic float64) *Node[S] {
	return &Node[S]{state: state, parent: parent, cost: cost, heuristic: heuristic}
}

// State returns the state this node represents.
func (n *Node[S]) State() S { return n.state }

// Parent returns the node this one was expanded from, or nil for the root.
func (n *Node[S]) Parent() *Node[S] { return n.parent }

// Cost returns the accumulated path cost from the root.
func (n *Node[S]) Cost() float64 { return n.cost }

// Heuristic returns the estimated remaining cost to the goal.
func (n *Node[S]) Heuristic() float64 { return n.heuristic }

// Depth returns the number of edges between the root and n.
func (n *Node[S]) Depth() int {
	depth := 0
	for cur := n.parent; cur != nil; cur = cur.parent {
		depth++
	}
	return depth
}

// Less orders nodes by cost + heuristic, lowest first.
func Less[S comparable](a, b *Node[S]) bool {
	return a.cost+a.heuristic < b.cost+b.heuristic
}

// ToPath returns the states from the root of the search tree to node,
// inclusive. node must not be nil.
func ToPath[S comparable](node *Node[S]) []S {
	path := make([]S, 0, node.Depth()+1)
	for cur := node; cur != nil; cur = cur.parent {
		path = append(path, cur.state)
	}
	slices.Reverse(path)
	return path
}
