// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// Stmt is one statement of a basic block: a rooted tree plus a linearized
// execution-order list over the tree's nodes. The list goes stale when the
// tree is rewritten and must be rebuilt with Seq.
type Stmt struct {
	Root       *Node
	Head, Tail *Node
}

// NewStmt returns a sequenced statement rooted at root.
func NewStmt(root *Node) *Stmt {
	s := &Stmt{Root: root}
	s.UpdateSideEffects()
	s.Seq()
	return s
}

// Seq rebuilds the execution-order list. Operands evaluate before their
// node; assignments evaluate the value before the destination.
func (s *Stmt) Seq() {
	s.Head, s.Tail = nil, nil
	s.seqTree(s.Root)
}

func (s *Stmt) seqTree(n *Node) {
	if n.Op == OpAsg {
		s.seqTree(n.Args[1])
		s.seqTree(n.Args[0])
	} else {
		for _, a := range n.Args {
			s.seqTree(a)
		}
	}
	n.Prev = s.Tail
	n.Next = nil
	if s.Tail != nil {
		s.Tail.Next = n
	} else {
		s.Head = n
	}
	s.Tail = n
}

// UpdateSideEffects rederives the flags of every node in the statement.
func (s *Stmt) UpdateSideEffects() {
	s.Root.updateFlags()
}

// parent returns the parent of n within the statement and n's position in
// the parent's operand list, or nil if n is the root or not in the tree.
func (s *Stmt) parent(n *Node) (*Node, int) {
	return findParent(s.Root, n)
}

func findParent(root, n *Node) (*Node, int) {
	for i, a := range root.Args {
		if a == n {
			return root, i
		}
		if p, j := findParent(a, n); p != nil {
			return p, j
		}
	}
	return nil, -1
}
