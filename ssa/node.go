// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

import "fmt"

// Node is a tree IR node. Trees are owned by their statement; there are no
// parent links, rewrites either overwrite a node in place (ReplaceWith) or
// replace a child slot on the caller's side.
type Node struct {
	Op    Op
	Typ   Type
	Flags Flags

	Val    int64   // OpConst value, OpAdd offsets and the like
	Helper Helper  // OpCall only
	Lcl    LclNum  // OpLocal only
	SsaNum Version // OpLocal only

	Args []*Node

	// Execution order within the owning statement, maintained by Stmt.Seq.
	Next, Prev *Node
}

// NewNode returns a node with flags derived from its operands.
func NewNode(op Op, typ Type, args ...*Node) *Node {
	n := &Node{Op: op, Typ: typ, Args: args}
	n.updateFlags()
	return n
}

// NewConst returns an integer constant node.
func NewConst(typ Type, val int64) *Node {
	return &Node{Op: OpConst, Typ: typ, Val: val}
}

// NewLocal returns a use of the given local and SSA version.
func NewLocal(lcl LclNum, ssaNum Version, typ Type) *Node {
	return &Node{Op: OpLocal, Typ: typ, Lcl: lcl, SsaNum: ssaNum}
}

// NewCall returns a runtime helper call node.
func NewCall(helper Helper, typ Type, args ...*Node) *Node {
	n := &Node{Op: OpCall, Typ: typ, Helper: helper, Args: args}
	n.updateFlags()
	return n
}

// NewAsg returns an assignment of src to the destination tree dst.
func NewAsg(dst, src *Node) *Node {
	n := &Node{Op: OpAsg, Typ: dst.Typ, Args: []*Node{dst, src}}
	n.updateFlags()
	return n
}

// IsIntCon reports whether the node is an integer constant.
func (n *Node) IsIntCon() bool {
	return n.Op == OpConst
}

// Clone returns a deep copy of the tree rooted at n. Execution order links
// are not copied, the clone is not sequenced until it lands in a statement.
func (n *Node) Clone() *Node {
	c := &Node{
		Op:     n.Op,
		Typ:    n.Typ,
		Flags:  n.Flags,
		Val:    n.Val,
		Helper: n.Helper,
		Lcl:    n.Lcl,
		SsaNum: n.SsaNum,
	}
	if len(n.Args) > 0 {
		c.Args = make([]*Node, len(n.Args))
		for i, a := range n.Args {
			c.Args[i] = a.Clone()
		}
	}
	return c
}

// ReplaceWith overwrites n with src, keeping n's identity so that any
// containing tree remains valid. Execution order links are preserved and go
// stale until the statement is resequenced.
func (n *Node) ReplaceWith(src *Node) {
	n.Op = src.Op
	n.Typ = src.Typ
	n.Flags = src.Flags
	n.Val = src.Val
	n.Helper = src.Helper
	n.Lcl = src.Lcl
	n.SsaNum = src.SsaNum
	n.Args = src.Args
}

// walk visits the tree rooted at n in preorder.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, a := range n.Args {
		a.walk(fn)
	}
}

func (n *Node) String() string {
	switch n.Op {
	case OpConst:
		return fmt.Sprintf("const %s %d", n.Typ, n.Val)
	case OpLocal:
		return fmt.Sprintf("local %s V%02d/%d", n.Typ, n.Lcl, n.SsaNum)
	case OpCall:
		return fmt.Sprintf("call %s %s", n.Typ, n.Helper)
	}
	return fmt.Sprintf("%s %s", n.Op, n.Typ)
}
