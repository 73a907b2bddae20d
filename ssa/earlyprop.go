// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.
//
// Early value propagation.
//
// An SSA-based backward walk of local variable def chains, performed at
// each point of interest: an array length read, a method table read, or an
// indirection. The walk stops at an allocation helper call whose argument
// yields the value being asked for, and the use site is rewritten with that
// value. Every failure along the way is a silent no-op for that one
// candidate; the original code always stays valid.

package ssa

import "math"

// propKind is the value a backward resolution asks for.
type propKind uint8

const (
	propInvalid propKind = iota
	propArrayLen
	propTypeHandle
)

// RunEarlyPropagation is the pass entry point. It folds branch conditions,
// propagates constant array lengths and type handles, and folds null
// checks. Idempotent on a method with no eligible patterns.
func RunEarlyPropagation(f *Func) {
	for _, b := range f.Blocks {
		if b.Kind == BlockIf {
			substituteBranchCond(f, b)
		}
	}

	if !doEarlyPropForFunc(f) {
		return
	}

	for _, b := range f.Blocks {
		if !doEarlyPropForBlock(b) {
			continue
		}

		for stmtIdx := 0; stmtIdx < len(b.Stmts); stmtIdx++ {
			stmt := b.Stmts[stmtIdx]

			// Walk the statement in execution order. Rewrites preserve
			// node identity, so the stale order links still chain onward;
			// the statement is resequenced once below.
			rewritten := false
			for tree := stmt.Head; tree != nil; tree = tree.Next {
				if r := rewriteTree(f, b, stmt, stmtIdx, tree); r != nil {
					rewritten = true
					tree = r
				}
			}

			if rewritten {
				stmt.UpdateSideEffects()
				stmt.Seq()
			}
		}
	}
}

func doEarlyPropForFunc(f *Func) bool {
	propArrLen := f.Flags&FuncHasNewArray != 0 && f.Flags&FuncHasArrLen != 0
	propGetType := f.Flags&FuncHasNewObj != 0 && f.Flags&FuncHasTypeRead != 0
	propNullCheck := f.Flags&FuncHasNullCheck != 0
	return propArrLen || propGetType || propNullCheck
}

func doEarlyPropForBlock(b *Block) bool {
	return b.Flags&(BlockHasArrLen|BlockHasTypeRead|BlockHasNullCheck) != 0
}

// isMethodTableRead reports whether tree reads an object's method table.
// A read that is itself the statement root is only a null check in
// disguise and is excluded.
func isMethodTableRead(stmt *Stmt, tree *Node) bool {
	return tree.Op == OpIndir && tree != stmt.Root && tree.Args[0].Typ == TypRef
}

// rewriteTree attempts to rewrite one candidate node. Returns the
// rewritten node when a rewrite happened, nil otherwise.
func rewriteTree(f *Func, b *Block, stmt *Stmt, stmtIdx int, tree *Node) *Node {
	var objRef *Node
	kind := propInvalid

	switch tree.Op {
	case OpArrLen:
		objRef = tree.Args[0]
		kind = propArrayLen
	case OpIndir, OpNullCheck:
		// Null check folding is local to this node and independent of
		// propagation; it updates the def statement itself on success.
		foldNullCheck(f, b, stmt, stmtIdx, tree)

		if !isMethodTableRead(stmt, tree) {
			return nil
		}
		objRef = tree.Args[0]
		kind = propTypeHandle
	default:
		return nil
	}

	if objRef.Op != OpLocal || !f.InSsa(objRef.Lcl) {
		return nil
	}

	val := propValue(f, objRef.Lcl, objRef.SsaNum, kind)
	if val == nil {
		return nil
	}
	actual := val.Val

	if kind == propArrayLen {
		if actual < 0 || actual > math.MaxInt32 {
			// The allocation helper takes a long length argument but the
			// array length node is always 32 bit.
			return nil
		}

		// Replacing a length read with a constant can leave behind a
		// bounds check with two constant operands. Remove it here while
		// the allocation is in view, rather than leaving it for later
		// phases. Patterns like new int[]{x, y, z} hit this.
		if check := tree.Next; check != nil && check.Op == OpBoundsChk &&
			check.Args[1] == tree && check.Args[0].IsIntCon() {
			index := check.Args[0].Val
			if index >= 0 && index < actual {
				if comma, i := stmt.parent(check); comma != nil && comma.Op == OpComma && i == 0 {
					f.Logf("early prop: eliding bounds check [%d < %d] in BB%02d\n", index, actual, b.Num)
					// Both operands are constants by now, nothing to keep.
					comma.Args[0] = NewNode(OpNop, TypVoid)
					// Resequence now so the caller's execution-order walk
					// continues past the removed subtree.
					stmt.UpdateSideEffects()
					stmt.Seq()
					return comma.Args[0]
				}
			}
		}
	}

	f.Logf("early prop: rewriting %v in BB%02d to %d\n", tree, b.Num, actual)

	clone := val.Clone()
	if clone.Typ != tree.Typ {
		if clone.Typ != TypLong || tree.Typ != TypInt {
			f.Fatalf("early prop: unexpected narrowing %v -> %v", clone.Typ, tree.Typ)
		}
		// Range was checked above, the long constant fits the int node.
		clone.Typ = tree.Typ
	}
	tree.ReplaceWith(clone)
	return tree
}

// propValue resolves the requested value for (lcl, ssaNum) along the SSA
// def chain.
func propValue(f *Func, lcl LclNum, ssaNum Version, kind propKind) *Node {
	return propValueRec(f, lcl, ssaNum, kind, 0)
}

func propValueRec(f *Func, lcl LclNum, ssaNum Version, kind propKind, depth int) *Node {
	if ssaNum == ReservedVersion {
		return nil
	}
	if depth > propMaxRecursionDepth {
		// Never guess past the bound.
		return nil
	}

	d := f.VarDef(lcl, ssaNum)
	if d == nil || d.Tree == nil {
		// Incoming parameters and uninitialized variables have no
		// definition tree for their first version.
		return nil
	}

	rhs := d.Asg.Args[1]

	if rhs.Op == OpLocal && f.InSsa(rhs.Lcl) {
		return propValueRec(f, rhs.Lcl, rhs.SsaNum, kind, depth+1)
	}

	var val *Node
	switch kind {
	case propArrayLen:
		val = arrayLengthFromAllocation(rhs)
	case propTypeHandle:
		val = typeHandleFromAllocation(rhs)
	}
	if val != nil && !val.IsIntCon() {
		// Only statically known values propagate.
		val = nil
	}
	return val
}
