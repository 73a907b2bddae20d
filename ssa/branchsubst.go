// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// substituteBranchCond hoists a single-use definition into the block's
// branch condition:
//
//	x = a + 3        ->      (deleted)
//	if (x > 0)       ->      if (a + 3 > 0)
//
// When the definition statement is not adjacent to the branch, only a
// movable prefix of its value is hoisted and the definition keeps the
// remainder.
func substituteBranchCond(f *Func, b *Block) {
	jtrueStmt := b.LastStmt()
	if jtrueStmt == nil || jtrueStmt.Root.Op != OpJumpTrue {
		f.Fatalf("BB%02d: BlockIf without a branch statement", b.Num)
	}
	jtrue := jtrueStmt.Root

	relop := jtrue.Args[0]
	if !relop.Op.IsCompare() {
		f.Fatalf("BB%02d: branch condition %v is not a comparison", b.Num, relop.Op)
	}

	lcl := relop.Args[0]
	if lcl.Op != OpLocal {
		// First operand must be a local variable.
		return
	}
	if !f.InSsa(lcl.Lcl) {
		return
	}

	d := f.VarDef(lcl.Lcl, lcl.SsaNum)
	if d == nil || d.Tree == nil {
		// A parameter or uninitialized variable, no definition to hoist.
		return
	}
	if d.Uses != 1 {
		// The definition has other uses.
		return
	}
	if d.Block != b {
		// The definition is in another block. Perhaps worth relaxing some
		// day, the win is less clear across block boundaries.
		return
	}

	asg := d.Asg
	rhs := asg.Args[1]
	if rhs.Op == OpPhi {
		return
	}

	// Maybe we're lucky and the assignment is the preceding statement,
	// then the whole definition tree moves.
	if n := len(b.Stmts); n >= 2 && b.Stmts[n-2].Root == asg {
		f.Logf("early prop: branch in BB%02d takes entire single-use tree\n", b.Num)

		relop.Args[0] = rhs

		morphBranch(jtrue)
		jtrueStmt.UpdateSideEffects()
		jtrueStmt.Seq()
		b.removeStmt(b.Stmts[n-2])
		return
	}

	// Find the defining statement; it must be a statement root, a
	// definition buried in a comma or call cannot be deleted from here.
	var asgStmt *Stmt
	for _, s := range b.Stmts {
		if s.Root == asg {
			asgStmt = s
			break
		}
	}
	if asgStmt == nil {
		return
	}

	// See how much of the definition tree can move. Unary operators keep
	// the single live range; binary operators only move when their second
	// operand is a constant, otherwise hoisting would extend extra live
	// ranges past the intervening statements.
	newRhs := rhs
	var hole *Node
	for newRhs.Flags&(flagEffectMask|FlagOrderSideEff) == 0 &&
		(newRhs.Op == OpNeg || newRhs.Op == OpNot || newRhs.Op == OpCast ||
			(newRhs.Op.isBinary() && newRhs.Args[1].IsIntCon())) {
		hole = newRhs
		newRhs = newRhs.Args[0]
	}

	if newRhs == rhs {
		// Nothing movable.
		return
	}

	f.Logf("early prop: branch in BB%02d takes a partial single-use tree\n", b.Num)

	if newRhs.Typ != f.Vars[lcl.Lcl].Typ {
		lhs := asg.Args[0]

		if len(f.Vars[lcl.Lcl].Defs) > 1 || newRhs.Typ.IsGC() != f.Vars[lcl.Lcl].Typ.IsGC() {
			// The variable has multiple versions, or retyping would
			// change how the GC tracks it. Give the remainder a fresh
			// untracked temp.
			newLcl := f.NewTemp(newRhs.Typ)
			f.Logf("early prop: new temp V%02d, V%02d cannot be retyped\n",
				newLcl, lcl.Lcl)

			lhs.Lcl = newLcl
			lhs.SsaNum = ReservedVersion
			lhs.Typ = newRhs.Typ
			lcl.Lcl = newLcl
			lcl.SsaNum = ReservedVersion
			lcl.Typ = newRhs.Typ
			asg.Typ = newRhs.Typ
		} else {
			f.Logf("early prop: retyping V%02d from %v to %v\n", lcl.Lcl, f.Vars[lcl.Lcl].Typ, newRhs.Typ)

			f.Vars[lcl.Lcl].Typ = newRhs.Typ
			lhs.Typ = newRhs.Typ
			lcl.Typ = newRhs.Typ
			asg.Typ = newRhs.Typ
		}
	}

	// Move the rhs..newRhs chain into the branch; the definition keeps the
	// remainder and the moved chain's hole takes the old condition operand.
	asg.Args[1] = newRhs
	hole.Args[0] = lcl
	relop.Args[0] = rhs

	morphBranch(jtrue)

	asgStmt.UpdateSideEffects()
	asgStmt.Seq()
	jtrueStmt.UpdateSideEffects()
	jtrueStmt.Seq()
}

// morphBranch re-validates a branch condition after substitution. Folding
// can degenerate the comparison into a constant; a branch needs an explicit
// comparison, so a constant is normalized back into one.
func morphBranch(jtrue *Node) {
	cond := jtrue.Args[0]
	if v, ok := foldCompare(cond); ok {
		op := OpEq // eq(0, 0): always taken
		if v == 0 {
			op = OpNe // ne(0, 0): never taken
		}
		jtrue.Args[0] = NewNode(op, TypInt, NewConst(TypInt, 0), NewConst(TypInt, 0))
	}
}

// foldCompare evaluates a comparison of two integer constants. Returns
// (1 or 0, true) when folded.
func foldCompare(n *Node) (int64, bool) {
	if !n.Op.IsCompare() || !n.Args[0].IsIntCon() || !n.Args[1].IsIntCon() {
		return 0, false
	}
	a, b := n.Args[0].Val, n.Args[1].Val
	var r bool
	switch n.Op {
	case OpEq:
		r = a == b
	case OpNe:
		r = a != b
	case OpLt:
		r = a < b
	case OpLe:
		r = a <= b
	case OpGt:
		r = a > b
	case OpGe:
		r = a >= b
	}
	if r {
		return 1, true
	}
	return 0, true
}
