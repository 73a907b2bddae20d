// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// foldNullCheck looks for the pattern
//
//	t = comma(nullcheck(y), add(y, const))
//	... statements with no unsafe side effects ...
//	indir(t)
//
// within one block, where const is small enough that the indirection would
// fault on a null y just like the explicit check. If nothing can observe
// the different fault point, the null check loses its exception-raising
// semantics and the addition keeps the tree ordered.
func foldNullCheck(f *Func, b *Block, stmt *Stmt, stmtIdx int, indir *Node) {
	if b.Flags&BlockHasNullCheck == 0 {
		return
	}

	addr := indir.Args[0]
	if addr.Op != OpLocal || addr.SsaNum == ReservedVersion {
		return
	}

	d := f.VarDef(addr.Lcl, addr.SsaNum)
	if d == nil || d.Tree == nil || d.Block != b {
		return
	}
	asg := d.Asg
	if d.Stmt == nil || d.Stmt.Root != asg {
		// The definition is buried inside a larger tree.
		return
	}

	rhs := asg.Args[1]
	if rhs.Op != OpComma || rhs.Args[0].Op != OpNullCheck {
		return
	}
	nullCheck := rhs.Args[0]
	if nullCheck.Args[0].Op != OpLocal {
		return
	}
	checkedLcl := nullCheck.Args[0].Lcl

	addition := rhs.Args[1]
	if addition.Op != OpAdd || addition.Args[0].Op != OpLocal || addition.Args[0].Lcl != checkedLcl {
		return
	}
	offset := addition.Args[1]
	if !offset.IsIntCon() || isBigOffset(offset.Val) {
		return
	}

	// Walk from the use back to the def in reverse execution order looking
	// for side effects that cannot move past the removed check. One budget
	// covers both phases; exhausting it anywhere skips this fold only.
	insideTry := b.InTry()
	nodesWalked := 0

	// First the nodes of the indirection's own statement, starting just
	// before the indirected address.
	for cur := addr.Prev; cur != nil; cur = cur.Prev {
		if nodesWalked >= nullCheckMaxNodesWalked || !canMoveNullCheckPast(cur, insideTry) {
			return
		}
		nodesWalked++
	}

	// Then the statements in between, newest first. Their root flags
	// summarize the whole statement.
	for j := stmtIdx - 1; ; j-- {
		if j < 0 {
			// The def statement should have been found in this block.
			return
		}
		cur := b.Stmts[j].Root
		if cur == asg {
			break
		}
		if nodesWalked >= nullCheckMaxNodesWalked || !canMoveNullCheckPast(cur, insideTry) {
			return
		}
		nodesWalked++
	}

	f.Logf("early prop: folding null check of V%02d into indir in BB%02d\n", checkedLcl, b.Num)

	// Strip the fault, keep the ordering.
	nullCheck.Flags &^= FlagExcept
	nullCheck.Flags |= FlagOrderSideEff | FlagNonFaulting

	// The comma's effects now come from the surviving addition alone.
	rhs.Flags &^= FlagExcept
	rhs.Flags |= addition.Flags & FlagExcept

	d.Stmt.UpdateSideEffects()
	d.Stmt.Seq()
}

// canMoveNullCheckPast reports whether removing a null check that executed
// before tree is safe given that the fault now happens after tree. Inside a
// try region any side effect blocks the fold since a handler may observe
// it; outside, only globally visible effects do.
func canMoveNullCheckPast(tree *Node, insideTry bool) bool {
	if insideTry {
		return !tree.Flags.HasSideEffects()
	}
	return !tree.Flags.HasGlobalSideEffects()
}

// isBigOffset reports whether offset is too large for a dereference at
// base+offset to fault reliably on a null base. Negative offsets never
// qualify.
func isBigOffset(offset int64) bool {
	return uint64(offset) > maxUncheckedNullOffset
}
