// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// branchBlock appends "if (cond)" to b and returns the branch statement.
func branchBlock(b *Block, cond *Node) *Stmt {
	s := NewStmt(NewNode(OpJumpTrue, TypVoid, cond))
	b.AddStmt(s)
	return s
}

func TestBranchSubstAdjacent(t *testing.T) {
	// x = a + 3; if (x > 0)  =>  if (a + 3 > 0)
	f := testFunc(TypInt, TypInt)
	b := f.NewBlock(BlockIf)

	rhs := NewNode(OpAdd, TypInt, use(f, 0, FirstVersion), NewConst(TypInt, 3))
	_, x := addDef(f, b, 1, rhs)
	relop := NewNode(OpGt, TypInt, use(f, 1, x), NewConst(TypInt, 0))
	branchBlock(b, relop)

	RunEarlyPropagation(f)

	require.Len(t, b.Stmts, 1, "the assignment statement should be deleted")
	assert.Same(t, rhs, relop.Args[0])
}

func TestBranchSubstMultiUse(t *testing.T) {
	f := testFunc(TypInt, TypInt)
	b := f.NewBlock(BlockIf)

	rhs := NewNode(OpAdd, TypInt, use(f, 0, FirstVersion), NewConst(TypInt, 3))
	_, x := addDef(f, b, 1, rhs)
	// A second use elsewhere keeps the definition alive.
	extra := use(f, 1, x)
	xUse := use(f, 1, x)
	relop := NewNode(OpGt, TypInt, xUse, NewConst(TypInt, 0))
	branchBlock(b, relop)
	_ = extra

	RunEarlyPropagation(f)

	require.Len(t, b.Stmts, 2)
	assert.Same(t, xUse, relop.Args[0])
}

func TestBranchSubstNonAdjacent(t *testing.T) {
	// x = -(a + 3); unrelated; if (x == 0)
	// Moves the movable prefix: x = a; if (-(x + 3) == 0)
	f := testFunc(TypInt, TypInt, TypInt)
	b := f.NewBlock(BlockIf)

	add := NewNode(OpAdd, TypInt, use(f, 0, FirstVersion), NewConst(TypInt, 3))
	neg := NewNode(OpNeg, TypInt, add)
	asgStmt, x := addDef(f, b, 1, neg)
	b.AddStmt(NewStmt(NewAsg(NewLocal(2, ReservedVersion, TypInt), NewConst(TypInt, 1))))
	xUse := use(f, 1, x)
	relop := NewNode(OpEq, TypInt, xUse, NewConst(TypInt, 0))
	branchBlock(b, relop)

	RunEarlyPropagation(f)

	require.Len(t, b.Stmts, 3, "a partial move keeps the assignment")
	// The branch got the neg(add(..)) chain.
	require.Same(t, neg, relop.Args[0])
	require.Same(t, add, neg.Args[0])
	// The hole left by the move holds the variable again.
	assert.Same(t, xUse, add.Args[0])
	// The assignment keeps the remainder, the use of a.
	remainder := asgStmt.Root.Args[1]
	require.Equal(t, OpLocal, remainder.Op)
	assert.Equal(t, LclNum(0), remainder.Lcl)
}

func TestBranchSubstRetypeSingleDef(t *testing.T) {
	// x is int, the remainder is long; x has one definition so it can be
	// retyped.
	f := testFunc(TypLong, TypInt, TypInt)
	b := f.NewBlock(BlockIf)

	cast := NewNode(OpCast, TypInt, use(f, 0, FirstVersion))
	asgStmt, x := addDef(f, b, 1, cast)
	b.AddStmt(NewStmt(NewAsg(NewLocal(2, ReservedVersion, TypInt), NewConst(TypInt, 1))))
	xUse := use(f, 1, x)
	relop := NewNode(OpNe, TypInt, xUse, NewConst(TypInt, 0))
	branchBlock(b, relop)

	RunEarlyPropagation(f)

	assert.Equal(t, TypLong, f.Vars[1].Typ)
	assert.Equal(t, TypLong, xUse.Typ)
	assert.Equal(t, TypLong, asgStmt.Root.Args[0].Typ)
	require.Same(t, cast, relop.Args[0])
	assert.Same(t, xUse, cast.Args[0])
}

func TestBranchSubstFreshTempForMultiDefVar(t *testing.T) {
	// x has two versions; retyping would break the other one, so the
	// moved remainder gets a fresh untracked temp.
	f := testFunc(TypLong, TypInt, TypInt)
	b := f.NewBlock(BlockIf)

	addDef(f, b, 1, NewConst(TypInt, 0))
	cast := NewNode(OpCast, TypInt, use(f, 0, FirstVersion))
	asgStmt, x2 := addDef(f, b, 1, cast)
	b.AddStmt(NewStmt(NewAsg(NewLocal(2, ReservedVersion, TypInt), NewConst(TypInt, 1))))
	xUse := use(f, 1, x2)
	relop := NewNode(OpNe, TypInt, xUse, NewConst(TypInt, 0))
	branchBlock(b, relop)

	numVars := len(f.Vars)
	RunEarlyPropagation(f)

	require.Len(t, f.Vars, numVars+1, "a fresh temp should be introduced")
	temp := LclNum(numVars)
	assert.Equal(t, TypLong, f.Vars[temp].Typ)
	assert.False(t, f.Vars[temp].InSsa)
	// Original variable keeps its type, the moved chain uses the temp.
	assert.Equal(t, TypInt, f.Vars[1].Typ)
	assert.Equal(t, temp, xUse.Lcl)
	assert.Equal(t, ReservedVersion, xUse.SsaNum)
	assert.Equal(t, temp, asgStmt.Root.Args[0].Lcl)
}

func TestBranchSubstDegenerateCompare(t *testing.T) {
	// x = 1; if (x == 1): splicing folds the condition to a constant,
	// which must normalize back into an explicit comparison.
	f := testFunc(TypInt)
	b := f.NewBlock(BlockIf)

	_, x := addDef(f, b, 0, NewConst(TypInt, 1))
	relop := NewNode(OpEq, TypInt, use(f, 0, x), NewConst(TypInt, 1))
	jtrueStmt := branchBlock(b, relop)

	RunEarlyPropagation(f)

	require.Len(t, b.Stmts, 1)
	cond := jtrueStmt.Root.Args[0]
	require.Equal(t, OpEq, cond.Op, "constant-true normalizes to eq(0,0)")
	assert.Equal(t, OpConst, cond.Args[0].Op)
	assert.Equal(t, OpConst, cond.Args[1].Op)
}

func TestBranchSubstDefInOtherBlock(t *testing.T) {
	f := testFunc(TypInt, TypInt)
	defBlock := f.NewBlock(BlockPlain)
	b := f.NewBlock(BlockIf)

	rhs := NewNode(OpAdd, TypInt, use(f, 0, FirstVersion), NewConst(TypInt, 3))
	_, x := addDef(f, defBlock, 1, rhs)
	xUse := use(f, 1, x)
	relop := NewNode(OpGt, TypInt, xUse, NewConst(TypInt, 0))
	branchBlock(b, relop)

	RunEarlyPropagation(f)

	assert.Same(t, xUse, relop.Args[0], "cross-block definitions are not hoisted")
}

func TestBranchSubstBuriedDef(t *testing.T) {
	// The defining assignment is wrapped in a comma, so no statement has
	// it as root and the rewrite is abandoned.
	f := testFunc(TypInt, TypInt)
	b := f.NewBlock(BlockIf)

	dst := NewLocal(1, UninitVersion, TypInt)
	asg := NewAsg(dst, NewNode(OpAdd, TypInt, use(f, 0, FirstVersion), NewConst(TypInt, 3)))
	wrapped := NewStmt(NewNode(OpComma, TypInt, asg, NewConst(TypInt, 0)))
	b.AddStmt(wrapped)
	x := f.RecordDef(1, Def{Block: b, Stmt: wrapped, Tree: dst, Asg: asg})
	dst.SsaNum = x

	b.AddStmt(NewStmt(NewAsg(NewLocal(0, ReservedVersion, TypInt), NewConst(TypInt, 1))))
	xUse := use(f, 1, x)
	relop := NewNode(OpGt, TypInt, xUse, NewConst(TypInt, 0))
	branchBlock(b, relop)

	RunEarlyPropagation(f)

	assert.Same(t, xUse, relop.Args[0])
}

func TestBranchSubstPhiDef(t *testing.T) {
	f := testFunc(TypInt, TypInt)
	b := f.NewBlock(BlockIf)

	_, x := addDef(f, b, 1, NewNode(OpPhi, TypInt))
	xUse := use(f, 1, x)
	relop := NewNode(OpGt, TypInt, xUse, NewConst(TypInt, 0))
	branchBlock(b, relop)

	RunEarlyPropagation(f)

	assert.Same(t, xUse, relop.Args[0], "phi definitions are not hoisted")
}
