// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// BlockKind distinguishes how a block transfers control. The propagation
// passes only care whether a block ends in a conditional branch.
type BlockKind uint8

const (
	BlockPlain BlockKind = iota // falls through or jumps unconditionally
	BlockIf                     // last statement is an OpJumpTrue
	BlockExit                   // returns or throws
)

// BlockFlags mark blocks that contain propagation candidates. They are an
// over-approximation: a flag may be set for a block whose candidate turns
// out not to be rewritable.
type BlockFlags uint8

const (
	BlockHasArrLen    BlockFlags = 1 << iota // contains an array length read
	BlockHasTypeRead                         // contains a method table read
	BlockHasNullCheck                        // contains an explicit null check
)

// Block is a basic block. Control-flow edges and dominator information are
// owned by the surrounding compiler; renaming and propagation only need the
// stable number, the statement list and the candidate flags.
type Block struct {
	Num      uint32
	Kind     BlockKind
	Flags    BlockFlags
	TryIndex int // enclosing try region, -1 when not exception-protected
	Stmts    []*Stmt
}

// InTry reports whether the block is inside an exception-protected region.
func (b *Block) InTry() bool {
	return b.TryIndex >= 0
}

// LastStmt returns the block's final statement, or nil for an empty block.
func (b *Block) LastStmt() *Stmt {
	if len(b.Stmts) == 0 {
		return nil
	}
	return b.Stmts[len(b.Stmts)-1]
}

// AddStmt appends a statement to the block.
func (b *Block) AddStmt(s *Stmt) {
	b.Stmts = append(b.Stmts, s)
}

// removeStmt deletes s from the block, preserving statement order.
func (b *Block) removeStmt(s *Stmt) {
	for i, t := range b.Stmts {
		if t == s {
			b.Stmts = append(b.Stmts[:i], b.Stmts[i+1:]...)
			return
		}
	}
}
