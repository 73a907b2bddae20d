// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// Flags summarize the observable effects of a tree. A node's flags include
// the flags of its operands, so the root of a statement describes the whole
// statement.
type Flags uint8

const (
	FlagAsg     Flags = 1 << iota // performs an assignment
	FlagCall                      // contains a call
	FlagExcept                    // may raise an exception
	FlagGlobRef                   // reads or writes aliasable memory

	// The two flags below survive flag recomputation. FlagOrderSideEff
	// also propagates to parents; FlagNonFaulting stays on its node.
	FlagOrderSideEff // ordering-significant, must not be reordered
	FlagNonFaulting  // indirection known not to fault

	flagSideEffects = FlagAsg | FlagCall | FlagExcept
	flagEffectMask  = flagSideEffects | FlagGlobRef
	flagStickyMask  = FlagOrderSideEff | FlagNonFaulting
)

// HasSideEffects reports whether the tree assigns, calls or may throw.
func (f Flags) HasSideEffects() bool {
	return f&flagSideEffects != 0
}

// HasGlobalSideEffects reports whether the tree's effects are visible
// outside the current method: calls, exceptions and stores to aliasable
// memory. Assignments to locals are not globally visible.
func (f Flags) HasGlobalSideEffects() bool {
	if f&(FlagCall|FlagExcept) != 0 {
		return true
	}
	return f&FlagAsg != 0 && f&FlagGlobRef != 0
}

// baseFlags returns the effects the node introduces by itself, ignoring
// operands.
func (n *Node) baseFlags() Flags {
	var f Flags
	switch n.Op {
	case OpAsg:
		f |= FlagAsg
		if n.Args[0].Op != OpLocal {
			f |= FlagGlobRef
		}
	case OpCall:
		f |= FlagCall | FlagExcept | FlagGlobRef
	case OpIndir:
		f |= FlagGlobRef
		if n.Flags&FlagNonFaulting == 0 {
			f |= FlagExcept
		}
	case OpNullCheck:
		if n.Flags&FlagNonFaulting == 0 {
			f |= FlagExcept
		}
	default:
		if n.Op.mayFault() {
			f |= FlagExcept
		}
	}
	return f
}

// updateFlags recomputes n's flags from its base flags and its operands,
// preserving the node-local sticky bits. Returns the new flags.
func (n *Node) updateFlags() Flags {
	f := n.Flags & flagStickyMask
	f |= n.baseFlags()
	for _, a := range n.Args {
		f |= a.updateFlags() & (flagEffectMask | FlagOrderSideEff)
	}
	n.Flags = f
	return f
}
