// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// Op identifies the operation a tree node performs.
type Op uint8

const (
	OpInvalid Op = iota

	OpConst // integer constant; Val holds the value
	OpLocal // local variable use or def; Lcl and SsaNum identify it
	OpNop   // placeholder left behind by removed subtrees
	OpPhi   // SSA phi; placement is out of scope here, only recognized

	OpAsg   // Args[0] = destination, Args[1] = value
	OpComma // Args[0] evaluated for effect, Args[1] is the value
	OpCall  // runtime helper call; Helper classifies it

	OpIndir     // load through the address in Args[0]
	OpNullCheck // null check of Args[0]; faults, yields no value
	OpArrLen    // array length read of Args[0]
	OpBoundsChk // Args[0] = index, Args[1] = length; faults when out of range

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpUDiv
	OpMod
	OpUMod
	OpAnd
	OpOr
	OpXor
	OpLsh
	OpRsh
	OpRsz

	OpNeg
	OpNot
	OpCast // value conversion to the node's own type

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpJumpTrue // conditional branch; Args[0] must be a comparison

	opCount
)

type opInfo struct {
	name     string
	compare  bool
	binary   bool // two-operand arithmetic/logic, Args[1] may be constant
	mayFault bool // node itself can raise an exception
}

var opcodeTable = [opCount]opInfo{
	OpInvalid:   {name: "invalid"},
	OpConst:     {name: "const"},
	OpLocal:     {name: "local"},
	OpNop:       {name: "nop"},
	OpPhi:       {name: "phi"},
	OpAsg:       {name: "asg"},
	OpComma:     {name: "comma"},
	OpCall:      {name: "call", mayFault: true},
	OpIndir:     {name: "indir", mayFault: true},
	OpNullCheck: {name: "nullcheck", mayFault: true},
	OpArrLen:    {name: "arrlen", mayFault: true},
	OpBoundsChk: {name: "boundschk", mayFault: true},
	OpAdd:       {name: "add", binary: true},
	OpSub:       {name: "sub", binary: true},
	OpMul:       {name: "mul", binary: true},
	OpDiv:       {name: "div", binary: true, mayFault: true},
	OpUDiv:      {name: "udiv", binary: true, mayFault: true},
	OpMod:       {name: "mod", binary: true, mayFault: true},
	OpUMod:      {name: "umod", binary: true, mayFault: true},
	OpAnd:       {name: "and", binary: true},
	OpOr:        {name: "or", binary: true},
	OpXor:       {name: "xor", binary: true},
	OpLsh:       {name: "lsh", binary: true},
	OpRsh:       {name: "rsh", binary: true},
	OpRsz:       {name: "rsz", binary: true},
	OpNeg:       {name: "neg"},
	OpNot:       {name: "not"},
	OpCast:      {name: "cast"},
	OpEq:        {name: "eq", compare: true, binary: true},
	OpNe:        {name: "ne", compare: true, binary: true},
	OpLt:        {name: "lt", compare: true, binary: true},
	OpLe:        {name: "le", compare: true, binary: true},
	OpGt:        {name: "gt", compare: true, binary: true},
	OpGe:        {name: "ge", compare: true, binary: true},
	OpJumpTrue:  {name: "jumptrue"},
}

func (o Op) String() string {
	if o >= opCount {
		return "op?"
	}
	return opcodeTable[o].name
}

// IsCompare reports whether the op is a relational comparison.
func (o Op) IsCompare() bool {
	return opcodeTable[o].compare
}

func (o Op) isBinary() bool {
	return opcodeTable[o].binary
}

func (o Op) mayFault() bool {
	return opcodeTable[o].mayFault
}
