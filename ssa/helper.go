// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// Helper identifies a runtime allocation helper. The backward value
// resolver classifies helpers by what it can read back out of their
// argument lists.
type Helper uint8

const (
	HelperInvalid Helper = iota

	// Array allocation: argument 0 is the type handle, argument 1 the
	// element count.
	HelperNewArr1
	HelperNewArr1Obj
	HelperNewArr1Vc
	HelperNewArr1Align8

	// Object allocation: argument 0 is the type handle.
	HelperNewFast
	HelperNewSFast
	HelperNewSFastAlign8
	HelperNewSFastFinalize
)

var helperNames = [...]string{
	HelperInvalid:          "invalid",
	HelperNewArr1:          "newarr1",
	HelperNewArr1Obj:       "newarr1_obj",
	HelperNewArr1Vc:        "newarr1_vc",
	HelperNewArr1Align8:    "newarr1_align8",
	HelperNewFast:          "newfast",
	HelperNewSFast:         "newsfast",
	HelperNewSFastAlign8:   "newsfast_align8",
	HelperNewSFastFinalize: "newsfast_finalize",
}

func (h Helper) String() string {
	return helperNames[h]
}

// IsArrayAlloc reports whether the helper allocates an array with a known
// length argument.
func (h Helper) IsArrayAlloc() bool {
	return h >= HelperNewArr1 && h <= HelperNewArr1Align8
}

// IsObjAlloc reports whether the helper allocates an object with a known
// type handle argument. Array allocations qualify, their first argument is
// the array's type handle.
func (h Helper) IsObjAlloc() bool {
	return h >= HelperNewArr1 && h <= HelperNewSFastFinalize
}

// arrayLengthFromAllocation returns the length argument of an array
// allocation helper call, or nil if the tree is no such call.
func arrayLengthFromAllocation(tree *Node) *Node {
	if tree.Op == OpCall && tree.Helper.IsArrayAlloc() {
		return tree.Args[1]
	}
	return nil
}

// typeHandleFromAllocation returns the type handle argument of an
// allocation helper call, or nil if the tree is no such call.
func typeHandleFromAllocation(tree *Node) *Node {
	if tree.Op == OpCall && tree.Helper.IsObjAlloc() {
		return tree.Args[0]
	}
	return nil
}
