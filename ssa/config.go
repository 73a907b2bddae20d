// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// Version is an SSA version number. Versions are unique per (variable,
// definition) pair and assigned in increasing order per variable.
type Version uint32

const (
	// UninitVersion is returned for a use reached by no definition.
	UninitVersion Version = 0
	// ReservedVersion marks a use that is not SSA-tracked, for example an
	// address-taken variable.
	ReservedVersion Version = 1
	// FirstVersion is assigned to a variable's initial definition.
	FirstVersion Version = 2
)

// MemoryKind names the implicit whole-heap pseudo-variables that are
// versioned alongside the locals.
type MemoryKind uint8

const (
	// ByrefExposed is the state of memory reachable through escaped
	// byrefs.
	ByrefExposed MemoryKind = iota
	// GcHeap is the state of the garbage-collected heap. ByrefExposed is a
	// superset of GcHeap, so a configuration may alias the two.
	GcHeap

	memoryKindCount
)

var memoryKindNames = [memoryKindCount]string{
	ByrefExposed: "ByrefExposed",
	GcHeap:       "GcHeap",
}

func (mk MemoryKind) String() string {
	return memoryKindNames[mk]
}

const (
	// propMaxRecursionDepth bounds the backward def-chain walk of the
	// value resolver.
	propMaxRecursionDepth = 5

	// nullCheckMaxNodesWalked bounds the backward side-effect walk of the
	// null check folder. The budget is shared between the within-statement
	// and the cross-statement phase.
	nullCheckMaxNodesWalked = 25

	// maxUncheckedNullOffset is the largest offset from a null base that
	// still faults reliably, so a dereference at that offset subsumes an
	// explicit null check of the base.
	maxUncheckedNullOffset = 32 * 1024
)
