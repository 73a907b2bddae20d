// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// Type is the evaluation type of a tree node. The propagation passes only
// need to distinguish 32/64 bit integers and the two pointer flavors.
type Type uint8

const (
	TypVoid Type = iota
	TypInt      // 32-bit integer
	TypLong     // 64-bit integer
	TypRef      // GC object reference
	TypByref    // interior pointer, may point into the GC heap
)

var typeNames = [...]string{
	TypVoid:  "void",
	TypInt:   "int",
	TypLong:  "long",
	TypRef:   "ref",
	TypByref: "byref",
}

func (t Type) String() string {
	return typeNames[t]
}

// IsGC reports whether values of this type are tracked by the garbage
// collector.
func (t Type) IsGC() bool {
	return t == TypRef || t == TypByref
}
