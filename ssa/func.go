// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

import "fmt"

// LclNum identifies a local variable in the method's variable table.
type LclNum int32

// FuncFlags summarize which propagation-relevant constructs occur anywhere
// in the method.
type FuncFlags uint8

const (
	FuncHasNewArray  FuncFlags = 1 << iota // array allocation helper call
	FuncHasArrLen                          // array length read
	FuncHasNewObj                          // object allocation helper call
	FuncHasTypeRead                        // method table read
	FuncHasNullCheck                       // explicit null check
)

// Var is one entry of the method's variable table.
type Var struct {
	Typ   Type
	InSsa bool  // variable is SSA-tracked
	Defs  []Def // definition records, indexed by version starting at FirstVersion
}

// Def records where one SSA version of a variable was defined.
//
// Because the tree IR carries no parent links, the record stores the
// assignment node and the owning statement directly, in addition to the
// defined local node itself. Tree and Asg are nil for the initial version
// of a parameter or uninitialized variable.
type Def struct {
	Block *Block
	Stmt  *Stmt
	Tree  *Node // the defined OpLocal node (assignment destination)
	Asg   *Node // the OpAsg performing the definition
	Uses  int   // number of uses of this version
}

// Func is one method compilation's IR: blocks in layout order plus the
// variable table. All renaming and propagation state hangs off a single
// Func and dies with it.
type Func struct {
	Name   string
	Blocks []*Block
	Vars   []Var
	Flags  FuncFlags

	// Trace, when set, receives pass debug output.
	Trace func(format string, args ...any)

	blockNum uint32
}

// NewFunc returns an empty function with numVars variable table slots.
func NewFunc(name string, numVars int) *Func {
	return &Func{Name: name, Vars: make([]Var, numVars)}
}

// NewBlock appends a new block with the next available block number.
func (f *Func) NewBlock(kind BlockKind) *Block {
	f.blockNum++
	b := &Block{Num: f.blockNum, Kind: kind, TryIndex: -1}
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewTemp introduces a fresh variable of the given type. Temps created
// after renaming are not SSA-tracked.
func (f *Func) NewTemp(typ Type) LclNum {
	f.Vars = append(f.Vars, Var{Typ: typ})
	return LclNum(len(f.Vars) - 1)
}

// InSsa reports whether lcl is a valid, SSA-tracked variable.
func (f *Func) InSsa(lcl LclNum) bool {
	return int(lcl) < len(f.Vars) && f.Vars[lcl].InSsa
}

// RecordDef appends a definition record for lcl and returns the version it
// defines. The renaming driver pairs this with RenameState.AllocVersion so
// the two stay in lockstep.
func (f *Func) RecordDef(lcl LclNum, d Def) Version {
	v := &f.Vars[lcl]
	v.Defs = append(v.Defs, d)
	return FirstVersion + Version(len(v.Defs)-1)
}

// VarDef returns the definition record for (lcl, ssaNum), or nil if no such
// record exists. Only the initial version of a parameter-like variable may
// legitimately lack a record.
func (f *Func) VarDef(lcl LclNum, ssaNum Version) *Def {
	if ssaNum < FirstVersion {
		return nil
	}
	v := &f.Vars[lcl]
	i := int(ssaNum - FirstVersion)
	if i >= len(v.Defs) {
		return nil
	}
	return &v.Defs[i]
}

// Logf emits pass debug output when tracing is enabled.
func (f *Func) Logf(format string, args ...any) {
	if f.Trace != nil {
		f.Trace(format, args...)
	}
}

// Fatalf reports a violated compiler invariant. It does not return.
func (f *Func) Fatalf(format string, args ...any) {
	panic(fmt.Sprintf("ssa: "+format, args...))
}

// ComputePatternFlags scans the function and sets the block and method
// flags the early propagation driver gates on. The importer sets these
// incrementally in a full compiler; recomputing them keeps a hand-built
// Func honest.
func (f *Func) ComputePatternFlags() {
	f.Flags = 0
	for _, b := range f.Blocks {
		b.Flags &^= BlockHasArrLen | BlockHasTypeRead | BlockHasNullCheck
		for _, s := range b.Stmts {
			root := s.Root
			root.walk(func(n *Node) {
				switch n.Op {
				case OpArrLen:
					b.Flags |= BlockHasArrLen
					f.Flags |= FuncHasArrLen
				case OpNullCheck:
					b.Flags |= BlockHasNullCheck
					f.Flags |= FuncHasNullCheck
				case OpCall:
					if n.Helper.IsArrayAlloc() {
						f.Flags |= FuncHasNewArray
					} else if n.Helper.IsObjAlloc() {
						f.Flags |= FuncHasNewObj
					}
				case OpIndir:
					if n != root && n.Args[0].Typ == TypRef {
						b.Flags |= BlockHasTypeRead
						f.Flags |= FuncHasTypeRead
					}
				}
			})
		}
	}
}
