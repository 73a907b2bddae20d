// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

// Small builders for hand-made test functions. The real compiler's SSA
// builder produces the same shapes during renaming.

func testFunc(varTypes ...Type) *Func {
	f := NewFunc("test", len(varTypes))
	for i, typ := range varTypes {
		f.Vars[i] = Var{Typ: typ, InSsa: true}
	}
	return f
}

// addDef appends "lcl = rhs" to b, records the definition and returns the
// statement and the defined version.
func addDef(f *Func, b *Block, lcl LclNum, rhs *Node) (*Stmt, Version) {
	dst := NewLocal(lcl, UninitVersion, f.Vars[lcl].Typ)
	asg := NewAsg(dst, rhs)
	stmt := NewStmt(asg)
	b.AddStmt(stmt)
	ver := f.RecordDef(lcl, Def{Block: b, Stmt: stmt, Tree: dst, Asg: asg})
	dst.SsaNum = ver
	return stmt, ver
}

// use returns a use of (lcl, ver) and counts it on the definition record.
func use(f *Func, lcl LclNum, ver Version) *Node {
	if d := f.VarDef(lcl, ver); d != nil {
		d.Uses++
	}
	return NewLocal(lcl, ver, f.Vars[lcl].Typ)
}

func newArrAlloc(length *Node) *Node {
	return NewCall(HelperNewArr1, TypRef, NewConst(TypLong, 0x123456), length)
}

func newObjAlloc(handle int64) *Node {
	return NewCall(HelperNewSFast, TypRef, NewConst(TypLong, handle))
}
