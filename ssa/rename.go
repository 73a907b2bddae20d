// Licensed to the .NET Foundation under one or more agreements.
// The .NET Foundation licenses this file to you under the MIT license.
// See the LICENSE file in the project root for more information.

package ssa

import (
	"fmt"
	"strings"
)

// nilEntry is the null link of the rename entry arena.
const nilEntry = int32(-1)

// renameEntry is one (defining block, current version) pair. Entries live
// in RenameState.arena and link to each other by index; an entry is
// simultaneously on its local's private stack (via stack) and on either the
// shared live-entry list or the free list (via list).
type renameEntry struct {
	bbNum  uint32
	lcl    LclNum
	ssaNum Version
	list   int32 // next in the shared live-entry list, or next free entry
	stack  int32 // next entry down in this local's private stack
}

type memoryEntry struct {
	bbNum  uint32
	ssaNum Version
}

// RenameState tracks the current SSA version of every local and of the
// implicit memory pseudo-variables while the SSA builder walks the
// dominator tree. One instance belongs to one method compilation.
//
// Pushes are strictly nested: a block's entries are pushed after its
// dominator-tree ancestors' and popped before them. The shared live-entry
// list therefore always starts with a contiguous run of entries tagged with
// the most recently visited block, which is what makes PopBlockStacks O(k)
// in the number of locals defined in that block.
type RenameState struct {
	counts []Version // lcl -> next version to hand out, allocated lazily
	tops   []int32   // lcl -> arena index of the stack top, allocated lazily

	arena    []renameEntry
	liveList int32 // most recently pushed live entry
	freeList int32 // recycled entries

	memStacks [memoryKindCount][]memoryEntry
	memCount  Version

	numVars                      int
	byrefStatesMatchGcHeapStates bool
}

// NewRenameState returns a rename state for a method with numVars
// variables. When byrefStatesMatchGcHeapStates is set, GcHeap shares
// ByrefExposed's version stream.
func NewRenameState(numVars int, byrefStatesMatchGcHeapStates bool) *RenameState {
	return &RenameState{
		liveList:                     nilEntry,
		freeList:                     nilEntry,
		numVars:                      numVars,
		byrefStatesMatchGcHeapStates: byrefStatesMatchGcHeapStates,
	}
}

func (rs *RenameState) ensureCounts() {
	if rs.counts == nil {
		rs.counts = make([]Version, rs.numVars)
		for i := range rs.counts {
			rs.counts[i] = FirstVersion
		}
	}
}

func (rs *RenameState) ensureTops() {
	if rs.tops == nil {
		rs.tops = make([]int32, rs.numVars)
		for i := range rs.tops {
			rs.tops[i] = nilEntry
		}
	}
}

// AllocVersion returns the version for a new definition of lcl and
// post-increments the counter, so the next definition gets a fresh one.
func (rs *RenameState) AllocVersion(lcl LclNum) Version {
	rs.ensureCounts()
	ssaNum := rs.counts[lcl]
	rs.counts[lcl]++
	return ssaNum
}

// GetCurrentUse returns the version visible to a use of lcl, or
// UninitVersion when no definition has reached it. Callers treat that case
// like an implicit parameter definition.
func (rs *RenameState) GetCurrentUse(lcl LclNum) Version {
	rs.ensureTops()
	top := rs.tops[lcl]
	if top == nilEntry {
		return UninitVersion
	}
	return rs.arena[top].ssaNum
}

// allocEntry takes an entry off the free list, or grows the arena.
func (rs *RenameState) allocEntry(e renameEntry) int32 {
	if i := rs.freeList; i != nilEntry {
		rs.freeList = rs.arena[i].list
		rs.arena[i] = e
		return i
	}
	rs.arena = append(rs.arena, e)
	return int32(len(rs.arena) - 1)
}

// freeEntries relinks the contiguous live-list run [first, last] onto the
// free list in O(1).
func (rs *RenameState) freeEntries(first, last int32) {
	rs.arena[last].list = rs.freeList
	rs.freeList = first
}

// PushInit pushes the initial version of a parameter-like local. The entry
// carries no real block, is never popped and so bypasses the live list.
func (rs *RenameState) PushInit(lcl LclNum, ssaNum Version) {
	rs.ensureTops()
	if rs.tops[lcl] != nilEntry {
		panic(fmt.Sprintf("ssa: PushInit V%02d: stack not empty", lcl))
	}
	rs.tops[lcl] = rs.allocEntry(renameEntry{lcl: lcl, ssaNum: ssaNum, list: nilEntry, stack: nilEntry})
}

// Push makes ssaNum the current version of lcl for block b. A second
// definition in the same block updates the existing entry in place, so at
// most one entry per (local, block) pair ever exists.
func (rs *RenameState) Push(b *Block, lcl LclNum, ssaNum Version) {
	rs.ensureTops()

	top := rs.tops[lcl]
	if top != nilEntry && rs.arena[top].bbNum == b.Num {
		rs.arena[top].ssaNum = ssaNum
		return
	}
	i := rs.allocEntry(renameEntry{bbNum: b.Num, lcl: lcl, ssaNum: ssaNum, list: rs.liveList, stack: top})
	rs.tops[lcl] = i
	rs.liveList = i
}

// PopBlockStacks removes every entry pushed for block b, restoring each
// affected local's previous version. Must be called when the dominator-tree
// walk leaves b; entries for b form a contiguous run at the front of the
// live list.
func (rs *RenameState) PopBlockStacks(b *Block) {
	first := rs.liveList
	last := nilEntry

	for i := rs.liveList; i != nilEntry && rs.arena[i].bbNum == b.Num; i = rs.arena[i].list {
		e := &rs.arena[i]
		if rs.tops[e.lcl] != i {
			panic(fmt.Sprintf("ssa: PopBlockStacks BB%02d: entry for V%02d is not its stack top", b.Num, e.lcl))
		}
		rs.tops[e.lcl] = e.stack
		last = i
	}

	if last != nilEntry {
		rs.liveList = rs.arena[last].list
		rs.freeEntries(first, last)
	}
}

// checkNoTopEntriesFor panics if any local's stack top is still tagged with
// b after PopBlockStacks(b). Used by tests.
func (rs *RenameState) checkNoTopEntriesFor(b *Block) {
	for lcl, top := range rs.tops {
		if top != nilEntry && rs.arena[top].bbNum == b.Num {
			panic(fmt.Sprintf("ssa: stale stack entry for V%02d in BB%02d", lcl, b.Num))
		}
	}
}

// remap redirects GcHeap to ByrefExposed when the two share one version
// stream.
func (rs *RenameState) remap(mk MemoryKind) MemoryKind {
	if mk == GcHeap && rs.byrefStatesMatchGcHeapStates {
		return ByrefExposed
	}
	return mk
}

// AllocMemoryVersion returns the version for a new definition of the
// memory pseudo-variable. All memory kinds share one counter.
func (rs *RenameState) AllocMemoryVersion() Version {
	if rs.memCount == 0 {
		rs.memCount = FirstVersion
	}
	ssaNum := rs.memCount
	rs.memCount++
	return ssaNum
}

// GetCurrentMemoryUse returns the version of mk visible at the current
// point of the walk, or UninitVersion before any memory definition.
func (rs *RenameState) GetCurrentMemoryUse(mk MemoryKind) Version {
	stack := rs.memStacks[rs.remap(mk)]
	if len(stack) == 0 {
		return UninitVersion
	}
	return stack[len(stack)-1].ssaNum
}

// PushMemory makes ssaNum the current version of mk for block b, updating
// in place like Push when b already defined mk.
func (rs *RenameState) PushMemory(mk MemoryKind, b *Block, ssaNum Version) {
	mk = rs.remap(mk)
	stack := rs.memStacks[mk]
	if n := len(stack); n > 0 && stack[n-1].bbNum == b.Num {
		stack[n-1].ssaNum = ssaNum
		return
	}
	rs.memStacks[mk] = append(stack, memoryEntry{bbNum: b.Num, ssaNum: ssaNum})
}

// PopBlockMemoryStack removes b's entries from mk's stack. The number of
// memory kinds is small and fixed, a direct scan is fine here.
func (rs *RenameState) PopBlockMemoryStack(mk MemoryKind, b *Block) {
	mk = rs.remap(mk)
	stack := rs.memStacks[mk]
	for len(stack) > 0 && stack[len(stack)-1].bbNum == b.Num {
		stack = stack[:len(stack)-1]
	}
	rs.memStacks[mk] = stack
}

// MemoryVersionCount returns the number of memory versions handed out so
// far, counting from FirstVersion.
func (rs *RenameState) MemoryVersionCount() Version {
	return rs.memCount
}

// dumpStacks renders the live per-local stacks for debug tracing.
func (rs *RenameState) dumpStacks() string {
	var sb strings.Builder
	sb.WriteString("rename stacks:\n")
	if rs.tops == nil {
		sb.WriteString("none\n")
		return sb.String()
	}
	for lcl, top := range rs.tops {
		fmt.Fprintf(&sb, "V%02d:", lcl)
		for i := top; i != nilEntry; i = rs.arena[i].stack {
			e := &rs.arena[i]
			fmt.Fprintf(&sb, " <BB%02d, %d>", e.bbNum, e.ssaNum)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
