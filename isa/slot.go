package isa

import (
	"fmt"
)

// Slot is an index into the per-cell register file.
type Slot int

const (
	SLOT_CONST  = Slot(0)  // __CONST
	SLOT_R      = Slot(1)  // R
	SLOT_G      = Slot(2)  // G
	SLOT_B      = Slot(3)  // B
	SLOT_A      = Slot(4)  // A
	SLOT_ID     = Slot(5)  // ID
	SLOT_OFFSET = Slot(6)  // OFFSET
	SLOT_FRAME  = Slot(7)  // FRAME
	SLOT_RAND   = Slot(8)  // RAND
	SLOT_BUF0   = Slot(9)  // __BUF0
	SLOT_BUF1   = Slot(10) // __BUF1
	SLOT_BUF2   = Slot(11) // __BUF2
	SLOT_BUF3   = Slot(12) // __BUF3
	SLOT_VAR0   = Slot(13) // First per-rule variable.
)

const (
	BUF_COUNT  = 4  // Scratch buffers, one per expression nesting depth.
	VAR_LIMIT  = 15 // Per-rule variables.
	SLOT_LIMIT = 32 // Register file size, all 5-bit masks.
)

// registerMap holds the writable state channels.
var registerMap = map[string]Slot{
	"R": SLOT_R,
	"G": SLOT_G,
	"B": SLOT_B,
	"A": SLOT_A,
}

// constantMap holds the read-only slots.
var constantMap = map[string]Slot{
	"ID":     SLOT_ID,
	"OFFSET": SLOT_OFFSET,
	"FRAME":  SLOT_FRAME,
	"RAND":   SLOT_RAND,
	"__BUF0": SLOT_BUF0,
	"__BUF1": SLOT_BUF1,
	"__BUF2": SLOT_BUF2,
	"__BUF3": SLOT_BUF3,
}

// Register returns the slot of a writable state channel.
func Register(name string) (slot Slot, ok bool) {
	slot, ok = registerMap[name]
	return
}

// Constant returns the slot of a read-only name.
func Constant(name string) (slot Slot, ok bool) {
	slot, ok = constantMap[name]
	return
}

// Reserved returns the slot of any reserved name.
func Reserved(name string) (slot Slot, ok bool) {
	slot, ok = registerMap[name]
	if !ok {
		slot, ok = constantMap[name]
	}
	return
}

// Buf returns the scratch buffer used at an expression nesting depth.
func Buf(depth int) Slot {
	return SLOT_BUF0 + Slot(depth)
}

func (slot Slot) String() string {
	for name, s := range registerMap {
		if s == slot {
			return name
		}
	}
	for name, s := range constantMap {
		if s == slot {
			return name
		}
	}
	if slot == SLOT_CONST {
		return "__CONST"
	}
	return fmt.Sprintf("s%d", int(slot))
}
