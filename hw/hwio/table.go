package hwio

import (
	"fmt"

	"sidbench/emu/log"
)

// AddrSpace is the size of the register address space (7-bit addresses).
const AddrSpace = 0x80

// Table maps the register address space to registers.
type Table struct {
	Name string

	regs [AddrSpace]*Reg8
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

// MapBank maps the registers of bank, a structure containing Reg8 fields
// initialized with InitRegs, at addr plus their tagged offset.
func (t *Table) MapBank(addr uint8, bank any) {
	regs, err := bankGetRegs(bank)
	if err != nil {
		panic(err)
	}
	for _, reg := range regs {
		t.MapReg8(addr+reg.offset, reg.reg)
	}
}

func (t *Table) MapReg8(addr uint8, reg *Reg8) {
	if int(addr) >= AddrSpace {
		panic(fmt.Errorf("hwio: %s: address %02x out of range", t.Name, addr))
	}
	if prev := t.regs[addr]; prev != nil && prev != reg {
		panic(fmt.Errorf("hwio: %s: address %02x already mapped to %s", t.Name, addr, prev.Name))
	}
	log.ModDevice.DebugZ("mapping reg").
		Hex8("addr", addr).
		String("name", reg.Name).
		String("table", t.Name).
		End()
	t.regs[addr] = reg
}

func (t *Table) search(addr uint8) *Reg8 {
	if int(addr) >= AddrSpace {
		return nil
	}
	return t.regs[addr]
}

// Read8 answers an SPI read. Unmapped addresses read as 0.
func (t *Table) Read8(addr uint8) uint8 {
	reg := t.search(addr)
	if reg == nil {
		log.ModDevice.WarnZ("unmapped read").
			String("table", t.Name).
			Hex8("addr", addr).
			End()
		return 0
	}
	log.ModDevice.DebugZ("read").
		String("reg", reg.Name).
		Hex8("val", reg.Value).
		End()
	return reg.Value
}

// Peek8 returns the register value at addr without logging.
func (t *Table) Peek8(addr uint8) uint8 {
	if reg := t.search(addr); reg != nil {
		return reg.Value
	}
	return 0
}

// Write8 commits an SPI write. Writes to unmapped addresses are dropped.
func (t *Table) Write8(addr uint8, val uint8) {
	reg := t.search(addr)
	if reg == nil {
		log.ModDevice.WarnZ("unmapped write").
			String("table", t.Name).
			Hex8("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	reg.Write8(val)
}
