package hwreg

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Bank is a simulated register file. All the registers are zero when the bank
// is created.
type Bank struct {
	name  string
	regs  []bankReg
	hooks []func(index int, value uint32)
}

type bankReg struct {
	bank  *Bank
	index int
	value atomic.Uint32
}

func (r *bankReg) Get() uint32 {
	return r.value.Load()
}

func (r *bankReg) Set(value uint32) {
	r.value.Store(value)

	for _, hook := range r.bank.hooks {
		hook(r.index, value)
	}
}

// NewBank creates a bank with n registers.
func NewBank(name string, n int) *Bank {
	b := &Bank{
		name: name,
		regs: make([]bankReg, n),
	}

	for i := range b.regs {
		b.regs[i].bank = b
		b.regs[i].index = i
	}

	return b
}

// OnWrite installs a function that is called after every register write. It
// lets a simulation model react to writes, for example by raising a PLL lock
// bit. Functions must be installed before the bank is shared.
func (b *Bank) OnWrite(f func(index int, value uint32)) {
	b.hooks = append(b.hooks, f)
}

// Name returns the name of the bank.
func (b *Bank) Name() string {
	return b.name
}

// Len returns the number of registers in the bank.
func (b *Bank) Len() int {
	return len(b.regs)
}

// Reg returns the register at index i. It panics if i is out of range.
func (b *Bank) Reg(i int) Register {
	if i < 0 || i >= len(b.regs) {
		panic(fmt.Sprintf("register %d out of range of bank %s (%d registers)",
			i, b.name, len(b.regs)))
	}

	return &b.regs[i]
}

// Dump returns the non-zero registers formatted one per line.
func (b *Bank) Dump() string {
	sb := strings.Builder{}

	for i := range b.regs {
		v := b.regs[i].Get()
		if v == 0 {
			continue
		}

		fmt.Fprintf(&sb, "%s[%d] = 0x%08x\n", b.name, i, v)
	}

	return sb.String()
}
