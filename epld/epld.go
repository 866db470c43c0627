// Package epld drives the interrupt registers of the HARP board EPLD.
//
// The EPLD collects up to 16 interrupt lines in two 8-bit banks. Every bank
// has a mask register, where a set bit lets the line through, and a status
// register, where a set bit marks a pending interrupt. The logical line
// numbers are mapped to a bank and a bit by a table that is checked once,
// when the controller is created.
package epld

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sarchlab/clocktree/hwreg"
)

// NumBanks is the number of register banks of the EPLD.
const NumBanks = 2

// BankWidth is the number of lines in each bank.
const BankWidth = 8

// ErrUnknownLine is returned for line numbers missing from the table.
var ErrUnknownLine = errors.New("unknown interrupt line")

// Line is one entry of the line table.
type Line struct {
	IRQ  int
	Bank uint8
	Bit  uint8
	Name string
}

func (l Line) mask() uint32 {
	return 1 << l.Bit
}

// A Controller masks, unmasks and acknowledges the EPLD interrupt lines. It
// only manipulates the registers; the dispatcher that calls it belongs to the
// caller.
type Controller struct {
	mu     sync.Mutex
	mask   [NumBanks]hwreg.Register
	status [NumBanks]hwreg.Register
	lines  []Line
	byIRQ  map[int]Line
}

// NewController checks the line table and creates a controller. Lines are
// dispatched in table order.
func NewController(
	mask, status [NumBanks]hwreg.Register,
	lines []Line,
) (*Controller, error) {
	for i := 0; i < NumBanks; i++ {
		if mask[i] == nil || status[i] == nil {
			return nil, fmt.Errorf("epld bank %d has no registers", i)
		}
	}

	c := &Controller{
		mask:   mask,
		status: status,
		byIRQ:  make(map[int]Line),
	}

	used := make(map[[2]uint8]int)

	for _, l := range lines {
		if l.Bank >= NumBanks || l.Bit >= BankWidth {
			return nil, fmt.Errorf("epld line %d: bank %d bit %d out of range",
				l.IRQ, l.Bank, l.Bit)
		}

		if _, dup := c.byIRQ[l.IRQ]; dup {
			return nil, fmt.Errorf("epld line %d listed twice", l.IRQ)
		}

		if other, dup := used[[2]uint8{l.Bank, l.Bit}]; dup {
			return nil, fmt.Errorf("epld lines %d and %d share bank %d bit %d",
				other, l.IRQ, l.Bank, l.Bit)
		}

		used[[2]uint8{l.Bank, l.Bit}] = l.IRQ
		c.byIRQ[l.IRQ] = l
		c.lines = append(c.lines, l)
	}

	return c, nil
}

// DefaultHarpLines returns the layout of the HARP board: 16 lines starting at
// base, the first eight in bank 0.
func DefaultHarpLines(base int) []Line {
	lines := make([]Line, 0, NumBanks*BankWidth)

	for i := 0; i < NumBanks*BankWidth; i++ {
		lines = append(lines, Line{
			IRQ:  base + i,
			Bank: uint8(i / BankWidth),
			Bit:  uint8(i % BankWidth),
			Name: fmt.Sprintf("epld%d", i),
		})
	}

	return lines
}

// Lines returns the line table.
func (c *Controller) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)

	return lines
}

// Line returns the table entry of an interrupt line.
func (c *Controller) Line(irq int) (Line, error) {
	l, ok := c.byIRQ[irq]
	if !ok {
		return Line{}, fmt.Errorf("line %d: %w", irq, ErrUnknownLine)
	}

	return l, nil
}

// Mask stops the line from raising interrupts.
func (c *Controller) Mask(irq int) error {
	return c.update(irq, func(l Line) {
		hwreg.ClearBits(c.mask[l.Bank], l.mask())
	})
}

// Unmask lets the line raise interrupts.
func (c *Controller) Unmask(irq int) error {
	return c.update(irq, func(l Line) {
		hwreg.SetBits(c.mask[l.Bank], l.mask())
	})
}

// Ack clears the pending status of the line.
func (c *Controller) Ack(irq int) error {
	return c.update(irq, func(l Line) {
		hwreg.ClearBits(c.status[l.Bank], l.mask())
	})
}

// Masked returns true if the line is masked.
func (c *Controller) Masked(irq int) (bool, error) {
	l, err := c.Line(irq)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return !hwreg.HasBits(c.mask[l.Bank], l.mask()), nil
}

func (c *Controller) update(irq int, f func(l Line)) error {
	l, err := c.Line(irq)
	if err != nil {
		return err
	}

	c.mu.Lock()
	f(l)
	c.mu.Unlock()

	return nil
}

// Pending returns the unmasked lines that have a pending interrupt, in table
// order.
func (c *Controller) Pending() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var active [NumBanks]uint32
	for i := range active {
		active[i] = c.status[i].Get() & c.mask[i].Get()
	}

	pending := []int{}

	for _, l := range c.lines {
		if active[l.Bank]&l.mask() != 0 {
			pending = append(pending, l.IRQ)
		}
	}

	return pending
}

// Dispatch calls handle for every pending line and acknowledges the line
// after its handler returns. It returns the number of lines handled.
func (c *Controller) Dispatch(handle func(l Line)) int {
	pending := c.Pending()

	for _, irq := range pending {
		l := c.byIRQ[irq]
		handle(l)

		c.mu.Lock()
		hwreg.ClearBits(c.status[l.Bank], l.mask())
		c.mu.Unlock()
	}

	return len(pending)
}
