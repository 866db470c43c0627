package hwclk

import (
	"context"
	"fmt"
	"time"

	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/hwreg"
)

// PLL is an ST clock generator PLL. The output is
//
//	fout = k * N * fin / (M * 2^P)
//
// where k is 2 for the doubling PLLs of the STx7100 family and 1 otherwise.
type PLL struct {
	M, N, P hwreg.Field

	// Enable is the power up bit in Ctrl; Lock is the lock bit in Status.
	Ctrl      hwreg.Register
	EnableBit uint8
	Status    hwreg.Register
	LockBit   uint8

	Doubled bool

	// Timeout bounds the wait for the lock bit. Zero means
	// hwreg.DefaultTimeout.
	Timeout time.Duration

	// Min and Max bound the VCO output that RoundRate may pick. Zero means
	// no bound.
	MinRate, MaxRate clock.Freq
}

func (p *PLL) factor() uint64 {
	if p.Doubled {
		return 2
	}

	return 1
}

func (p *PLL) rate(fin clock.Freq, m, n, pdiv uint32) clock.Freq {
	if m == 0 {
		return 0
	}

	return clock.Freq(p.factor() * uint64(n) * uint64(fin) /
		(uint64(m) << pdiv))
}

// Recalc computes the output from the programmed dividers.
func (p *PLL) Recalc(parentRate clock.Freq) (clock.Freq, error) {
	return p.rate(parentRate, p.M.Get(), p.N.Get(), p.P.Get()), nil
}

// RoundRate returns the closest rate the PLL can lock to.
func (p *PLL) RoundRate(parentRate, target clock.Freq) (clock.Freq, error) {
	_, _, _, rate, err := p.search(parentRate, target)
	return rate, err
}

// SetRate reprograms the dividers. A running PLL relocks before SetRate
// returns.
func (p *PLL) SetRate(parentRate, target clock.Freq) error {
	m, n, pdiv, _, err := p.search(parentRate, target)
	if err != nil {
		return err
	}

	p.M.Set(m)
	p.N.Set(n)
	p.P.Set(pdiv)

	if p.IsOn() {
		return p.waitLock()
	}

	return nil
}

func (p *PLL) search(
	fin, target clock.Freq,
) (m, n, pdiv uint32, rate clock.Freq, err error) {
	if fin == 0 || target == 0 {
		return 0, 0, 0, 0, fmt.Errorf("pll cannot make %v from %v", target, fin)
	}

	found := false
	best := clock.Freq(0)

	for pm := uint32(0); pm <= p.P.Max() && pm < 16; pm++ {
		for mm := uint32(1); mm <= p.M.Max(); mm++ {
			// n = target * m * 2^p / (k * fin), rounded
			num := uint64(target) * uint64(mm) << pm
			den := p.factor() * uint64(fin)
			nn := (num + den/2) / den

			if nn == 0 || nn > uint64(p.N.Max()) {
				continue
			}

			r := p.rate(fin, mm, uint32(nn), pm)
			if !p.inRange(r) {
				continue
			}

			diff := clock.AbsDiff(r, target)
			if !found || diff < clock.AbsDiff(best, target) {
				m, n, pdiv, best, found = mm, uint32(nn), pm, r, true
			}
		}
	}

	if !found {
		return 0, 0, 0, 0, fmt.Errorf("pll cannot make %v from %v", target, fin)
	}

	return m, n, pdiv, best, nil
}

func (p *PLL) inRange(r clock.Freq) bool {
	if p.MinRate != 0 && r < p.MinRate {
		return false
	}

	if p.MaxRate != 0 && r > p.MaxRate {
		return false
	}

	return true
}

// Enable powers the PLL up and waits for it to lock.
func (p *PLL) Enable() error {
	hwreg.SetBits(p.Ctrl, 1<<p.EnableBit)

	if err := p.waitLock(); err != nil {
		hwreg.ClearBits(p.Ctrl, 1<<p.EnableBit)
		return err
	}

	return nil
}

// Disable powers the PLL down.
func (p *PLL) Disable() error {
	hwreg.ClearBits(p.Ctrl, 1<<p.EnableBit)
	return nil
}

// IsOn returns true if the PLL is powered.
func (p *PLL) IsOn() bool {
	return hwreg.HasBits(p.Ctrl, 1<<p.EnableBit)
}

func (p *PLL) waitLock() error {
	if p.Status == nil {
		return nil
	}

	timeout := p.Timeout
	if timeout == 0 {
		timeout = hwreg.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	mask := uint32(1) << p.LockBit
	if err := hwreg.WaitBits(ctx, p.Status, mask, mask, 0); err != nil {
		return fmt.Errorf("waiting for pll lock: %w", err)
	}

	return nil
}
