package board

import (
	"fmt"
	"sync"

	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/hwclk"
	"github.com/sarchlab/clocktree/hwreg"
)

// Simulate installs the models of the board hardware on the bank. PLLs lock
// as soon as they are powered and the clock meters count at the rate the
// registry reports for the measured clock. It must be called before the
// clocks are registered.
func Simulate(b *Board, bank *hwreg.Bank, reg *clock.Registry) error {
	s := &simulator{
		bank:   bank,
		rates:  make(map[string]clock.Freq),
		plls:   make(map[int][]pllModel),
		meters: make(map[int]map[uint32]meterModel),
	}

	for _, c := range b.Clocks {
		if err := s.add(c); err != nil {
			return fmt.Errorf("clock %s: %w", c.Name, err)
		}
	}

	reg.AcceptHook(s)
	bank.OnWrite(s.onWrite)

	for ctrl := range s.plls {
		s.updateLocks(ctrl, bank.Reg(ctrl).Get())
	}

	return nil
}

type pllModel struct {
	enableBit uint8
	status    int
	lockBit   uint8
}

type meterModel struct {
	clock  string
	count  int
	ref    clock.Freq
	window uint32
}

type simulator struct {
	bank *hwreg.Bank

	mu    sync.Mutex
	rates map[string]clock.Freq

	plls   map[int][]pllModel
	meters map[int]map[uint32]meterModel
}

func (s *simulator) add(c Clock) error {
	if c.PLL != nil && c.PLL.Status != nil {
		if c.PLL.Ctrl < 0 || c.PLL.Ctrl >= s.bank.Len() ||
			*c.PLL.Status < 0 || *c.PLL.Status >= s.bank.Len() {
			return fmt.Errorf("pll registers out of range")
		}

		s.plls[c.PLL.Ctrl] = append(s.plls[c.PLL.Ctrl], pllModel{
			enableBit: c.PLL.EnableBit,
			status:    *c.PLL.Status,
			lockBit:   c.PLL.LockBit,
		})
	}

	if m := c.Measure; m != nil {
		if m.Ctrl < 0 || m.Ctrl >= s.bank.Len() ||
			m.Count < 0 || m.Count >= s.bank.Len() {
			return fmt.Errorf("meter registers out of range")
		}

		byIndex, ok := s.meters[m.Ctrl]
		if !ok {
			byIndex = make(map[uint32]meterModel)
			s.meters[m.Ctrl] = byIndex
		}

		if _, dup := byIndex[m.Index]; dup {
			return fmt.Errorf("meter index %d used twice", m.Index)
		}

		meter := &hwclk.Meter{Window: m.Window}
		byIndex[m.Index] = meterModel{
			clock:  c.Name,
			count:  m.Count,
			ref:    clock.Freq(m.Ref),
			window: meter.MeterWindow(),
		}
	}

	return nil
}

// Func keeps track of the clock rates.
func (s *simulator) Func(ctx clock.HookCtx) {
	switch ctx.Pos {
	case clock.HookPosRegister:
		s.setRate(ctx.Item.Name(), ctx.Item.Rate())
	case clock.HookPosRateChange:
		s.setRate(ctx.Item.Name(), ctx.Detail.(clock.RateChange).New)
	case clock.HookPosUnregister:
		s.mu.Lock()
		delete(s.rates, ctx.Item.Name())
		s.mu.Unlock()
	}
}

func (s *simulator) setRate(name string, rate clock.Freq) {
	s.mu.Lock()
	s.rates[name] = rate
	s.mu.Unlock()
}

func (s *simulator) rate(name string) clock.Freq {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rates[name]
}

func (s *simulator) onWrite(index int, value uint32) {
	if _, ok := s.plls[index]; ok {
		s.updateLocks(index, value)
	}

	if byIndex, ok := s.meters[index]; ok {
		s.count(index, byIndex, value)
	}
}

func (s *simulator) updateLocks(ctrl int, value uint32) {
	for _, p := range s.plls[ctrl] {
		status := s.bank.Reg(p.status)
		on := value&(1<<p.enableBit) != 0

		if hwreg.HasBits(status, 1<<p.lockBit) == on {
			continue
		}

		if on {
			hwreg.SetBits(status, 1<<p.lockBit)
		} else {
			hwreg.ClearBits(status, 1<<p.lockBit)
		}
	}
}

func (s *simulator) count(ctrl int, byIndex map[uint32]meterModel, value uint32) {
	index, start := hwclk.MeterRequest(value)
	if !start {
		return
	}

	m, ok := byIndex[index]
	if !ok || m.ref == 0 {
		return
	}

	count := uint64(s.rate(m.clock)) * uint64(m.window) / uint64(m.ref)
	if count > 0xffffffff {
		count = 0xffffffff
	}

	s.bank.Reg(m.count).Set(uint32(count))
	s.bank.Reg(ctrl).Set(hwclk.MeterResult(index))
}
