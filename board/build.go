package board

import (
	"fmt"

	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/epld"
	"github.com/sarchlab/clocktree/hwclk"
	"github.com/sarchlab/clocktree/hwreg"
)

// NewBank creates the register bank of the board loaded with its reset values.
func (b *Board) NewBank() *hwreg.Bank {
	bank := hwreg.NewBank(b.Name, b.Registers)

	for _, r := range b.Reset {
		bank.Reg(r.Reg).Set(r.Value)
	}

	return bank
}

// Instantiate creates a simulated board: a bank with reset values, the
// simulation models of the hardware blocks, and the registry with all the
// clocks of the board.
func (b *Board) Instantiate() (*clock.Registry, *hwreg.Bank, error) {
	bank := b.NewBank()
	reg := clock.NewRegistry()

	if err := Simulate(b, bank, reg); err != nil {
		return nil, nil, err
	}

	if err := b.Build(reg, bank); err != nil {
		return nil, nil, err
	}

	return reg, bank, nil
}

// Build registers the clocks of the board in file order and then adds the
// aliases. It stops at the first error.
func (b *Board) Build(reg *clock.Registry, bank *hwreg.Bank) error {
	for i := range b.Clocks {
		c := &b.Clocks[i]

		n, err := c.node(bank)
		if err != nil {
			return fmt.Errorf("clock %s: %w", c.Name, err)
		}

		if err := reg.Register(n); err != nil {
			return fmt.Errorf("clock %s: %w", c.Name, err)
		}
	}

	for _, a := range b.Aliases {
		if err := reg.AddAlias(a.Name, a.Target); err != nil {
			return fmt.Errorf("alias %s: %w", a.Name, err)
		}
	}

	return nil
}

func (c *Clock) node(bank *hwreg.Bank) (*clock.Node, error) {
	flags, err := c.flags()
	if err != nil {
		return nil, err
	}

	providers, err := c.providers(bank)
	if err != nil {
		return nil, err
	}

	return clock.MakeBuilder().
		WithName(c.Name).
		WithParent(c.Parent).
		WithRate(clock.Freq(c.Rate)).
		WithNominalRate(clock.Freq(c.Nominal)).
		WithFlags(flags).
		WithOps(providers...).
		Build(), nil
}

func (c *Clock) flags() (clock.Flag, error) {
	var flags clock.Flag

	for _, name := range c.Flags {
		f, ok := clock.ParseFlag(name)
		if !ok {
			return 0, fmt.Errorf("unknown flag %q", name)
		}

		flags |= f
	}

	return flags, nil
}

func (c *Clock) providers(bank *hwreg.Bank) ([]any, error) {
	providers := []any{}

	base, err := c.baseProvider(bank)
	if err != nil {
		return nil, err
	}

	providers = append(providers, base)

	if c.Gate != nil {
		r, err := register(bank, c.Gate.Reg)
		if err != nil {
			return nil, err
		}

		providers = append(providers, &hwclk.Gate{
			Reg:       r,
			Bit:       c.Gate.Bit,
			ActiveLow: c.Gate.ActiveLow,
		})
	} else if c.Type == TypeGate {
		return nil, fmt.Errorf("gate clock without gate block")
	}

	if c.Observe != nil {
		r, err := register(bank, c.Observe.Reg)
		if err != nil {
			return nil, err
		}

		providers = append(providers, &hwclk.TestPin{
			Select:  r,
			Index:   c.Observe.Index,
			Divisor: c.Observe.Divisor,
		})
	}

	if c.Measure != nil {
		ctrl, err := register(bank, c.Measure.Ctrl)
		if err != nil {
			return nil, err
		}

		count, err := register(bank, c.Measure.Count)
		if err != nil {
			return nil, err
		}

		providers = append(providers, &hwclk.Meter{
			Ctrl:   ctrl,
			Count:  count,
			Index:  c.Measure.Index,
			Ref:    clock.Freq(c.Measure.Ref),
			Window: c.Measure.Window,
		})
	}

	return providers, nil
}

func (c *Clock) baseProvider(bank *hwreg.Bank) (any, error) {
	switch c.Type {
	case TypeFixed:
		return &hwclk.FixedRate{Rate: clock.Freq(c.Rate)}, nil
	case TypeOscillator:
		return hwclk.NewOscillator(
			clock.Freq(c.Rate), clock.Freq(c.Min), clock.Freq(c.Max)), nil
	case TypeFactor:
		if c.Div == 0 {
			return nil, fmt.Errorf("factor clock with div 0")
		}

		return hwclk.FixedFactor{Mult: c.Mult, Div: c.Div}, nil
	case TypeGate:
		return hwclk.PassThrough{}, nil
	case TypeDivider:
		return c.divider(bank)
	case TypeMux:
		return c.mux(bank)
	case TypePLL:
		return c.pll(bank)
	}

	return nil, fmt.Errorf("unknown clock type %q", c.Type)
}

func (c *Clock) divider(bank *hwreg.Bank) (*hwclk.Divider, error) {
	if c.Divider == nil {
		return nil, fmt.Errorf("divider clock without divider block")
	}

	f, err := field(bank, c.Divider.Field)
	if err != nil {
		return nil, err
	}

	d := &hwclk.Divider{Field: f, Table: c.Divider.Table}

	switch c.Divider.Kind {
	case "", "linear":
		d.Kind = hwclk.DivideByValuePlusOne
	case "pow2":
		d.Kind = hwclk.DivideByPowerOfTwo
	case "table":
		if len(c.Divider.Table) == 0 {
			return nil, fmt.Errorf("table divider without table")
		}

		d.Kind = hwclk.DivideByTable
	default:
		return nil, fmt.Errorf("unknown divider kind %q", c.Divider.Kind)
	}

	return d, nil
}

func (c *Clock) mux(bank *hwreg.Bank) (*hwclk.Mux, error) {
	if c.Mux == nil {
		return nil, fmt.Errorf("mux clock without mux block")
	}

	f, err := field(bank, c.Mux.Field)
	if err != nil {
		return nil, err
	}

	m := &hwclk.Mux{Field: f, Parents: c.Mux.Parents}

	if c.Parent == "" {
		c.Parent, err = m.Selected()
		if err != nil {
			return nil, err
		}

		return m, nil
	}

	if err := m.SetParent(c.Parent); err != nil {
		return nil, err
	}

	return m, nil
}

func (c *Clock) pll(bank *hwreg.Bank) (*hwclk.PLL, error) {
	cfg := c.PLL
	if cfg == nil {
		return nil, fmt.Errorf("pll clock without pll block")
	}

	p := &hwclk.PLL{
		EnableBit: cfg.EnableBit,
		LockBit:   cfg.LockBit,
		Doubled:   cfg.Doubled,
		MinRate:   clock.Freq(cfg.Min),
		MaxRate:   clock.Freq(cfg.Max),
	}

	var err error

	if p.M, err = field(bank, cfg.M); err != nil {
		return nil, err
	}

	if p.N, err = field(bank, cfg.N); err != nil {
		return nil, err
	}

	if p.P, err = field(bank, cfg.P); err != nil {
		return nil, err
	}

	if p.Ctrl, err = register(bank, cfg.Ctrl); err != nil {
		return nil, err
	}

	if cfg.Status != nil {
		if p.Status, err = register(bank, *cfg.Status); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func register(bank *hwreg.Bank, i int) (hwreg.Register, error) {
	if i < 0 || i >= bank.Len() {
		return nil, fmt.Errorf("register %d out of range (%d registers)",
			i, bank.Len())
	}

	return bank.Reg(i), nil
}

func field(bank *hwreg.Bank, f Field) (hwreg.Field, error) {
	r, err := register(bank, f.Reg)
	if err != nil {
		return hwreg.Field{}, err
	}

	if f.Width == 0 || int(f.Shift)+int(f.Width) > 32 {
		return hwreg.Field{}, fmt.Errorf("bad field at register %d: shift %d width %d",
			f.Reg, f.Shift, f.Width)
	}

	return hwreg.Field{Reg: r, Shift: f.Shift, Width: f.Width}, nil
}

// NewEPLD creates the interrupt controller of the board on bank.
func (b *Board) NewEPLD(bank *hwreg.Bank) (*epld.Controller, error) {
	if b.EPLD == nil {
		return nil, fmt.Errorf("board %s has no EPLD", b.Name)
	}

	var mask, status [epld.NumBanks]hwreg.Register

	for i := 0; i < epld.NumBanks; i++ {
		var err error

		if mask[i], err = register(bank, b.EPLD.Mask[i]); err != nil {
			return nil, fmt.Errorf("epld mask: %w", err)
		}

		if status[i], err = register(bank, b.EPLD.Status[i]); err != nil {
			return nil, fmt.Errorf("epld status: %w", err)
		}
	}

	lines := b.EPLD.Lines
	if len(lines) == 0 {
		lines = epld.DefaultHarpLines(b.EPLD.Base)
	}

	return epld.NewController(mask, status, lines)
}
