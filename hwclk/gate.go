package hwclk

import "github.com/sarchlab/clocktree/hwreg"

// Gate switches a clock with one enable bit.
type Gate struct {
	Reg       hwreg.Register
	Bit       uint8
	ActiveLow bool
}

// Enable sets the enable bit, or clears it for an active low gate.
func (g *Gate) Enable() error {
	g.write(!g.ActiveLow)
	return nil
}

// Disable clears the enable bit, or sets it for an active low gate.
func (g *Gate) Disable() error {
	g.write(g.ActiveLow)
	return nil
}

// IsOn returns true if the gate lets the clock through.
func (g *Gate) IsOn() bool {
	return hwreg.HasBits(g.Reg, 1<<g.Bit) != g.ActiveLow
}

func (g *Gate) write(set bool) {
	if set {
		hwreg.SetBits(g.Reg, 1<<g.Bit)
		return
	}

	hwreg.ClearBits(g.Reg, 1<<g.Bit)
}
