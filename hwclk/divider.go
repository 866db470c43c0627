package hwclk

import (
	"fmt"

	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/hwreg"
)

// DividerKind tells how the divider field encodes the divisor.
type DividerKind int

// Divider encodings.
const (
	// DivideByValuePlusOne divides by field + 1.
	DivideByValuePlusOne DividerKind = iota

	// DivideByPowerOfTwo divides by 2^field.
	DivideByPowerOfTwo

	// DivideByTable divides by Table[field].
	DivideByTable
)

// Divider divides the parent rate by a divisor held in a register field.
type Divider struct {
	Field hwreg.Field
	Kind  DividerKind
	Table []uint32
}

// Divisor returns the divisor currently programmed.
func (d *Divider) Divisor() (uint32, error) {
	v := d.Field.Get()

	switch d.Kind {
	case DivideByPowerOfTwo:
		if v > 31 {
			return 0, fmt.Errorf("divider exponent %d too large", v)
		}

		return 1 << v, nil
	case DivideByTable:
		if int(v) >= len(d.Table) || d.Table[v] == 0 {
			return 0, fmt.Errorf("divider selector %d not in table", v)
		}

		return d.Table[v], nil
	default:
		return v + 1, nil
	}
}

// Recalc divides the parent rate by the programmed divisor.
func (d *Divider) Recalc(parentRate clock.Freq) (clock.Freq, error) {
	div, err := d.Divisor()
	if err != nil {
		return 0, err
	}

	return parentRate / clock.Freq(div), nil
}

// RoundRate returns the highest achievable rate that does not exceed target,
// or the lowest achievable rate if every rate exceeds it.
func (d *Divider) RoundRate(parentRate, target clock.Freq) (clock.Freq, error) {
	_, rate, err := d.bestValue(parentRate, target)
	return rate, err
}

// SetRate programs the divisor that RoundRate selects.
func (d *Divider) SetRate(parentRate, target clock.Freq) error {
	value, _, err := d.bestValue(parentRate, target)
	if err != nil {
		return err
	}

	d.Field.Set(value)

	return nil
}

func (d *Divider) bestValue(
	parentRate, target clock.Freq,
) (value uint32, rate clock.Freq, err error) {
	if target == 0 {
		return 0, 0, fmt.Errorf("divider cannot run at 0 Hz")
	}

	found := false
	lowestValue, lowest := uint32(0), clock.Freq(0)

	for _, c := range d.candidates() {
		r := parentRate / clock.Freq(c.divisor)

		if r <= target && (!found || r > rate) {
			value, rate, found = c.value, r, true
		}

		if lowest == 0 || r < lowest {
			lowestValue, lowest = c.value, r
		}
	}

	if !found {
		if lowest == 0 && parentRate != 0 {
			return 0, 0, fmt.Errorf("divider has no valid divisor")
		}

		return lowestValue, lowest, nil
	}

	return value, rate, nil
}

type divisorCandidate struct {
	value, divisor uint32
}

func (d *Divider) candidates() []divisorCandidate {
	candidates := []divisorCandidate{}
	limit := d.Field.Max()

	switch d.Kind {
	case DivideByPowerOfTwo:
		for v := uint32(0); v <= limit && v < 32; v++ {
			candidates = append(candidates, divisorCandidate{v, 1 << v})
		}
	case DivideByTable:
		for v, div := range d.Table {
			if uint32(v) > limit || div == 0 {
				continue
			}

			candidates = append(candidates, divisorCandidate{uint32(v), div})
		}
	default:
		for v := uint32(0); v <= limit && v < 1<<16; v++ {
			candidates = append(candidates, divisorCandidate{v, v + 1})
		}
	}

	return candidates
}
