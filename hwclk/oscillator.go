package hwclk

import (
	"fmt"

	"github.com/sarchlab/clocktree/clock"
)

// FixedRate is a clock source with a rate that never changes, such as a
// crystal.
type FixedRate struct {
	Rate clock.Freq
}

// Recalc returns the fixed rate.
func (f *FixedRate) Recalc(_ clock.Freq) (clock.Freq, error) {
	return f.Rate, nil
}

// Oscillator is a programmable clock source that can run anywhere between Min
// and Max. A zero Max means no upper bound.
type Oscillator struct {
	Min, Max clock.Freq

	rate clock.Freq
}

// NewOscillator creates an oscillator running at rate.
func NewOscillator(rate, lo, hi clock.Freq) *Oscillator {
	return &Oscillator{Min: lo, Max: hi, rate: rate}
}

// Recalc returns the programmed rate.
func (o *Oscillator) Recalc(_ clock.Freq) (clock.Freq, error) {
	return o.rate, nil
}

// RoundRate clamps target into the oscillator range.
func (o *Oscillator) RoundRate(_, target clock.Freq) (clock.Freq, error) {
	if target == 0 {
		return 0, fmt.Errorf("oscillator cannot run at 0 Hz")
	}

	if target < o.Min {
		return o.Min, nil
	}

	if o.Max != 0 && target > o.Max {
		return o.Max, nil
	}

	return target, nil
}

// SetRate programs the closest rate in range.
func (o *Oscillator) SetRate(parentRate, target clock.Freq) error {
	rate, err := o.RoundRate(parentRate, target)
	if err != nil {
		return err
	}

	o.rate = rate

	return nil
}

// PassThrough is a clock that runs at the rate of its parent.
type PassThrough struct{}

// Recalc returns the parent rate.
func (PassThrough) Recalc(parentRate clock.Freq) (clock.Freq, error) {
	return parentRate, nil
}

// FixedFactor multiplies and divides the parent rate by constants.
type FixedFactor struct {
	Mult, Div uint64
}

// Recalc returns parentRate * Mult / Div.
func (f FixedFactor) Recalc(parentRate clock.Freq) (clock.Freq, error) {
	if f.Div == 0 {
		return 0, fmt.Errorf("fixed factor with divisor 0")
	}

	mult := f.Mult
	if mult == 0 {
		mult = 1
	}

	return clock.Freq(uint64(parentRate) * mult / f.Div), nil
}
