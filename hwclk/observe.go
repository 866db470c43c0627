package hwclk

import (
	"context"
	"fmt"
	"time"

	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/hwreg"
)

// TestPin routes a clock to the clock observation pin of the SoC.
type TestPin struct {
	Select  hwreg.Register
	Index   uint32
	Divisor uint32
}

// Observation pin selector and meter control layouts.
const (
	observeIndexMask  = 0xff
	observeDivShift   = 8
	observeDivMask    = 0xff
	observeEnableBit  = 1 << 31
	meterStartBit     = 1 << 0
	meterDoneBit      = 1 << 1
	meterIndexShift   = 8
	meterIndexMask    = 0xff
	meterDefaultRange = 1000
)

// Observe programs the selector and returns the divisor applied on the pin.
func (t *TestPin) Observe() (uint32, error) {
	if t.Index > observeIndexMask {
		return 0, fmt.Errorf("observation index %d out of range", t.Index)
	}

	div := t.Divisor
	if div == 0 {
		div = 1
	}

	if div > observeDivMask {
		return 0, fmt.Errorf("observation divisor %d out of range", div)
	}

	t.Select.Set(observeEnableBit | div<<observeDivShift | t.Index)

	return div, nil
}

// Meter measures a clock by counting its edges during Window cycles of a
// reference clock of rate Ref.
type Meter struct {
	Ctrl    hwreg.Register
	Count   hwreg.Register
	Index   uint32
	Ref     clock.Freq
	Window  uint32
	Timeout time.Duration
}

// MeterRequest decodes a meter control word. It is used by simulation models.
func MeterRequest(ctrl uint32) (index uint32, start bool) {
	return ctrl >> meterIndexShift & meterIndexMask, ctrl&meterStartBit != 0
}

// MeterDone is the control bit the hardware sets when the count is ready.
const MeterDone = meterDoneBit

// MeterResult is the control word of a meter that finished counting the clock
// at index.
func MeterResult(index uint32) uint32 {
	return (index&meterIndexMask)<<meterIndexShift | meterDoneBit
}

// Measure runs one counting window and converts the count into a rate.
func (m *Meter) Measure() (clock.Freq, error) {
	if m.Ref == 0 {
		return 0, fmt.Errorf("meter without reference rate")
	}

	window := m.window()

	m.Ctrl.Set(m.Index<<meterIndexShift | meterStartBit)

	timeout := m.Timeout
	if timeout == 0 {
		timeout = hwreg.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := hwreg.WaitBits(ctx, m.Ctrl, meterDoneBit, meterDoneBit, 0)
	if err != nil {
		return 0, fmt.Errorf("waiting for clock meter: %w", err)
	}

	count := uint64(m.Count.Get())
	m.Ctrl.Set(0)

	return clock.Freq(count * uint64(m.Ref) / uint64(window)), nil
}

func (m *Meter) window() uint32 {
	if m.Window == 0 {
		return meterDefaultRange
	}

	return m.Window
}

// MeterWindow returns the counting window of the meter in reference cycles.
func (m *Meter) MeterWindow() uint32 {
	return m.window()
}
