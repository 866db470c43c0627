package clock

// The operations a clock may support. A clock is built from op providers and
// every capability is looked up with a type assertion. An operation that no
// provider implements fails with ErrUnsupported.

// Initializer prepares the hardware at registration and returns the initial
// rate. When present it replaces the initial Recalc.
type Initializer interface {
	Init(parentRate Freq) (Freq, error)
}

// Enabler switches the clock on.
type Enabler interface {
	Enable() error
}

// Disabler switches the clock off.
type Disabler interface {
	Disable() error
}

// RateSetter programs the hardware so that the clock runs as close as
// possible to target.
type RateSetter interface {
	SetRate(parentRate, target Freq) error
}

// ParentSetter routes the clock from the named parent.
type ParentSetter interface {
	SetParent(parent string) error
}

// Recalculator derives the current rate from the parent rate and the
// hardware state.
type Recalculator interface {
	Recalc(parentRate Freq) (Freq, error)
}

// RateRounder returns the rate SetRate would achieve for target. It must not
// touch the hardware.
type RateRounder interface {
	RoundRate(parentRate, target Freq) (Freq, error)
}

// Observer routes the clock to an observation pin and returns the divisor
// applied on the pin.
type Observer interface {
	Observe() (divisor uint32, err error)
}

// Measurer measures the clock with a hardware counter.
type Measurer interface {
	Measure() (Freq, error)
}

// Capability is the set of operations a clock supports.
type Capability uint32

// The capabilities.
const (
	CapInit Capability = 1 << iota
	CapEnable
	CapDisable
	CapSetRate
	CapSetParent
	CapRecalc
	CapRoundRate
	CapObserve
	CapMeasure
)

var capNames = []string{
	"init", "enable", "disable", "set_rate", "set_parent",
	"recalc", "round_rate", "observe", "get_measure",
}

// Has returns true if c contains all of d.
func (c Capability) Has(d Capability) bool {
	return c&d == d
}

func (c Capability) String() string {
	s := ""

	for i, name := range capNames {
		if c&(1<<i) == 0 {
			continue
		}

		if s != "" {
			s += ","
		}

		s += name
	}

	return s
}

type ops struct {
	caps      Capability
	init      Initializer
	enable    Enabler
	disable   Disabler
	setRate   RateSetter
	setParent ParentSetter
	recalc    Recalculator
	round     RateRounder
	observe   Observer
	measure   Measurer
}

func resolveOps(providers []any) ops {
	o := ops{}

	for _, p := range providers {
		o.resolve(p)
	}

	return o
}

//nolint:gocyclo
func (o *ops) resolve(p any) {
	if v, ok := p.(Initializer); ok && o.init == nil {
		o.init = v
		o.caps |= CapInit
	}

	if v, ok := p.(Enabler); ok && o.enable == nil {
		o.enable = v
		o.caps |= CapEnable
	}

	if v, ok := p.(Disabler); ok && o.disable == nil {
		o.disable = v
		o.caps |= CapDisable
	}

	if v, ok := p.(RateSetter); ok && o.setRate == nil {
		o.setRate = v
		o.caps |= CapSetRate
	}

	if v, ok := p.(ParentSetter); ok && o.setParent == nil {
		o.setParent = v
		o.caps |= CapSetParent
	}

	if v, ok := p.(Recalculator); ok && o.recalc == nil {
		o.recalc = v
		o.caps |= CapRecalc
	}

	if v, ok := p.(RateRounder); ok && o.round == nil {
		o.round = v
		o.caps |= CapRoundRate
	}

	if v, ok := p.(Observer); ok && o.observe == nil {
		o.observe = v
		o.caps |= CapObserve
	}

	if v, ok := p.(Measurer); ok && o.measure == nil {
		o.measure = v
		o.caps |= CapMeasure
	}
}
