package clock

// Builder can build clock nodes.
type Builder struct {
	name       string
	parentName string
	rate       Freq
	nominal    Freq
	flags      Flag
	providers  []any
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithName sets the name of the clock.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithParent sets the name of the parent clock. The parent must be registered
// before the clock.
func (b Builder) WithParent(name string) Builder {
	b.parentName = name
	return b
}

// WithRate sets the rate of a clock that cannot calculate its own rate.
func (b Builder) WithRate(rate Freq) Builder {
	b.rate = rate
	return b
}

// WithNominalRate sets the design-time reference rate.
func (b Builder) WithNominalRate(rate Freq) Builder {
	b.nominal = rate
	return b
}

// WithFlags adds flags to the clock.
func (b Builder) WithFlags(flags Flag) Builder {
	b.flags |= flags
	return b
}

// WithOps adds op providers. Each operation is served by the first provider
// that implements it.
func (b Builder) WithOps(providers ...any) Builder {
	b.providers = append(append([]any(nil), b.providers...), providers...)
	return b
}

// Build creates an unregistered clock node.
func (b Builder) Build() *Node {
	n := &Node{
		name:       b.name,
		parentName: b.parentName,
		nominal:    b.nominal,
		initRate:   b.rate,
		rate:       b.rate,
		flags:      b.flags,
		ops:        resolveOps(b.providers),
	}

	if n.nominal == 0 {
		n.nominal = b.rate
	}

	return n
}
