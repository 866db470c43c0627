package clock

import "strings"

// Flag modifies how the manager treats a clock.
type Flag uint32

const (
	// AlwaysEnabled clocks are switched on at registration and never switched
	// off. Their usage counter is ignored.
	AlwaysEnabled Flag = 1 << iota

	// RatePropagates marks a clock whose rate follows its parent. A rate
	// change on a flagged clock recalculates its children and a flagged
	// child is recalculated whenever its parent changes.
	RatePropagates
)

// Has returns true if all the bits of g are set in f.
func (f Flag) Has(g Flag) bool {
	return f&g == g
}

func (f Flag) String() string {
	names := []string{}

	if f.Has(AlwaysEnabled) {
		names = append(names, "always_enabled")
	}

	if f.Has(RatePropagates) {
		names = append(names, "rate_propagates")
	}

	return strings.Join(names, "|")
}

// ParseFlag converts the name used in board files into a flag.
func ParseFlag(name string) (Flag, bool) {
	switch strings.ToLower(name) {
	case "always_enabled", "always-enabled":
		return AlwaysEnabled, true
	case "rate_propagates", "rate-propagates":
		return RatePropagates, true
	}

	return 0, false
}
