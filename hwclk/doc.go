// Package hwclk provides clock operations for the building blocks of ST
// clock generators: oscillators, gates, dividers, muxes and PLLs, plus the
// observation pin and frequency meter used to check them. Each type
// implements a subset of the clock operation interfaces and is combined with
// others in clock.Builder.WithOps.
package hwclk
