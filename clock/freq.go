package clock

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"
)

// Freq defines the type of frequency, counted in Hz.
type Freq uint64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two consecutive ticks.
func (f Freq) Period() time.Duration {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return time.Duration(uint64(time.Second) / uint64(f))
}

// Cycles returns the number of full cycles that pass in d.
func (f Freq) Cycles(d time.Duration) uint64 {
	return uint64(f) * uint64(d) / uint64(time.Second)
}

// String formats the frequency with the largest unit that keeps it exact to
// three decimals.
func (f Freq) String() string {
	switch {
	case f >= GHz:
		return formatUnit(f, GHz, "GHz")
	case f >= MHz:
		return formatUnit(f, MHz, "MHz")
	case f >= KHz:
		return formatUnit(f, KHz, "kHz")
	default:
		return fmt.Sprintf("%d Hz", uint64(f))
	}
}

func formatUnit(f, unit Freq, name string) string {
	whole := f / unit
	frac := (f % unit) * 1000 / unit

	if frac == 0 {
		return fmt.Sprintf("%d %s", whole, name)
	}

	s := fmt.Sprintf("%d.%03d", whole, frac)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}

	return s + " " + name
}

// AbsDiff returns the distance between two frequencies.
func AbsDiff(a, b Freq) Freq {
	if a > b {
		return a - b
	}

	return b - a
}

// ParseFreq parses frequencies such as "27MHz", "1.5 GHz", "32768hz" or a
// bare Hz count.
func ParseFreq(s string) (Freq, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	unit := Hz

	for _, u := range []struct {
		suffix string
		unit   Freq
	}{
		{"ghz", GHz},
		{"mhz", MHz},
		{"khz", KHz},
		{"hz", Hz},
	} {
		if strings.HasSuffix(str, u.suffix) {
			str = strings.TrimSpace(strings.TrimSuffix(str, u.suffix))
			unit = u.unit

			break
		}
	}

	if str == "" {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}

	if whole, err := strconv.ParseUint(str, 10, 64); err == nil {
		if whole > math.MaxUint64/uint64(unit) {
			return 0, fmt.Errorf("frequency %q out of range", s)
		}

		return Freq(whole) * unit, nil
	}

	v, err := strconv.ParseFloat(str, 64)
	if err != nil || v < 0 || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}

	hz := math.Round(v * float64(unit))
	if hz >= math.MaxUint64 {
		return 0, fmt.Errorf("frequency %q out of range", s)
	}

	return Freq(hz), nil
}
