package clock

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should format with the largest unit", func() {
		Expect(Freq(27 * MHz).String()).To(Equal("27 MHz"))
		Expect(Freq(1500 * KHz).String()).To(Equal("1.5 MHz"))
		Expect(Freq(266666666).String()).To(Equal("266.666 MHz"))
		Expect(Freq(2 * GHz).String()).To(Equal("2 GHz"))
		Expect(Freq(32768).String()).To(Equal("32.768 kHz"))
		Expect(Freq(50).String()).To(Equal("50 Hz"))
	})

	It("should give the period", func() {
		Expect(Freq(1 * MHz).Period()).To(Equal(time.Microsecond))
	})

	It("should panic on the period of 0 Hz", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
	})

	It("should count cycles", func() {
		Expect(Freq(100 * MHz).Cycles(time.Millisecond)).To(Equal(uint64(100000)))
	})

	It("should compute distances", func() {
		Expect(AbsDiff(3, 5)).To(Equal(Freq(2)))
		Expect(AbsDiff(5, 3)).To(Equal(Freq(2)))
	})

	It("should parse frequencies", func() {
		Expect(ParseFreq("27MHz")).To(Equal(27 * MHz))
		Expect(ParseFreq("1.5 GHz")).To(Equal(1500 * MHz))
		Expect(ParseFreq("32768hz")).To(Equal(Freq(32768)))
		Expect(ParseFreq("32.768 kHz")).To(Equal(Freq(32768)))
		Expect(ParseFreq(" 100 ")).To(Equal(Freq(100)))
	})

	It("should reject bad frequencies", func() {
		for _, s := range []string{"", "MHz", "-5", "fast", "1e30GHz"} {
			_, err := ParseFreq(s)
			Expect(err).To(HaveOccurred(), s)
		}
	})
})
