package hwreg

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Register", func() {
	var bank *Bank

	BeforeEach(func() {
		bank = NewBank("clockgen", 4)
	})

	It("should set and clear bits", func() {
		r := bank.Reg(0)

		SetBits(r, 0x11)
		Expect(r.Get()).To(Equal(uint32(0x11)))
		Expect(HasBits(r, 0x10)).To(BeTrue())
		Expect(HasBits(r, 0x12)).To(BeFalse())

		ClearBits(r, 0x01)
		Expect(r.Get()).To(Equal(uint32(0x10)))
	})

	It("should replace bits", func() {
		r := bank.Reg(1)
		r.Set(0xffffffff)

		ReplaceBits(r, 0x5, 0xf, 8)

		Expect(r.Get()).To(Equal(uint32(0xfffff5ff)))
	})

	It("should access fields", func() {
		f := Field{Reg: bank.Reg(2), Shift: 4, Width: 3}
		bank.Reg(2).Set(0x0f)

		f.Set(9)

		Expect(f.Get()).To(Equal(uint32(1)))
		Expect(f.Max()).To(Equal(uint32(7)))
		Expect(bank.Reg(2).Get()).To(Equal(uint32(0x1f)))
	})

	It("should handle full width fields", func() {
		f := Field{Reg: bank.Reg(3), Width: 32}

		f.Set(0xdeadbeef)

		Expect(f.Get()).To(Equal(uint32(0xdeadbeef)))
	})

	It("should panic out of range", func() {
		Expect(func() { bank.Reg(4) }).To(Panic())
	})

	It("should call write hooks", func() {
		writes := []int{}
		bank.OnWrite(func(index int, _ uint32) {
			writes = append(writes, index)
		})

		bank.Reg(3).Set(1)
		bank.Reg(1).Set(2)

		Expect(writes).To(Equal([]int{3, 1}))
		Expect(bank.Dump()).To(Equal(
			"clockgen[1] = 0x00000002\nclockgen[3] = 0x00000001\n"))
	})
})

var _ = Describe("Poll", func() {
	It("should return once the condition holds", func() {
		calls := 0

		err := Poll(context.Background(), time.Microsecond, func() bool {
			calls++
			return calls == 3
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(3))
	})

	It("should time out", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()

		err := Poll(ctx, 100*time.Microsecond, func() bool { return false })

		Expect(errors.Is(err, ErrTimeout)).To(BeTrue())
	})

	It("should bound a poll without deadline", func() {
		start := time.Now()

		err := Poll(context.Background(), 0, func() bool { return false })

		Expect(err).To(MatchError(ErrTimeout))
		Expect(time.Since(start)).To(BeNumerically(">=", DefaultTimeout))
	})

	It("should report cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Poll(ctx, time.Millisecond, func() bool { return false })

		Expect(err).To(MatchError(context.Canceled))
	})

	It("should wait for bits", func() {
		r := NewBank("status", 1).Reg(0)
		go func() {
			time.Sleep(100 * time.Microsecond)
			r.Set(0x3)
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		err := WaitBits(ctx, r, 0x2, 0x2, 10*time.Microsecond)

		Expect(err).NotTo(HaveOccurred())
	})
})
