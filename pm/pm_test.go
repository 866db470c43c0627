package pm

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/clocktree/board"
	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/hwclk"
	"github.com/sarchlab/clocktree/hwreg"
)

type flakyGate struct {
	fail bool
}

func (g *flakyGate) Enable() error { return nil }

func (g *flakyGate) Disable() error {
	if g.fail {
		return errors.New("stuck")
	}

	return nil
}

type switchGate struct {
	on bool
}

func (g *switchGate) Enable() error {
	g.on = true
	return nil
}

func (g *switchGate) Disable() error {
	g.on = false
	return nil
}

var _ = Describe("Manager", func() {
	var (
		reg  *clock.Registry
		bank *hwreg.Bank
		m    *Manager
	)

	lookup := func(name string) *clock.Node {
		return reg.MustLookup(name)
	}

	BeforeEach(func() {
		b, err := board.Builtin("stx7100")
		Expect(err).NotTo(HaveOccurred())

		reg, bank, err = b.Instantiate()
		Expect(err).NotTo(HaveOccurred())

		m = NewManager(reg)

		Expect(reg.Enable(lookup("emi_clk"))).To(Succeed())
		Expect(reg.Enable(lookup("emi_clk"))).To(Succeed())
		Expect(reg.Enable(lookup("fdma_clk"))).To(Succeed())
		Expect(reg.Enable(lookup("lmi2x_clk"))).To(Succeed())
		Expect(reg.Enable(lookup("usb48_clk"))).To(Succeed())
	})

	It("should switch off every gated clock", func() {
		Expect(lookup("pll1_clk").UsageCount()).To(Equal(3))

		Expect(m.Suspend()).To(Succeed())

		Expect(m.Suspended()).To(BeTrue())
		Expect(bank.Reg(7).Get()).To(Equal(uint32(0)))
		Expect(lookup("emi_clk").UsageCount()).To(Equal(0))
		Expect(lookup("fdma_clk").UsageCount()).To(Equal(0))
		Expect(lookup("usb48_clk").UsageCount()).To(Equal(0))
		Expect(lookup("pll1_clk").UsageCount()).To(Equal(1))
		Expect(lookup("pll0_clk").UsageCount()).To(Equal(3))
	})

	It("should restore the users on resume", func() {
		Expect(m.Suspend()).To(Succeed())
		Expect(m.Resume()).To(Succeed())

		Expect(m.Suspended()).To(BeFalse())
		Expect(bank.Reg(7).Get()).To(Equal(uint32(0xf)))
		Expect(lookup("emi_clk").UsageCount()).To(Equal(2))
		Expect(lookup("fdma_clk").UsageCount()).To(Equal(1))
		Expect(lookup("lmi2x_clk").UsageCount()).To(Equal(1))
		Expect(lookup("pll1_clk").UsageCount()).To(Equal(3))
		Expect(lookup("pll0_clk").UsageCount()).To(Equal(3))
	})

	It("should be idempotent", func() {
		Expect(m.Suspend()).To(Succeed())
		Expect(m.Suspend()).To(Succeed())
		Expect(lookup("emi_clk").UsageCount()).To(Equal(0))

		Expect(m.Resume()).To(Succeed())
		Expect(m.Resume()).To(Succeed())
		Expect(lookup("emi_clk").UsageCount()).To(Equal(2))

		Expect(m.Suspend()).To(Succeed())
		Expect(m.Resume()).To(Succeed())
		Expect(lookup("emi_clk").UsageCount()).To(Equal(2))
		Expect(lookup("pll1_clk").UsageCount()).To(Equal(3))
	})

	It("should restore rates changed while suspended", func() {
		Expect(m.Suspend()).To(Succeed())
		Expect(reg.SetRate(lookup("pll0_clk"), 600*clock.MHz)).To(Succeed())

		Expect(m.Resume()).To(Succeed())

		Expect(lookup("pll0_clk").Rate()).To(Equal(531 * clock.MHz))
		Expect(lookup("cpu_clk").Rate()).To(Equal(clock.Freq(265500000)))
	})

	It("should reprogram dividers that lost their state", func() {
		Expect(m.Suspend()).To(Succeed())
		bank.Reg(9).Set(0)

		Expect(m.Resume()).To(Succeed())

		Expect(lookup("ic_clk").Rate()).To(Equal(100 * clock.MHz))
		Expect(lookup("emi_clk").Rate()).To(Equal(50 * clock.MHz))
	})
})

var _ = Describe("Manager with failing hardware", func() {
	It("should keep going and report the failure", func() {
		reg := clock.NewRegistry()
		g := &flakyGate{}

		Expect(reg.Register(clock.MakeBuilder().
			WithName("osc").
			WithFlags(clock.AlwaysEnabled).
			WithOps(&hwclk.FixedRate{Rate: clock.MHz}).
			Build())).To(Succeed())
		Expect(reg.Register(clock.MakeBuilder().
			WithName("bad").
			WithParent("osc").
			WithOps(hwclk.PassThrough{}, g).
			Build())).To(Succeed())
		Expect(reg.Register(clock.MakeBuilder().
			WithName("good").
			WithParent("osc").
			WithOps(hwclk.PassThrough{}, &flakyGate{}).
			Build())).To(Succeed())

		Expect(reg.Enable(reg.MustLookup("bad"))).To(Succeed())
		Expect(reg.Enable(reg.MustLookup("good"))).To(Succeed())
		g.fail = true

		m := NewManager(reg)
		err := m.Suspend()

		Expect(err).To(MatchError(ContainSubstring("suspending bad")))
		Expect(errors.Is(err, clock.ErrNotEnabled)).To(BeFalse())
		Expect(m.Suspended()).To(BeTrue())
		Expect(reg.MustLookup("good").UsageCount()).To(Equal(0))
		Expect(reg.MustLookup("bad").UsageCount()).To(Equal(1))

		Expect(m.Resume()).To(Succeed())
		Expect(reg.MustLookup("good").UsageCount()).To(Equal(1))
		Expect(reg.MustLookup("bad").UsageCount()).To(Equal(1))
	})
})

var _ = Describe("Manager with an always enabled leaf", func() {
	var (
		reg        *clock.Registry
		aGate      *switchGate
		bGate      *switchGate
		a, b, leaf *clock.Node
		m          *Manager
	)

	register := func(bld clock.Builder) *clock.Node {
		n := bld.Build()
		Expect(reg.Register(n)).To(Succeed())

		return n
	}

	BeforeEach(func() {
		reg = clock.NewRegistry()
		aGate = &switchGate{}
		bGate = &switchGate{}

		register(clock.MakeBuilder().
			WithName("osc").
			WithFlags(clock.AlwaysEnabled).
			WithOps(&hwclk.FixedRate{Rate: clock.MHz}))
		a = register(clock.MakeBuilder().
			WithName("a").
			WithParent("osc").
			WithOps(hwclk.PassThrough{}, aGate))
		b = register(clock.MakeBuilder().
			WithName("b").
			WithParent("a").
			WithOps(hwclk.PassThrough{}, bGate))
		leaf = register(clock.MakeBuilder().
			WithName("leaf").
			WithParent("b").
			WithFlags(clock.AlwaysEnabled).
			WithOps(hwclk.PassThrough{}))

		m = NewManager(reg)
	})

	It("should keep the whole chain of the leaf running", func() {
		Expect(a.UsageCount()).To(Equal(1))
		Expect(b.UsageCount()).To(Equal(1))

		Expect(m.Suspend()).To(Succeed())

		Expect(aGate.on).To(BeTrue())
		Expect(bGate.on).To(BeTrue())
		Expect(a.UsageCount()).To(Equal(1))
		Expect(b.UsageCount()).To(Equal(1))
		Expect(leaf.IsEnabled()).To(BeTrue())

		Expect(m.Resume()).To(Succeed())
		Expect(a.UsageCount()).To(Equal(1))
		Expect(b.UsageCount()).To(Equal(1))
	})

	It("should only drop the users of the clocks themselves", func() {
		Expect(reg.Enable(a)).To(Succeed())
		Expect(reg.Enable(b)).To(Succeed())
		Expect(a.UsageCount()).To(Equal(2))
		Expect(b.UsageCount()).To(Equal(2))

		Expect(m.Suspend()).To(Succeed())

		Expect(a.UsageCount()).To(Equal(1))
		Expect(b.UsageCount()).To(Equal(1))
		Expect(aGate.on).To(BeTrue())
		Expect(bGate.on).To(BeTrue())

		Expect(m.Resume()).To(Succeed())

		Expect(a.UsageCount()).To(Equal(2))
		Expect(b.UsageCount()).To(Equal(2))
	})
})
