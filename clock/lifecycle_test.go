package clock

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Enable and disable", func() {
	var (
		r               *Registry
		log             []string
		busGate, ipGate *gate
		bus, ip         *Node
	)

	BeforeEach(func() {
		r = NewRegistry()
		log = nil

		mustRegister(r, MakeBuilder().
			WithName("osc").
			WithRate(30*MHz).
			WithFlags(AlwaysEnabled))

		busGate = &gate{name: "bus", log: &log}
		bus = mustRegister(r, MakeBuilder().
			WithName("bus").
			WithParent("osc").
			WithOps(&divider{div: 1}, busGate))

		ipGate = &gate{name: "ip", log: &log}
		ip = mustRegister(r, MakeBuilder().
			WithName("ip").
			WithParent("bus").
			WithOps(&divider{div: 2}, ipGate))
	})

	DescribeTable("should count users",
		func(n int) {
			for i := 0; i < n; i++ {
				Expect(r.Enable(ip)).To(Succeed())
			}

			Expect(ip.UsageCount()).To(Equal(n))
			Expect(ip.IsEnabled()).To(BeTrue())

			for i := 0; i < n; i++ {
				Expect(r.Disable(ip)).To(Succeed())
			}

			Expect(ip.UsageCount()).To(Equal(0))
			Expect(ipGate.on).To(BeFalse())
			Expect(ipGate.enables).To(Equal(1))
			Expect(ipGate.disables).To(Equal(1))
			Expect(r.Disable(ip)).To(MatchError(ErrNotEnabled))
		},
		Entry("one user", 1),
		Entry("two users", 2),
		Entry("many users", 7),
	)

	It("should enable the parent first and disable it last", func() {
		Expect(r.Enable(ip)).To(Succeed())
		Expect(r.Disable(ip)).To(Succeed())

		Expect(log).To(Equal([]string{
			"enable bus", "enable ip", "disable ip", "disable bus",
		}))
	})

	It("should keep the parent running while another child uses it", func() {
		otherGate := &gate{}
		other := mustRegister(r, MakeBuilder().
			WithName("other").
			WithParent("bus").
			WithOps(&divider{div: 3}, otherGate))

		Expect(r.Enable(ip)).To(Succeed())
		Expect(r.Enable(other)).To(Succeed())
		Expect(bus.UsageCount()).To(Equal(2))

		Expect(r.Disable(ip)).To(Succeed())
		Expect(busGate.on).To(BeTrue())
		Expect(bus.UsageCount()).To(Equal(1))

		Expect(r.Disable(other)).To(Succeed())
		Expect(busGate.on).To(BeFalse())
		Expect(bus.UsageCount()).To(Equal(0))
	})

	It("should count direct users of the parent with the children", func() {
		Expect(r.Enable(bus)).To(Succeed())
		Expect(r.Enable(ip)).To(Succeed())
		Expect(r.Disable(ip)).To(Succeed())

		Expect(busGate.on).To(BeTrue())
		Expect(bus.UsageCount()).To(Equal(1))
	})

	It("should report unsupported for clocks without gate", func() {
		n := mustRegister(r, MakeBuilder().
			WithName("div").
			WithParent("osc").
			WithOps(&divider{div: 2}))

		Expect(r.Enable(n)).To(MatchError(ErrUnsupported))
		Expect(r.Disable(n)).To(MatchError(ErrNotEnabled))
	})

	It("should fail enabling below an ungated parent", func() {
		mustRegister(r, MakeBuilder().
			WithName("div").
			WithParent("osc").
			WithOps(&divider{div: 2}))
		g := &gate{}
		n := mustRegister(r, MakeBuilder().
			WithName("leaf").
			WithParent("div").
			WithOps(&divider{div: 1}, g))

		Expect(r.Enable(n)).To(MatchError(ErrUnsupported))
		Expect(n.UsageCount()).To(Equal(0))
		Expect(g.on).To(BeFalse())
	})

	It("should roll back when the hardware fails", func() {
		cause := errors.New("stuck")
		ipGate.failOn = cause

		err := r.Enable(ip)

		var hwErr *HardwareError
		Expect(errors.As(err, &hwErr)).To(BeTrue())
		Expect(hwErr.Clock).To(Equal("ip"))
		Expect(hwErr.Op).To(Equal("enable"))
		Expect(err).To(MatchError(cause))
		Expect(ip.UsageCount()).To(Equal(0))
		Expect(bus.UsageCount()).To(Equal(0))
		Expect(busGate.on).To(BeFalse())
	})

	It("should keep the parent referenced when it fails to switch off", func() {
		Expect(r.Enable(ip)).To(Succeed())
		busGate.failOff = errors.New("stuck")

		Expect(r.Disable(ip)).To(Succeed())

		Expect(ip.UsageCount()).To(Equal(0))
		Expect(ipGate.on).To(BeFalse())
		Expect(bus.UsageCount()).To(Equal(1))
		Expect(busGate.on).To(BeTrue())
	})

	It("should report a failure to switch the clock itself off", func() {
		Expect(r.Enable(ip)).To(Succeed())
		ipGate.failOff = errors.New("stuck")

		err := r.Disable(ip)

		Expect(err).To(BeAssignableToTypeOf(&HardwareError{}))
		Expect(ip.UsageCount()).To(Equal(1))
		Expect(bus.UsageCount()).To(Equal(1))
	})

	It("should invoke enable and disable hooks", func() {
		positions := []string{}
		r.AcceptHook(HookFunc(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos.Name+" "+ctx.Item.Name())
		}))

		Expect(r.Enable(ip)).To(Succeed())
		Expect(r.Enable(ip)).To(Succeed())
		Expect(r.Disable(ip)).To(Succeed())
		Expect(r.Disable(ip)).To(Succeed())

		Expect(positions).To(Equal([]string{
			"Enable bus", "Enable ip", "Disable ip", "Disable bus",
		}))
	})
})
