// Package console runs text commands against a clock registry. It backs the
// interactive shell and scripted runs of the command line tool.
package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/epld"
)

// PowerManager can suspend and resume all the clocks.
type PowerManager interface {
	Suspend() error
	Resume() error
}

// A Tracker follows the commands of a script as they run.
type Tracker interface {
	IncrementInProgress(amount uint64)
	MoveInProgressToFinished(amount uint64)
}

// Console executes commands and prints their results.
type Console struct {
	reg     *clock.Registry
	pm      PowerManager
	irq     *epld.Controller
	out     io.Writer
	tracker Tracker
}

// Builder can build consoles.
type Builder struct {
	reg     *clock.Registry
	pm      PowerManager
	irq     *epld.Controller
	out     io.Writer
	tracker Tracker
}

// MakeBuilder creates a new Builder.
func MakeBuilder() Builder {
	return Builder{out: io.Discard}
}

// WithRegistry sets the registry the commands act on.
func (b Builder) WithRegistry(reg *clock.Registry) Builder {
	b.reg = reg
	return b
}

// WithOutput sets where results are printed.
func (b Builder) WithOutput(out io.Writer) Builder {
	b.out = out
	return b
}

// WithPowerManager enables the suspend and resume commands.
func (b Builder) WithPowerManager(pm PowerManager) Builder {
	b.pm = pm
	return b
}

// WithEPLD enables the irq command.
func (b Builder) WithEPLD(c *epld.Controller) Builder {
	b.irq = c
	return b
}

// WithTracker reports every command to t.
func (b Builder) WithTracker(t Tracker) Builder {
	b.tracker = t
	return b
}

// Build creates the console.
func (b Builder) Build() *Console {
	if b.reg == nil {
		panic("console requires a registry")
	}

	return &Console{
		reg:     b.reg,
		pm:      b.pm,
		irq:     b.irq,
		out:     b.out,
		tracker: b.tracker,
	}
}

// Exec parses the input and runs its commands in order. It stops at the first
// command that fails.
func (c *Console) Exec(input string) error {
	script, err := Parse(input)
	if err != nil {
		return err
	}

	return c.Run(script)
}

// Run runs parsed commands in order. It stops at the first command that
// fails.
func (c *Console) Run(script *Script) error {
	for _, cmd := range script.Commands {
		if c.tracker != nil {
			c.tracker.IncrementInProgress(1)
		}

		err := c.run(cmd)

		if c.tracker != nil {
			c.tracker.MoveInProgressToFinished(1)
		}

		if err != nil {
			return fmt.Errorf("%d:%d: %w", cmd.Pos.Line, cmd.Pos.Column, err)
		}
	}

	return nil
}

//nolint:gocyclo
func (c *Console) run(cmd *Command) error {
	switch {
	case cmd.Show != nil:
		return c.show(cmd.Show.Clock)
	case cmd.Tree:
		c.tree()
		return nil
	case cmd.Enable != "":
		return c.withClock(cmd.Enable, c.reg.Enable)
	case cmd.Disable != "":
		return c.withClock(cmd.Disable, c.reg.Disable)
	case cmd.Rate != nil:
		return c.setRate(cmd.Rate)
	case cmd.Round != nil:
		return c.roundRate(cmd.Round)
	case cmd.Parent != nil:
		return c.setParent(cmd.Parent)
	case cmd.Measure != "":
		return c.measure(cmd.Measure)
	case cmd.Observe != "":
		return c.observe(cmd.Observe)
	case cmd.Alias != nil:
		return c.reg.AddAlias(cmd.Alias.Name, cmd.Alias.Target)
	case cmd.Suspend:
		return c.power("suspended", func() error { return c.pm.Suspend() })
	case cmd.Resume:
		return c.power("resumed", func() error { return c.pm.Resume() })
	case cmd.IRQ != nil:
		return c.interrupt(cmd.IRQ)
	case cmd.Help:
		fmt.Fprint(c.out, helpText)
		return nil
	default:
		panic("empty command")
	}
}

const helpText = `show [clock]          print one clock or all of them
tree                  print the clock hierarchy
enable <clock>        add a user to a clock
disable <clock>       remove a user from a clock
rate <clock> <freq>   set the rate of a clock, e.g. 266MHz
round <clock> <freq>  print the rate a clock would get
parent <clock> <new>  move a clock to another parent
measure <clock>       count the clock in hardware
observe <clock>       route the clock to the observation pin
alias <name> <clock>  give a clock a second name
suspend | resume      switch all clocks off and back on
irq [mask|unmask|ack <line>]
`

func (c *Console) withClock(name string, op func(n *clock.Node) error) error {
	n, err := c.reg.Lookup(name)
	if err != nil {
		return err
	}

	if err := op(n); err != nil {
		return err
	}

	return c.show(n.Name())
}

func (c *Console) show(name string) error {
	if name == "" {
		c.table()
		return nil
	}

	n, err := c.reg.Lookup(name)
	if err != nil {
		return err
	}

	info, err := c.reg.Info(n)
	if err != nil {
		return err
	}

	state := "off"
	if info.Enabled {
		state = "on"
	}

	fmt.Fprintf(c.out, "%s: %s, %s, %d users", info.Name, info.Rate, state,
		info.UsageCount)

	if info.Parent != "" {
		fmt.Fprintf(c.out, ", parent %s", info.Parent)
	}

	if len(info.Aliases) > 0 {
		fmt.Fprintf(c.out, ", aka %s", strings.Join(info.Aliases, " "))
	}

	fmt.Fprintln(c.out)

	return nil
}

func (c *Console) table() {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tRATE\tUSERS\tSTATE\tPARENT\tFLAGS")

	for _, info := range c.reg.Snapshot() {
		state := "off"
		if info.Enabled {
			state = "on"
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", info.Name, info.Rate,
			info.UsageCount, state, info.Parent, info.Flags)
	}

	w.Flush()
}

func (c *Console) tree() {
	infos := c.reg.Snapshot()

	byName := make(map[string]clock.Info, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	var walk func(info clock.Info, depth int)
	walk = func(info clock.Info, depth int) {
		fmt.Fprintf(c.out, "%s%s %s\n", strings.Repeat("  ", depth), info.Name,
			info.Rate)

		for _, child := range info.Children {
			walk(byName[child], depth+1)
		}
	}

	for _, info := range infos {
		if info.Parent == "" {
			walk(info, 0)
		}
	}
}

func (c *Console) setRate(cmd *Rate) error {
	return c.withClock(cmd.Clock, func(n *clock.Node) error {
		return c.reg.SetRate(n, clock.Freq(cmd.Target))
	})
}

func (c *Console) roundRate(cmd *Round) error {
	n, err := c.reg.Lookup(cmd.Clock)
	if err != nil {
		return err
	}

	rate, err := c.reg.RoundRate(n, clock.Freq(cmd.Target))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s: %s\n", n.Name(), rate)

	return nil
}

func (c *Console) setParent(cmd *Parent) error {
	parent, err := c.reg.Lookup(cmd.Parent)
	if err != nil {
		return err
	}

	return c.withClock(cmd.Clock, func(n *clock.Node) error {
		return c.reg.SetParent(n, parent)
	})
}

func (c *Console) measure(name string) error {
	n, err := c.reg.Lookup(name)
	if err != nil {
		return err
	}

	rate, err := c.reg.Measure(n)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s: measured %s, expected %s\n", n.Name(), rate,
		n.Rate())

	return nil
}

func (c *Console) observe(name string) error {
	n, err := c.reg.Lookup(name)
	if err != nil {
		return err
	}

	div, err := c.reg.Observe(n)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s: on observation pin, divided by %d\n", n.Name(), div)

	return nil
}

func (c *Console) power(done string, op func() error) error {
	if c.pm == nil {
		return fmt.Errorf("no power manager")
	}

	if err := op(); err != nil {
		return err
	}

	fmt.Fprintln(c.out, done)

	return nil
}

func (c *Console) interrupt(cmd *IRQ) error {
	if c.irq == nil {
		return fmt.Errorf("no interrupt controller")
	}

	switch cmd.Op {
	case "mask":
		return c.irq.Mask(cmd.Line)
	case "unmask":
		return c.irq.Unmask(cmd.Line)
	case "ack":
		return c.irq.Ack(cmd.Line)
	}

	pending := make(map[int]bool)
	for _, irq := range c.irq.Pending() {
		pending[irq] = true
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "IRQ\tNAME\tBANK\tBIT\tMASKED\tPENDING")

	for _, l := range c.irq.Lines() {
		masked, err := c.irq.Masked(l.IRQ)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%t\t%t\n", l.IRQ, l.Name, l.Bank, l.Bit,
			masked, pending[l.IRQ])
	}

	return w.Flush()
}
