// Package pm suspends and resumes all the clocks of a registry.
//
// Suspend disables every clock that has users, children before parents, and
// remembers how many users each one had. Only the users of a clock itself are
// dropped; the references its running children hold go away with the
// children, and a clock kept up by an always enabled descendant stays on.
// Resume puts the users back, parents before children, and brings every
// programmable clock back to the rate it had before the suspend.
package pm

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sarchlab/clocktree/clock"
)

// A Manager drives suspend and resume over one registry.
type Manager struct {
	reg *clock.Registry

	mu        sync.Mutex
	suspended bool
	saved     []savedClock
}

type savedClock struct {
	node  *clock.Node
	depth int
	users int
	rate  clock.Freq
}

// NewManager creates a Manager for the registry.
func NewManager(reg *clock.Registry) *Manager {
	return &Manager{reg: reg}
}

// Suspended returns true between a Suspend and the next Resume.
func (m *Manager) Suspended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.suspended
}

// Suspend switches off all the clocks that have users. Calling it again while
// suspended does nothing. Failures on one clock do not stop the sweep; they are
// returned together at the end.
func (m *Manager) Suspend() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.suspended {
		return nil
	}

	saved, err := m.save()
	if err != nil {
		return err
	}

	sort.SliceStable(saved, func(i, j int) bool {
		return saved[i].depth > saved[j].depth
	})

	errs := []error{}

	for i := range saved {
		s := &saved[i]

		for u := 0; u < s.users; u++ {
			if err := m.reg.Disable(s.node); err != nil {
				errs = append(errs, fmt.Errorf("suspending %s: %w",
					s.node.Name(), err))
				s.users = u

				break
			}
		}
	}

	m.saved = saved
	m.suspended = true

	return errors.Join(errs...)
}

// Resume restores the state saved by Suspend. Calling it while not suspended
// does nothing.
func (m *Manager) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.suspended {
		return nil
	}

	saved := m.saved
	sort.SliceStable(saved, func(i, j int) bool {
		return saved[i].depth < saved[j].depth
	})

	errs := []error{}
	errs = append(errs, m.restoreRates(saved)...)

	for _, s := range saved {
		for u := 0; u < s.users; u++ {
			if err := m.reg.Enable(s.node); err != nil {
				errs = append(errs, fmt.Errorf("resuming %s: %w",
					s.node.Name(), err))

				break
			}
		}
	}

	m.saved = nil
	m.suspended = false

	return errors.Join(errs...)
}

func (m *Manager) save() ([]savedClock, error) {
	saved := []savedClock{}

	for _, n := range m.reg.Nodes() {
		depth, err := m.reg.Depth(n)
		if err != nil {
			return nil, fmt.Errorf("saving %s: %w", n.Name(), err)
		}

		saved = append(saved, savedClock{
			node:  n,
			depth: depth,
			users: ownUsers(n),
			rate:  n.Rate(),
		})
	}

	return saved, nil
}

// restoreRates resynchronizes the cached rates with the hardware and then
// reprograms the clocks whose rate moved while suspended. saved must be sorted
// parents first.
func (m *Manager) restoreRates(saved []savedClock) []error {
	errs := []error{}

	for _, s := range saved {
		if !s.node.Capabilities().Has(clock.CapRecalc) {
			continue
		}

		if err := m.reg.Recalc(s.node); err != nil {
			errs = append(errs, fmt.Errorf("resuming %s: %w", s.node.Name(), err))
		}
	}

	for _, s := range saved {
		if s.node.Rate() == s.rate ||
			!s.node.Capabilities().Has(clock.CapSetRate) {
			continue
		}

		if err := m.reg.SetRate(s.node, s.rate); err != nil {
			errs = append(errs, fmt.Errorf("resuming %s: %w", s.node.Name(), err))
		}
	}

	return errs
}

// ownUsers counts the users of n that are not its children. Every running
// child holds one reference on its parent, and so does every always enabled
// child.
func ownUsers(n *clock.Node) int {
	if n.Flags().Has(clock.AlwaysEnabled) {
		return 0
	}

	users := n.UsageCount()

	for _, c := range n.Children() {
		if c.Flags().Has(clock.AlwaysEnabled) || c.UsageCount() > 0 {
			users--
		}
	}

	if users < 0 {
		return 0
	}

	return users
}
