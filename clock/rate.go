package clock

import (
	"fmt"
	"log"
)

// Recalc synchronizes the rate of the clock with the hardware and propagates
// the result to the children.
func (r *Registry) Recalc(n *Node) error {
	s, _, err := r.lockChain(n)
	if err != nil {
		return err
	}

	events := []HookCtx{}
	err = r.recalcLocked(n, &events)

	if err == nil {
		err = r.propagateLocked(s, n, &events)
	}

	s.unlock()

	r.fire(events)

	return err
}

func (r *Registry) recalcLocked(n *Node, events *[]HookCtx) error {
	if n.ops.recalc == nil {
		return unsupported(n, "recalc")
	}

	rate, err := n.ops.recalc.Recalc(n.parentRateLocked())
	if err != nil {
		return hwErr(n, "recalc", err)
	}

	if rate != n.rate {
		*events = append(*events, HookCtx{
			Pos:    HookPosRateChange,
			Item:   n,
			Detail: RateChange{Old: n.rate, New: rate},
		})
		n.rate = rate
	}

	return nil
}

// propagateLocked recalculates the descendants of n breadth first. A child is
// recalculated when it or its parent propagates rate. Every visited child is
// locked into s and stays locked until s is released.
func (r *Registry) propagateLocked(s *lockSet, n *Node, events *[]HookCtx) error {
	queue := []*Node{n}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for _, c := range p.children {
			if c.ops.recalc == nil {
				continue
			}

			if !p.flags.Has(RatePropagates) && !c.flags.Has(RatePropagates) {
				continue
			}

			if !s.holds(c) {
				s.lock(c)
			}

			if err := r.recalcLocked(c, events); err != nil {
				return err
			}

			queue = append(queue, c)
		}
	}

	return nil
}

// SetRate asks the clock hardware for a new rate. The clock is recalculated
// afterwards and the change ripples down to the children as a recalculation,
// never as another hardware reprogram.
func (r *Registry) SetRate(n *Node, target Freq) error {
	s, _, err := r.lockChain(n)
	if err != nil {
		return err
	}

	events := []HookCtx{}
	err = r.setRateLocked(s, n, target, &events)
	s.unlock()

	r.fire(events)

	return err
}

func (r *Registry) setRateLocked(
	s *lockSet,
	n *Node,
	target Freq,
	events *[]HookCtx,
) error {
	if n.ops.setRate == nil {
		return unsupported(n, "set_rate")
	}

	err := n.ops.setRate.SetRate(n.parentRateLocked(), target)
	if err != nil {
		return hwErr(n, "set_rate", err)
	}

	if err := r.recalcLocked(n, events); err != nil {
		return err
	}

	return r.propagateLocked(s, n, events)
}

// RoundRate returns the rate the clock would run at if SetRate was called
// with target.
func (r *Registry) RoundRate(n *Node, target Freq) (Freq, error) {
	s, _, err := r.lockChain(n)
	if err != nil {
		return 0, err
	}
	defer s.unlock()

	if n.ops.round == nil {
		return 0, unsupported(n, "round_rate")
	}

	rate, err := n.ops.round.RoundRate(n.parentRateLocked(), target)
	if err != nil {
		return 0, hwErr(n, "round_rate", err)
	}

	return rate, nil
}

// SetParent routes the clock from a new parent. An enabled clock keeps
// running: the new parent is enabled before the switch and the old one is
// released after it. If the clock or one of its descendants cannot be
// recalculated against the new parent, the clock is routed back to the old
// one and the error is returned.
func (r *Registry) SetParent(n, parent *Node) error {
	if _, err := r.chainOf(n); err != nil {
		return err
	}

	if _, err := r.chainOf(parent); err != nil {
		return err
	}

	if n.ops.setParent == nil {
		return unsupported(n, "set_parent")
	}

	s, chain, newChain, err := r.lockForReparent(n, parent)
	if err != nil {
		return err
	}

	for _, c := range newChain {
		if c == n {
			s.unlock()
			return fmt.Errorf("clock %s under %s: %w", n.name, parent.name, ErrCycle)
		}
	}

	events := []HookCtx{}
	err = r.setParentLocked(s, chain, newChain, &events)
	s.unlock()

	r.fire(events)

	return err
}

func (r *Registry) setParentLocked(
	s *lockSet,
	chain, newChain []*Node,
	events *[]HookCtx,
) error {
	n := chain[len(chain)-1]
	parent := newChain[len(newChain)-1]
	old := n.parent

	if old == parent {
		return nil
	}

	holdsParent := n.usage > 0 || n.flags.Has(AlwaysEnabled)

	if holdsParent {
		err := r.enableLocked(newChain, len(newChain)-1, events)
		if err != nil {
			return err
		}
	}

	if err := n.ops.setParent.SetParent(parent.name); err != nil {
		if holdsParent {
			r.releaseLocked(newChain, len(newChain)-1, events)
		}

		return hwErr(n, "set_parent", err)
	}

	r.link(n, parent)

	if err := r.resyncLocked(s, n, events); err != nil {
		r.unmoveLocked(s, n, old, newChain, holdsParent, events)
		return err
	}

	if holdsParent && old != nil {
		r.releaseLocked(chain, len(chain)-2, events)
	}

	if n.flags.Has(AlwaysEnabled) {
		n.pinned = true
	}

	from := ""
	if old != nil {
		from = old.name
	}

	*events = append(*events, HookCtx{
		Pos:    HookPosReparent,
		Item:   n,
		Detail: Reparent{From: from, To: parent.name},
	})

	return nil
}

// link moves n under parent. A nil parent makes n a root.
func (r *Registry) link(n, parent *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.parent != nil {
		n.parent.removeChild(n)
	}

	n.parent = parent
	n.parentName = ""

	if parent != nil {
		n.parentName = parent.name
		parent.addChild(n)
	}
}

// resyncLocked recalculates n and its descendants after a move.
func (r *Registry) resyncLocked(s *lockSet, n *Node, events *[]HookCtx) error {
	if n.ops.recalc == nil {
		return nil
	}

	if err := r.recalcLocked(n, events); err != nil {
		return err
	}

	return r.propagateLocked(s, n, events)
}

// unmoveLocked routes n back to old after a failed move and releases the
// reference taken on the new parent chain. Failures are logged, since the
// error of the move is already on its way to the caller.
func (r *Registry) unmoveLocked(
	s *lockSet,
	n, old *Node,
	newChain []*Node,
	holdsParent bool,
	events *[]HookCtx,
) {
	if old != nil {
		if err := n.ops.setParent.SetParent(old.name); err != nil {
			log.Printf("clock %s: routing back to %s: %v", n.name, old.name, err)
		}
	}

	r.link(n, old)

	if err := r.resyncLocked(s, n, events); err != nil {
		log.Printf("clock %s: recalculating after a failed move: %v", n.name, err)
	}

	if holdsParent {
		r.releaseLocked(newChain, len(newChain)-1, events)
	}
}

// Observe routes the clock to its observation pin and returns the pin
// divisor.
func (r *Registry) Observe(n *Node) (uint32, error) {
	if err := r.lockNode(n); err != nil {
		return 0, err
	}
	defer n.mu.Unlock()

	if n.ops.observe == nil {
		return 0, unsupported(n, "observe")
	}

	div, err := n.ops.observe.Observe()
	if err != nil {
		return 0, hwErr(n, "observe", err)
	}

	return div, nil
}

// Measure measures the clock with its hardware counter. The cached rate is
// not updated.
func (r *Registry) Measure(n *Node) (Freq, error) {
	if err := r.lockNode(n); err != nil {
		return 0, err
	}
	defer n.mu.Unlock()

	if n.ops.measure == nil {
		return 0, unsupported(n, "get_measure")
	}

	rate, err := n.ops.measure.Measure()
	if err != nil {
		return 0, hwErr(n, "get_measure", err)
	}

	return rate, nil
}
