package clock

import "fmt"

// Enable adds a user to the clock. The first user switches the parent chain
// on, top-down, before the clock itself.
func (r *Registry) Enable(n *Node) error {
	s, chain, err := r.lockChain(n)
	if err != nil {
		return err
	}

	events := []HookCtx{}
	err = r.enableLocked(chain, len(chain)-1, &events)
	s.unlock()

	r.fire(events)

	return err
}

func (r *Registry) enableLocked(chain []*Node, i int, events *[]HookCtx) error {
	n := chain[i]

	if n.flags.Has(AlwaysEnabled) {
		return nil
	}

	if n.ops.enable == nil {
		return unsupported(n, "enable")
	}

	if n.usage == 0 {
		if i > 0 {
			if err := r.enableLocked(chain, i-1, events); err != nil {
				return err
			}
		}

		if err := n.ops.enable.Enable(); err != nil {
			if i > 0 {
				r.releaseLocked(chain, i-1, events)
			}

			return hwErr(n, "enable", err)
		}

		*events = append(*events, HookCtx{Pos: HookPosEnable, Item: n})
	}

	n.usage++

	return nil
}

// Disable removes a user from the clock. The last user switches the clock off
// and then releases the parent, bottom-up. Only the clock's own disable op can
// fail the call; a parent that fails to switch off is logged and keeps its
// reference.
func (r *Registry) Disable(n *Node) error {
	s, chain, err := r.lockChain(n)
	if err != nil {
		return err
	}

	events := []HookCtx{}
	err = r.disableLocked(chain, len(chain)-1, &events)
	s.unlock()

	r.fire(events)

	return err
}

func (r *Registry) disableLocked(chain []*Node, i int, events *[]HookCtx) error {
	n := chain[i]

	if n.flags.Has(AlwaysEnabled) {
		return nil
	}

	if n.usage == 0 {
		return fmt.Errorf("clock %s: %w", n.name, ErrNotEnabled)
	}

	if n.usage == 1 {
		if err := n.ops.disable.Disable(); err != nil {
			return hwErr(n, "disable", err)
		}

		*events = append(*events, HookCtx{Pos: HookPosDisable, Item: n})
	}

	n.usage--

	if n.usage == 0 {
		r.releaseLocked(chain, i-1, events)
	}

	return nil
}
