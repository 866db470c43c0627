package clock

// Lock order: node locks, then mu. Node locks are taken from the root of a
// tree toward its leaves, and a node is only waited for while its parent is
// held and still lists it as a child. Every goroutine that holds a node lock
// therefore also holds the lock of the root of that node's tree, except for
// the single node reads of Snapshot and the lone node locked by lockNode. A
// goroutine that holds mu never waits for a node lock.
//
// Links change only while the node, its old parent and its new parent are all
// locked, so a held chain cannot be rearranged under its holder.

type lockSet struct {
	nodes []*Node
}

func (s *lockSet) lock(n *Node) {
	n.mu.Lock()
	s.nodes = append(s.nodes, n)
}

func (s *lockSet) tryLock(n *Node) bool {
	if !n.mu.TryLock() {
		return false
	}

	s.nodes = append(s.nodes, n)

	return true
}

func (s *lockSet) holds(n *Node) bool {
	for _, m := range s.nodes {
		if m == n {
			return true
		}
	}

	return false
}

func (s *lockSet) unlock() {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		s.nodes[i].mu.Unlock()
	}

	s.nodes = nil
}

// chainOf returns n and its ancestors, root first.
func (r *Registry) chainOf(n *Node) ([]*Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n == nil || n.reg != r {
		return nil, notRegistered(n)
	}

	chain := []*Node{}
	for c := n; c != nil; c = c.parent {
		chain = append(chain, c)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain, nil
}

// lockPath locks the nodes of chain that s does not hold yet, root first. It
// returns false as soon as the chain turns out to be stale; the caller then
// releases s and starts over. A root is only waited for while s is empty;
// otherwise a busy root is returned so that the caller can wait for it with
// nothing held.
func (r *Registry) lockPath(s *lockSet, chain []*Node) (ok bool, busy *Node) {
	for i, c := range chain {
		held := s.holds(c)

		switch {
		case held:
		case i > 0:
			if !chain[i-1].hasChild(c) {
				return false, nil
			}

			s.lock(c)
		case len(s.nodes) == 0:
			s.lock(c)
		default:
			if !s.tryLock(c) {
				return false, c
			}
		}

		if c.reg != r {
			return false, nil
		}

		if i == 0 && c.parent != nil {
			return false, nil
		}

		if i > 0 && c.parent != chain[i-1] {
			return false, nil
		}
	}

	return true, nil
}

// lockChain locks n and all its ancestors, root first. The chain is rebuilt
// if a concurrent reparent changed it.
func (r *Registry) lockChain(n *Node) (*lockSet, []*Node, error) {
	for {
		chain, err := r.chainOf(n)
		if err != nil {
			return nil, nil, err
		}

		s := &lockSet{}
		if ok, _ := r.lockPath(s, chain); ok {
			return s, chain, nil
		}

		s.unlock()
	}
}

// lockForReparent locks the chains of n and of its new parent. The tree whose
// root registered first is locked first, so two reparents across the same
// pair of trees agree on the order.
func (r *Registry) lockForReparent(n, parent *Node) (
	s *lockSet,
	chain, newChain []*Node,
	err error,
) {
	for {
		chain, err = r.chainOf(n)
		if err != nil {
			return nil, nil, nil, err
		}

		newChain, err = r.chainOf(parent)
		if err != nil {
			return nil, nil, nil, err
		}

		first, second := chain, newChain
		if newChain[0].seq < chain[0].seq {
			first, second = newChain, chain
		}

		s = &lockSet{}

		ok, _ := r.lockPath(s, first)
		if ok {
			var busy *Node

			ok, busy = r.lockPath(s, second)
			if ok {
				return s, chain, newChain, nil
			}

			s.unlock()

			if busy != nil {
				busy.mu.Lock()
				busy.mu.Unlock() //nolint:staticcheck
			}

			continue
		}

		s.unlock()
	}
}

// lockNode locks a single registered node.
func (r *Registry) lockNode(n *Node) error {
	if n == nil {
		return notRegistered(n)
	}

	n.mu.Lock()

	if n.reg != r {
		n.mu.Unlock()
		return notRegistered(n)
	}

	return nil
}
