package clock

import "sync"

// Node is one clock signal of the tree. Nodes are created with a Builder and
// belong to at most one Registry.
type Node struct {
	mu sync.Mutex

	name       string
	parentName string
	nominal    Freq
	initRate   Freq
	flags      Flag
	ops        ops

	// Guarded by the registry structure lock and the node lock; either one
	// is enough to read.
	reg      *Registry
	parent   *Node
	children []*Node
	seq      int

	// Guarded by the node lock.
	rate   Freq
	usage  int
	pinned bool
}

// Name returns the name of the clock.
func (n *Node) Name() string {
	return n.name
}

// NominalRate returns the design-time rate of the clock.
func (n *Node) NominalRate() Freq {
	return n.nominal
}

// Flags returns the flags of the clock.
func (n *Node) Flags() Flag {
	return n.flags
}

// Capabilities returns the operations the clock supports.
func (n *Node) Capabilities() Capability {
	return n.ops.caps
}

// Rate returns the current rate of the clock.
func (n *Node) Rate() Freq {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.rate
}

// UsageCount returns the number of active users of the clock.
func (n *Node) UsageCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.usage
}

// IsEnabled returns true if the clock hardware is running.
func (n *Node) IsEnabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.enabledLocked()
}

func (n *Node) enabledLocked() bool {
	if n.flags.Has(AlwaysEnabled) {
		return n.reg != nil
	}

	return n.usage > 0
}

// Parent returns the parent of the clock, or nil for a root clock.
func (n *Node) Parent() *Node {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.parent
}

// Children returns the children of the clock in registration order.
func (n *Node) Children() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()

	children := make([]*Node, len(n.children))
	copy(children, n.children)

	return children
}

// IsRegistered returns true if the clock belongs to a registry.
func (n *Node) IsRegistered() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.reg != nil
}

func (n *Node) parentRateLocked() Freq {
	if n.parent == nil {
		return 0
	}

	return n.parent.rate
}

func (n *Node) addChild(c *Node) {
	i := len(n.children)
	for i > 0 && n.children[i-1].seq > c.seq {
		i--
	}

	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
}

func (n *Node) removeChild(c *Node) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) hasChild(c *Node) bool {
	for _, child := range n.children {
		if child == c {
			return true
		}
	}

	return false
}
