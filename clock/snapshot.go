package clock

// Info is a read-only copy of the state of a clock.
type Info struct {
	Name         string   `json:"name"`
	Parent       string   `json:"parent,omitempty"`
	Rate         Freq     `json:"rate"`
	NominalRate  Freq     `json:"nominal_rate"`
	UsageCount   int      `json:"usage_count"`
	Enabled      bool     `json:"enabled"`
	Flags        string   `json:"flags,omitempty"`
	Capabilities string   `json:"capabilities,omitempty"`
	Aliases      []string `json:"aliases,omitempty"`
	Children     []string `json:"children,omitempty"`
}

// Info returns the current state of the clock.
func (r *Registry) Info(n *Node) (Info, error) {
	r.mu.RLock()
	if n == nil || n.reg != r {
		r.mu.RUnlock()
		return Info{}, notRegistered(n)
	}

	aliases := r.aliasesOfLocked(n)
	r.mu.RUnlock()

	info := n.info()
	info.Aliases = aliases

	return info, nil
}

func (n *Node) info() Info {
	n.mu.Lock()
	defer n.mu.Unlock()

	info := Info{
		Name:         n.name,
		Rate:         n.rate,
		NominalRate:  n.nominal,
		UsageCount:   n.usage,
		Enabled:      n.enabledLocked(),
		Flags:        n.flags.String(),
		Capabilities: n.ops.caps.String(),
	}

	if n.parent != nil {
		info.Parent = n.parent.name
	}

	for _, c := range n.children {
		info.Children = append(info.Children, c.name)
	}

	return info
}

// Snapshot returns the state of all the clocks in registration order. It does
// not touch the hardware.
func (r *Registry) Snapshot() []Info {
	r.mu.RLock()
	nodes := make([]*Node, len(r.nodes))
	copy(nodes, r.nodes)

	aliases := make(map[*Node][]string)
	for _, alias := range r.aliasOrder {
		n := r.aliases[alias]
		aliases[n] = append(aliases[n], alias)
	}
	r.mu.RUnlock()

	infos := make([]Info, 0, len(nodes))
	for _, n := range nodes {
		info := n.info()
		info.Aliases = aliases[n]
		infos = append(infos, info)
	}

	return infos
}

// Depth returns the number of ancestors of the clock.
func (r *Registry) Depth(n *Node) (int, error) {
	chain, err := r.chainOf(n)
	if err != nil {
		return 0, err
	}

	return len(chain) - 1, nil
}
