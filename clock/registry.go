// Package clock manages a tree of clocks: registration, the parent/child
// hierarchy, reference counted enable and disable, rate propagation and
// alias names.
package clock

import (
	"fmt"
	"log"
	"sync"
)

// Registry owns a forest of clocks. Create one per system and pass it to every
// piece of code that needs clocks.
type Registry struct {
	HookableBase

	mu sync.RWMutex

	nodes      []*Node
	byName     map[string]*Node
	aliases    map[string]*Node
	aliasOrder []string
	reserved   map[string]bool
	nextSeq    int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*Node),
		aliases:  make(map[string]*Node),
		reserved: make(map[string]bool),
	}
}

func (r *Registry) fire(events []HookCtx) {
	for _, ctx := range events {
		ctx.Domain = r
		r.InvokeHook(ctx)
	}
}

func validate(n *Node) error {
	switch {
	case n.name == "":
		return fmt.Errorf("clock without name: %w", ErrInvalidOps)
	case n.flags.Has(RatePropagates) && n.ops.recalc == nil:
		return fmt.Errorf("clock %s propagates rate without recalc: %w",
			n.name, ErrInvalidOps)
	case n.ops.setRate != nil && n.ops.recalc == nil:
		return fmt.Errorf("clock %s sets rate without recalc: %w",
			n.name, ErrInvalidOps)
	case (n.ops.enable == nil) != (n.ops.disable == nil):
		return fmt.Errorf("clock %s must support both enable and disable: %w",
			n.name, ErrInvalidOps)
	}

	return nil
}

// Register adds a clock to the registry. A clock that names a parent is
// linked to it; the parent must already be registered. The initial rate comes
// from the init operation, from recalc, or from the builder rate, in that
// order. The name is reserved while the hardware is set up, so the registry
// stays open to other edits in the meantime.
func (r *Registry) Register(n *Node) error {
	if n == nil {
		return fmt.Errorf("nil clock: %w", ErrInvalidOps)
	}

	if err := validate(n); err != nil {
		return err
	}

	parent, err := r.reserve(n)
	if err != nil {
		return err
	}

	events, err := r.attach(n, parent)
	if err != nil {
		r.mu.Lock()
		delete(r.reserved, n.name)
		r.mu.Unlock()

		return err
	}

	r.fire(events)

	return nil
}

func (r *Registry) attach(n, parent *Node) ([]HookCtx, error) {
	s := &lockSet{}
	chain := []*Node{}

	if parent != nil {
		var err error

		s, chain, err = r.lockChain(parent)
		if err != nil {
			return nil, fmt.Errorf("clock %s: parent %s: %w",
				n.name, parent.name, ErrParentNotFound)
		}
	}

	s.lock(n)
	defer s.unlock()

	return r.registerLocked(n, parent, chain)
}

// reserve claims the name of n and resolves its parent.
func (r *Registry) reserve(n *Node) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.reg != nil {
		return nil, fmt.Errorf("clock %s already registered: %w",
			n.name, ErrDuplicateName)
	}

	parent, err := r.resolveNewNode(n)
	if err != nil {
		return nil, err
	}

	r.reserved[n.name] = true

	return parent, nil
}

func (r *Registry) resolveNewNode(n *Node) (*Node, error) {
	if r.nameTaken(n.name) {
		return nil, fmt.Errorf("clock %s: %w", n.name, ErrDuplicateName)
	}

	if n.parentName == "" {
		return nil, nil
	}

	parent, ok := r.byName[n.parentName]
	if !ok {
		parent, ok = r.aliases[n.parentName]
	}

	if !ok {
		return nil, fmt.Errorf("clock %s: parent %s: %w",
			n.name, n.parentName, ErrParentNotFound)
	}

	return parent, nil
}

func (r *Registry) nameTaken(name string) bool {
	_, isNode := r.byName[name]
	_, isAlias := r.aliases[name]

	return isNode || isAlias || r.reserved[name]
}

func (r *Registry) registerLocked(
	n *Node,
	parent *Node,
	chain []*Node,
) ([]HookCtx, error) {
	events := []HookCtx{}

	var parentRate Freq
	if parent != nil {
		parentRate = parent.rate
	}

	rate, err := initialRate(n, parentRate)
	if err != nil {
		return nil, err
	}

	pinned := false

	if n.flags.Has(AlwaysEnabled) {
		if parent != nil {
			err = r.enableLocked(chain, len(chain)-1, &events)
			if err != nil {
				return nil, err
			}

			pinned = true
		}

		if n.ops.enable != nil {
			err = n.ops.enable.Enable()
			if err != nil {
				if pinned {
					r.releaseLocked(chain, len(chain)-1, &events)
				}

				return nil, hwErr(n, "enable", err)
			}
		}
	}

	r.mu.Lock()
	n.rate = rate
	n.pinned = pinned
	n.seq = r.nextSeq
	r.nextSeq++
	n.reg = r
	n.parent = parent
	n.children = nil

	if parent != nil {
		parent.addChild(n)
	}

	r.nodes = append(r.nodes, n)
	r.byName[n.name] = n
	delete(r.reserved, n.name)
	r.mu.Unlock()

	events = append(events, HookCtx{Pos: HookPosRegister, Item: n})
	if n.flags.Has(AlwaysEnabled) {
		events = append(events, HookCtx{Pos: HookPosEnable, Item: n})
	}

	return events, nil
}

func initialRate(n *Node, parentRate Freq) (Freq, error) {
	switch {
	case n.ops.init != nil:
		rate, err := n.ops.init.Init(parentRate)
		if err != nil {
			return 0, hwErr(n, "init", err)
		}

		return rate, nil
	case n.ops.recalc != nil:
		rate, err := n.ops.recalc.Recalc(parentRate)
		if err != nil {
			return 0, hwErr(n, "recalc", err)
		}

		return rate, nil
	default:
		return n.initRate, nil
	}
}

// Unregister removes a clock from the registry together with all the aliases
// that point to it. The clock must have no children and no active users.
func (r *Registry) Unregister(n *Node) error {
	s, chain, err := r.lockChain(n)
	if err != nil {
		return err
	}

	events, err := r.unregisterLocked(n, chain)
	s.unlock()

	if err != nil {
		return err
	}

	r.fire(events)

	return nil
}

func (r *Registry) unregisterLocked(n *Node, chain []*Node) ([]HookCtx, error) {
	if len(n.children) > 0 {
		return nil, fmt.Errorf("clock %s has %d children: %w",
			n.name, len(n.children), ErrHasChildren)
	}

	if n.usage > 0 {
		return nil, fmt.Errorf("clock %s has %d users: %w",
			n.name, n.usage, ErrInUse)
	}

	events := []HookCtx{}

	if n.pinned {
		r.releaseLocked(chain, len(chain)-2, &events)
	}

	r.mu.Lock()
	if n.parent != nil {
		n.parent.removeChild(n)
	}

	n.parent = nil
	n.pinned = false
	n.reg = nil

	for i, c := range r.nodes {
		if c == n {
			r.nodes = append(r.nodes[:i], r.nodes[i+1:]...)
			break
		}
	}

	delete(r.byName, n.name)
	r.dropAliasesOf(n)
	r.mu.Unlock()

	events = append(events, HookCtx{Pos: HookPosUnregister, Item: n})

	return events, nil
}

func (r *Registry) dropAliasesOf(n *Node) {
	kept := r.aliasOrder[:0]

	for _, alias := range r.aliasOrder {
		if r.aliases[alias] == n {
			delete(r.aliases, alias)
			continue
		}

		kept = append(kept, alias)
	}

	r.aliasOrder = kept
}

// releaseLocked drops the reference a clock holds on chain[i] and logs a
// failure, since the caller has no way to undo it.
func (r *Registry) releaseLocked(chain []*Node, i int, events *[]HookCtx) {
	if i < 0 {
		return
	}

	err := r.disableLocked(chain, i, events)
	if err != nil {
		log.Printf("clock %s: releasing parent reference: %v",
			chain[i].name, err)
	}
}

// Lookup finds a clock by name or alias.
func (r *Registry) Lookup(name string) (*Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n, ok := r.byName[name]; ok {
		return n, nil
	}

	if n, ok := r.aliases[name]; ok {
		return n, nil
	}

	return nil, fmt.Errorf("clock %s: %w", name, ErrNotFound)
}

// MustLookup finds a clock by name or alias and panics if it does not exist.
func (r *Registry) MustLookup(name string) *Node {
	n, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}

	return n
}

// Len returns the number of registered clocks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.nodes)
}

// Nodes returns the registered clocks in registration order.
func (r *Registry) Nodes() []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]*Node, len(r.nodes))
	copy(nodes, r.nodes)

	return nodes
}

// ForEach visits the registered clocks in registration order until visit
// returns false. The visitor works on a copy of the clock list, so clocks
// registered during the walk are not visited.
func (r *Registry) ForEach(visit func(n *Node) bool) {
	for _, n := range r.Nodes() {
		if !visit(n) {
			return
		}
	}
}

// ForEachChild visits the children of n in registration order until visit
// returns false.
func (r *Registry) ForEachChild(n *Node, visit func(child *Node) bool) error {
	if err := r.lockNode(n); err != nil {
		return err
	}

	children := make([]*Node, len(n.children))
	copy(children, n.children)
	n.mu.Unlock()

	for _, c := range children {
		if !visit(c) {
			return nil
		}
	}

	return nil
}

// AddAlias makes alias resolve to the clock named target. Target may itself
// be an alias.
func (r *Registry) AddAlias(alias, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byName[target]
	if !ok {
		n, ok = r.aliases[target]
	}

	if !ok {
		return fmt.Errorf("alias %s: target %s: %w", alias, target, ErrNotFound)
	}

	if alias == "" || r.nameTaken(alias) {
		return fmt.Errorf("alias %s: %w", alias, ErrDuplicateName)
	}

	r.aliases[alias] = n
	r.aliasOrder = append(r.aliasOrder, alias)

	return nil
}

// Aliases returns the aliases of n in creation order.
func (r *Registry) Aliases(n *Node) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.aliasesOfLocked(n)
}

func (r *Registry) aliasesOfLocked(n *Node) []string {
	aliases := []string{}

	for _, alias := range r.aliasOrder {
		if r.aliases[alias] == n {
			aliases = append(aliases, alias)
		}
	}

	return aliases
}
