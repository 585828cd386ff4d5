package scapegoat

// arena is the append-only node store backing a Tree.
// Nodes are addressed by Handle and are never freed or compacted, so every
// handle in [0, len) always refers to a populated node.
// arena คือที่เก็บโหนดแบบเพิ่มต่อท้ายอย่างเดียว โหนดจะไม่ถูกลบหรือย้ายที่
type arena struct {
	nodes []node
}

// newArena creates an arena with room for capacity nodes before it has to grow.
func newArena(capacity int) *arena {
	if capacity < 0 {
		capacity = 0
	}
	return &arena{nodes: make([]node, 0, capacity)}
}

// alloc appends a detached node seeded with a single ban and returns its handle.
func (a *arena) alloc(key string, server uint16, date uint32) Handle {
	a.nodes = append(a.nodes, node{
		key:     key,
		servers: []uint16{server},
		lastBan: date,
		left:    none,
		right:   none,
		parent:  none,
	})
	return Handle(len(a.nodes) - 1)
}

// at returns the node behind h.
// A handle outside the arena means a tree invariant is broken; it panics.
func (a *arena) at(h Handle) *node {
	if h < 0 || int(h) >= len(a.nodes) {
		panic("scapegoat: handle out of range")
	}
	return &a.nodes[h]
}

// size reports how many nodes have been allocated.
func (a *arena) size() int {
	return len(a.nodes)
}

// capacity reports how many nodes fit before the backing slice grows.
func (a *arena) capacity() int {
	return cap(a.nodes)
}
