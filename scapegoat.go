// Package scapegoat implements a scapegoat tree that indexes ban records by
// user key. A scapegoat tree is a binary search tree that keeps itself
// alpha-height-balanced without per-node bookkeeping: when an insertion lands
// too deep, the subtree rooted at the offending ancestor (the scapegoat) is
// flattened and rebuilt perfectly balanced. Insertion is amortized O(log n).
//
// Nodes live in an append-only arena and are addressed by stable handles.
// A Tree is not safe for concurrent use.
package scapegoat

import (
	"log/slog"
	"math"
)

// DefaultAlpha is the balance factor used when none is configured.
// Smaller values give shallower trees at the cost of more frequent rebuilds.
// DefaultAlpha คือค่า alpha เริ่มต้น ค่าที่น้อยลงทำให้ต้นไม้ตื้นขึ้นแต่ต้อง rebuild บ่อยขึ้น
const DefaultAlpha = 2.0 / 3.0

// Observer receives structural events from a Tree. Calls are synchronous and
// made from inside Insert, so implementations should be cheap.
type Observer interface {
	// Inserted is called after a new node is linked, with its depth at
	// insertion time and the tree size including it.
	Inserted(depth, size int)
	// Merged is called when an insert hits an existing key.
	Merged()
	// Rebuilt is called after a scapegoat subtree is rebuilt, with the number
	// of nodes relinked and the depth of the rebuilt subtree's root.
	Rebuilt(nodes, depth int)
}

// Tree is a scapegoat tree of ban records keyed by string.
// The zero value is not ready to use; create trees with New.
// Tree คือโครงสร้างหลักของ scapegoat tree
// ค่า zero value ยังไม่พร้อมใช้งาน ต้องสร้างผ่าน New เท่านั้น
type Tree struct {
	root         Handle
	arena        *arena
	alpha        float64
	logInvAlpha  float64 // log(1/alpha), cached for alphaHeight
	capacity     int
	rebuilds     int
	rebuiltNodes int
	scratch      []Handle // traversal stack reused across walks
	flat         []Handle // flatten output reused across rebuilds
	observer     Observer
	logger       *slog.Logger
}

// Option configures a Tree.
// Option คือฟังก์ชันสำหรับกำหนดค่าของ Tree
type Option func(*Tree)

// WithAlpha sets the balance factor. Values outside the open interval
// (0.5, 1) are ignored and the default is kept.
// WithAlpha กำหนดค่า alpha ค่าที่อยู่นอกช่วง (0.5, 1) จะถูกละเว้น
func WithAlpha(alpha float64) Option {
	return func(t *Tree) {
		if alpha > 0.5 && alpha < 1 {
			t.alpha = alpha
		}
	}
}

// WithCapacity pre-sizes the node arena for n keys.
// WithCapacity จองพื้นที่ใน arena ล่วงหน้าสำหรับ n โหนด
func WithCapacity(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithObserver registers an Observer for insert, merge and rebuild events.
func WithObserver(o Observer) Option {
	return func(t *Tree) {
		t.observer = o
	}
}

// WithLogger enables debug logging of rebuilds.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = l
	}
}

// New creates an empty tree.
// New สร้างต้นไม้ว่างใหม่
func New(opts ...Option) *Tree {
	t := &Tree{
		root:  none,
		alpha: DefaultAlpha,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	t.logInvAlpha = math.Log(1 / t.alpha)
	t.arena = newArena(t.capacity)
	return t
}

// Insert records that server banned key on date.
// It returns true when key was new and a node was created, and false when an
// existing record was merged: the ban date is raised to the latest seen and
// the server is added to the record unless it is already there.
// Insert บันทึกว่า server แบน key ในวันที่ date
// คืนค่า true หากเป็น key ใหม่ และ false หากรวมเข้ากับข้อมูลเดิม
func (t *Tree) Insert(key string, server uint16, date uint32) bool {
	if t.root == none {
		t.root = t.arena.alloc(key, server, date)
		t.inserted(0)
		return true
	}

	current := t.root
	depth := 0
	for {
		n := t.arena.at(current)
		var next Handle
		switch {
		case key < n.key:
			next = n.left
		case key > n.key:
			next = n.right
		default:
			n.merge(server, date)
			if t.observer != nil {
				t.observer.Merged()
			}
			return false
		}
		depth++
		if next == none {
			child := t.attach(current, key, server, date)
			t.inserted(depth)
			if depth > t.alphaHeight(t.arena.size()) {
				t.rebuild(t.findScapegoat(child))
			}
			return true
		}
		current = next
	}
}

// attach allocates a node for key and links it under parent on the side
// given by key order.
func (t *Tree) attach(parent Handle, key string, server uint16, date uint32) Handle {
	child := t.arena.alloc(key, server, date)
	// alloc may have grown the arena; fetch parent again.
	p := t.arena.at(parent)
	if key < p.key {
		p.left = child
	} else {
		p.right = child
	}
	t.arena.at(child).parent = parent
	return child
}

func (t *Tree) inserted(depth int) {
	if t.observer != nil {
		t.observer.Inserted(depth, t.arena.size())
	}
}

// Search finds the node holding key.
// It returns the node's handle and true if found, otherwise false.
// Search ค้นหาโหนดของ key ที่กำหนด คืนค่า handle และ true หากพบ
func (t *Tree) Search(key string) (Handle, bool) {
	current := t.root
	for current != none {
		n := t.arena.at(current)
		switch {
		case key < n.key:
			current = n.left
		case key > n.key:
			current = n.right
		default:
			return current, true
		}
	}
	return none, false
}

// Record returns the ban record stored behind h.
// It panics if h did not come from this tree.
func (t *Tree) Record(h Handle) BanRecord {
	return t.arena.at(h).record()
}

// Lookup returns the ban record for key, if any.
// Lookup คืนค่าข้อมูลการแบนของ key และ true หากพบ
func (t *Tree) Lookup(key string) (BanRecord, bool) {
	h, ok := t.Search(key)
	if !ok {
		return BanRecord{}, false
	}
	return t.Record(h), true
}

// Len returns the number of distinct keys in the tree.
// Len คืนค่าจำนวน key ทั้งหมดในต้นไม้
func (t *Tree) Len() int {
	return t.arena.size()
}

// Alpha returns the balance factor the tree was built with.
func (t *Tree) Alpha() float64 {
	return t.alpha
}

// Height returns the number of edges on the longest root-to-leaf path,
// or -1 for an empty tree.
func (t *Tree) Height() int {
	return t.height(t.root)
}

// HeightBound returns floor(log_{1/alpha}(Len())), the height the tree is
// guaranteed not to exceed once an insertion has completed.
func (t *Tree) HeightBound() int {
	return t.alphaHeight(t.arena.size())
}

// Range calls f for every record in ascending key order.
// The iteration stops if f returns false.
// Range วนลูปไปตามข้อมูลทั้งหมดเรียงตาม key การวนลูปจะหยุดหาก f คืนค่า false
func (t *Tree) Range(f func(r BanRecord) bool) {
	var stack []Handle
	h := t.root
	for len(stack) > 0 || h != none {
		for h != none {
			stack = append(stack, h)
			h = t.arena.at(h).left
		}
		h = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.arena.at(h)
		if !f(n.record()) {
			return
		}
		h = n.right
	}
}

// Min returns the record with the smallest key.
// It returns false if the tree is empty.
func (t *Tree) Min() (BanRecord, bool) {
	if t.root == none {
		return BanRecord{}, false
	}
	return t.Record(t.leftmost(t.root)), true
}

// Max returns the record with the largest key.
// It returns false if the tree is empty.
func (t *Tree) Max() (BanRecord, bool) {
	if t.root == none {
		return BanRecord{}, false
	}
	return t.Record(t.rightmost(t.root)), true
}

func (t *Tree) leftmost(h Handle) Handle {
	for l := t.arena.at(h).left; l != none; l = t.arena.at(h).left {
		h = l
	}
	return h
}

func (t *Tree) rightmost(h Handle) Handle {
	for r := t.arena.at(h).right; r != none; r = t.arena.at(h).right {
		h = r
	}
	return h
}

// Stats is a snapshot of a tree's shape and rebuild history.
type Stats struct {
	Nodes        int
	Height       int
	HeightBound  int
	Rebuilds     int
	RebuiltNodes int // total nodes relinked across all rebuilds
	Alpha        float64
}

// Stats walks the tree and reports its current shape. It is O(n).
func (t *Tree) Stats() Stats {
	return Stats{
		Nodes:        t.arena.size(),
		Height:       t.Height(),
		HeightBound:  t.HeightBound(),
		Rebuilds:     t.rebuilds,
		RebuiltNodes: t.rebuiltNodes,
		Alpha:        t.alpha,
	}
}
