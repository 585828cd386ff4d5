package scapegoat

// Iterator walks a Tree in key order by following parent links.
// The typical use is:
//
//	it := tree.NewIterator()
//	for it.Next() {
//		rec := it.Record()
//		// ...
//	}
//
// Iterator คือโครงสร้างที่ใช้สำหรับวนลูปผ่านข้อมูลในต้นไม้ตามลำดับ key
//
// An iterator is invalidated by any Insert that creates a node, since a
// rebuild may relink the nodes around its position.
type Iterator struct {
	t       *Tree
	current Handle // none before the first element and after exhaustion
	started bool
}

// NewIterator creates an iterator positioned before the first element.
// A call to Next() is required to advance to the first element.
// NewIterator สร้าง Iterator ที่ชี้ไปยังตำแหน่งก่อนรายการแรก ต้องเรียก Next() ก่อนใช้งาน
func (t *Tree) NewIterator() *Iterator {
	return &Iterator{t: t, current: none}
}

// Next moves to the next element and reports whether one exists.
// Next เลื่อนไปยังรายการถัดไป และคืนค่า true หากสำเร็จ
func (it *Iterator) Next() bool {
	if !it.started {
		return it.First()
	}
	if it.current == none {
		return false
	}
	it.current = it.t.successor(it.current)
	return it.current != none
}

// Prev moves to the previous element and reports whether one exists.
// To begin reverse iteration, position the iterator with Last().
// Prev เลื่อนไปยังรายการก่อนหน้า หากต้องการวนย้อนกลับให้เรียก Last() ก่อน
func (it *Iterator) Prev() bool {
	if it.current == none {
		it.started = true
		return false
	}
	it.current = it.t.predecessor(it.current)
	return it.current != none
}

// First moves to the smallest key. It returns false on an empty tree.
func (it *Iterator) First() bool {
	it.started = true
	it.current = none
	if it.t.root != none {
		it.current = it.t.leftmost(it.t.root)
	}
	return it.current != none
}

// Last moves to the largest key. It returns false on an empty tree.
func (it *Iterator) Last() bool {
	it.started = true
	it.current = none
	if it.t.root != none {
		it.current = it.t.rightmost(it.t.root)
	}
	return it.current != none
}

// Reset moves the iterator back to its initial state, before the first element.
func (it *Iterator) Reset() {
	it.started = false
	it.current = none
}

// Key returns the key at the current position.
// It should only be called after a move has returned true.
func (it *Iterator) Key() string {
	return it.t.arena.at(it.current).key
}

// Record returns the ban record at the current position.
// It should only be called after a move has returned true.
func (it *Iterator) Record() BanRecord {
	return it.t.Record(it.current)
}

// Handle returns the handle at the current position.
func (it *Iterator) Handle() Handle {
	return it.current
}

// Clone creates an independent copy of the iterator at its current position.
func (it *Iterator) Clone() *Iterator {
	c := *it
	return &c
}

// successor returns the in-order successor of h, or none.
func (t *Tree) successor(h Handle) Handle {
	if r := t.arena.at(h).right; r != none {
		return t.leftmost(r)
	}
	for p := t.arena.at(h).parent; p != none; p = t.arena.at(h).parent {
		if t.arena.at(p).left == h {
			return p
		}
		h = p
	}
	return none
}

// predecessor returns the in-order predecessor of h, or none.
func (t *Tree) predecessor(h Handle) Handle {
	if l := t.arena.at(h).left; l != none {
		return t.rightmost(l)
	}
	for p := t.arena.at(h).parent; p != none; p = t.arena.at(h).parent {
		if t.arena.at(p).right == h {
			return p
		}
		h = p
	}
	return none
}
