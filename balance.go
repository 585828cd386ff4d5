package scapegoat

import "math"

// alphaHeight returns floor(log_{1/alpha}(n)), the deepest a node may sit in
// an alpha-height-balanced tree holding n nodes.
// alphaHeight คำนวณความลึกสูงสุดที่ยอมรับได้ของต้นไม้ที่มี n โหนด
func (t *Tree) alphaHeight(n int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Floor(math.Log(float64(n)) / t.logInvAlpha))
}

// subtreeSize counts the nodes under h (inclusive) with an iterative
// in-order walk. Sizes are not cached on the nodes.
func (t *Tree) subtreeSize(h Handle) int {
	size := 0
	stack := t.scratch[:0]
	for len(stack) > 0 || h != none {
		for h != none {
			stack = append(stack, h)
			h = t.arena.at(h).left
		}
		h = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++
		h = t.arena.at(h).right
	}
	t.scratch = stack[:0]
	return size
}

// findScapegoat walks up from a freshly inserted node and returns the first
// ancestor whose height above the insertion point exceeds the alpha bound
// for its own subtree size. The root is returned when no ancestor qualifies.
// findScapegoat เดินขึ้นจากโหนดที่เพิ่งเพิ่มเพื่อหา "แพะรับบาป" ตัวแรก
// ที่ความสูงเกินขอบเขต alpha ของขนาด subtree ของมันเอง
func (t *Tree) findScapegoat(inserted Handle) Handle {
	height := 0
	current := inserted
	for {
		parent := t.arena.at(current).parent
		if parent == none {
			if current != t.root {
				panic("scapegoat: detached node found while searching for a scapegoat")
			}
			return current
		}
		height++
		if height > t.alphaHeight(t.subtreeSize(parent)) {
			return parent
		}
		current = parent
	}
}

// depth returns the number of edges between h and the root.
func (t *Tree) depth(h Handle) int {
	d := 0
	for p := t.arena.at(h).parent; p != none; p = t.arena.at(p).parent {
		d++
	}
	return d
}

// height returns the number of edges on the longest downward path from h,
// or -1 when h is none.
func (t *Tree) height(h Handle) int {
	if h == none {
		return -1
	}
	type frame struct {
		h     Handle
		depth int
	}
	deepest := 0
	stack := []frame{{h, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		deepest = max(deepest, f.depth)
		n := t.arena.at(f.h)
		if n.left != none {
			stack = append(stack, frame{n.left, f.depth + 1})
		}
		if n.right != none {
			stack = append(stack, frame{n.right, f.depth + 1})
		}
	}
	return deepest
}
