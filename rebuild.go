package scapegoat

// flatten appends the handles of the subtree rooted at h to buf in ascending
// key order and returns the extended slice. The tree is not modified.
func (t *Tree) flatten(h Handle, buf []Handle) []Handle {
	stack := t.scratch[:0]
	for len(stack) > 0 || h != none {
		for h != none {
			stack = append(stack, h)
			h = t.arena.at(h).left
		}
		h = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		buf = append(buf, h)
		h = t.arena.at(h).right
	}
	t.scratch = stack[:0]
	return buf
}

// buildBalanced links the sorted handles in seq into a minimum-height
// subtree and returns its root, or none for an empty sequence.
// The middle element (upper middle for even lengths) becomes the root.
// The returned root's parent link is left for the caller to set.
// buildBalanced สร้าง subtree ที่สมดุลที่สุดจากลำดับ handle ที่เรียงแล้ว
func (t *Tree) buildBalanced(seq []Handle) Handle {
	if len(seq) == 0 {
		return none
	}
	mid := len(seq) / 2
	root := seq[mid]

	left := t.buildBalanced(seq[:mid])
	right := t.buildBalanced(seq[mid+1:])

	n := t.arena.at(root)
	n.left, n.right = left, right
	if left != none {
		t.arena.at(left).parent = root
	}
	if right != none {
		t.arena.at(right).parent = root
	}
	return root
}

// rebuild replaces the subtree rooted at scapegoat with a perfectly balanced
// subtree over the same nodes and splices it back in place.
func (t *Tree) rebuild(scapegoat Handle) {
	// The parent must be captured before the subtree is relinked.
	parent := t.arena.at(scapegoat).parent

	t.flat = t.flatten(scapegoat, t.flat[:0])
	nodes := len(t.flat)
	top := t.buildBalanced(t.flat)
	t.arena.at(top).parent = parent

	if parent == none {
		t.root = top
	} else {
		p := t.arena.at(parent)
		if t.arena.at(top).key < p.key {
			p.left = top
		} else {
			p.right = top
		}
	}

	t.rebuilds++
	t.rebuiltNodes += nodes
	if t.observer != nil {
		t.observer.Rebuilt(nodes, t.depth(top))
	}
	if t.logger != nil {
		t.logger.Debug("rebuilt subtree",
			"scapegoat", t.arena.at(scapegoat).key,
			"new_root", t.arena.at(top).key,
			"nodes", nodes,
		)
	}
}
