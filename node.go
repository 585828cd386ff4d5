package scapegoat

import "slices"

// Handle is a stable index into the tree's node arena.
// A handle is assigned when a key is first inserted and stays valid for the
// whole lifetime of the tree: rebuilds relink nodes, they never move them.
// Handle คือดัชนีที่คงที่ของโหนดใน arena ของต้นไม้
// จะถูกกำหนดเมื่อ key ถูกเพิ่มครั้งแรก และใช้ได้ตลอดอายุของต้นไม้
type Handle int

// none marks an absent link (no child, no parent, empty root).
const none Handle = -1

// node คือโหนดแต่ละตัวในต้นไม้ เก็บ key, รายชื่อเซิร์ฟเวอร์ที่แบน และวันที่แบนล่าสุด
type node struct {
	key     string
	servers []uint16 // set of banning servers, never holds duplicates
	lastBan uint32   // most recent ban date seen for this key
	left    Handle
	right   Handle
	parent  Handle
}

// merge folds another ban for the same key into the node.
// The date only moves forward and a server is recorded at most once.
func (n *node) merge(server uint16, date uint32) {
	n.lastBan = max(n.lastBan, date)
	if !slices.Contains(n.servers, server) {
		n.servers = append(n.servers, server)
	}
}

// BanRecord is the aggregate ban information stored for one key.
// BanRecord คือข้อมูลการแบนรวมของ key หนึ่งตัว
type BanRecord struct {
	Key      string
	Servers  []uint16 // copy; mutating it does not affect the tree
	BanCount int
	LastBan  uint32
}

func (n *node) record() BanRecord {
	return BanRecord{
		Key:      n.key,
		Servers:  slices.Clone(n.servers),
		BanCount: len(n.servers),
		LastBan:  n.lastBan,
	}
}
