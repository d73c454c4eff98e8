package tld

// node is a compressed trie node. Every node stores the rune run shared by
// all keys below it; children are keyed by the first rune of their run.
type node struct {
	children map[rune]*node
	prefix   []rune
	order    []rune // child keys in insertion order
	terminal bool
}

func newNode(prefix []rune) *node {
	return &node{prefix: prefix}
}

func (n *node) child(r rune) *node {
	if n.children == nil {
		return nil
	}
	return n.children[r]
}

func (n *node) addChild(c *node) {
	if n.children == nil {
		n.children = make(map[rune]*node)
	}
	if _, exists := n.children[c.prefix[0]]; !exists {
		n.order = append(n.order, c.prefix[0])
	}
	n.children[c.prefix[0]] = c
}

// insert adds key below n. It returns false if the key was already present.
func (n *node) insert(key []rune) bool {
	cur := n
	for {
		if len(key) == 0 {
			added := !cur.terminal
			cur.terminal = true
			return added
		}

		next := cur.child(key[0])
		if next == nil {
			leaf := newNode(append([]rune(nil), key...))
			leaf.terminal = true
			cur.addChild(leaf)
			return true
		}

		common := commonPrefix(next.prefix, key)
		if common < len(next.prefix) {
			// Split next: the shared part becomes a new inner node.
			split := newNode(append([]rune(nil), next.prefix[:common]...))
			next.prefix = next.prefix[common:]
			split.addChild(next)
			cur.children[split.prefix[0]] = split
			next = split
		}

		cur = next
		key = key[common:]
	}
}

// lookup reports whether key is stored as a complete key.
func (n *node) lookup(key []rune) bool {
	cur := n
	for len(key) > 0 {
		next := cur.child(key[0])
		if next == nil || len(key) < len(next.prefix) {
			return false
		}
		for i, r := range next.prefix {
			if key[i] != r {
				return false
			}
		}
		key = key[len(next.prefix):]
		cur = next
	}
	return cur.terminal
}

// longestPrefix returns the length in runes of the longest stored key that is
// a prefix of key, or 0.
func (n *node) longestPrefix(key []rune) int {
	best := 0
	consumed := 0
	cur := n
	for consumed < len(key) {
		next := cur.child(key[consumed])
		if next == nil || len(key)-consumed < len(next.prefix) {
			break
		}
		match := true
		for i, r := range next.prefix {
			if key[consumed+i] != r {
				match = false
				break
			}
		}
		if !match {
			break
		}
		consumed += len(next.prefix)
		cur = next
		if cur.terminal {
			best = consumed
		}
	}
	return best
}

// walk visits every stored key in child insertion order.
func (n *node) walk(path []rune, visit func(string)) {
	path = append(path, n.prefix...)
	if n.terminal {
		visit(string(path))
	}
	for _, r := range n.order {
		n.children[r].walk(path, visit)
	}
}

func commonPrefix(a, b []rune) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}
