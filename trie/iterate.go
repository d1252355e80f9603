package trie

import "bytes"

// VisitFunc is called once per matching (key, value) pair during
// iteration. Returning false stops the iteration early.
type VisitFunc func(key []byte, value any) bool

// IteratePrefix visits every non-deleted terminal key that starts with
// prefix, in ascending lexicographic order.
func (t *TrieMap) IteratePrefix(prefix []byte, fn VisitFunc) {
	if t.root == nil {
		return
	}
	iteratePrefix(t.root, prefix, nil, fn)
}

// iteratePrefix descends the single path matching prefix, then fans out
// into walkSubtree once prefix is fully consumed. Returns false once fn
// has asked to stop.
func iteratePrefix(n *node, remaining []byte, buf []byte, fn VisitFunc) bool {
	common := commonPrefixLen(n.edge, remaining)

	if len(remaining) <= len(n.edge) {
		if common < len(remaining) {
			return true
		}
		// remaining is a prefix of (or equal to) n.edge: everything
		// rooted at n qualifies.
		return walkSubtree(n, concatBytes(buf, n.edge), fn)
	}

	if common < len(n.edge) {
		return true
	}
	rest := remaining[len(n.edge):]
	idx, found := n.findChild(rest[0])
	if !found {
		return true
	}

	return iteratePrefix(n.children[idx], rest, concatBytes(buf, n.edge), fn)
}

func walkSubtree(n *node, key []byte, fn VisitFunc) bool {
	if n.terminal && !n.deleted {
		if !fn(key, n.value) {
			return false
		}
	}
	for _, c := range n.children {
		if !walkSubtree(c, concatBytes(key, c.edge), fn) {
			return false
		}
	}

	return true
}

// IterateRange visits every non-deleted terminal key k with min <= k <=
// max (inclusivity controlled by minIncl/maxIncl), in ascending order.
func (t *TrieMap) IterateRange(min, max []byte, minIncl, maxIncl bool, fn VisitFunc) {
	if t.root == nil {
		return
	}
	rangeWalk(t.root, nil, min, max, minIncl, maxIncl, fn)
}

func rangeWalk(n *node, prefix, min, max []byte, minIncl, maxIncl bool, fn VisitFunc) bool {
	full := concatBytes(prefix, n.edge)

	cmpMax := bytes.Compare(full, max)
	if cmpMax > 0 {
		// full, and everything under it, is strictly past max.
		return true
	}

	if n.terminal && !n.deleted {
		cmpMin := bytes.Compare(full, min)
		inLower := cmpMin > 0 || (cmpMin == 0 && minIncl)
		inUpper := cmpMax < 0 || (cmpMax == 0 && maxIncl)
		if inLower && inUpper {
			if !fn(full, n.value) {
				return false
			}
		}
	}

	if cmpMax == 0 {
		// Any descendant strictly extends full, putting it past max.
		return true
	}

	for _, c := range n.children {
		if !rangeWalk(c, full, min, max, minIncl, maxIncl, fn) {
			return false
		}
	}

	return true
}
