package trie

import "bytes"

// IterateWildcard visits every non-deleted terminal key matching pattern,
// a glob over `?` (any single byte), `*` (any byte sequence, including
// empty) and `\` escapes. Matching runs as a full-dictionary scan, the
// same linear approach the reference implementation uses for
// contains/suffix.
func (t *TrieMap) IterateWildcard(pattern []byte, fn VisitFunc) {
	t.IteratePrefix(nil, func(key []byte, value any) bool {
		if globMatch(pattern, key) {
			return fn(key, value)
		}

		return true
	})
}

// IterateContains visits every non-deleted terminal key containing sub
// as a substring.
func (t *TrieMap) IterateContains(sub []byte, fn VisitFunc) {
	t.IteratePrefix(nil, func(key []byte, value any) bool {
		if bytes.Contains(key, sub) {
			return fn(key, value)
		}

		return true
	})
}

// IterateSuffix visits every non-deleted terminal key ending in suffix.
func (t *TrieMap) IterateSuffix(suffix []byte, fn VisitFunc) {
	t.IteratePrefix(nil, func(key []byte, value any) bool {
		if bytes.HasSuffix(key, suffix) {
			return fn(key, value)
		}

		return true
	})
}

// globMatch reports whether s fully matches the glob pattern p.
func globMatch(p, s []byte) bool {
	for len(p) > 0 {
		switch p[0] {
		case '*':
			for len(p) > 0 && p[0] == '*' {
				p = p[1:]
			}
			if len(p) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if globMatch(p, s[i:]) {
					return true
				}
			}

			return false

		case '?':
			if len(s) == 0 {
				return false
			}
			p, s = p[1:], s[1:]

		case '\\':
			if len(p) > 1 {
				p = p[1:]
			}
			if len(s) == 0 || s[0] != p[0] {
				return false
			}
			p, s = p[1:], s[1:]

		default:
			if len(s) == 0 || s[0] != p[0] {
				return false
			}
			p, s = p[1:], s[1:]
		}
	}

	return len(s) == 0
}
