// Package trie implements a radix tree mapping arbitrary byte-string keys
// (including the empty string) to values. Nodes are plain Go structs
// linked by pointers rather than the C TrieMap's inline-after-the-struct
// byte arena layout — idiomatic for a pointer-rich, garbage-collected
// language — but the split/merge/delete mechanics mirror RediSearch's
// TrieMap (deps/triemap/triemap.c) exactly.
//
// Children of a node are kept in a slice sorted by the first byte of
// their edge, so a child lookup is a binary search rather than a linear
// scan.
package trie
