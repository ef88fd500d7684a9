package pathvm

import "github.com/pathvm/pathvm/internal/bytesconv"

// IsPrefix reports whether prefix is a literal byte-for-byte prefix of at least one path that
// could reach a node in the trie, following static transitions only. It does not consult param or
// wildcard edges: a prefix that only becomes reachable through a capture (e.g. the "12" in a
// template /user/{id}) is not reported as a prefix by this call. Intended for fast rejection of
// clearly-absent subtrees (autocomplete, routing table introspection) ahead of a full
// [Engine.PrefixSearch].
func (e *Engine[T]) IsPrefix(prefix string) bool {
	p := bytesconv.Bytes(prefix)
	node := rootIndex
	for i := 0; i < len(p); i++ {
		next := e.arena.getTransition(node, p[i])
		if next == 0 {
			return false
		}
		node = next
	}
	return true
}

// PrefixSearch returns the values of every non-deleted template reachable below prefix, collected
// via a depth-first walk over static, param and wildcard edges starting from the node prefix's
// static bytes land on. Unlike [Engine.Search], it allocates: it is meant for diagnostics, admin
// listings and autocompletion, not the hot matching path.
func (e *Engine[T]) PrefixSearch(prefix string) []T {
	p := bytesconv.Bytes(prefix)
	node := rootIndex
	for i := 0; i < len(p); i++ {
		next := e.arena.getTransition(node, p[i])
		if next == 0 {
			return nil
		}
		node = next
	}

	var out []T
	e.collectTerminals(node, &out)
	return out
}

// collectTerminals appends the value of node (if it is a live terminal) and then recurses into
// every static, param and wildcard child reachable from node.
func (e *Engine[T]) collectTerminals(node int, out *[]T) {
	nd := e.arena.node(node)
	if nd.isTerminal() {
		if v, ok := e.values.get(nd.valueIndex); ok {
			*out = append(*out, v)
		}
	}

	base := node * transWidth
	for ch := 0; ch < transWidth; ch++ {
		child := int(e.arena.trans[base+ch])
		if child != 0 {
			e.collectTerminals(child, out)
		}
	}

	for slot := 0; slot < nd.paramCount; slot++ {
		e.collectTerminals(nd.paramChild[slot], out)
	}

	if nd.hasWildcardEdge() {
		e.collectTerminals(nd.wildcardChild, out)
	}
}
