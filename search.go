package pathvm

import "github.com/pathvm/pathvm/internal/bytesconv"

// Result carries the outcome of a [Engine.Search] call. It is caller-owned: the engine never
// retains a reference to it beyond the call that populated it, so the same Result may be reused
// across searches (and across goroutines, one per goroutine) without synchronization.
type Result[T any] struct {
	Value         T
	NodeIndex     int
	ParamCount    int
	WildcardStart int
	WildcardEnd   int
	Found         bool
	HasWildcard   bool
}

func (r *Result[T]) reset() {
	var zero Result[T]
	*r = zero
}

// Search walks path against the compiled trie, writing captured parameter ranges into caps and
// the outcome into out. caps must have length >= 2*e.MaxParams(); Search never allocates and
// never blocks. It returns the same value as out.Found.
//
// On return, out.Found is true iff path matched some inserted template. When true, out.Value and
// out.NodeIndex identify the match, out.ParamCount is the number of valid pairs written to caps
// (caps[2i], caps[2i+1] is the half-open byte range of the i-th captured parameter, in the order
// parameters were declared in the matched template), and -- only if out.HasWildcard -- the trailing
// wildcard capture additionally spans [out.WildcardStart, out.WildcardEnd).
func (e *Engine[T]) Search(path string, caps []int, out *Result[T]) bool {
	out.reset()

	p := bytesconv.Bytes(path)

	if !e.cfg.assumeASCII {
		for i := 0; i < len(p); i++ {
			if p[i] >= 0x80 {
				return false
			}
		}
	}

	node := rootIndex
	cursor := 0
	capWritten := 0

	for {
		if cursor == len(p) {
			nd := e.arena.node(node)
			if nd.isTerminal() {
				e.fillResult(out, node, capWritten)
				return true
			}
			return false
		}

		c := p[cursor]

		if next := e.arena.getTransition(node, c); next != 0 {
			node = next
			cursor++
			continue
		}

		nd := e.arena.node(node)
		matchedSlot := false
		for slot := 0; slot < nd.paramCount; slot++ {
			res := e.instr.exec(nd.paramInstr[slot], p, cursor, caps)
			if !res.ok {
				continue
			}
			if res.capsWritten > capWritten {
				capWritten = res.capsWritten
			}
			node = nd.paramChild[slot]
			cursor = res.cursor
			matchedSlot = true
			break
		}
		if matchedSlot {
			continue
		}

		if nd.hasWildcardEdge() {
			wc := e.arena.node(nd.wildcardChild)
			if wc.isTerminal() {
				e.fillResult(out, nd.wildcardChild, capWritten)
				out.HasWildcard = true
				out.WildcardStart = cursor
				out.WildcardEnd = len(p)
				return true
			}
		}

		return false
	}
}

func (e *Engine[T]) fillResult(out *Result[T], node, capWritten int) {
	nd := e.arena.node(node)
	v, _ := e.values.get(nd.valueIndex)
	out.Found = true
	out.Value = v
	out.NodeIndex = node
	out.ParamCount = capWritten
}
