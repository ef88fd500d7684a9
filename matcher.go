package pathvm

// Matcher wraps an [Engine] together with a pre-sized capture buffer and [Result], so a
// single-threaded caller (one Matcher per goroutine) can match paths without allocating a capture
// buffer and Result on every call or managing buffer sizing itself. [Matcher.Match] still
// allocates the Params slice it returns.
type Matcher[T any] struct {
	engine *Engine[T]
	caps   []int
	result Result[T]
}

// NewMatcher returns a Matcher bound to engine, with its capture buffer sized for the largest
// template currently inserted. Calling [Engine.Insert] with more parameters after NewMatcher has
// been constructed is safe: Match grows the buffer lazily if it turns out to be too small.
func NewMatcher[T any](engine *Engine[T]) *Matcher[T] {
	return &Matcher[T]{
		engine: engine,
		caps:   make([]int, 2*engine.MaxParams()),
	}
}

// Param describes one named capture resolved by [Matcher.Match].
type Param struct {
	Key   string
	Start int
	End   int
}

// MatchResult is the caller-facing outcome of [Matcher.Match]: whether path matched, the
// associated value, and its named and wildcard captures resolved against the original path.
type MatchResult[T any] struct {
	Found         bool
	Value         T
	Params        []Param
	WildcardStart int
	WildcardEnd   int
	HasWildcard   bool
}

// Match searches path against the bound engine, resolving raw byte-range captures into named
// Param values. Unlike [Engine.Search], Match allocates (a Params slice per call): use
// [Engine.Search] directly with a caller-owned Result and capture buffer on allocation-sensitive
// paths.
func (m *Matcher[T]) Match(path string) MatchResult[T] {
	need := 2 * m.engine.MaxParams()
	if len(m.caps) < need {
		m.caps = make([]int, need)
	}

	found := m.engine.Search(path, m.caps, &m.result)
	if !found {
		return MatchResult[T]{Found: false}
	}

	keys := m.engine.GetParamKeysForNode(m.result.NodeIndex)
	var params []Param
	for i, key := range keys {
		params = append(params, Param{
			Key:   key,
			Start: m.caps[2*i],
			End:   m.caps[2*i+1],
		})
	}

	return MatchResult[T]{
		Found:         true,
		Value:         m.result.Value,
		Params:        params,
		WildcardStart: m.result.WildcardStart,
		WildcardEnd:   m.result.WildcardEnd,
		HasWildcard:   m.result.HasWildcard,
	}
}
