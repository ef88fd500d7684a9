// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package pathvm

import "sort"

// Engine is a compiled path-matching trie mapping templates (delimiter-separated byte strings with
// optional named captures and a trailing wildcard) to values of type T. The zero value is not
// usable; construct one with [New].
//
// An Engine is safe for concurrent [Engine.Search] calls from any number of goroutines once no
// goroutine is concurrently mutating it (inserting, deleting or finalizing). It performs no
// internal locking: callers that mutate and search concurrently must synchronize externally, or
// finish all mutation before handing the Engine to readers.
type Engine[T any] struct {
	cfg    config
	arena  *arena
	instr  *instrStream
	keys   *keyPool
	values *valueArena[T]

	// internMap maps every currently-registered template to its terminal node index, enabling
	// O(1) duplicate detection on Insert and template-addressed Delete. It is dropped by
	// Finalize(dropInternMap=true) once no further deletes are needed, freeing its memory.
	internMap map[string]int

	maxParams int
	frozen    bool

	// undo tracks arena mutations made by the in-flight insert call, non-nil only for its duration.
	// Insert uses it to unwind a failed compile so no partial trie state becomes visible.
	undo *undoLog
}

// New constructs an empty Engine configured by opts. It returns [ErrInvalidDelimiter] if
// [WithDelimiter] was given a byte other than '/', ':' or '|'.
func New[T any](opts ...Option) (*Engine[T], error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(&cfg)
	}
	if !validDelimiter(cfg.delimiter) {
		return nil, ErrInvalidDelimiter
	}
	return &Engine[T]{
		cfg:       cfg,
		arena:     newArena(cfg.nodePoolHint),
		instr:     newInstrStream(),
		keys:      newKeyPool(),
		values:    newValueArena[T](),
		internMap: make(map[string]int),
	}, nil
}

// MaxParams returns the largest number of named captures declared by any template inserted so
// far. Callers should size their Search capture buffer to 2*MaxParams() ints.
func (e *Engine[T]) MaxParams() int {
	return e.maxParams
}

// NodeCount returns the number of nodes currently allocated in the trie, including the root and
// the sentinel at index 0. Exposed for diagnostics and capacity planning.
func (e *Engine[T]) NodeCount() int {
	return e.arena.nodeCount()
}

// Insert compiles template and associates it with value. It returns [ErrFrozen] if the engine has
// been finalized with freeze, [ErrDuplicate] if template is already registered, or a
// [*CompileError] (wrapping [ErrInvalidTemplate]) if template is malformed.
func (e *Engine[T]) Insert(template string, value T) error {
	if e.frozen {
		return ErrFrozen
	}
	if e.internMap != nil {
		if _, ok := e.internMap[template]; ok {
			return ErrDuplicate
		}
	}

	e.undo = &undoLog{nodeBase: e.arena.nodeCount()}
	destNode, paramNames, err := e.insert(template)
	u := e.undo
	e.undo = nil
	if err != nil {
		e.rollback(u)
		return err
	}

	nd := e.arena.node(destNode)
	if nd.isTerminal() {
		// The intern map did not catch it (it was dropped, or the template is spelled differently,
		// e.g. with other capture names) but the trie already marks this node terminal: the
		// template compiled down to an already-registered destination.
		return ErrDuplicate
	}

	nd.flags |= flagTerminal
	nd.valueIndex = e.values.add(value)
	nd.paramKeysStart = e.keys.append(paramNames)
	nd.paramKeysCount = len(paramNames)

	if len(paramNames) > e.maxParams {
		e.maxParams = len(paramNames)
	}
	if e.internMap != nil {
		e.internMap[template] = destNode
	}
	return nil
}

// BatchEntry pairs a template with the value it should resolve to, for [Engine.InsertBatch].
type BatchEntry[T any] struct {
	Template string
	Value    T
}

// InsertBatch preflights entries for internal duplicates and collisions with already-registered
// templates, then inserts them one by one in order. A duplicate found by the preflight returns a
// [*BatchError] identifying the offending template and no entries are inserted. Any other failure
// (for example a malformed template) returns a [*BatchError] for the failing entry; the entries
// before it stay inserted. A frozen engine returns [ErrFrozen] itself, unwrapped.
func (e *Engine[T]) InsertBatch(entries []BatchEntry[T]) error {
	if e.frozen {
		return ErrFrozen
	}

	seen := make(map[string]bool, len(entries))
	for _, ent := range entries {
		if seen[ent.Template] {
			return newBatchError(ent.Template, ErrDuplicate)
		}
		seen[ent.Template] = true
		if e.internMap != nil {
			if _, ok := e.internMap[ent.Template]; ok {
				return newBatchError(ent.Template, ErrDuplicate)
			}
		}
	}

	for _, ent := range entries {
		if err := e.Insert(ent.Template, ent.Value); err != nil {
			return newBatchError(ent.Template, err)
		}
	}
	return nil
}

// InsertBatchFromMap is InsertBatch over a map, inserted in sorted key order so that results are
// deterministic regardless of Go's randomized map iteration.
func (e *Engine[T]) InsertBatchFromMap(entries map[string]T) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	batch := make([]BatchEntry[T], 0, len(entries))
	for _, k := range keys {
		batch = append(batch, BatchEntry[T]{Template: k, Value: entries[k]})
	}
	return e.InsertBatch(batch)
}

// Delete removes template's terminal marking, value and parameter keys, tombstoning its node
// without reclaiming it: the node and its edges remain in the trie (a later Insert of the same
// template will reuse them) but it no longer matches a Search. Delete is a no-op if template was
// never registered. It returns [ErrFrozen] once frozen, or [ErrUnavailable] once the intern map has
// been dropped via Finalize.
func (e *Engine[T]) Delete(template string) error {
	if e.frozen {
		return ErrFrozen
	}
	if e.internMap == nil {
		return ErrUnavailable
	}
	idx, ok := e.internMap[template]
	if !ok {
		return nil
	}

	nd := e.arena.node(idx)
	nd.flags &^= flagTerminal
	nd.valueIndex = 0
	nd.paramKeysStart = 0
	nd.paramKeysCount = 0
	delete(e.internMap, template)
	return nil
}

// Finalize transitions the engine out of its mutation phase. When freeze is true, every
// subsequent Insert, InsertBatch and Delete call returns [ErrFrozen]; Search is unaffected either
// way. When dropInternMap is true, the template→node lookup map is discarded, reclaiming its
// memory at the cost of making future Delete calls return [ErrUnavailable].
func (e *Engine[T]) Finalize(freeze, dropInternMap bool) {
	if dropInternMap {
		e.internMap = nil
	}
	if freeze {
		e.frozen = true
	}
}

// GetParamKeysForNode returns the parameter names declared by the template terminating at
// nodeIndex, in declaration order. nodeIndex is normally taken from a [Result.NodeIndex] returned
// by [Engine.Search]. It returns nil if nodeIndex names a non-terminal node.
func (e *Engine[T]) GetParamKeysForNode(nodeIndex int) []string {
	nd := e.arena.node(nodeIndex)
	return e.keys.slice(nd.paramKeysStart, nd.paramKeysCount)
}
