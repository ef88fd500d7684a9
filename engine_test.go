// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package pathvm

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathvm/pathvm/internal/slicesutil"
)

// seedScenario mirrors one row of the end-to-end table: a set of templates and an expected
// outcome for one search against them.
type seedScenario struct {
	name      string
	templates map[string]string
	path      string
	found     bool
	value     string
	params    map[string]string
	wildcard  bool
	wcStart   int
	wcEnd     int
}

func TestEngine_SeedScenarios(t *testing.T) {
	t.Parallel()

	cases := []seedScenario{
		{
			name:      "exact static route",
			templates: map[string]string{"/api/health": "H"},
			path:      "/api/health",
			found:     true,
			value:     "H",
		},
		{
			name:      "single capture",
			templates: map[string]string{"/api/users/{id}": "U"},
			path:      "/api/users/123",
			found:     true,
			value:     "U",
			params:    map[string]string{"id": "123"},
		},
		{
			name:      "two captures in distinct segments",
			templates: map[string]string{"/api/users/{userId}/posts/{postId}": "P"},
			path:      "/api/users/42/posts/99",
			found:     true,
			value:     "P",
			params:    map[string]string{"userId": "42", "postId": "99"},
		},
		{
			name:      "dual capture in one segment",
			templates: map[string]string{"/files/{name}.{ext}": "F"},
			path:      "/files/report.pdf",
			found:     true,
			value:     "F",
			params:    map[string]string{"name": "report", "ext": "pdf"},
		},
		{
			name:      "trailing wildcard",
			templates: map[string]string{"/static/*": "S"},
			path:      "/static/a/b/c.png",
			found:     true,
			value:     "S",
			wildcard:  true,
			wcStart:   8,
			wcEnd:     17,
		},
		{
			name:      "static wins over param",
			templates: map[string]string{"/a/{x}": "P", "/a/b": "E"},
			path:      "/a/b",
			found:     true,
			value:     "E",
		},
		{
			name:      "capture inside a literal-prefixed segment",
			templates: map[string]string{"/v{n}/users/{id}": "V"},
			path:      "/v2/users/7",
			found:     true,
			value:     "V",
			params:    map[string]string{"n": "2", "id": "7"},
		},
		{
			name:      "no match",
			templates: map[string]string{"/api/health": "H"},
			path:      "/does/not/exist",
			found:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := New[string]()
			require.NoError(t, err)

			for tpl, val := range tc.templates {
				require.NoError(t, e.Insert(tpl, val))
			}

			caps := make([]int, 2*e.MaxParams())
			var out Result[string]
			found := e.Search(tc.path, caps, &out)

			require.Equal(t, tc.found, found)
			if !tc.found {
				return
			}
			assert.Equal(t, tc.value, out.Value)

			keys := e.GetParamKeysForNode(out.NodeIndex)
			got := make(map[string]string, len(keys))
			for i, k := range keys {
				got[k] = tc.path[caps[2*i]:caps[2*i+1]]
			}
			assert.Equal(t, tc.params, orNilIfEmpty(got))

			assert.Equal(t, tc.wildcard, out.HasWildcard)
			if tc.wildcard {
				assert.Equal(t, tc.wcStart, out.WildcardStart)
				assert.Equal(t, tc.wcEnd, out.WildcardEnd)
			}
		})
	}
}

func orNilIfEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

func TestEngine_InsertRejectsDuplicate(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, e.Insert("/a/b", 1))
	err = e.Insert("/a/b", 2)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestEngine_InsertRejectsMalformedTemplate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		template string
		reason   TemplateErrorReason
	}{
		{"empty", "", ReasonMissingDelimiter},
		{"missing leading delimiter", "a/b", ReasonMissingDelimiter},
		{"unclosed brace", "/a/{id", ReasonUnclosedBrace},
		{"empty param name", "/a/{}", ReasonEmptyParamName},
		{"invalid param char", "/a/{i-d}", ReasonInvalidParamChar},
		{"stray closing brace", "/a}", ReasonStrayRBrace},
		{"trailing escape", "/a\\", ReasonTrailingEscape},
		{"wildcard not trailing", "/a/*/b", ReasonWildcardNotTrailing},
		{"wildcard not after delimiter", "/a*", ReasonWildcardNotTrailing},
		{"adjacent params", "/a/{x}{y}", ReasonAdjacentParams},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := New[int]()
			require.NoError(t, err)

			err = e.Insert(tc.template, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTemplate)

			var ce *CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.reason, ce.Reason)
		})
	}
}

func TestEngine_DuplicateParamNameWithinTemplate(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	err = e.Insert("/a/{id}/b/{id}", 0)
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ReasonDuplicateParamName, ce.Reason)
}

func TestEngine_TooManyParamVariants(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)

	require.NoError(t, e.Insert("/a/{x}", 0))
	require.NoError(t, e.Insert("/a/{x}.{y}", 1))
	require.NoError(t, e.Insert("/a/{x}-{y}", 2))
	require.NoError(t, e.Insert("/a/{x}_{y}", 3))

	err = e.Insert("/a/{x}:{y}", 4)
	assert.ErrorIs(t, err, ErrTooManyParamVariants)
}

func TestEngine_InstructionIdentityReusesSlot(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)

	// Both templates install a param edge at the node reached after "/a/", with the identical
	// program shape CAPTURE_UNTIL(delim); END (the capture's own name does not affect the
	// compiled program). They should share a single param slot and destination node rather than
	// each allocating their own.
	require.NoError(t, e.Insert("/a/{x}/c", 1))
	require.NoError(t, e.Insert("/a/{y}/d", 2))

	caps := make([]int, 2*e.MaxParams())
	var out Result[int]

	require.True(t, e.Search("/a/foo/c", caps, &out))
	assert.Equal(t, 1, out.Value)
	keys := e.GetParamKeysForNode(out.NodeIndex)
	require.Len(t, keys, 1)
	assert.Equal(t, "x", keys[0])

	out.reset()
	require.True(t, e.Search("/a/foo/d", caps, &out))
	assert.Equal(t, 2, out.Value)
	keys = e.GetParamKeysForNode(out.NodeIndex)
	require.Len(t, keys, 1)
	assert.Equal(t, "y", keys[0])

	// Re-inserting the exact same template must still be caught as a duplicate.
	err = e.Insert("/a/{x}/c", 3)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestEngine_FrozenRejectsMutation(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, e.Insert("/a", 1))
	e.Finalize(true, false)

	assert.ErrorIs(t, e.Insert("/b", 2), ErrFrozen)
	assert.ErrorIs(t, e.Delete("/a"), ErrFrozen)

	caps := make([]int, 2*e.MaxParams())
	var out Result[int]
	assert.True(t, e.Search("/a", caps, &out))
}

func TestEngine_DeleteIsIdempotentAndTombstoneOnly(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, e.Insert("/a/{id}", 1))

	caps := make([]int, 2*e.MaxParams())
	var out Result[int]
	require.True(t, e.Search("/a/1", caps, &out))
	nodeBefore := out.NodeIndex

	require.NoError(t, e.Delete("/a/{id}"))
	require.NoError(t, e.Delete("/a/{id}")) // idempotent

	out.reset()
	assert.False(t, e.Search("/a/1", caps, &out))

	// Tombstone only: re-inserting the same template reuses the same node.
	require.NoError(t, e.Insert("/a/{id}", 2))
	out.reset()
	require.True(t, e.Search("/a/1", caps, &out))
	assert.Equal(t, nodeBefore, out.NodeIndex)
}

func TestEngine_DeleteAfterDropInternMapIsUnavailable(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, e.Insert("/a", 1))
	e.Finalize(false, true)

	assert.ErrorIs(t, e.Delete("/a"), ErrUnavailable)
}

func TestEngine_InsertBatchRejectsDuplicatesAtomically(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)

	err = e.InsertBatch([]BatchEntry[int]{
		{Template: "/a", Value: 1},
		{Template: "/b", Value: 2},
		{Template: "/a", Value: 3},
	})
	require.Error(t, err)
	var be *BatchError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "/a", be.Template)

	// No entries from a failed batch should be visible.
	caps := make([]int, 2*e.MaxParams())
	var out Result[int]
	assert.False(t, e.Search("/b", caps, &out))
}

func TestEngine_InsertBatchFromMapIsDeterministic(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, e.InsertBatchFromMap(map[string]int{
		"/a": 1,
		"/b": 2,
		"/c": 3,
	}))

	caps := make([]int, 2*e.MaxParams())
	var out Result[int]
	for path, want := range map[string]int{"/a": 1, "/b": 2, "/c": 3} {
		require.True(t, e.Search(path, caps, &out))
		assert.Equal(t, want, out.Value)
	}
}

func TestEngine_ASCIIContract(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, e.Insert("/a/{id}", 1))

	caps := make([]int, 2*e.MaxParams())
	var out Result[int]
	assert.False(t, e.Search("/a/\xff\xfe", caps, &out))
}

func TestEngine_EscapedDelimiterInsideParamSegmentIsLiteral(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, e.Insert(`/files/{a}\/{b}`, 1))

	path := "/files/x/y"
	caps := make([]int, 2*e.MaxParams())
	var out Result[int]
	require.True(t, e.Search(path, caps, &out))
	assert.Equal(t, 1, out.Value)

	keys := e.GetParamKeysForNode(out.NodeIndex)
	got := make(map[string]string, len(keys))
	for i, k := range keys {
		got[k] = path[caps[2*i]:caps[2*i+1]]
	}
	assert.Equal(t, map[string]string{"a": "x", "b": "y"}, got)
}

func TestEngine_FailedInsertLeavesNoMutationVisible(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)

	nodesBefore := e.NodeCount()

	err = e.Insert("/zzzNEW/}", 1)
	require.Error(t, err)
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ReasonStrayRBrace, ce.Reason)

	assert.False(t, e.IsPrefix("/zzzNEW/"))
	assert.Equal(t, nodesBefore, e.NodeCount())

	caps := make([]int, 2*e.MaxParams())
	var out Result[int]
	assert.False(t, e.Search("/zzzNEW/", caps, &out))
}

func TestEngine_FailedInsertAfterPartialParamSegmentLeavesNoMutationVisible(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, e.Insert("/a/{x}", 1))

	nodesBefore := e.NodeCount()

	// Fails in parseSegmentTokens' adjacent-capture check after the static prefix "/a/" has already
	// been walked (and already existed from the first Insert, so this call allocates no static
	// nodes) but before any program is emitted or param edge is installed for the new segment.
	err = e.Insert("/a/{x}{y}", 2)
	require.Error(t, err)
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ReasonAdjacentParams, ce.Reason)

	assert.Equal(t, nodesBefore, e.NodeCount())

	caps := make([]int, 2*e.MaxParams())
	var out Result[int]
	require.True(t, e.Search("/a/5", caps, &out))
	assert.Equal(t, 1, out.Value)
	assert.Equal(t, []string{"x"}, e.GetParamKeysForNode(out.NodeIndex))
}

func TestEngine_LiteralRunTooLongIsRejected(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)

	run := make([]byte, maxLiteralSeqLen+1)
	for i := range run {
		run[i] = 'a'
	}
	template := "/a/{x}" + string(run)

	err = e.Insert(template, 1)
	require.Error(t, err)
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ReasonLiteralRunTooLong, ce.Reason)
}

func TestEngine_ParamKeysDoNotOverlapAcrossDistinctTemplates(t *testing.T) {
	t.Parallel()

	e, err := New[int]()
	require.NoError(t, err)
	require.NoError(t, e.Insert("/users/{userId}", 1))
	require.NoError(t, e.Insert("/groups/{groupId}", 2))

	caps := make([]int, 2*e.MaxParams())
	var out Result[int]

	require.True(t, e.Search("/users/7", caps, &out))
	userKeys := append([]string(nil), e.GetParamKeysForNode(out.NodeIndex)...)

	out.reset()
	require.True(t, e.Search("/groups/9", caps, &out))
	groupKeys := append([]string(nil), e.GetParamKeysForNode(out.NodeIndex)...)

	sort.Strings(userKeys)
	sort.Strings(groupKeys)
	assert.False(t, slicesutil.Overlap(userKeys, groupKeys))
}
