// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

// Package pathvm implements a radix-trie pattern-matching engine for path-like strings.
//
// Templates such as "/api/users/{id}", "/files/{name}.{ext}" or "/static/*" are compiled into a
// flat, index-addressed trie: static bytes walk a per-node 128-wide ASCII transition table,
// parameter segments compile down to a small instruction program (MATCH_LITERAL,
// MATCH_LITERAL_SEQ, CAPTURE_UNTIL, END) stored in a shared instruction stream, and a single
// trailing wildcard edge consumes the remainder of the input.
//
// Engine is generic over the payload type T; construct one with [New], populate it with
// [Engine.Insert] or [Engine.InsertBatch], and query it with [Engine.Search]. Search never
// allocates: capture ranges are written into a caller-owned buffer sized 2*[Engine.MaxParams]()
// ints, and the result is written into a caller-owned [Result]. [Matcher] wraps both for callers
// that would rather not manage buffer sizing themselves; its Match allocates a Params slice per
// call.
//
// An Engine under active mutation (Insert, InsertBatch, Delete) must not be searched
// concurrently; call [Engine.Finalize] with freeze=true once the routing table is stable to get
// lock-free concurrent reads. pathvm has no knowledge of HTTP, transports, or method dispatch:
// it is meant to sit underneath a router that owns one Engine per method or protocol.
package pathvm
