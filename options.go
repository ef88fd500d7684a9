// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package pathvm

// Option configures an [Engine] at construction time. See [New].
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

type config struct {
	delimiter    byte
	nodePoolHint int
	assumeASCII  bool
}

func defaultConfig() config {
	return config{
		delimiter:    '/',
		nodePoolHint: 64,
		assumeASCII:  false,
	}
}

// WithDelimiter sets the segment delimiter used to parse templates and walk the trie. Must be one
// of '/', ':' or '|'. Defaults to '/'.
func WithDelimiter(delim byte) Option {
	return optionFunc(func(c *config) {
		c.delimiter = delim
	})
}

// WithNodePoolSizeHint preallocates the transitions buffer for the given number of nodes, avoiding
// early reallocation when the approximate final size of the trie is known in advance.
func WithNodePoolSizeHint(nodes int) Option {
	return optionFunc(func(c *config) {
		if nodes > 0 {
			c.nodePoolHint = nodes
		}
	})
}

// WithAssumeASCII skips the per-search ASCII validation pass. The embedder must then guarantee
// that every path passed to [Engine.Search] is pure ASCII; behavior on non-ASCII input is
// otherwise undefined.
func WithAssumeASCII(assume bool) Option {
	return optionFunc(func(c *config) {
		c.assumeASCII = assume
	})
}

// validDelimiter reports whether b is one of the three delimiters the engine accepts.
func validDelimiter(b byte) bool {
	switch b {
	case '/', ':', '|':
		return true
	default:
		return false
	}
}
