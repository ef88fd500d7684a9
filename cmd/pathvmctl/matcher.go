package main

import "github.com/pathvm/pathvm"

// cliParam is a resolved, print-ready parameter: the substring itself rather than a byte range.
type cliParam struct {
	key   string
	value string
}

// cliMatch is the print-ready outcome of matching a path against a loaded routing table.
type cliMatch struct {
	found       bool
	value       string
	params      []cliParam
	hasWildcard bool
	wildcard    string
}

// pathMatcher resolves a [pathvm.Matcher] result's byte ranges into substrings of the queried
// path, since the CLI -- unlike the hot search path -- is free to allocate.
type pathMatcher struct {
	m *pathvm.Matcher[string]
}

func newPathMatcher(e *pathvm.Engine[string]) *pathMatcher {
	return &pathMatcher{m: pathvm.NewMatcher(e)}
}

func (p *pathMatcher) Match(path string) cliMatch {
	res := p.m.Match(path)
	if !res.Found {
		return cliMatch{found: false}
	}

	out := cliMatch{
		found:       true,
		value:       res.Value,
		hasWildcard: res.HasWildcard,
	}
	for _, param := range res.Params {
		out.params = append(out.params, cliParam{
			key:   param.Key,
			value: path[param.Start:param.End],
		})
	}
	if res.HasWildcard {
		out.wildcard = path[res.WildcardStart:res.WildcardEnd]
	}
	return out
}
