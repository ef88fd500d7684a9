package pathvm

import "strings"

// segToken is one element of a parsed param-edge segment: either a literal byte or a named
// capture.
type segToken struct {
	name    string // non-empty for a capture token
	lit     byte
	capture bool
}

// insert implements [Engine.Insert]'s compile pass: a single left-to-right walk over template
// that extends the trie for static bytes and installs a param-edge program for every brace
// segment it encounters.
func (e *Engine[T]) insert(template string) (destNode int, paramNames []string, err error) {
	n := len(template)
	if n == 0 {
		return 0, nil, newCompileError(template, ReasonMissingDelimiter, 0)
	}
	if template[0] != e.cfg.delimiter {
		return 0, nil, newCompileError(template, ReasonMissingDelimiter, 0)
	}

	seen := make(map[string]bool)
	capIndex := 0
	cur := rootIndex
	i := 0

	for i < n {
		c := template[i]
		switch {
		case c == '\\':
			if i+1 >= n {
				return 0, nil, newCompileError(template, ReasonTrailingEscape, i)
			}
			x := template[i+1]
			if x >= 0x80 {
				return 0, nil, newCompileError(template, ReasonNonASCII, i+1)
			}
			cur = e.descendStatic(cur, x)
			i += 2
		case c == '{':
			var (
				names []string
				next  int
			)
			cur, names, next, err = e.compileParamSegment(template, i, cur, seen, &capIndex)
			if err != nil {
				return 0, nil, err
			}
			paramNames = append(paramNames, names...)
			i = next
		case c == '*':
			if i != n-1 {
				return 0, nil, newCompileError(template, ReasonWildcardNotTrailing, i)
			}
			if i == 0 || template[i-1] != e.cfg.delimiter {
				return 0, nil, newCompileError(template, ReasonWildcardNotTrailing, i)
			}
			nd := e.arena.node(cur)
			if nd.wildcardChild == 0 {
				e.arena.setWildcardChild(cur, e.arena.newNode())
				if e.undo != nil {
					e.undo.wildcardEdits = append(e.undo.wildcardEdits, cur)
				}
			}
			cur = e.arena.node(cur).wildcardChild
			i++
		case c == '}':
			return 0, nil, newCompileError(template, ReasonStrayRBrace, i)
		case c >= 0x80:
			return 0, nil, newCompileError(template, ReasonNonASCII, i)
		default:
			cur = e.descendStatic(cur, c)
			i++
		}
	}

	return cur, paramNames, nil
}

// descendStatic returns the child of cur reached by the static byte ch, allocating a new node if
// no such edge exists yet.
func (e *Engine[T]) descendStatic(cur int, ch byte) int {
	child := e.arena.getTransition(cur, ch)
	if child == 0 {
		child = e.arena.newNode()
		e.arena.setTransition(cur, ch, child)
		if e.undo != nil {
			e.undo.transEdits = append(e.undo.transEdits, transEdit{node: cur, ch: ch})
		}
	}
	return child
}

// compileParamSegment compiles the brace segment beginning at braceIdx (template[braceIdx] ==
// '{') through to the next delimiter or end of template, installs the resulting program on cur's
// param-edge slot list (reusing an identical existing slot when one exists), and returns the
// destination node, the capture names declared in the segment (in declaration order), and the
// index immediately after the segment (at the bounding delimiter, or len(template)).
func (e *Engine[T]) compileParamSegment(template string, braceIdx, cur int, seen map[string]bool, capIndex *int) (destNode int, names []string, nextI int, err error) {
	segEnd := findSegmentEnd(template, braceIdx, e.cfg.delimiter)

	tokens, names, err := parseSegmentTokens(template, braceIdx, segEnd, seen)
	if err != nil {
		return 0, nil, 0, err
	}

	programStart, err := e.emitSegmentProgram(tokens, capIndex)
	if err != nil {
		return 0, nil, 0, newCompileError(template, ReasonLiteralRunTooLong, braceIdx)
	}

	destNode, err = e.installParamEdge(cur, programStart)
	if err != nil {
		return 0, nil, 0, err
	}

	return destNode, names, segEnd, nil
}

// findSegmentEnd returns the index of the first unescaped delimiter at or after start, or
// len(template) if none remains. An escape pair \X is stepped over as a unit so an escaped
// delimiter byte is treated as the literal it is, not a segment boundary -- mirroring exactly how
// insert's own byte-by-byte walk treats \X elsewhere in the template.
func findSegmentEnd(template string, start int, delimiter byte) int {
	i := start
	for i < len(template) {
		c := template[i]
		if c == delimiter {
			return i
		}
		if c == '\\' && i+1 < len(template) {
			i += 2
			continue
		}
		i++
	}
	return len(template)
}

// parseSegmentTokens scans template[start:end] (a single delimiter-bounded segment starting with
// '{') into an ordered list of literal bytes and named captures, enforcing the segment-local
// grammar rules: well-formed braces, non-empty [A-Za-z0-9_]+ names, no two names repeated within
// the whole template (via seen), no two captures directly adjacent, and no non-ASCII bytes.
func parseSegmentTokens(template string, start, end int, seen map[string]bool) (tokens []segToken, names []string, err error) {
	pos := start
	lastWasCapture := false
	for pos < end {
		c := template[pos]
		switch {
		case c == '{':
			close := strings.IndexByte(template[pos:end], '}')
			if close < 0 {
				return nil, nil, newCompileError(template, ReasonUnclosedBrace, pos)
			}
			name := template[pos+1 : pos+close]
			if name == "" {
				return nil, nil, newCompileError(template, ReasonEmptyParamName, pos+1)
			}
			if !validParamName(name) {
				return nil, nil, newCompileError(template, ReasonInvalidParamChar, pos+1)
			}
			if lastWasCapture {
				return nil, nil, newCompileError(template, ReasonAdjacentParams, pos)
			}
			if seen[name] {
				return nil, nil, newCompileError(template, ReasonDuplicateParamName, pos+1)
			}
			seen[name] = true
			tokens = append(tokens, segToken{name: name, capture: true})
			names = append(names, name)
			lastWasCapture = true
			pos += close + 1
		case c == '}':
			return nil, nil, newCompileError(template, ReasonStrayRBrace, pos)
		case c == '\\':
			if pos+1 >= end {
				return nil, nil, newCompileError(template, ReasonTrailingEscape, pos)
			}
			x := template[pos+1]
			if x >= 0x80 {
				return nil, nil, newCompileError(template, ReasonNonASCII, pos+1)
			}
			tokens = append(tokens, segToken{lit: x})
			lastWasCapture = false
			pos += 2
		case c >= 0x80:
			return nil, nil, newCompileError(template, ReasonNonASCII, pos)
		default:
			tokens = append(tokens, segToken{lit: c})
			lastWasCapture = false
			pos++
		}
	}
	return tokens, names, nil
}

func validParamName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}

// emitSegmentProgram lowers tokens into the instruction stream, returning the program's start
// offset. Every capture's stop byte is the first byte of the literal run that immediately follows
// it, or the engine's delimiter if the capture is the segment's last token. capIndex is advanced
// once per capture so that its final value reflects the total number of captures declared so far
// in the enclosing template.
//
// A literal sub-run longer than maxLiteralSeqLen returns errLiteralRunTooLong: MATCH_LITERAL_SEQ
// packs the run length into a single byte operand, so a longer run would silently wrap.
func (e *Engine[T]) emitSegmentProgram(tokens []segToken, capIndex *int) (int, error) {
	programStart := -1
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if tok.capture {
			stop := e.cfg.delimiter
			if i+1 < len(tokens) && !tokens[i+1].capture {
				stop = tokens[i+1].lit
			}
			start := e.instr.emitCaptureUntil(stop, *capIndex)
			if programStart < 0 {
				programStart = start
			}
			*capIndex++
			i++
			continue
		}

		// Collect the run of consecutive literal tokens.
		j := i
		var buf []byte
		for j < len(tokens) && !tokens[j].capture {
			buf = append(buf, tokens[j].lit)
			j++
		}
		if len(buf) > maxLiteralSeqLen {
			return 0, errLiteralRunTooLong
		}
		var start int
		if len(buf) == 1 {
			start = e.instr.emitMatchLiteral(buf[0])
		} else {
			start = e.instr.emitMatchLiteralSeq(buf)
		}
		if programStart < 0 {
			programStart = start
		}
		i = j
	}
	endStart := e.instr.emitEnd()
	if programStart < 0 {
		programStart = endStart
	}
	return programStart, nil
}

// installParamEdge installs (or reuses) a param-edge slot on node for the freshly emitted program
// at programStart, per spec.md §4.3: scan existing slots for a structurally identical program and
// reuse its destination; otherwise allocate a new node and a new slot, failing once the node
// already holds maxParamVariants variants.
func (e *Engine[T]) installParamEdge(node, programStart int) (destNode int, err error) {
	nd := e.arena.node(node)
	for slot := 0; slot < nd.paramCount; slot++ {
		if e.instr.programsEqual(nd.paramInstr[slot], programStart) {
			return nd.paramChild[slot], nil
		}
	}
	child := e.arena.newNode()
	if e.arena.addParamVariant(node, programStart, child) < 0 {
		return 0, ErrTooManyParamVariants
	}
	if e.undo != nil {
		e.undo.paramEdits = append(e.undo.paramEdits, node)
	}
	return child, nil
}
