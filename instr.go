package pathvm

// Opcodes for the param-edge instruction VM. Each word in the instruction stream packs the
// opcode in its low 8 bits; the remaining bits hold the first operand. Two-operand instructions
// spend a second word on the remaining operand.
const (
	opMatchLiteral = iota
	opMatchLiteralSeq
	opCaptureUntil
	opEnd
)

const opMask = 0xff

func encode1(op int, operand byte) uint32 {
	return uint32(op) | uint32(operand)<<8
}

func decodeOp(word uint32) int {
	return int(word & opMask)
}

func decodeOperand(word uint32) uint32 {
	return word >> 8
}

// instrStream is the shared, append-only instruction buffer together with its literal-run side
// buffer. Programs are referenced by their start offset into code; a program is never relocated
// or truncated once written.
type instrStream struct {
	code     []uint32
	literals []byte
}

func newInstrStream() *instrStream {
	return &instrStream{
		code:     make([]uint32, 0, 64),
		literals: make([]byte, 0, 64),
	}
}

// emitMatchLiteral appends a MATCH_LITERAL[ch] instruction and returns its start offset.
func (s *instrStream) emitMatchLiteral(ch byte) int {
	start := len(s.code)
	s.code = append(s.code, encode1(opMatchLiteral, ch))
	return start
}

// emitMatchLiteralSeq appends the bytes to the literal pool and a MATCH_LITERAL_SEQ[len,off]
// instruction referencing them.
func (s *instrStream) emitMatchLiteralSeq(bytes []byte) int {
	start := len(s.code)
	off := len(s.literals)
	s.literals = append(s.literals, bytes...)
	// nolint:gosec
	s.code = append(s.code, encode1(opMatchLiteralSeq, byte(len(bytes))), uint32(off))
	return start
}

// emitCaptureUntil appends a CAPTURE_UNTIL[stop,captureIndex] instruction. captureIndex is the
// compile-time-known position of this capture within the eventual capture buffer: every route
// reaching this particular param slot does so after consuming exactly the same number of prior
// captures, so the slot can be bound at compile time instead of threaded through at runtime.
func (s *instrStream) emitCaptureUntil(stop byte, captureIndex int) int {
	start := len(s.code)
	// nolint:gosec
	s.code = append(s.code, encode1(opCaptureUntil, stop), uint32(captureIndex))
	return start
}

// emitEnd appends the END terminator.
func (s *instrStream) emitEnd() int {
	start := len(s.code)
	s.code = append(s.code, encode1(opEnd, 0))
	return start
}

// programLen returns the number of words making up the program starting at start, including END.
func (s *instrStream) programLen(start int) int {
	i := start
	for {
		op := decodeOp(s.code[i])
		switch op {
		case opMatchLiteral, opEnd:
			i++
		case opMatchLiteralSeq, opCaptureUntil:
			i += 2
		}
		if op == opEnd {
			return i - start
		}
	}
}

// programsEqual reports whether the programs starting at a and b are structurally identical:
// same opcode sequence, same inline operands, and -- for MATCH_LITERAL_SEQ -- the same referenced
// bytes (compared by content, not by literal-pool offset, since a freshly emitted duplicate
// necessarily lands at a new offset even when its bytes are identical to an already-installed
// program).
func (s *instrStream) programsEqual(a, b int) bool {
	for {
		wa, wb := s.code[a], s.code[b]
		opA, opB := decodeOp(wa), decodeOp(wb)
		if opA != opB {
			return false
		}
		switch opA {
		case opMatchLiteral:
			if decodeOperand(wa) != decodeOperand(wb) {
				return false
			}
			a++
			b++
		case opCaptureUntil:
			if byte(decodeOperand(wa)) != byte(decodeOperand(wb)) {
				return false
			}
			// The captureIndex operand (second word) is part of identity too: a node
			// can only be reached by templates sharing the same number of captures up
			// to this point, so two installed programs with different captureIndex
			// values are not interchangeable even if their match shape is the same.
			if s.code[a+1] != s.code[b+1] {
				return false
			}
			a += 2
			b += 2
		case opMatchLiteralSeq:
			lenA, lenB := decodeOperand(wa), decodeOperand(wb)
			if lenA != lenB {
				return false
			}
			offA, offB := s.code[a+1], s.code[b+1]
			litA := s.literals[offA : offA+lenA]
			litB := s.literals[offB : offB+lenB]
			if string(litA) != string(litB) {
				return false
			}
			a += 2
			b += 2
		case opEnd:
			return true
		}
	}
}

// execResult carries the outcome of running a param-edge program against the input.
type execResult struct {
	cursor      int
	capsWritten int
	ok          bool
}

// exec runs the program starting at start against path[cursor:], writing capture pairs into caps.
// It never allocates. On failure it returns ok=false and the caller must discard any partial
// writes to caps (cheap: they are plain ints, no reclamation needed before the next attempt).
func (s *instrStream) exec(start int, path []byte, cursor int, caps []int) execResult {
	if fr, handled := s.execFastPath(start, path, cursor, caps); handled {
		return fr
	}
	return s.execGeneric(start, path, cursor, caps)
}

func (s *instrStream) execGeneric(start int, path []byte, cursor int, caps []int) execResult {
	i := start
	capsWritten := 0
	for {
		word := s.code[i]
		switch decodeOp(word) {
		case opMatchLiteral:
			ch := byte(decodeOperand(word))
			if cursor >= len(path) || path[cursor] != ch || path[cursor] >= 0x80 {
				return execResult{ok: false}
			}
			cursor++
			i++
		case opMatchLiteralSeq:
			n := int(decodeOperand(word))
			off := int(s.code[i+1])
			if cursor+n > len(path) {
				return execResult{ok: false}
			}
			for k := 0; k < n; k++ {
				c := path[cursor+k]
				if c >= 0x80 || c != s.literals[off+k] {
					return execResult{ok: false}
				}
			}
			cursor += n
			i += 2
		case opCaptureUntil:
			stop := byte(decodeOperand(word))
			capIdx := int(s.code[i+1])
			start := cursor
			end := cursor
			for end < len(path) && path[end] != stop {
				if path[end] >= 0x80 {
					return execResult{ok: false}
				}
				end++
			}
			caps[2*capIdx] = start
			caps[2*capIdx+1] = end
			if capIdx+1 > capsWritten {
				capsWritten = capIdx + 1
			}
			cursor = end
			i += 2
		case opEnd:
			return execResult{cursor: cursor, capsWritten: capsWritten, ok: true}
		}
	}
}

// execFastPath recognizes the two program shapes the contract calls out explicitly and runs them
// without per-opcode dispatch. It returns handled=false for any other shape, falling back to
// execGeneric. Observable behavior is identical to the generic interpreter in every case.
func (s *instrStream) execFastPath(start int, path []byte, cursor int, caps []int) (execResult, bool) {
	n := s.programLen(start)
	switch n {
	case 3:
		// CAPTURE_UNTIL(stop); END  -- e.g. /{id}
		w0 := s.code[start]
		w2 := s.code[start+2]
		if decodeOp(w0) != opCaptureUntil || decodeOp(w2) != opEnd {
			return execResult{}, false
		}
		stop := byte(decodeOperand(w0))
		capIdx := int(s.code[start+1])
		end := cursor
		for end < len(path) && path[end] != stop {
			if path[end] >= 0x80 {
				return execResult{ok: false}, true
			}
			end++
		}
		caps[2*capIdx] = cursor
		caps[2*capIdx+1] = end
		return execResult{cursor: end, capsWritten: capIdx + 1, ok: true}, true
	case 6:
		// CAPTURE_UNTIL('.'); MATCH_LITERAL('.'); CAPTURE_UNTIL(stop); END -- e.g. /{name}.{ext}
		w0, w2, w3, w5 := s.code[start], s.code[start+2], s.code[start+3], s.code[start+5]
		if decodeOp(w0) != opCaptureUntil || decodeOp(w2) != opMatchLiteral ||
			decodeOp(w3) != opCaptureUntil || decodeOp(w5) != opEnd {
			return execResult{}, false
		}
		sep := byte(decodeOperand(w0))
		lit := byte(decodeOperand(w2))
		if sep != lit {
			return execResult{}, false
		}
		stop := byte(decodeOperand(w3))
		capA := int(s.code[start+1])
		capB := int(s.code[start+4])

		dot := cursor
		for dot < len(path) && path[dot] != sep {
			if path[dot] >= 0x80 {
				return execResult{ok: false}, true
			}
			dot++
		}
		if dot >= len(path) || path[dot] != lit {
			return execResult{ok: false}, true
		}
		end := dot + 1
		for end < len(path) && path[end] != stop {
			if path[end] >= 0x80 {
				return execResult{ok: false}, true
			}
			end++
		}
		caps[2*capA] = cursor
		caps[2*capA+1] = dot
		caps[2*capB] = dot + 1
		caps[2*capB+1] = end
		capsWritten := capA + 1
		if capB+1 > capsWritten {
			capsWritten = capB + 1
		}
		return execResult{cursor: end, capsWritten: capsWritten, ok: true}, true
	default:
		return execResult{}, false
	}
}
