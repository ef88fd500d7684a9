// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package pathvm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDelimiter is returned by [New] when the configured delimiter is not one of '/', ':' or '|'.
	ErrInvalidDelimiter = errors.New("invalid delimiter")
	// ErrFrozen is returned by [Engine.Insert], [Engine.InsertBatch] and [Engine.Delete] once the
	// engine has been finalized with Finalize(freeze=true).
	ErrFrozen = errors.New("engine is frozen")
	// ErrInvalidTemplate wraps every malformed-template condition raised while compiling a pattern.
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrDuplicate is returned by [Engine.Insert] when the exact same template is already registered.
	ErrDuplicate = errors.New("duplicate template")
	// ErrTooManyParamVariants is returned when a fifth distinct param-edge program would be installed
	// on the same node. At most 4 variants are allowed per node.
	ErrTooManyParamVariants = errors.New("too many param variants")
	// ErrUnavailable is returned by [Engine.Delete] once the template intern map has been dropped
	// via Finalize(dropInternMap=true).
	ErrUnavailable = errors.New("intern map unavailable")
	// errLiteralRunTooLong is returned internally by emitSegmentProgram when a single param-segment
	// literal run exceeds maxLiteralSeqLen bytes; callers surface it as a *CompileError with
	// ReasonLiteralRunTooLong.
	errLiteralRunTooLong = errors.New("literal run too long")
)

// maxLiteralSeqLen is the longest literal run emitMatchLiteralSeq can encode: MATCH_LITERAL_SEQ
// packs the run length into a single byte operand.
const maxLiteralSeqLen = 255

// TemplateErrorReason enumerates the reasons a template fails to compile.
type TemplateErrorReason int

const (
	ReasonUnclosedBrace TemplateErrorReason = iota
	ReasonEmptyParamName
	ReasonInvalidParamChar
	ReasonDuplicateParamName
	ReasonNonASCII
	ReasonTrailingEscape
	ReasonWildcardNotTrailing
	ReasonStrayRBrace
	ReasonAdjacentParams
	ReasonMissingDelimiter
	ReasonLiteralRunTooLong
)

func (r TemplateErrorReason) String() string {
	switch r {
	case ReasonUnclosedBrace:
		return "UnclosedBrace"
	case ReasonEmptyParamName:
		return "EmptyParamName"
	case ReasonInvalidParamChar:
		return "InvalidParamChar"
	case ReasonDuplicateParamName:
		return "DuplicateParamName"
	case ReasonNonASCII:
		return "NonAscii"
	case ReasonTrailingEscape:
		return "TrailingEscape"
	case ReasonWildcardNotTrailing:
		return "WildcardNotTrailing"
	case ReasonStrayRBrace:
		return "StrayRBrace"
	case ReasonAdjacentParams:
		return "AdjacentParams"
	case ReasonMissingDelimiter:
		return "MissingDelimiter"
	case ReasonLiteralRunTooLong:
		return "LiteralRunTooLong"
	default:
		return "Unknown"
	}
}

// CompileError reports a malformed template, the byte index at which compilation stopped, and
// the reason it was rejected.
type CompileError struct {
	Template string
	Reason   TemplateErrorReason
	Index    int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: template %q at index %d: %s", ErrInvalidTemplate, e.Template, e.Index, e.Reason)
}

// Unwrap returns the sentinel value [ErrInvalidTemplate].
func (e *CompileError) Unwrap() error {
	return ErrInvalidTemplate
}

func newCompileError(template string, reason TemplateErrorReason, index int) error {
	return &CompileError{Template: template, Reason: reason, Index: index}
}

// BatchError reports the offending template and underlying failure encountered while preflighting
// or applying an [Engine.InsertBatch] call.
type BatchError struct {
	Template string
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch insert %q: %s", e.Template, e.Err)
}

// Unwrap returns the underlying error.
func (e *BatchError) Unwrap() error {
	return e.Err
}

func newBatchError(template string, err error) error {
	return &BatchError{Template: template, Err: err}
}
