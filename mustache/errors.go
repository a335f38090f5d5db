// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package mustache

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is wrapped by every [ParseError].
	ErrSyntax = errors.New("mustache: syntax error")

	// ErrNotAFilter is returned when a filter call names a value that cannot be called.
	ErrNotAFilter = errors.New("mustache: not a filter")
)

// ParseError reports malformed template source.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mustache: line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}
