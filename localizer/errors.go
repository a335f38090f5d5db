// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"errors"
	"fmt"
)

var (
	// ErrArgumentCount is wrapped by every [ArityError].
	ErrArgumentCount = errors.New("format references more arguments than were captured")

	// ErrNestedLocalization is returned when a localized section is rendered
	// inside another localized section.
	ErrNestedLocalization = errors.New("localized sections cannot be nested")

	// ErrArgumentPass wraps a failure of the argument capturing render, which
	// only happens when a section renders differently the second time.
	ErrArgumentPass = errors.New("argument pass failed")
)

// ArityError reports a translated format that needs more arguments than the
// section provided. It usually points at a bad translation entry.
type ArityError struct {
	Format string
	Want   int
	Got    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: %q needs %d, got %d", ErrArgumentCount, e.Format, e.Want, e.Got)
}

func (e *ArityError) Unwrap() error {
	return ErrArgumentCount
}
