// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
)

// NewUserError creates a new [UserError] whose message is key translated
// for the language carried by ctx.
func NewUserError(ctx context.Context, key string) *UserError {
	return &UserError{
		key: key,
		msg: Tr(ctx, key),
	}
}

// UserError is an error type whose message is a translated string.
// It is intended for errors that can be shown directly to the end user.
type UserError struct {
	key string
	msg string
}

// Error returns the translated error message.
func (e *UserError) Error() string {
	return e.msg
}

// Key returns the untranslated message.
func (e *UserError) Key() string {
	return e.key
}

// Tr returns the translation of key in [DefaultTable] for the language
// carried by ctx, using the [Default] store.
//
// If a translation is not found, Tr returns key unchanged, or visibly wrapped
// if the store marks missing keys.
func Tr(ctx context.Context, key string) string {
	return TrT(ctx, DefaultTable, key)
}

// TrT is like [Tr] but looks key up in table.
func TrT(ctx context.Context, table, key string) string {
	return ForContext(ctx, Default()).Lookup(key, table)
}
