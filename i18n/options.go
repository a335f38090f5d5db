// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

// StoreOption configures how a store handles missing translations.
type StoreOption func(*storeOptions)

type storeOptions struct {
	strict bool
	mark   bool
}

// WithStrictMissingKeys logs each missing key once per locale and table.
func WithStrictMissingKeys(enabled bool) StoreOption {
	return func(o *storeOptions) {
		o.strict = enabled
	}
}

// WithMarkMissing wraps missing keys as "⟦key⟧" so they stand out in output.
func WithMarkMissing(enabled bool) StoreOption {
	return func(o *storeOptions) {
		o.mark = enabled
	}
}

func newStoreOptions(options []StoreOption) storeOptions {
	var o storeOptions
	for _, opt := range options {
		opt(&o)
	}

	return o
}

// missing returns the fallback for key.
func (o storeOptions) missing(locale, table, key string) string {
	if o.strict {
		warnMissing(locale, table, key)
	}

	if o.mark {
		return "⟦" + key + "⟧"
	}

	return key
}
