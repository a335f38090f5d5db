// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"
	"testing"
)

// resetForTests restores the default store and clears missing-key dedupe
// state once t finishes.
func resetForTests(t *testing.T) {
	t.Helper()

	prev := Default()

	t.Cleanup(func() {
		SetDefault(prev)

		warnedMissing = sync.Map{}
	})
}
