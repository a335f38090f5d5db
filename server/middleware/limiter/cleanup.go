// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"time"

	"github.com/rs/zerolog/log"
)

// doCleanup removes expired limiters in the background, at most once per
// CleanupInterval.
func (l *Limiter) doCleanup() {
	now := l.now()

	last := l.lastCleanup.Load()
	if last == 0 {
		l.lastCleanup.CompareAndSwap(0, now.UnixNano())

		return
	}

	if now.Sub(time.Unix(0, last)) < CleanupInterval {
		return
	}

	if !l.lastCleanup.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	go func() {
		removed := l.cleanupExpiredLimiters(now)

		log.Debug().
			Time("start", now).
			Int("removed", removed).
			Dur("dur", time.Since(now)).
			Msg("limiter cleanup")
	}()
}

// cleanupExpiredLimiters drops limiters not used for LimiterExpiryDuration
// and returns how many were dropped.
func (l *Limiter) cleanupExpiredLimiters(now time.Time) int {
	removed := 0

	l.limiters.Range(func(key, value any) bool {
		lw := value.(*limiterWrapper)

		lw.mu.Lock()
		expired := now.Sub(lw.lastAccess) > LimiterExpiryDuration
		lw.mu.Unlock()

		if expired {
			l.limiters.Delete(key)

			removed++
		}

		return true
	})

	return removed
}
