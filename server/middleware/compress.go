// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Compress gzips responses for clients that accept it. Small bodies are
// sent as is.
func Compress(w http.ResponseWriter, r *http.Request, next http.Handler) {
	gzhttp.GzipHandler(next).ServeHTTP(w, r)
}
