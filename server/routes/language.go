// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
	"codeberg.org/mustache-l10n/mustache-l10n/server/utils"
)

// langCookieMaxAge keeps the language choice for a year.
const langCookieMaxAge = 365 * 24 * time.Hour

// SetLanguage stores the language named by the path in the language cookie
// and redirects to the return query parameter, or to the index.
//
// The language "auto" clears the cookie so that Accept-Language applies again.
func SetLanguage(w http.ResponseWriter, r *http.Request) error {
	value := utils.GetPathVar(r, "tag")

	cookie := &http.Cookie{
		Name:     i18n.LangCookie,
		Path:     "/",
		HttpOnly: true,
		Secure:   utils.IsConnectionSecure(r),
		SameSite: http.SameSiteLaxMode,
	}

	if strings.EqualFold(value, "auto") {
		cookie.MaxAge = -1
	} else {
		tag, err := language.Parse(value)
		if err != nil {
			userErr := i18n.NewUserError(r.Context(), "Invalid language tag.")
			http.Error(w, userErr.Error(), http.StatusBadRequest)

			return userErr
		}

		cookie.Value = tag.String()
		cookie.MaxAge = int(langCookieMaxAge.Seconds())
	}

	http.SetCookie(w, cookie)

	returnPath := utils.SanitizeReturnPath(utils.GetQueryParam(r, "return"))
	if returnPath == "" {
		returnPath = "/"
	}

	http.Redirect(w, r, returnPath, http.StatusSeeOther)

	return nil
}
