package middleware

import (
	"net/http"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
)

// SecurityHeaders adds security-related HTTP headers to responses
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			w.Header().Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			w.Header().Set(constants.HeaderXXSSProtection, constants.XSSProtectionModeBlock)
			w.Header().Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)
			w.Header().Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)

			next.ServeHTTP(w, r)
		})
	}
}

// NoStore marks responses as uncacheable. Auth pages carry per-session
// flash messages and must never be served from a cache.
func NoStore() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderCacheControl, constants.CacheControlNoStore)
			w.Header().Set(constants.HeaderPragma, constants.PragmaNoCache)
			w.Header().Set(constants.HeaderExpires, constants.ExpiresZero)

			next.ServeHTTP(w, r)
		})
	}
}
