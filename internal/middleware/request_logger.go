package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// RequestLogger logs one structured line per completed request.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			utils.LogHTTPRequest(
				auth.GetRequestID(r),
				r.Method,
				r.URL.Path,
				getClientIP(r),
				utils.TruncateString(r.UserAgent(), constants.MaxLoggedUserAgentLength),
				status,
				time.Since(start),
			)
		})
	}
}
