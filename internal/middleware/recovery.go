package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// Recovery is a middleware that recovers from panics and returns a 500 Internal Server Error
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					userID := ""
					if id, ok := auth.GetUserID(r); ok {
						userID = utils.FormatInt64(id)
					}

					logger := utils.RequestLogger(auth.GetRequestID(r), userID, r.Method, r.URL.Path)
					logger.Error().
						Interface("panic", rec).
						Str("stack", string(debug.Stack())).
						Str("remote_addr", r.RemoteAddr).
						Msg("Panic recovered in request handler")

					utils.Error(
						w,
						http.StatusInternalServerError,
						constants.CodeInternalError,
						constants.MsgInternalServerError,
						nil,
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
