package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/dineguide/dineguide/internal/api/respond"
)

// Middleware turns a handler panic into the standard 500 envelope. Aborted
// responses are re-panicked so net/http can drop the connection.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			route := r.URL.Path
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			log.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("route", route).
				Str("remote", r.RemoteAddr).
				Bytes("stack", debug.Stack()).
				Msg("handler panic")
			respond.WriteInternalError(w, "internal error")
		}()
		next.ServeHTTP(w, r)
	})
}
