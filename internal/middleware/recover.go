package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"helpdesk-backend/internal/logx"
)

// Recoverer turns a panic into the same JSON error envelope the handlers use.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logx.Log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("Error during API call or processing")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"error": fmt.Sprintf("Internal server error: %v", rec),
			})
		}()

		next.ServeHTTP(w, r)
	})
}
