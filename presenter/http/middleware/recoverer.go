package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/omni/oracle-relay/presenter/http/render"
)

var ErrInternal = errors.New("internal error")

// Recoverer turns a handler panic into a 500 JSON error.
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
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			render.Error(w, r, http.StatusInternalServerError, fmt.Errorf("%w: %s", ErrInternal, err))
		}()
		next.ServeHTTP(w, r)
	})
}
