package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omni/oracle-relay/presenter/http/middleware"
)

func TestRecoverer(t *testing.T) {
	t.Parallel()

	for _, value := range []interface{}{"boom", errors.New("boom")} {
		h := middleware.Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(value)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"error": "internal error: boom"}`, rec.Body.String())
	}
}
