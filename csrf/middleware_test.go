package csrf_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitodl/redux-hammock/csrf"
)

func TestNewToken(t *testing.T) {
	a, b := csrf.NewToken(), csrf.NewToken()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name   string
		method string
		cookie string
		header string
		want   error
	}{
		{"safe method", http.MethodGet, "", "", nil},
		{"no cookie", http.MethodPost, "", "tok", csrf.ErrCookieNotSet},
		{"no header", http.MethodPost, "tok", "", csrf.ErrTokenMismatch},
		{"wrong header", http.MethodDelete, "tok", "other", csrf.ErrTokenMismatch},
		{"matching", http.MethodPatch, "tok", "tok", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(c.method, "/", nil)
			if c.cookie != "" {
				r.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: c.cookie})
			}
			if c.header != "" {
				r.Header.Set(csrf.HeaderName, c.header)
			}
			assert.Equal(t, c.want, csrf.Check(r))
		})
	}
}

func muxRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(csrf.MuxEnsureCookie(), csrf.MuxProtect())
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func TestMuxEnsureCookie(t *testing.T) {
	w := httptest.NewRecorder()
	muxRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, csrf.CookieName, cookies[0].Name)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	muxRouter().ServeHTTP(w, r)
	assert.Empty(t, w.Result().Cookies())
}

func TestMuxProtect(t *testing.T) {
	w := httptest.NewRecorder()
	muxRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail": "CSRF Failed: CSRF cookie not set."}`, w.Body.String())

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: "tok"})
	r.Header.Set(csrf.HeaderName, "tok")
	w = httptest.NewRecorder()
	muxRouter().ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
