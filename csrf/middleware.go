package csrf

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Server-side counterpart of the client: hands out the token cookie and
// rejects unsafe requests that do not echo it back.

var (
	ErrCookieNotSet  = errors.New("CSRF Failed: CSRF cookie not set.")
	ErrTokenMismatch = errors.New("CSRF Failed: CSRF token missing or incorrect.")
)

// NewToken returns a fresh random token value.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Check validates r against the double-submit rule. Safe methods always pass.
func Check(r *http.Request) error {
	if SafeMethod(r.Method) {
		return nil
	}
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return ErrCookieNotSet
	}
	header := r.Header.Get(HeaderName)
	if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(ck.Value)) != 1 {
		return ErrTokenMismatch
	}
	return nil
}

func hasToken(r *http.Request) bool {
	ck, err := r.Cookie(CookieName)
	return err == nil && ck.Value != ""
}

func tokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    NewToken(),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}

// EnsureCookie sets the token cookie on responses to clients that don't have one yet.
func EnsureCookie() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasToken(c.Request) {
			http.SetCookie(c.Writer, tokenCookie())
		}
		c.Next()
	}
}

// Protect aborts unsafe requests that fail Check with 403 and a JSON detail.
func Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Check(c.Request); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": err.Error()})
			return
		}
		c.Next()
	}
}

// MuxEnsureCookie is EnsureCookie for gorilla/mux routers.
func MuxEnsureCookie() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasToken(r) {
				http.SetCookie(w, tokenCookie())
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MuxProtect is Protect for gorilla/mux routers.
func MuxProtect() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := Check(r); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
