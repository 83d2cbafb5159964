package csrf

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// CookieSource gives read access to the cookies visible to a request URL as a
// single "name=value; name=value" string. The boolean is false when no cookie
// store is available at all, which is different from an empty store.
type CookieSource interface {
	Cookies(u *url.URL) (string, bool)
}

// CookieString is a fixed cookie string, the equivalent of a browser's
// document.cookie. It ignores the request URL.
type CookieString string

func (s CookieString) Cookies(*url.URL) (string, bool) {
	return string(s), true
}

// JarCookies reads cookies out of an http.CookieJar, scoped to the request URL.
type JarCookies struct {
	Jar http.CookieJar
}

func (j JarCookies) Cookies(u *url.URL) (string, bool) {
	if j.Jar == nil || u == nil {
		return "", false
	}
	var pairs []string
	for _, c := range j.Jar.Cookies(u) {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; "), true
}

// NewJar returns an in-memory cookie jar that knows the public suffix list.
func NewJar() http.CookieJar {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

// GetCookie returns the URL-decoded value of the first cookie called name.
// It reports false when there is no such cookie or no cookie store.
func GetCookie(src CookieSource, u *url.URL, name string) (string, bool) {
	if src == nil {
		return "", false
	}
	raw, ok := src.Cookies(u)
	if !ok {
		return "", false
	}

	prefix := name + "="
	for _, cookie := range strings.Split(raw, ";") {
		cookie = strings.TrimSpace(cookie)
		if !strings.HasPrefix(cookie, prefix) {
			continue
		}
		value := cookie[len(prefix):]
		if decoded, err := url.PathUnescape(value); err == nil {
			return decoded, true
		}
		return value, true
	}
	return "", false
}
