package csrf

import (
	"context"
	"net/http"
	"sort"
)

const (
	// CookieName is the cookie the server stores the CSRF token in.
	CookieName = "csrftoken"
	// HeaderName is the request header the token is echoed back in.
	HeaderName = "X-CSRFToken"
)

// Credentials controls whether cookies are sent with a request and accepted
// from its response.
type Credentials string

const (
	SameOrigin Credentials = "same-origin"
	Include    Credentials = "include"
	Omit       Credentials = "omit"
)

// Init holds the options of a single request. The zero value is a GET with no
// body; the request stages fill in whatever the caller left unset.
//
// Header names are matched case-insensitively: the stages rewrite every key
// in its canonical form, so "content-type" replaces the JSON default.
//
// Body may be nil, a string, a []byte or an io.Reader, which are sent as is.
// Any other value is encoded as JSON.
type Init struct {
	Method      string
	Headers     map[string]string
	Body        any
	Credentials Credentials
}

// SafeMethod reports whether method does not need CSRF protection. The match
// is exact and case-sensitive.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func jsonHeadersStage() *Stage {
	return &Stage{
		Name: "Init.Headers(json) =>",
		F: func(ctx context.Context, x *Exchange) error {
			headers := map[string]string{
				"Content-Type": "application/json",
				"Accept":       "application/json",
			}
			copyHeaders(headers, x.Init.Headers)
			x.Init.Headers = headers
			return nil
		},
	}
}

func headersStage() *Stage {
	return &Stage{
		Name: "  => Init.Headers =>",
		F: func(ctx context.Context, x *Exchange) error {
			headers := make(map[string]string, len(x.Init.Headers)+1)
			copyHeaders(headers, x.Init.Headers)
			x.Init.Headers = headers
			return nil
		},
	}
}

// copyHeaders copies src into dst under canonical keys. Keys of src that only
// differ in case are applied in sorted order, so the result is stable.
func copyHeaders(dst, src map[string]string) {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dst[http.CanonicalHeaderKey(k)] = src[k]
	}
}

func methodStage() *Stage {
	return &Stage{
		Name: "  => Init.Method =>",
		F: func(ctx context.Context, x *Exchange) error {
			if x.Init.Method == "" {
				x.Init.Method = http.MethodGet
			}
			return nil
		},
	}
}

func credentialsStage() *Stage {
	return &Stage{
		Name: "  => Init.Credentials =>",
		F: func(ctx context.Context, x *Exchange) error {
			if x.Init.Credentials == "" {
				x.Init.Credentials = SameOrigin
			}
			return nil
		},
	}
}

func tokenStage() *Stage {
	return &Stage{
		Name: "  => Init.Headers[\"" + HeaderName + "\"] =>",
		F: func(ctx context.Context, x *Exchange) error {
			if SafeMethod(x.Init.Method) {
				return nil
			}
			// A missing cookie still writes the header, with an empty token.
			token, _ := GetCookie(x.client.cookies, x.target, CookieName)
			x.Init.Headers[http.CanonicalHeaderKey(HeaderName)] = token
			return nil
		},
	}
}

func formatRequest() *Chain {
	return First(
		headersStage()).Then(
		methodStage()).Then(
		credentialsStage()).Then(
		tokenStage())
}

func formatJSONRequest() *Chain {
	return Append(First(jsonHeadersStage()), formatRequest())
}
