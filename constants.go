package hammock

import (
	"net/http"
	"strings"
)

// Verb is an HTTP method, or any custom action name used the same way.
// Verbs are compared in their upper-case form.
type Verb string

const (
	GET     Verb = http.MethodGet
	HEAD    Verb = http.MethodHead
	OPTIONS Verb = http.MethodOptions
	POST    Verb = http.MethodPost
	PUT     Verb = http.MethodPut
	PATCH   Verb = http.MethodPatch
	DELETE  Verb = http.MethodDelete
)

// NormalizeVerb returns the canonical form of a verb token.
func NormalizeVerb(v string) Verb {
	return Verb(strings.ToUpper(strings.TrimSpace(v)))
}

// Lower is the verb as it appears in state keys, e.g. "get" in "getStatus".
func (v Verb) Lower() string {
	return strings.ToLower(string(NormalizeVerb(string(v))))
}

const (
	FetchProcessing = "FETCH_PROCESSING"
	FetchSuccess    = "FETCH_SUCCESS"
	FetchFailure    = "FETCH_FAILURE"
)

// InitialState is the state slice an endpoint starts from (and is cleared
// back to) when it doesn't configure its own.
func InitialState() H {
	return H{
		"loaded":     false,
		"processing": false,
	}
}
