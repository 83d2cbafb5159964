package csrf

import (
	"fmt"
	"strconv"
)

// StatusErrorField is the key ResponseError.Object and InvalidJSONError.Object
// store the HTTP status code under.
const StatusErrorField = "errorStatusCode"

// StatusError is returned by FetchText when the response status is outside
// [200, 300). It carries the body text and the status code.
type StatusError struct {
	Body       string
	StatusCode int
}

func (e *StatusError) Error() string {
	body := e.Body
	const max = 2048
	if len(body) > max {
		body = body[:max]
	}
	return fmt.Sprintf("csrf: unexpected status %d: %s", e.StatusCode, body)
}

// InvalidJSONError is returned by FetchJSON when the response body is not
// valid JSON, whatever the status code was.
type InvalidJSONError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *InvalidJSONError) Error() string {
	return "invalid json response body at " + e.URL + " reason: " + e.Err.Error()
}

func (e *InvalidJSONError) Unwrap() error { return e.Err }

// Type classifies the failure the same way for every malformed body.
func (e *InvalidJSONError) Type() string { return "invalid-json" }

// Object renders the error as a JSON-style object: the parse failure under
// "error" and the status code under StatusErrorField.
func (e *InvalidJSONError) Object() map[string]any {
	return map[string]any{
		"error": map[string]any{
			"type":    e.Type(),
			"message": e.Error(),
		},
		StatusErrorField: e.StatusCode,
	}
}

// ResponseError is returned by FetchJSON when the body parsed but the status
// is outside [200, 300). Data is the parsed body.
type ResponseError struct {
	StatusCode int
	Data       any
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("csrf: unexpected status %d", e.StatusCode)
}

// Object returns the parsed body with the status code added under
// StatusErrorField. Object bodies contribute their fields, array bodies their
// elements keyed by index; scalar bodies contribute nothing.
func (e *ResponseError) Object() map[string]any {
	out := map[string]any{}
	switch data := e.Data.(type) {
	case map[string]any:
		for k, v := range data {
			out[k] = v
		}
	case []any:
		for i, v := range data {
			out[strconv.Itoa(i)] = v
		}
	}
	out[StatusErrorField] = e.StatusCode
	return out
}
