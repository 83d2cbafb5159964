package hammock

import (
	"context"
	"strings"

	"github.com/mitodl/redux-hammock/csrf"
	"github.com/mitodl/redux-hammock/logging"
)

// H is a JSON-style object. State slices and action payloads use it.
type H map[string]any

// URLSource produces the URL of a request from the arguments the derived
// action was called with.
type URLSource interface {
	Resolve(args ...any) string
}

// StaticURL is a URL that does not depend on the call arguments.
type StaticURL string

func (u StaticURL) Resolve(...any) string { return string(u) }

// URLFunc builds the URL from the call arguments, e.g. to fill in an id.
type URLFunc func(args ...any) string

func (f URLFunc) Resolve(args ...any) string { return f(args...) }

// OptionsFunc builds the request options from the call arguments.
type OptionsFunc func(args ...any) csrf.Init

// FetchFunc performs the network call of one verb.
type FetchFunc func(ctx context.Context, args ...any) (any, error)

// Fetcher is a generic network primitive: one request to url with init.
type Fetcher func(ctx context.Context, url string, init csrf.Init) (any, error)

// SuccessHandler computes the new "data" field from the success payload and
// the data already in the state, so a verb can merge or append instead of
// replacing.
type SuccessHandler func(payload, previous any) any

// VerbConfig holds the per-verb settings of an Endpoint. All fields are optional.
type VerbConfig struct {
	URL       URLSource
	Options   OptionsFunc
	Func      FetchFunc // replaces URL, Options and the endpoint Fetcher entirely
	OnSuccess SuccessHandler
	Prefix    string // action type prefix, the verb itself by default
}

// Endpoint describes one REST resource. Actions and reducers are derived from
// it; it is never modified by the derivation.
type Endpoint struct {
	Name   string
	Verbs  []Verb
	Config map[Verb]VerbConfig

	// Fetcher is used for every verb without a Func. Defaults to csrf.FetchWithCSRF.
	Fetcher Fetcher

	// NamespaceOnUsername keys events and state by the first call argument.
	NamespaceOnUsername  bool
	UsernameInitialState H

	// InitialState defaults to InitialState().
	InitialState H

	// ExtraActions are merged into the derived reducer as is.
	ExtraActions ReducerMap

	// CheckNoSpinner sets "processing" to the request payload instead of true.
	CheckNoSpinner bool

	Logger logging.Logger
}

// VerbConfig returns the settings for v. Keys of Config match case-insensitively.
func (e *Endpoint) VerbConfig(v Verb) VerbConfig {
	v = NormalizeVerb(string(v))
	if cfg, ok := e.Config[v]; ok {
		return cfg
	}
	for k, cfg := range e.Config {
		if strings.EqualFold(string(k), string(v)) {
			return cfg
		}
	}
	return VerbConfig{}
}

func (e *Endpoint) prefix(v Verb) string {
	if p := e.VerbConfig(v).Prefix; p != "" {
		return p
	}
	return strings.TrimSpace(string(v))
}

func (e *Endpoint) initialState() H {
	if e.InitialState != nil {
		return e.InitialState
	}
	return InitialState()
}
