package hammock

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitodl/redux-hammock/csrf"
)

var ErrNoURL = errors.New("hammock: no url configured")

func simpleOptions(...any) csrf.Init {
	return csrf.Init{}
}

func fetchWithCSRF(ctx context.Context, url string, init csrf.Init) (any, error) {
	text, err := csrf.FetchWithCSRF(ctx, url, init)
	if err != nil {
		return nil, err
	}
	return text, nil
}

// TextFetcher adapts c.FetchText to a Fetcher.
func TextFetcher(c *csrf.Client) Fetcher {
	return func(ctx context.Context, url string, init csrf.Init) (any, error) {
		text, err := c.FetchText(ctx, url, init)
		if err != nil {
			return nil, err
		}
		return text, nil
	}
}

// JSONFetcher adapts c.FetchJSON to a Fetcher.
func JSONFetcher(c *csrf.Client) Fetcher {
	return c.FetchJSON
}

// MakeFetchFunc resolves the network call of verb. A Func configured for the
// verb is returned unchanged. Otherwise the URL and options are built from the
// call arguments and handed to the endpoint's Fetcher, or to
// csrf.FetchWithCSRF when there is none.
func MakeFetchFunc(e *Endpoint, verb Verb) FetchFunc {
	cfg := e.VerbConfig(verb)
	if cfg.Func != nil {
		return cfg.Func
	}

	url := cfg.URL
	options := cfg.Options
	if options == nil {
		options = simpleOptions
	}
	fetchImplementation := e.Fetcher
	if fetchImplementation == nil {
		fetchImplementation = fetchWithCSRF
	}

	return func(ctx context.Context, args ...any) (any, error) {
		if url == nil {
			return nil, fmt.Errorf("%w for %s %s", ErrNoURL, NormalizeVerb(string(verb)), e.Name)
		}
		return fetchImplementation(ctx, url.Resolve(args...), options(args...))
	}
}

// DeriveVerbFuncs resolves the network call of every verb the endpoint declares.
func DeriveVerbFuncs(e *Endpoint) map[Verb]FetchFunc {
	funcs := make(map[Verb]FetchFunc, len(e.Verbs))
	for _, verb := range e.Verbs {
		funcs[NormalizeVerb(string(verb))] = MakeFetchFunc(e, verb)
	}
	return funcs
}
