package hammock

import (
	"fmt"
	"reflect"
)

// Action is a dispatched event. Meta carries the username of namespaced
// endpoints. Error is set when the payload is an error value.
type Action struct {
	Type    string
	Payload any
	Meta    any
	Error   bool
}

// ActionCreator builds an Action of a fixed type from call arguments.
type ActionCreator func(args ...any) Action

// CreateAction returns a creator whose payload is its first argument.
func CreateAction(typ string) ActionCreator {
	return func(args ...any) Action {
		return newAction(typ, nthArg(args, 0), nil)
	}
}

// WithUsername returns a creator taking (username, payload): the username is
// stored in Meta.
func WithUsername(typ string) ActionCreator {
	return WithUsernameFunc(typ, func(args ...any) any {
		return nthArg(args, 1)
	})
}

// WithUsernameFunc is WithUsername with a custom payload builder. The builder
// receives all arguments, username included.
func WithUsernameFunc(typ string, payload func(args ...any) any) ActionCreator {
	return func(args ...any) Action {
		return newAction(typ, payload(args...), nthArg(args, 0))
	}
}

func newAction(typ string, payload, meta any) Action {
	_, isErr := payload.(error)
	return Action{Type: typ, Payload: payload, Meta: meta, Error: isErr}
}

func nthArg(args []any, n int) any {
	if n < len(args) {
		return args[n]
	}
	return nil
}

// UpdateStateByUsername returns a copy of state with update deep-merged into
// the fragment stored under username. Other keys are left untouched, and
// neither state nor update is modified.
func UpdateStateByUsername(state H, username string, update H) H {
	out := make(H, len(state)+1)
	for k, v := range state {
		out[k] = v
	}
	mergeDeep(out, H{username: update})
	return out
}

func usernameKey(meta any) string {
	if s, ok := meta.(string); ok {
		return s
	}
	return fmt.Sprint(meta)
}

// RenameBy returns a function renaming the top-level keys of an object.
// Nested objects are kept as they are.
func RenameBy(rename func(string) string) func(H) H {
	return func(in H) H {
		out := make(H, len(in))
		for k, v := range in {
			out[rename(k)] = v
		}
		return out
	}
}

func asH(v any) (H, bool) {
	switch m := v.(type) {
	case H:
		return m, true
	case map[string]any:
		return H(m), true
	}
	return nil, false
}

// cloneDeep copies objects and arrays; other values are shared.
func cloneDeep(v any) any {
	switch t := v.(type) {
	case H:
		if t == nil {
			return t
		}
		return H(cloneObject(t))
	case map[string]any:
		if t == nil {
			return t
		}
		return cloneObject(t)
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneDeep(vv)
		}
		return out
	}
	return v
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneDeep(v)
	}
	return out
}

// mergeDeep merges src into dst recursively: objects merge key by key, arrays
// index by index, anything else is replaced. Nested objects and arrays of dst
// are copied before they change, so values shared with other states are never
// written to.
func mergeDeep(dst H, src H) {
	for k, sv := range src {
		dst[k] = mergeValue(dst[k], sv)
	}
}

func mergeValue(dv, sv any) any {
	if sm, ok := asH(sv); ok {
		out := H{}
		kind := sv
		if dm, ok := asH(dv); ok {
			for k, v := range dm {
				out[k] = v
			}
			kind = dv
		}
		mergeDeep(out, sm)
		// Keep the map type of the side that defined the object.
		if _, plain := kind.(map[string]any); plain {
			return map[string]any(out)
		}
		return out
	}
	if ss, ok := sv.([]any); ok {
		ds, _ := dv.([]any)
		out := make([]any, len(ds), max(len(ds), len(ss)))
		copy(out, ds)
		for i, v := range ss {
			if i < len(out) {
				out[i] = mergeValue(out[i], v)
			} else {
				out = append(out, mergeValue(nil, v))
			}
		}
		return out
	}
	return sv
}

// sameMap reports whether a and b are the same map value, not merely equal.
func sameMap(a, b H) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
