package hammock_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitodl/redux-hammock"
)

func sameState(a, b hammock.H) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func reducerFixture() (*hammock.Endpoint, *hammock.Actions) {
	endpoint := &hammock.Endpoint{
		Name:  "foobar",
		Verbs: []hammock.Verb{hammock.GET, hammock.POST},
	}
	return endpoint, hammock.DeriveActions(endpoint)
}

func lifecycleTypes(a *hammock.DerivedAction) []string {
	return []string{a.RequestType, a.SuccessType, a.FailureType}
}

func TestDeriveReducerDefinesEveryType(t *testing.T) {
	endpoint, actions := reducerFixture()
	for _, verb := range endpoint.Verbs {
		action := actions.For(verb)
		reducer := hammock.DeriveReducer(endpoint, action, verb)
		assert.Len(t, reducer, 3)
		for _, typ := range lifecycleTypes(action) {
			assert.NotNil(t, reducer[typ], typ)
		}
	}
}

func TestDeriveReducerRequest(t *testing.T) {
	endpoint, actions := reducerFixture()
	for _, verb := range endpoint.Verbs {
		action := actions.For(verb)
		reducer := hammock.DeriveReducer(endpoint, action, verb)

		result := reducer[action.RequestType](hammock.H{}, hammock.Action{Type: "ACTION", Payload: "ignored"})

		assert.Equal(t, hammock.H{
			verb.Lower() + "Status": hammock.FetchProcessing,
			"loaded":                false,
			"processing":            true,
		}, result)
	}
}

func TestDeriveReducerSuccess(t *testing.T) {
	endpoint, actions := reducerFixture()
	for _, verb := range endpoint.Verbs {
		action := actions.For(verb)
		reducer := hammock.DeriveReducer(endpoint, action, verb)

		result := reducer[action.SuccessType](hammock.H{}, hammock.Action{Type: "ACTION", Payload: hammock.H{"some": "DATA"}})

		assert.Equal(t, hammock.H{
			verb.Lower() + "Status": hammock.FetchSuccess,
			"loaded":                true,
			"processing":            false,
			"data":                  hammock.H{"some": "DATA"},
		}, result)
	}
}

func TestDeriveReducerFailure(t *testing.T) {
	endpoint, actions := reducerFixture()
	for _, verb := range endpoint.Verbs {
		action := actions.For(verb)
		reducer := hammock.DeriveReducer(endpoint, action, verb)

		result := reducer[action.FailureType](hammock.H{}, hammock.Action{Type: "ACTION", Payload: hammock.H{"some": "ERROR"}})

		assert.Equal(t, hammock.H{
			verb.Lower() + "Status": hammock.FetchFailure,
			"loaded":                true,
			"processing":            false,
			"error":                 hammock.H{"some": "ERROR"},
		}, result)
	}
}

func TestDeriveReducerDoesNotModifyState(t *testing.T) {
	endpoint, actions := reducerFixture()
	action := actions.For(hammock.GET)
	reducer := hammock.DeriveReducer(endpoint, action, hammock.GET)

	state := hammock.H{"loaded": true, "other": 1}
	reducer[action.RequestType](state, hammock.Action{})

	assert.Equal(t, hammock.H{"loaded": true, "other": 1}, state)
}

func TestDeriveReducerCheckNoSpinner(t *testing.T) {
	endpoint, actions := reducerFixture()
	endpoint.CheckNoSpinner = true
	action := actions.For(hammock.GET)
	reducer := hammock.DeriveReducer(endpoint, action, hammock.GET)

	result := reducer[action.RequestType](hammock.H{}, hammock.Action{Payload: false})

	assert.Equal(t, false, result["processing"])
}

func TestDeriveReducerSuccessHandler(t *testing.T) {
	endpoint, actions := reducerFixture()
	endpoint.Config = map[hammock.Verb]hammock.VerbConfig{
		hammock.POST: {OnSuccess: func(payload, previous any) any {
			items, _ := previous.([]any)
			return append(items, payload)
		}},
	}
	action := actions.For(hammock.POST)
	reducer := hammock.DeriveReducer(endpoint, action, hammock.POST)

	state := hammock.H{"data": []any{"a"}}
	result := reducer[action.SuccessType](state, hammock.Action{Payload: "b"})

	assert.Equal(t, []any{"a", "b"}, result["data"])
}

func TestDeriveReducersClear(t *testing.T) {
	endpoint, actions := reducerFixture()
	reducer := hammock.DeriveReducers(endpoint, actions)

	for _, state := range []hammock.H{{}, {"data": "old", "error": "old", "loaded": true}} {
		result := reducer(state, hammock.Action{Type: actions.ClearType})
		assert.Equal(t, hammock.InitialState(), result)
	}
}

func TestDeriveReducersWithoutActions(t *testing.T) {
	endpoint, actions := reducerFixture()
	reducer := hammock.DeriveReducers(endpoint, nil)

	result := reducer(hammock.H{}, hammock.Action{Type: actions.For(hammock.GET).RequestType})
	assert.Equal(t, hammock.FetchProcessing, result["getStatus"])

	result = reducer(result, hammock.Action{Type: actions.ClearType})
	assert.Equal(t, hammock.InitialState(), result)
}

func TestDeriveReducersClearToConfiguredInitialState(t *testing.T) {
	endpoint, actions := reducerFixture()
	endpoint.InitialState = hammock.H{"extraProp": "HI", "wow": "yeah..."}
	reducer := hammock.DeriveReducers(endpoint, actions)

	result := reducer(hammock.H{}, hammock.Action{Type: actions.ClearType})
	assert.Equal(t, hammock.H{"extraProp": "HI", "wow": "yeah..."}, result)

	// Clearing twice is the same as clearing once.
	result = reducer(result, hammock.Action{Type: actions.ClearType})
	assert.Equal(t, hammock.H{"extraProp": "HI", "wow": "yeah..."}, result)
}

func TestDeriveReducersChangesStateForEveryLifecycleType(t *testing.T) {
	endpoint, actions := reducerFixture()
	reducer := hammock.DeriveReducers(endpoint, actions)

	for _, verb := range endpoint.Verbs {
		for _, typ := range lifecycleTypes(actions.For(verb)) {
			result := reducer(hammock.H{}, hammock.Action{Type: typ, Payload: "SOME_DATA"})
			assert.NotEqual(t, hammock.H{}, result, typ)
		}
	}
}

func TestDeriveReducersExtraActions(t *testing.T) {
	endpoint, actions := reducerFixture()
	endpoint.ExtraActions = hammock.ReducerMap{
		"MY_NEW_ACTION_TYPE": func(hammock.H, hammock.Action) hammock.H {
			return hammock.H{"not": "legit"}
		},
	}
	reducer := hammock.DeriveReducers(endpoint, actions)

	result := reducer(hammock.H{}, hammock.Action{Type: "MY_NEW_ACTION_TYPE"})
	assert.Equal(t, hammock.H{"not": "legit"}, result)
}

func TestDeriveReducersUnknownTypeIsNoOp(t *testing.T) {
	endpoint, actions := reducerFixture()
	reducer := hammock.DeriveReducers(endpoint, actions)

	initialState := hammock.H{"initial": "State"}
	result := reducer(initialState, hammock.Action{Type: "❤❤❤❤❤", Payload: "<3<3<3<3<3"})

	assert.True(t, sameState(initialState, result))
}

func TestDeriveReducersNilStateIsInitialState(t *testing.T) {
	endpoint, actions := reducerFixture()
	reducer := hammock.DeriveReducers(endpoint, actions)

	assert.Equal(t, hammock.InitialState(), reducer(nil, hammock.Action{Type: "UNKNOWN"}))
}

func TestDeriveReducersNamespaceOnUsername(t *testing.T) {
	endpoint, _ := reducerFixture()
	endpoint.NamespaceOnUsername = true
	actions := hammock.DeriveActions(endpoint)
	reducer := hammock.DeriveReducers(endpoint, actions)

	result := reducer(hammock.H{}, hammock.Action{Meta: "username", Payload: "foobar", Type: actions.For(hammock.GET).SuccessType})

	assert.Equal(t, hammock.H{
		"username": hammock.H{
			"getStatus":  "FETCH_SUCCESS",
			"data":       "foobar",
			"loaded":     true,
			"processing": false,
		},
	}, result)
}

func TestDeriveReducersNamespaceKeepsOtherUsernames(t *testing.T) {
	endpoint, _ := reducerFixture()
	endpoint.NamespaceOnUsername = true
	endpoint.UsernameInitialState = hammock.H{"loaded": false, "processing": false, "extra": "default"}
	actions := hammock.DeriveActions(endpoint)
	reducer := hammock.DeriveReducers(endpoint, actions)
	get := actions.For(hammock.GET)

	state := hammock.H{"alice": hammock.H{"getStatus": "FETCH_SUCCESS", "data": "alice's"}}
	state = reducer(state, hammock.Action{Type: get.RequestType, Meta: "bob"})

	assert.Equal(t, hammock.H{"getStatus": "FETCH_SUCCESS", "data": "alice's"}, state["alice"])
	assert.Equal(t, hammock.H{
		"getStatus":  "FETCH_PROCESSING",
		"loaded":     false,
		"processing": true,
		"extra":      "default",
	}, state["bob"])
}

func TestDeriveReducersNamespaceMergeIsIdempotent(t *testing.T) {
	endpoint, _ := reducerFixture()
	endpoint.NamespaceOnUsername = true
	actions := hammock.DeriveActions(endpoint)
	reducer := hammock.DeriveReducers(endpoint, actions)
	success := hammock.Action{Type: actions.For(hammock.GET).SuccessType, Meta: "jane", Payload: hammock.H{"a": 1}}

	once := reducer(hammock.H{}, success)
	twice := reducer(once, success)

	assert.Equal(t, once, twice)
}

func TestDeriveReducersNamespacedSuccessHandlerSeesUsernameData(t *testing.T) {
	endpoint, _ := reducerFixture()
	endpoint.NamespaceOnUsername = true
	var previous any
	endpoint.Config = map[hammock.Verb]hammock.VerbConfig{
		hammock.GET: {OnSuccess: func(payload, prev any) any {
			previous = prev
			return payload
		}},
	}
	actions := hammock.DeriveActions(endpoint)
	reducer := hammock.DeriveReducers(endpoint, actions)

	state := hammock.H{"jane": hammock.H{"data": "before"}}
	result := reducer(state, hammock.Action{Type: actions.For(hammock.GET).SuccessType, Meta: "jane", Payload: "after"})

	assert.Equal(t, "before", previous)
	fragment, ok := result["jane"].(hammock.H)
	require.True(t, ok)
	assert.Equal(t, "after", fragment["data"])
}
