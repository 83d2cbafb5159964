package hammock

// Transition computes the next state from the current one and an action. It
// must not modify state.
type Transition func(state H, a Action) H

// ReducerMap maps action types to their transitions.
type ReducerMap map[string]Transition

// Reducer is the state function of one slice. A nil state means the slice's
// initial state.
type Reducer func(state H, a Action) H

func identity(payload, _ any) any {
	return payload
}

// DeriveReducer derives the transitions for the request, success and failure
// events of action, the already derived action of verb.
//
// The status of each verb is tracked under "<verb>Status"; "loaded",
// "processing", "data" and "error" are shared by all verbs of the endpoint.
func DeriveReducer(e *Endpoint, action *DerivedAction, verb Verb) ReducerMap {
	fetchStatus := verb.Lower() + "Status"

	successHandler := e.VerbConfig(verb).OnSuccess
	if successHandler == nil {
		successHandler = identity
	}

	updateFunc := func(state H, a Action, update H) H {
		if e.NamespaceOnUsername {
			fragment := make(H, len(e.UsernameInitialState)+len(update))
			for k, v := range e.UsernameInitialState {
				fragment[k] = v
			}
			for k, v := range update {
				fragment[k] = v
			}
			return UpdateStateByUsername(state, usernameKey(a.Meta), fragment)
		}
		out := make(H, len(state)+len(update))
		for k, v := range state {
			out[k] = v
		}
		for k, v := range update {
			out[k] = v
		}
		return out
	}

	// previousData is the data the success handler merges into: the
	// username's own fragment when namespaced.
	previousData := func(state H, a Action) any {
		if e.NamespaceOnUsername {
			fragment, _ := asH(state[usernameKey(a.Meta)])
			return fragment["data"]
		}
		return state["data"]
	}

	return ReducerMap{
		action.RequestType: func(state H, a Action) H {
			var processing any = true
			if e.CheckNoSpinner {
				processing = a.Payload
			}
			return updateFunc(state, a, H{
				fetchStatus:  FetchProcessing,
				"loaded":     false,
				"processing": processing,
			})
		},
		action.SuccessType: func(state H, a Action) H {
			return updateFunc(state, a, H{
				fetchStatus:  FetchSuccess,
				"data":       successHandler(a.Payload, previousData(state, a)),
				"loaded":     true,
				"processing": false,
			})
		},
		action.FailureType: func(state H, a Action) H {
			return updateFunc(state, a, H{
				fetchStatus:  FetchFailure,
				"error":      a.Payload,
				"loaded":     true,
				"processing": false,
			})
		},
	}
}

// DeriveReducers builds the reducer of the whole endpoint: the transitions of
// every verb, then ExtraActions, then the clear transition, later entries
// winning on a type collision. Actions of any other type return the state
// unchanged, the same map and not a copy. A nil actions derives them from e.
func DeriveReducers(e *Endpoint, actions *Actions) Reducer {
	if actions == nil {
		actions = DeriveActions(e)
	}
	initialState := e.initialState()

	reducers := ReducerMap{}
	for _, verb := range e.Verbs {
		action := actions.For(verb)
		if action == nil {
			action = DeriveAction(e, verb)
		}
		for typ, t := range DeriveReducer(e, action, verb) {
			reducers[typ] = t
		}
	}
	for typ, t := range e.ExtraActions {
		reducers[typ] = t
	}
	reducers[actions.ClearType] = func(H, Action) H {
		return cloneDeep(initialState).(H)
	}

	return func(state H, a Action) H {
		if state == nil {
			state = cloneDeep(initialState).(H)
		}
		if t, ok := reducers[a.Type]; ok {
			return t(state, a)
		}
		return state
	}
}
