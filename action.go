package hammock

import (
	"context"
	"time"

	"github.com/mitodl/redux-hammock/logging"
)

// Dispatch applies one action to a state container.
type Dispatch func(Action)

// Thunk is an asynchronous action: it dispatches as it goes and reports the
// outcome to its caller.
type Thunk func(ctx context.Context, dispatch Dispatch) (any, error)

// DerivedAction is the action derived for one verb of an Endpoint, together
// with the types of the events it dispatches.
type DerivedAction struct {
	RequestType string
	SuccessType string
	FailureType string

	fetch      FetchFunc
	request    ActionCreator
	success    ActionCreator
	failure    ActionCreator
	namespaced bool
	logger     logging.Logger
}

// DeriveAction derives the action of verb. The event types are built from the
// verb's prefix and the endpoint name.
func DeriveAction(e *Endpoint, verb Verb) *DerivedAction {
	prefix := e.prefix(verb)

	requestType := RequestActionType(prefix, e.Name)
	successType := SuccessActionType(prefix, e.Name)
	failureType := FailureActionType(prefix, e.Name)

	createAction := CreateAction
	if e.NamespaceOnUsername {
		createAction = WithUsername
	}

	return &DerivedAction{
		RequestType: requestType,
		SuccessType: successType,
		FailureType: failureType,
		fetch:       MakeFetchFunc(e, verb),
		request:     createAction(requestType),
		success:     createAction(successType),
		failure:     createAction(failureType),
		namespaced:  e.NamespaceOnUsername,
		logger:      e.Logger,
	}
}

// Action returns a Thunk that dispatches the request event, performs the
// network call with args, and then dispatches exactly one of the success or
// failure events. A failure is also returned to the caller.
//
// For namespaced endpoints args[0] is the username; it is carried in Meta of
// all three events.
func (d *DerivedAction) Action(args ...any) Thunk {
	return func(ctx context.Context, dispatch Dispatch) (any, error) {

		dispatch(d.request(args...))

		if d.logger != nil {
			d.logger.LogStageStart(d.RequestType, args)
		}
		t := time.Now()

		data, err := d.fetch(ctx, args...)

		if d.logger != nil {
			d.logger.LogStageComplete(err == nil, time.Since(t), d.RequestType, data)
			if err != nil {
				d.logger.LogStageError(err)
			}
		}

		if err != nil {
			dispatch(d.failure(d.outcome(args, err)...))
			return nil, err
		}

		dispatch(d.success(d.outcome(args, data)...))
		return data, nil
	}
}

func (d *DerivedAction) outcome(args []any, v any) []any {
	if d.namespaced {
		return []any{nthArg(args, 0), v}
	}
	return []any{v}
}

// Actions holds the derived action of every verb of an endpoint, plus the
// action clearing its state.
type Actions struct {
	Verbs     map[Verb]*DerivedAction
	ClearType string
	Clear     ActionCreator
}

// For returns the derived action of verb, or nil if the endpoint doesn't declare it.
func (a *Actions) For(verb Verb) *DerivedAction {
	return a.Verbs[NormalizeVerb(string(verb))]
}

// DeriveActions derives an action for each verb the endpoint declares.
func DeriveActions(e *Endpoint) *Actions {
	actions := &Actions{
		Verbs: make(map[Verb]*DerivedAction, len(e.Verbs)),
	}
	for _, verb := range e.Verbs {
		actions.Verbs[NormalizeVerb(string(verb))] = DeriveAction(e, verb)
	}

	actions.ClearType = ClearActionType(e.Name)
	if e.NamespaceOnUsername {
		actions.Clear = WithUsername(actions.ClearType)
	} else {
		actions.Clear = CreateAction(actions.ClearType)
	}
	return actions
}

// LogDispatch wraps next so every action type is reported to lgr before it is applied.
func LogDispatch(next Dispatch, lgr logging.Logger) Dispatch {
	if lgr == nil {
		return next
	}
	return func(a Action) {
		lgr.LogMessage("dispatch " + a.Type)
		next(a)
	}
}

type thunkResult struct {
	Out   any
	Error error
}

func runInParallel(ctx context.Context, t Thunk, dispatch Dispatch, r chan thunkResult) {
	o, e := t(ctx, dispatch)
	r <- thunkResult{
		Out:   o,
		Error: e,
	}
}

// InParallel runs thunks concurrently and waits for all of them. The results
// come back in argument order; if any thunk failed, the error of the first
// failed one (by position) is returned. dispatch must be safe for concurrent
// use, as Store.Dispatch is.
func InParallel(thunks ...Thunk) Thunk {
	return func(ctx context.Context, dispatch Dispatch) (any, error) {

		resultChans := make([]chan thunkResult, len(thunks))

		for i, t := range thunks {
			rc := make(chan thunkResult, 1)
			go runInParallel(ctx, t, dispatch, rc)
			resultChans[i] = rc
		}

		out := make([]any, len(thunks))
		outErr := make([]error, len(thunks))

		for i, rc := range resultChans {
			r := <-rc
			out[i] = r.Out
			outErr[i] = r.Error
		}

		for _, e := range outErr {
			if e != nil {
				return nil, e
			}
		}

		return out, nil
	}
}
