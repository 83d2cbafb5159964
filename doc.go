/*
Package hammock derives REST state handling from a declarative description of
an HTTP resource.

An Endpoint names a resource and the verbs it supports. For each verb,
DeriveAction produces an asynchronous action and the three event types it
dispatches:

	REQUEST_GET_COURSES           when the call is issued
	RECEIVE_GET_COURSES_SUCCESS   with the response data
	RECEIVE_GET_COURSES_FAILURE   with the error

DeriveReducers produces the matching Reducer, which folds those events (plus
CLEAR_COURSES, which resets the slice) into a state slice:

	{"getStatus": "FETCH_SUCCESS", "loaded": true, "processing": false, "data": ...}

The network call of a verb is either a FetchFunc supplied by the endpoint or a
request built from its URL and options, sent through the csrf package by
default.

Basics

	courses := &hammock.Endpoint{
		Name:  "courses",
		Verbs: []hammock.Verb{hammock.GET, hammock.POST},
		Config: map[hammock.Verb]hammock.VerbConfig{
			hammock.GET:  {URL: hammock.StaticURL("/api/v0/courses/")},
			hammock.POST: {URL: hammock.StaticURL("/api/v0/courses/")},
		},
	}
	actions := hammock.DeriveActions(courses)
	store := hammock.NewStore(hammock.DeriveReducers(courses, actions), nil)
	data, err := store.Run(ctx, actions.For(hammock.GET).Action())

Namespacing

With NamespaceOnUsername set, the first argument of every call is a username.
It travels in the Meta field of the events, and the reducer keeps one state
fragment per username, deep-merging updates into it.
*/
package hammock
