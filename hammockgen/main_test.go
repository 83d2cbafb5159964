package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitodl/redux-hammock/logging"
)

const manifest = `
package: api
endpoints:
  - name: courseList
    verbs: [GET, post]
    urls:
      get: /api/v0/course_list/
      POST: /api/v0/course_list/
    prefixes:
      GET: fetchAll
  - name: profile
    verbs: [GET, PATCH]
    urls:
      GET: /api/v0/profiles/
    namespaceOnUsername: true
    checkNoSpinner: true
`

const want = `// Code generated by hammockgen. DO NOT EDIT.

package api

import hammock "github.com/mitodl/redux-hammock"

// Action types of the courseList endpoint.
const (
	RequestFetchAllCourseList        = "REQUEST_FETCH_ALL_COURSE_LIST"
	ReceiveFetchAllCourseListSuccess = "RECEIVE_FETCH_ALL_COURSE_LIST_SUCCESS"
	ReceiveFetchAllCourseListFailure = "RECEIVE_FETCH_ALL_COURSE_LIST_FAILURE"
	RequestPostCourseList            = "REQUEST_POST_COURSE_LIST"
	ReceivePostCourseListSuccess     = "RECEIVE_POST_COURSE_LIST_SUCCESS"
	ReceivePostCourseListFailure     = "RECEIVE_POST_COURSE_LIST_FAILURE"
	ClearCourseList                  = "CLEAR_COURSE_LIST"
)

func NewCourseListEndpoint() *hammock.Endpoint {
	return &hammock.Endpoint{
		Name:  "courseList",
		Verbs: []hammock.Verb{"GET", "POST"},
		Config: map[hammock.Verb]hammock.VerbConfig{
			"GET":  {URL: hammock.StaticURL("/api/v0/course_list/"), Prefix: "fetchAll"},
			"POST": {URL: hammock.StaticURL("/api/v0/course_list/")},
		},
	}
}

// Action types of the profile endpoint.
const (
	RequestGetProfile          = "REQUEST_GET_PROFILE"
	ReceiveGetProfileSuccess   = "RECEIVE_GET_PROFILE_SUCCESS"
	ReceiveGetProfileFailure   = "RECEIVE_GET_PROFILE_FAILURE"
	RequestPatchProfile        = "REQUEST_PATCH_PROFILE"
	ReceivePatchProfileSuccess = "RECEIVE_PATCH_PROFILE_SUCCESS"
	ReceivePatchProfileFailure = "RECEIVE_PATCH_PROFILE_FAILURE"
	ClearProfile               = "CLEAR_PROFILE"
)

func NewProfileEndpoint() *hammock.Endpoint {
	return &hammock.Endpoint{
		Name:  "profile",
		Verbs: []hammock.Verb{"GET", "PATCH"},
		Config: map[hammock.Verb]hammock.VerbConfig{
			"GET": {URL: hammock.StaticURL("/api/v0/profiles/")},
		},
		NamespaceOnUsername: true,
		CheckNoSpinner:      true,
	}
}
`

func TestGenerate(t *testing.T) {
	m, err := ParseManifest([]byte(manifest))
	require.NoError(t, err)

	src, err := Generate(m, "")

	require.NoError(t, err)
	assert.Equal(t, want, string(src))
}

func TestGeneratePackageOverride(t *testing.T) {
	m, err := ParseManifest([]byte(manifest))
	require.NoError(t, err)

	src, err := Generate(m, "routes")

	require.NoError(t, err)
	assert.Contains(t, string(src), "\npackage routes\n")
}

func TestGenerateRejectsBadManifests(t *testing.T) {
	cases := map[string]string{
		"no name":        "endpoints:\n  - verbs: [GET]\n",
		"no verbs":       "endpoints:\n  - name: things\n",
		"collision":      "endpoints:\n  - name: things\n    verbs: [GET]\n  - name: Things\n    verbs: [POST]\n",
		"bad package":    "package: not-a-name\nendpoints: []\n",
		"duplicate name": "endpoints:\n  - name: a\n    verbs: [GET]\n  - name: a\n    verbs: [GET]\n",
	}
	for name, yml := range cases {
		m, err := ParseManifest([]byte(yml))
		require.NoError(t, err, name)

		_, err = Generate(m, "")
		assert.Error(t, err, name)
	}
}

func TestParseManifestInvalidYAML(t *testing.T) {
	_, err := ParseManifest([]byte("endpoints: [: nope"))
	assert.Error(t, err)
}

func TestPascalCase(t *testing.T) {
	assert.Equal(t, "RequestGetCourseList", pascalCase("REQUEST_GET_COURSE_LIST"))
	assert.Equal(t, "CourseRun2", pascalCase("course_run_2"))
	assert.Equal(t, "", pascalCase(""))
}

func TestRunWritesFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "endpoints.yaml")
	out := filepath.Join(dir, "endpoints_gen.go")
	require.NoError(t, os.WriteFile(in, []byte(manifest), 0o644))
	lgr := &logging.Recorder{}

	err := run(in, out, "", lgr)

	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, want, string(b))
	require.Len(t, lgr.Completed, 1)
	assert.True(t, lgr.Completed[0].Success)
}

func TestRunMissingManifest(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "missing.yaml"), "", "", &logging.Recorder{})
	assert.Error(t, err)
}
