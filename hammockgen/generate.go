package main

import (
	"errors"
	"fmt"
	"go/format"
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mitodl/redux-hammock"
)

// Manifest is the YAML description of a set of endpoints.
type Manifest struct {
	Package   string             `yaml:"package"`
	Endpoints []EndpointManifest `yaml:"endpoints"`
}

type EndpointManifest struct {
	Name                string            `yaml:"name"`
	Verbs               []string          `yaml:"verbs"`
	URLs                map[string]string `yaml:"urls"`
	Prefixes            map[string]string `yaml:"prefixes"`
	NamespaceOnUsername bool              `yaml:"namespaceOnUsername"`
	CheckNoSpinner      bool              `yaml:"checkNoSpinner"`
}

func ParseManifest(b []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Endpoint builds the hammock.Endpoint the generated constructor returns.
func (em EndpointManifest) Endpoint() (*hammock.Endpoint, error) {

	if strings.TrimSpace(em.Name) == "" {
		return nil, errors.New("endpoint without a name")
	}
	if len(em.Verbs) == 0 {
		return nil, fmt.Errorf("endpoint %s has no verbs", em.Name)
	}

	e := &hammock.Endpoint{
		Name:                em.Name,
		Config:              map[hammock.Verb]hammock.VerbConfig{},
		NamespaceOnUsername: em.NamespaceOnUsername,
		CheckNoSpinner:      em.CheckNoSpinner,
	}
	for _, v := range em.Verbs {
		e.Verbs = append(e.Verbs, hammock.NormalizeVerb(v))
	}
	for v, u := range em.URLs {
		cfg := e.Config[hammock.NormalizeVerb(v)]
		cfg.URL = hammock.StaticURL(u)
		e.Config[hammock.NormalizeVerb(v)] = cfg
	}
	for v, p := range em.Prefixes {
		cfg := e.Config[hammock.NormalizeVerb(v)]
		cfg.Prefix = p
		e.Config[hammock.NormalizeVerb(v)] = cfg
	}
	return e, nil
}

type constData struct {
	Ident string
	Value string
}

type verbData struct {
	Verb   string
	URL    string
	Prefix string
}

type endpointData struct {
	Ident               string
	Name                string
	Consts              []constData
	Verbs               []verbData
	HasConfig           bool
	NamespaceOnUsername bool
	CheckNoSpinner      bool
}

type fileData struct {
	Package   string
	Endpoints []endpointData
}

const fileTemplate = `// Code generated by hammockgen. DO NOT EDIT.

package {{.Package}}

import hammock "github.com/mitodl/redux-hammock"
{{range .Endpoints}}
// Action types of the {{.Name}} endpoint.
const (
{{- range .Consts}}
	{{.Ident}} = {{printf "%q" .Value}}
{{- end}}
)

func New{{.Ident}}Endpoint() *hammock.Endpoint {
	return &hammock.Endpoint{
		Name: {{printf "%q" .Name}},
		Verbs: []hammock.Verb{ {{- range .Verbs}}{{printf "%q" .Verb}}, {{end -}} },
{{- if .HasConfig}}
		Config: map[hammock.Verb]hammock.VerbConfig{
{{- range .Verbs}}{{if or .URL .Prefix}}
			{{printf "%q" .Verb}}: {
				{{- if .URL}}URL: hammock.StaticURL({{printf "%q" .URL}}),{{end}}
				{{- if .Prefix}}Prefix: {{printf "%q" .Prefix}},{{end -}}
			},
{{- end}}{{end}}
		},
{{- end}}
{{- if .NamespaceOnUsername}}
		NamespaceOnUsername: true,
{{- end}}
{{- if .CheckNoSpinner}}
		CheckNoSpinner: true,
{{- end}}
	}
}
{{end}}`

var tmpl = template.Must(template.New("hammockgen").Parse(fileTemplate))

var identPattern = regexp.MustCompile("^[A-Za-z_][A-Za-z0-9_]*$")

// Generate renders the Go source for m: one const block with the action types
// of every endpoint, followed by its constructor. pkg, when set, overrides the
// manifest's package name.
func Generate(m *Manifest, pkg string) ([]byte, error) {

	data := fileData{Package: firstNonEmpty(pkg, m.Package, "endpoints")}
	if !identPattern.MatchString(data.Package) {
		return nil, fmt.Errorf("invalid package name %q", data.Package)
	}

	seen := map[string]string{}
	declare := func(ident, owner string) error {
		if other, dup := seen[ident]; dup {
			return fmt.Errorf("%s of %s collides with %s", ident, owner, other)
		}
		seen[ident] = owner
		return nil
	}

	for _, em := range m.Endpoints {

		e, err := em.Endpoint()
		if err != nil {
			return nil, err
		}
		actions := hammock.DeriveActions(e)

		ed := endpointData{
			Ident:               pascalCase(hammock.SnakeCase(e.Name)),
			Name:                e.Name,
			NamespaceOnUsername: e.NamespaceOnUsername,
			CheckNoSpinner:      e.CheckNoSpinner,
		}
		if err := declare("New"+ed.Ident+"Endpoint", e.Name); err != nil {
			return nil, err
		}

		for _, verb := range e.Verbs {
			action := actions.For(verb)
			for _, typ := range []string{action.RequestType, action.SuccessType, action.FailureType} {
				c := constData{Ident: pascalCase(typ), Value: typ}
				if err := declare(c.Ident, e.Name); err != nil {
					return nil, err
				}
				ed.Consts = append(ed.Consts, c)
			}

			cfg := e.VerbConfig(verb)
			vd := verbData{Verb: string(verb), Prefix: cfg.Prefix}
			if cfg.URL != nil {
				vd.URL = cfg.URL.Resolve()
			}
			ed.HasConfig = ed.HasConfig || vd.URL != "" || vd.Prefix != ""
			ed.Verbs = append(ed.Verbs, vd)
		}

		clr := constData{Ident: pascalCase(actions.ClearType), Value: actions.ClearType}
		if err := declare(clr.Ident, e.Name); err != nil {
			return nil, err
		}
		ed.Consts = append(ed.Consts, clr)

		data.Endpoints = append(data.Endpoints, ed)
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return nil, err
	}
	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// pascalCase turns an identifier such as "REQUEST_GET_COURSE_LIST" into an
// exported Go name, "RequestGetCourseList".
func pascalCase(s string) string {

	// Replace all underscores with spaces
	s = strings.ReplaceAll(strings.ToLower(s), "_", " ")

	// Title case s
	s = cases.Title(language.AmericanEnglish).String(s)

	// Remove all spaces
	return strings.ReplaceAll(s, " ", "")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
