package csrf

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/mitodl/redux-hammock/logging"
)

// Exchange is the value threaded through a pipeline. Request stages fill in
// Init, the send stage sets Response, and response stages set Text and Value.
type Exchange struct {
	URL      string
	Init     Init
	Response *http.Response
	Text     string
	Value    any

	target *url.URL
	client *Client
}

// Stage is a step in an exchange pipeline. Stages are connected together as a linked list by n.
// When a pipeline is run, it executes each Stage's F function against the shared Exchange.
// When F returns an error, it is passed in to the E function (if any), which may replace it with the error
// the caller sees, and the rest of the pipeline is skipped.
type Stage struct {
	Name string                                 // Name of the stage, for logging
	F    func(context.Context, *Exchange) error // Function to execute
	E    func(error) error                      // Error to return for F's error
	n    *Stage                                 // Next stage
}

type Chain struct {
	First *Stage
	Last  *Stage
}

// Pipelines should be defined by sending the first Stage in to the First function and then each following
// Stage into the Then function. The pipeline definition should read like:
//
//	pipeline := First(stage0).Then(stage1).Then(stage2) ...
//
// Stages are linked in place, so a Stage value belongs to exactly one Chain.
func First(s *Stage) *Chain {
	ch := Chain{
		First: s,
		Last:  s,
	}
	return &ch
}

func (ch *Chain) Then(n *Stage) *Chain {
	ch.Last.n = n
	ch.Last = n
	return ch
}

// Catch overrides the error mapping of the last stage added to the chain.
func (ch *Chain) Catch(e func(error) error) *Chain {
	ch.Last.E = e
	return ch
}

// Append concatenates together multiple pipelines defined by the above First+Then method.
func Append(chains ...*Chain) *Chain {

	if len(chains) == 0 {
		return nil
	}

	// Start with the first chain as the base
	ch := chains[0]

	for i := range chains {

		// Break if there are no more chains to link
		if i == len(chains)-1 {
			break
		}

		// Link ch's last stage to the next chain's first stage
		ch.Last.n = chains[i+1].First

		// Include all of the next chain's stages into ch
		ch.Last = chains[i+1].Last
	}

	return ch
}

// Names lists the stage names in execution order.
func (ch *Chain) Names() []string {
	var names []string
	for s := ch.First; s != nil; s = s.n {
		names = append(names, s.Name)
	}
	return names
}

// Execute runs every stage of ch in order against x and stops at the first failure.
func Execute(ctx context.Context, ch *Chain, x *Exchange, lgr logging.Logger) error {

	s := ch.First

	for s != nil {

		if lgr != nil {
			lgr.LogStageStart(s.Name, x)
		}

		t := time.Now()

		err := s.Execute(ctx, x)

		if lgr != nil {
			lgr.LogStageComplete(err == nil, time.Since(t), s.Name, x)
			if err != nil {
				lgr.LogStageError(err)
			}
		}

		if err != nil {
			return err
		}

		s = s.n
	}

	return nil
}

// Execute executes the stage by calling the F function followed by the E function if there's an error.
func (s *Stage) Execute(ctx context.Context, x *Exchange) error {

	err := s.F(ctx, x)
	if err != nil && s.E != nil {
		return s.E(err)
	}

	return err
}
