package logging

import (
	"log"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger receives progress reports from request pipelines and derived actions.
// A nil Logger is valid everywhere one is accepted and means "don't log".
type Logger interface {
	LogMessage(msg string)
	LogStageStart(name string, in any)
	LogStageComplete(success bool, elapsed time.Duration, name string, out any)
	LogStageError(err error)
}

// DefaultLogger prints one line per completed stage through the standard
// logger, in three columns: OK/ERR, elapsed time and the stage name.
type DefaultLogger struct{}

func (l DefaultLogger) LogMessage(msg string) {
	log.Print(msg)
}

func (l DefaultLogger) LogStageStart(name string, in any) {
	// Ignore
}

func (l DefaultLogger) LogStageComplete(success bool, elapsed time.Duration, name string, out any) {

	// Column 1: Success or failure
	lbl := color.New(color.FgWhite).Add(color.BgGreen).Sprintf(" OK  ")
	if !success {
		lbl = color.New(color.FgWhite).Add(color.BgRed).Sprintf(" ERR ")
	}

	// Column 2: Time elapsed
	tclr := color.New(color.FgWhite, color.Faint)
	if elapsed > time.Millisecond {
		tclr = color.New(color.FgWhite).Add(color.BgCyan)
	}
	took := tclr.Sprintf("%13v", elapsed)

	// Column 3: Stage name
	log.Print("|" + lbl + "| " + took + " | " + name)
}

func (l DefaultLogger) LogStageError(err error) {
	log.Printf("")
	log.Printf("Error: %s", err)
	log.Printf("")
}

// Recorder keeps every report in memory. It is meant for tests that need to
// assert on what a pipeline or derived action logged.
type Recorder struct {
	mu        sync.Mutex
	Messages  []string
	Started   []string
	Completed []Completion
	Errors    []error
}

// Completion is a single LogStageComplete call captured by a Recorder.
type Completion struct {
	Name    string
	Success bool
}

func (r *Recorder) LogMessage(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, msg)
}

func (r *Recorder) LogStageStart(name string, in any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Started = append(r.Started, name)
}

func (r *Recorder) LogStageComplete(success bool, elapsed time.Duration, name string, out any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Completed = append(r.Completed, Completion{Name: name, Success: success})
}

func (r *Recorder) LogStageError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err)
}
