package review

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	apperrors "github.com/ZanzyTHEbar/review-o-meter/internal/errors"
)

// ErrEmptyReview is returned by Submit when there is nothing to analyze
var ErrEmptyReview = errors.New("review is empty")

// Analyzer sends one review to the inference service
type Analyzer interface {
	Analyze(ctx context.Context, review string) (Result, error)
}

// AnalyzerFunc adapts a function to Analyzer
type AnalyzerFunc func(ctx context.Context, review string) (Result, error)

// Analyze calls f
func (f AnalyzerFunc) Analyze(ctx context.Context, review string) (Result, error) {
	return f(ctx, review)
}

// Form collects a review, submits it and holds the resulting State.
// Concurrent submissions are not coordinated; the last one to settle wins.
type Form struct {
	analyzer Analyzer

	mu        sync.RWMutex
	state     State
	observers []func(State)
}

// NewForm creates a form in the Idle state
func NewForm(analyzer Analyzer) *Form {
	return &Form{
		analyzer: analyzer,
		state:    Idle(),
	}
}

// OnChange registers fn to be called after every state transition
func (f *Form) OnChange(fn func(State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
}

// State returns a snapshot of the current state
func (f *Form) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Submit analyzes text and returns the settled state. An empty review returns
// ErrEmptyReview and leaves the state untouched without sending anything.
// Otherwise the state always ends in Success or Failure; a failed call also
// returns the analyzer's error for logging. Submit adds no timeout of its
// own and returns when the analyzer returns.
func (f *Form) Submit(ctx context.Context, text string) (State, error) {
	if text == "" {
		return f.State(), ErrEmptyReview
	}

	f.transition(Loading())

	result, err := f.analyze(ctx, text)
	if err != nil {
		return f.transition(Failure(apperrors.UserMessage(err))), err
	}

	return f.transition(Success(result)), nil
}

// analyze turns a panic in the analyzer into an error. A panic value that is
// not an error has no message to show.
func (f *Form) analyze(ctx context.Context, text string) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = rErr
				return
			}
			slog.Warn("Analyzer panicked with a non-error value", "value", r)
			err = errors.New(apperrors.MsgUnknown)
		}
	}()

	return f.analyzer.Analyze(ctx, text)
}

func (f *Form) transition(next State) State {
	f.mu.Lock()
	f.state = next
	observers := make([]func(State), len(f.observers))
	copy(observers, f.observers)
	f.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
	return next
}
