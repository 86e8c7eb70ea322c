package review

import "fmt"

// Variant identifies which inference contract produced a Result
type Variant string

const (
	VariantMultipart Variant = "multipart"
	VariantJSON      Variant = "json"
)

// Sentiment values reported by the inference service
const (
	sentimentPositiveMultipart = "positivo"
	sentimentPositiveJSON      = "positiva"

	LabelPositive = "Positiva"
	LabelNegative = "Negativa"
)

// Result is the analysis returned by the inference service. The JSON variant
// only fills Sentiment.
type Result struct {
	Sentiment      string  `json:"sentiment"`
	PredictedClass int     `json:"predicted_class"`
	Review         string  `json:"review"`
	InferenceTime  string  `json:"inference_time"`
	Variant        Variant `json:"-"`
}

// IsPositive interprets Sentiment according to the variant that produced it
func (r Result) IsPositive() bool {
	if r.Variant == VariantJSON {
		return r.Sentiment == sentimentPositiveJSON
	}
	return r.Sentiment == sentimentPositiveMultipart
}

// Label is the text shown for the sentiment. The multipart variant shows the
// service's own wording, the JSON variant a fixed Positiva/Negativa label.
func (r Result) Label() string {
	if r.Variant != VariantJSON {
		return r.Sentiment
	}
	if r.IsPositive() {
		return LabelPositive
	}
	return LabelNegative
}

// HasDetails reports whether the echoed review, class and timing are available
func (r Result) HasDetails() bool {
	return r.Variant != VariantJSON
}

// Phase is the tag of a State
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailure
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	}
	return "unknown"
}

// State is the only state of the review page. Result is set only in
// PhaseSuccess and Message only in PhaseFailure.
type State struct {
	Phase   Phase
	Result  *Result
	Message string
}

// Idle returns the initial state
func Idle() State { return State{Phase: PhaseIdle} }

// Loading returns the state held while a submission is in flight
func Loading() State { return State{Phase: PhaseLoading} }

// Success returns the state holding a parsed result
func Success(result Result) State { return State{Phase: PhaseSuccess, Result: &result} }

// Failure returns the state holding a user-facing error message
func Failure(message string) State { return State{Phase: PhaseFailure, Message: message} }

// IsLoading reports whether a submission is in flight
func (s State) IsLoading() bool { return s.Phase == PhaseLoading }

// String renders the state for logs
func (s State) String() string {
	switch s.Phase {
	case PhaseSuccess:
		return fmt.Sprintf("success(%s)", s.Result.Sentiment)
	case PhaseFailure:
		return fmt.Sprintf("failure(%s)", s.Message)
	}
	return s.Phase.String()
}
