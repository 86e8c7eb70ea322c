package frontend

import "github.com/ZanzyTHEbar/review-o-meter/internal/review"

const (
	ButtonSubmit  = "Enviar Reseña"
	ButtonLoading = "Analizando..."

	ClassPositive = "text-green-500"
	ClassNegative = "text-red-500"
)

// View is the data the index template renders
type View struct {
	Nonce        string
	Review       string
	Loading      bool
	ButtonLabel  string
	LoadingLabel string
	Error        string
	Result       *ResultView
}

// ResultView is the rendered form of a successful analysis
type ResultView struct {
	Label          string
	Positive       bool
	Class          string
	Details        bool
	Review         string
	PredictedClass int
	InferenceTime  string
}

// NewView maps a review state onto the page. It has no side effects.
func NewView(state review.State, reviewText, nonce string) View {
	v := View{
		Nonce:        nonce,
		Review:       reviewText,
		Loading:      state.IsLoading(),
		ButtonLabel:  ButtonSubmit,
		LoadingLabel: ButtonLoading,
	}
	if v.Loading {
		v.ButtonLabel = ButtonLoading
	}

	switch state.Phase {
	case review.PhaseFailure:
		v.Error = state.Message
	case review.PhaseSuccess:
		if state.Result != nil {
			v.Result = newResultView(*state.Result)
		}
	}
	return v
}

func newResultView(r review.Result) *ResultView {
	rv := &ResultView{
		Label:    r.Label(),
		Positive: r.IsPositive(),
		Class:    ClassNegative,
		Details:  r.HasDetails(),
	}
	if rv.Positive {
		rv.Class = ClassPositive
	}
	if rv.Details {
		rv.Review = r.Review
		rv.PredictedClass = r.PredictedClass
		rv.InferenceTime = r.InferenceTime
	}
	return rv
}
