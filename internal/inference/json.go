package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	apperrors "github.com/ZanzyTHEbar/review-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/review-o-meter/internal/review"
)

type analyzeReviewRequest struct {
	Review string `json:"review"`
}

type analyzeReviewResponse struct {
	Sentiment string `json:"sentiment"`
}

// JSONClient posts {"review": ...} to {baseURL}/analyze-review and expects
// {"sentiment": ...} back.
type JSONClient struct {
	baseClient
}

// NewJSONClient creates a client for baseURL. An empty baseURL is kept as is;
// requests then fail with a transport error.
func NewJSONClient(baseURL string, timeout time.Duration, opts ...Option) *JSONClient {
	return &JSONClient{
		baseClient: newBaseClient(joinPath(baseURL, analyzeReviewPath), timeout, opts),
	}
}

// Variant returns review.VariantJSON
func (c *JSONClient) Variant() review.Variant {
	return review.VariantJSON
}

// Analyze sends one review
func (c *JSONClient) Analyze(ctx context.Context, text string) (review.Result, error) {
	payload, err := json.Marshal(analyzeReviewRequest{Review: text})
	if err != nil {
		return review.Result{}, apperrors.NewInternalError("failed to encode review", err)
	}

	var resp analyzeReviewResponse
	if err := c.post(ctx, bytes.NewReader(payload), "application/json", &resp); err != nil {
		return review.Result{}, err
	}

	return review.Result{
		Sentiment: resp.Sentiment,
		Variant:   review.VariantJSON,
	}, nil
}
