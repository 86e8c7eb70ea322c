package inference

import (
	"bytes"
	"context"
	"mime/multipart"
	"time"

	apperrors "github.com/ZanzyTHEbar/review-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/review-o-meter/internal/review"
)

// MultipartClient posts the review as the multipart form field "review" to
// the configured URL and expects sentiment, predicted_class, review and
// inference_time back.
type MultipartClient struct {
	baseClient
}

// NewMultipartClient creates a client posting to url as-is
func NewMultipartClient(url string, timeout time.Duration, opts ...Option) *MultipartClient {
	return &MultipartClient{
		baseClient: newBaseClient(url, timeout, opts),
	}
}

// Variant returns review.VariantMultipart
func (c *MultipartClient) Variant() review.Variant {
	return review.VariantMultipart
}

// Analyze sends one review
func (c *MultipartClient) Analyze(ctx context.Context, text string) (review.Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField(reviewField, text); err != nil {
		return review.Result{}, apperrors.NewInternalError("failed to encode review form", err)
	}
	if err := writer.Close(); err != nil {
		return review.Result{}, apperrors.NewInternalError("failed to encode review form", err)
	}

	var result review.Result
	if err := c.post(ctx, &body, writer.FormDataContentType(), &result); err != nil {
		return review.Result{}, err
	}

	result.Variant = review.VariantMultipart
	return result, nil
}
