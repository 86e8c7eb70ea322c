package frontend

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/ZanzyTHEbar/review-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/review-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/review-o-meter/internal/review"
	"github.com/ZanzyTHEbar/review-o-meter/internal/security"
	"github.com/gin-gonic/gin"
)

// reviewField is the form and multipart field carrying the review text
const reviewField = "review"

// Handler serves the review page and runs submissions against the analyzer
type Handler struct {
	tmpl     *template.Template
	analyzer review.Analyzer
	variant  review.Variant
	logger   *monitoring.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a page handler. logger and metrics may be nil.
func NewHandler(tmpl *template.Template, analyzer review.Analyzer, variant review.Variant, logger *monitoring.Logger, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		tmpl:     tmpl,
		analyzer: analyzer,
		variant:  variant,
		logger:   logger,
		metrics:  metrics,
	}
}

// Submit runs one submission on a fresh form and records its outcome.
// Empty reviews return review.ErrEmptyReview without contacting the analyzer.
func (h *Handler) Submit(ctx context.Context, text string) (review.State, error) {
	form := review.NewForm(h.analyzer)

	start := time.Now()
	state, err := form.Submit(ctx, text)
	if errors.Is(err, review.ErrEmptyReview) {
		return state, err
	}
	duration := time.Since(start)

	sentiment := ""
	if state.Result != nil {
		sentiment = state.Result.Sentiment
	}
	if h.logger != nil {
		h.logger.SubmissionLogger(len(text), string(h.variant), state.Phase.String(), sentiment, duration)
	}
	if h.metrics != nil {
		h.metrics.RecordSubmission(state.Phase == review.PhaseSuccess, state.Result != nil && state.Result.IsPositive())
	}
	return state, err
}

// ShowForm renders the page in its initial state
func (h *Handler) ShowForm(c *gin.Context) {
	h.render(c, http.StatusOK, review.Idle(), "")
}

// SubmitForm handles the page's form post and renders the resulting state
func (h *Handler) SubmitForm(c *gin.Context) {
	text := c.PostForm(reviewField)

	state, err := h.Submit(c.Request.Context(), text)
	switch {
	case errors.Is(err, review.ErrEmptyReview):
		apperrors.LogError(c, apperrors.NewValidationError(apperrors.MsgEmptyInput))
		h.render(c, http.StatusBadRequest, review.Idle(), text)
		return
	case err != nil:
		apperrors.LogError(c, apperrors.ToAppError(err))
	}

	h.render(c, http.StatusOK, state, text)
}

func (h *Handler) render(c *gin.Context, status int, state review.State, text string) {
	nonce := security.GetNonce(c)
	if nonce == "" {
		slog.Warn("CSP nonce not found in context, generating new one")
		var err error
		nonce, err = security.GenerateNonce()
		if err != nil {
			slog.Error("Failed to generate nonce", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	}

	if err := RenderIndex(c, h.tmpl, status, NewView(state, text, nonce)); err != nil {
		slog.Error("Failed to render index.html", "error", err, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to render page"})
	}
}

// NewAssetHandler serves the embedded static files mounted under prefix
func NewAssetHandler(staticFS fs.FS, prefix string) gin.HandlerFunc {
	fileServer := http.StripPrefix(prefix, http.FileServer(http.FS(staticFS)))

	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
