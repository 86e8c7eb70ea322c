package main

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/review-o-meter/internal/config"
	"github.com/ZanzyTHEbar/review-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/review-o-meter/internal/frontend"
	"github.com/ZanzyTHEbar/review-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/review-o-meter/internal/review"
)

const version = "1.0.0"

// AnalyzeRequest is the body of POST /api/analyze
type AnalyzeRequest struct {
	Review string `json:"review" example:"Una película maravillosa"`
}

// AnalyzeResponse reports the settled state of one submission
type AnalyzeResponse struct {
	State    string         `json:"state" example:"success"`
	Result   *review.Result `json:"result,omitempty"`
	Positive bool           `json:"positive"`
	Label    string         `json:"label,omitempty" example:"positivo"`
	Error    string         `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string `json:"status" example:"ok"`
	Timestamp  string `json:"timestamp"`
	Version    string `json:"version" example:"1.0.0"`
	APIVariant string `json:"api_variant" example:"multipart"`
}

// analyzeHandler godoc
//
//	@Summary		Analyze a movie review
//	@Description	Sends the review to the inference service and returns its sentiment
//	@Tags			analysis
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AnalyzeRequest	true	"Review to analyze"
//	@Success		200		{object}	AnalyzeResponse
//	@Failure		400		{object}	map[string]interface{}
//	@Failure		502		{object}	AnalyzeResponse
//	@Router			/api/analyze [post]
func analyzeHandler(pages *frontend.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid request body", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		state, err := pages.Submit(c.Request.Context(), req.Review)
		if stderrors.Is(err, review.ErrEmptyReview) {
			appErr := errors.NewValidationError(errors.MsgEmptyInput)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if state.Phase != review.PhaseSuccess || state.Result == nil {
			if err != nil {
				errors.LogError(c, errors.ToAppError(err))
			}
			c.JSON(http.StatusBadGateway, AnalyzeResponse{
				State: review.PhaseFailure.String(),
				Error: state.Message,
			})
			return
		}

		c.JSON(http.StatusOK, AnalyzeResponse{
			State:    review.PhaseSuccess.String(),
			Result:   state.Result,
			Positive: state.Result.IsPositive(),
			Label:    state.Result.Label(),
		})
	}
}

// healthHandler godoc
//
//	@Summary	Health check
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func healthHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:     "ok",
			Timestamp:  time.Now().Format(time.RFC3339),
			Version:    version,
			APIVariant: string(cfg.APIVariant),
		})
	}
}

// metricsHandler godoc
//
//	@Summary	Request and submission counters
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/metrics [get]
func metricsHandler(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.GetStats())
	}
}
