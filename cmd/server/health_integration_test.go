package main

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/review-o-meter/internal/config"
	"github.com/ZanzyTHEbar/review-o-meter/internal/inference"
	"github.com/ZanzyTHEbar/review-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/review-o-meter/internal/review"
)

func TestHealthEndpoint_Integration(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{name: "successful health check", method: http.MethodGet, expectedStatus: http.StatusOK},
		{name: "POST /health not routed", method: http.MethodPost, expectedStatus: http.StatusNotFound},
		{name: "DELETE /health not routed", method: http.MethodDelete, expectedStatus: http.StatusNotFound},
	}

	r, _ := setupRouter(t, nil, review.VariantMultipart)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, "/health", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "ok", response["status"])
			assert.Equal(t, version, response["version"])
			assert.Equal(t, "multipart", response["api_variant"])

			_, err := time.Parse(time.RFC3339, response["timestamp"].(string))
			assert.NoError(t, err)
		})
	}
}

// newIntegrationRouter wires the real inference client selected by cfg
func newIntegrationRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := monitoring.NewLoggerWithWriter(io.Discard, monitoring.FormatJSON, 0)
	metrics := monitoring.NewMetrics()

	client, err := inference.New(cfg, inference.WithLogger(logger), inference.WithMetrics(metrics))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	r, err := newRouter(routerDeps{
		cfg:      cfg,
		analyzer: client,
		variant:  client.Variant(),
		logger:   logger,
		metrics:  metrics,
	})
	require.NoError(t, err)
	return r
}

func TestAnalyze_MultipartIntegration(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if !assert.NoError(t, err) || !assert.Equal(t, "multipart/form-data", mediaType) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		form, err := multipart.NewReader(r.Body, params["boundary"]).ReadForm(1 << 20)
		if !assert.NoError(t, err) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		text := form.Value["review"][0]
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"sentiment":       "positivo",
			"predicted_class": 1,
			"review":          text,
			"inference_time":  "0.05s",
		})
	}))
	defer upstream.Close()

	cfg := config.Default()
	cfg.APIURL = upstream.URL + "/predict_api"
	r := newIntegrationRouter(t, &cfg)

	w := postJSON(r, "/api/analyze", map[string]string{"review": "Obra maestra"})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "positivo", response["label"])
	result := response["result"].(map[string]interface{})
	assert.Equal(t, "Obra maestra", result["review"])
	assert.Equal(t, "0.05s", result["inference_time"])
}

func TestAnalyze_JSONIntegration(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze-review" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		sentiment := "negativa"
		if strings.Contains(body["review"], "buena") {
			sentiment = "positiva"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"sentiment": sentiment})
	}))
	defer upstream.Close()

	cfg := config.Default()
	cfg.APIVariant = config.VariantJSON
	cfg.APIURL = upstream.URL + "/"
	r := newIntegrationRouter(t, &cfg)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("review=muy+buena"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), review.LabelPositive)
	assert.Contains(t, w.Body.String(), "text-green-500")
}

func TestAnalyze_UpstreamErrorIntegration(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	cfg := config.Default()
	cfg.APIURL = upstream.URL
	r := newIntegrationRouter(t, &cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("review=algo")).WithContext(ctx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Error en la API. Intenta nuevamente.")
}
