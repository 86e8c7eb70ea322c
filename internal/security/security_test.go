package security

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNonce(t *testing.T) {
	first, err := GenerateNonce()
	require.NoError(t, err)
	second, err := GenerateNonce()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	raw, err := base64.RawURLEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestCSPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		reportURI  string
		wantReport bool
	}{
		{"without reporting", "", false},
		{"with reporting", "https://csp.example.test/report", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CSPMiddleware(tt.reportURI))
			r.GET("/", func(c *gin.Context) {
				c.String(http.StatusOK, GetNonce(c))
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			nonce := w.Body.String()
			require.NotEmpty(t, nonce)

			policy := w.Header().Get("Content-Security-Policy")
			assert.Contains(t, policy, "script-src 'self' 'nonce-"+nonce+"'")
			assert.Contains(t, policy, "form-action 'self'")

			report := w.Header().Get("Content-Security-Policy-Report-Only")
			if tt.wantReport {
				assert.Contains(t, report, "report-uri "+tt.reportURI)
			} else {
				assert.Empty(t, report)
			}
		})
	}
}

func TestGetNonce_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetNonce(c))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, hsts := range []bool{false, true} {
		r := gin.New()
		r.Use(SecurityHeadersMiddleware(hsts))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		if hsts {
			assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
		} else {
			assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		}
	}
}
