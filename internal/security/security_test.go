package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(sm *SecurityMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(sm.SecurityHeaders)
	r.Use(sm.ValidateContentType)
	r.Use(sm.LimitBodySize)
	r.POST("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestSecurityHeaders(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())
	r := newTestRouter(sm)

	req := httptest.NewRequest(http.MethodPost, "/ok", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestHSTSEnabled(t *testing.T) {
	config := DefaultSecurityConfig()
	config.EnableHSTS = true
	sm := NewSecurityMiddleware(config)
	r := newTestRouter(sm)

	req := httptest.NewRequest(http.MethodPost, "/ok", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}

func TestValidateContentType(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())
	r := newTestRouter(sm)

	tests := []struct {
		name        string
		contentType string
		wantStatus  int
	}{
		{"json allowed", "application/json", http.StatusOK},
		{"form allowed", "application/x-www-form-urlencoded", http.StatusOK},
		{"empty allowed", "", http.StatusOK},
		{"xml rejected", "application/xml", http.StatusUnsupportedMediaType},
		{"multipart rejected", "multipart/form-data", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ok", strings.NewReader(`{}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestLimitBodySize(t *testing.T) {
	config := DefaultSecurityConfig()
	config.MaxBodyBytes = 16
	sm := NewSecurityMiddleware(config)
	r := newTestRouter(sm)

	req := httptest.NewRequest(http.MethodPost, "/ok", strings.NewReader(strings.Repeat("a", 64)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	config := DefaultSecurityConfig()
	config.RequestTimeout = 5 * time.Second
	sm := NewSecurityMiddleware(config)

	r := gin.New()
	r.Use(sm.RequestTimeout)
	r.GET("/deadline", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"has_deadline": ok})
	})

	req := httptest.NewRequest(http.MethodGet, "/deadline", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_deadline":true`)
	assert.Equal(t, "5", w.Header().Get("X-Timeout"))
}
