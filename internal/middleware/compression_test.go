package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressionRouter(t *testing.T, config CompressionConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Compression(config))
	r.GET("/large", func(c *gin.Context) {
		c.String(http.StatusOK, strings.Repeat("lumora ", 1000))
	})
	r.GET("/small", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, strings.Repeat("status ", 1000))
	})
	return r
}

func doRequest(r *gin.Engine, path string, acceptGzip bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if acceptGzip {
		req.Header.Set("Accept-Encoding", "gzip")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCompressionCompressesLargeResponses(t *testing.T) {
	r := compressionRouter(t, DefaultCompressionConfig())

	w := doRequest(r, "/large", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Get("Vary"), "Accept-Encoding")

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	defer gz.Close()

	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("lumora ", 1000), string(body))
}

func TestCompressionSkipsWithoutAcceptEncoding(t *testing.T) {
	r := compressionRouter(t, DefaultCompressionConfig())

	w := doRequest(r, "/large", false)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Body.String(), "lumora")
}

func TestCompressionSkipsSmallResponses(t *testing.T) {
	r := compressionRouter(t, DefaultCompressionConfig())

	w := doRequest(r, "/small", true)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestCompressionSkipsExcludedPaths(t *testing.T) {
	r := compressionRouter(t, DefaultCompressionConfig())

	w := doRequest(r, "/health", true)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Body.String(), "status")
}
