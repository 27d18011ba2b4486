package middleware

import (
	"compress/gzip"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// CompressionConfig controls gzip response compression
type CompressionConfig struct {
	// Level is the gzip compression level
	Level int
	// MinSize is the minimum response size in bytes worth compressing.
	// Responses that declare a smaller Content-Length are passed through.
	MinSize int
	// ExcludedPaths are path prefixes that bypass compression
	ExcludedPaths []string
}

// DefaultCompressionConfig returns settings suited to JSON API responses
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		Level:   gzip.DefaultCompression,
		MinSize: 1024,
		ExcludedPaths: []string{
			"/health",
		},
	}
}

// Compression returns middleware that gzips response bodies for clients
// that advertise gzip support. Writers are pooled across requests.
func Compression(config CompressionConfig) gin.HandlerFunc {
	pool := sync.Pool{
		New: func() any {
			w, err := gzip.NewWriterLevel(nil, config.Level)
			if err != nil {
				return gzip.NewWriter(nil)
			}
			return w
		},
	}

	return func(c *gin.Context) {
		if !acceptsGzip(c) || excludedPath(config, c.Request.URL.Path) {
			c.Next()
			return
		}

		gz := pool.Get().(*gzip.Writer)
		gz.Reset(c.Writer)

		gw := &gzipWriter{ResponseWriter: c.Writer, gz: gz, minSize: config.MinSize}
		c.Writer = gw

		defer func() {
			gw.close()
			pool.Put(gz)
		}()

		c.Next()
	}
}

func acceptsGzip(c *gin.Context) bool {
	if c.Request.Header.Get("Upgrade") != "" {
		return false
	}
	return strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip")
}

func excludedPath(config CompressionConfig, path string) bool {
	for _, prefix := range config.ExcludedPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// gzipWriter buffers the decision to compress until the first write so
// that small responses skip the gzip overhead entirely.
type gzipWriter struct {
	gin.ResponseWriter
	gz       *gzip.Writer
	minSize  int
	decided  bool
	compress bool
}

func (w *gzipWriter) decide(firstChunk int) {
	if w.decided {
		return
	}
	w.decided = true

	// Already-encoded responses pass through untouched
	if w.Header().Get("Content-Encoding") != "" {
		return
	}
	if firstChunk < w.minSize && w.Size() <= 0 {
		return
	}

	w.compress = true
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Add("Vary", "Accept-Encoding")
	w.Header().Del("Content-Length")
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	w.decide(len(data))
	if w.compress {
		return w.gz.Write(data)
	}
	return w.ResponseWriter.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipWriter) close() {
	if w.compress {
		w.gz.Close()
	}
}
