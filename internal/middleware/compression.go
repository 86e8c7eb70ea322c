package middleware

import (
	"compress/gzip"
	"io"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	MinSize          int      // Minimum response size to compress (bytes)
	CompressionLevel int      // Gzip compression level (1-9, 9 is best compression)
	ContentTypes     []string // Content types to compress
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:          1024, // Compress responses >= 1KB
		CompressionLevel: 6,    // Balanced compression level
		ContentTypes: []string{
			"application/json",
			"text/plain",
			"text/html",
			"text/css",
			"application/javascript",
			"text/javascript",
		},
	}
}

// Gzip compresses responses for clients that accept gzip. The body is buffered
// until MinSize bytes are written so small responses go out untouched.
func Gzip(config CompressionConfig) gin.HandlerFunc {
	pool := &sync.Pool{
		New: func() interface{} {
			gz, err := gzip.NewWriterLevel(io.Discard, config.CompressionLevel)
			if err != nil {
				return gzip.NewWriter(io.Discard)
			}
			return gz
		},
	}

	return func(c *gin.Context) {
		if !clientAcceptsGzip(c) {
			c.Next()
			return
		}

		gzw := &gzipResponseWriter{
			ResponseWriter: c.Writer,
			config:         config,
			pool:           pool,
		}
		c.Writer = gzw
		defer gzw.finish()

		c.Next()
	}
}

func clientAcceptsGzip(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept-Encoding"), "gzip")
}

func shouldCompress(config CompressionConfig, contentType string) bool {
	for _, ct := range config.ContentTypes {
		if strings.Contains(contentType, ct) {
			return true
		}
	}
	return false
}

// gzipResponseWriter decides on the first MinSize bytes whether to compress
type gzipResponseWriter struct {
	gin.ResponseWriter
	config  CompressionConfig
	pool    *sync.Pool
	buf     []byte
	decided bool
	gz      *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if w.decided {
		if w.gz != nil {
			return w.gz.Write(data)
		}
		return w.ResponseWriter.Write(data)
	}

	w.buf = append(w.buf, data...)
	if len(w.buf) >= w.config.MinSize {
		if err := w.decide(); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Written also counts bytes still held in the buffer
func (w *gzipResponseWriter) Written() bool {
	return len(w.buf) > 0 || w.ResponseWriter.Written()
}

func (w *gzipResponseWriter) Flush() {
	_ = w.decide()
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *gzipResponseWriter) decide() error {
	if w.decided {
		return nil
	}
	w.decided = true

	header := w.Header()
	if len(w.buf) >= w.config.MinSize &&
		!w.ResponseWriter.Written() &&
		header.Get("Content-Encoding") == "" &&
		shouldCompress(w.config, header.Get("Content-Type")) {
		header.Set("Content-Encoding", "gzip")
		header.Add("Vary", "Accept-Encoding")
		header.Del("Content-Length")

		w.gz = w.pool.Get().(*gzip.Writer)
		w.gz.Reset(w.ResponseWriter)
	}

	buf := w.buf
	w.buf = nil
	if len(buf) == 0 {
		return nil
	}
	if w.gz != nil {
		_, err := w.gz.Write(buf)
		return err
	}
	_, err := w.ResponseWriter.Write(buf)
	return err
}

func (w *gzipResponseWriter) finish() {
	_ = w.decide()
	if w.gz != nil {
		_ = w.gz.Close()
		w.pool.Put(w.gz)
		w.gz = nil
	}
}
