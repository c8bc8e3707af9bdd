package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// cacheControlWriter decides the Cache-Control header once the status is known,
// so error pages for missing assets are never cached.
type cacheControlWriter struct {
	gin.ResponseWriter
	value string
}

func (w *cacheControlWriter) apply(status int) {
	if w.Written() {
		return
	}
	if (status >= 200 && status < 300) || status == http.StatusNotModified {
		w.Header().Set("Cache-Control", w.value)
	} else {
		w.Header().Del("Cache-Control")
	}
}

func (w *cacheControlWriter) WriteHeader(code int) {
	w.apply(code)
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheControlWriter) WriteHeaderNow() {
	w.apply(w.Status())
	w.ResponseWriter.WriteHeaderNow()
}

func (w *cacheControlWriter) Write(data []byte) (int, error) {
	w.apply(w.Status())
	return w.ResponseWriter.Write(data)
}

func (w *cacheControlWriter) WriteString(s string) (int, error) {
	w.apply(w.Status())
	return w.ResponseWriter.WriteString(s)
}

// CacheControl marks successful responses, usually static assets, as publicly
// cacheable for maxAgeSeconds. Error responses go out without the header.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", maxAgeSeconds)
	return func(c *gin.Context) {
		c.Writer = &cacheControlWriter{ResponseWriter: c.Writer, value: value}
		c.Next()
	}
}
