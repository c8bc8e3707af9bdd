package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler renders the landing page.
type PageHandler struct {
	title string
}

func NewPageHandler(title string) *PageHandler {
	return &PageHandler{title: title}
}

// Index godoc
// GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": h.title})
}
