package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/JKhoa/TieuLuanMTK/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler checks the database and, when configured, Redis.
type HealthHandler struct {
	db  Pinger
	rdb *redis.Client
}

// NewHealthHandler creates a HealthHandler. rdb may be nil.
func NewHealthHandler(db Pinger, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		_ = c.Error(err)
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable)
		return
	}
	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			_ = c.Error(err)
			response.FailWithMessage(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable, "Redis is unavailable")
			return
		}
	}

	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}
