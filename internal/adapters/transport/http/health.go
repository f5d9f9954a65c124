package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func DatabaseCheck(db *gorm.DB) HealthCheck {
	return HealthCheck{Name: "database", Check: func(ctx context.Context) error {
		return db.WithContext(ctx).Exec("SELECT 1").Error
	}}
}

func RedisCheck(client *redis.Client) HealthCheck {
	return HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for _, hc := range h.health {
		if err := hc.Check(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("check", hc.Name), zap.Error(err))
			status[hc.Name] = "down"
			healthy = false
			continue
		}
		status[hc.Name] = "up"
	}

	if !healthy {
		respond(c, nethttp.StatusServiceUnavailable, status, "not serving")
		return
	}
	respond(c, nethttp.StatusOK, status, "serving")
}
