package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RedisPinger is satisfied by *redis.Client.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthController struct {
	db        DBPinger
	redis     RedisPinger
	startTime time.Time
	version   string
}

// NewHealthController accepts a nil redis when codes are kept in process.
func NewHealthController(db DBPinger, rdb RedisPinger, version string) *HealthController {
	if version == "" {
		version = "unknown"
	}
	return &HealthController{db: db, redis: rdb, startTime: time.Now(), version: version}
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Live only confirms the process is serving requests.
func (h *HealthController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, h.response("UP", map[string]Check{"process": {Status: "UP"}}))
}

// Ready pings the database and, when configured, Redis.
func (h *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]Check{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}
	status, code := "UP", http.StatusOK
	for _, chk := range checks {
		if chk.Status == "DOWN" {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, h.response(status, checks))
}

func (h *HealthController) response(status string, checks map[string]Check) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}
}

func (h *HealthController) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: "DOWN", Message: "database connection is not initialized"}
	}
	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: "DOWN", Message: "cannot connect to database"}
	}
	return Check{Status: "UP"}
}

func (h *HealthController) checkRedis(ctx context.Context) Check {
	if h.redis == nil {
		return Check{Status: "DISABLED", Message: "one-time codes are kept in process"}
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return Check{Status: "DOWN", Message: "cannot connect to redis"}
	}
	return Check{Status: "UP"}
}
