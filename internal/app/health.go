package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker probes the two backing stores: Postgres holds accounts,
// posts, and session state; Redis backs the rate limiter.
type HealthChecker struct {
	infra Infrastructure
}

func NewHealthChecker(infra Infrastructure) *HealthChecker {
	return &HealthChecker{
		infra: infra,
	}
}

type dependencyStatus struct {
	name string
	err  error
}

// check pings every dependency concurrently under a shared deadline and
// reports each outcome by name.
func (h *HealthChecker) check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	results := make(chan dependencyStatus, 2)

	go func() {
		results <- dependencyStatus{"postgres", h.infra.Postgres().Ping(ctx)}
	}()
	go func() {
		results <- dependencyStatus{"redis", h.infra.Redis().Ping(ctx)}
	}()

	statuses := make(map[string]string, 2)
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			statuses[r.name] = fmt.Sprintf("fail: %v", r.err)
		} else {
			statuses[r.name] = "pass"
		}
	}
	return statuses
}

// Handler serves the readiness probe. Any failing dependency turns the
// whole response into a 503 while still naming the healthy ones.
func (h *HealthChecker) Handler(c *gin.Context) {
	statuses := h.check(c.Request.Context())

	overall := "pass"
	code := http.StatusOK
	for _, status := range statuses {
		if status != "pass" {
			overall = "fail"
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, gin.H{
		"status": overall,
		"checks": statuses,
	})
}
