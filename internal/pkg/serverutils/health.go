package serverutils

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck pings one backend.
type HealthCheck func(ctx context.Context) error

type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// HealthHandler runs every check with a shared deadline. Any failure turns
// the answer into 503 so load balancers drain the instance.
func HealthHandler(checks map[string]HealthCheck, timeout time.Duration) fiber.Handler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()

		status := HealthStatus{Status: "ok", Components: make(map[string]string, len(names))}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				status.Status = "degraded"
				status.Components[name] = err.Error()
				continue
			}
			status.Components[name] = "ok"
		}

		if status.Status != "ok" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	}
}
