package services

import (
	"context"
	"database/sql"
	"time"

	"carpool/internal/auth"
	"carpool/internal/geo"
)

// HealthService runs best-effort probes of the process's collaborators.
type HealthService struct {
	DB    *sql.DB
	Geo   *geo.Client
	Cache *auth.SessionCache
}

// HealthReport is the /api/health payload. Status is "healthy" only when no
// probed service is unhealthy; intentionally unconfigured services do not
// degrade it.
type HealthReport struct {
	Status   string                        `json:"status"`
	Services map[string]geo.ProviderStatus `json:"services"`
}

func (s HealthService) Check(ctx context.Context) HealthReport {
	services := map[string]geo.ProviderStatus{
		"database": s.dbStatus(ctx),
		"routing":  s.Geo.RoutingHealth(ctx),
		"cache":    s.cacheStatus(ctx),
	}

	status := "healthy"
	for _, svc := range services {
		if svc.Status == "unhealthy" {
			status = "degraded"
			break
		}
	}
	return HealthReport{Status: status, Services: services}
}

func (s HealthService) dbStatus(ctx context.Context) geo.ProviderStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.DB.PingContext(ctx); err != nil {
		return geo.ProviderStatus{Status: "unhealthy", ResponseTimeMs: time.Since(start).Milliseconds(), Error: err.Error()}
	}
	return geo.ProviderStatus{Status: "healthy", ResponseTimeMs: time.Since(start).Milliseconds()}
}

func (s HealthService) cacheStatus(ctx context.Context) geo.ProviderStatus {
	if s.Cache == nil {
		return geo.ProviderStatus{Status: "not_configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.Cache.Ping(ctx); err != nil {
		return geo.ProviderStatus{Status: "unhealthy", ResponseTimeMs: time.Since(start).Milliseconds(), Error: err.Error()}
	}
	return geo.ProviderStatus{Status: "healthy", ResponseTimeMs: time.Since(start).Milliseconds()}
}
