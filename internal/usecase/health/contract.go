package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// PlatformChecker checks platform API reachability.
type PlatformChecker interface {
	HealthCheck(ctx context.Context) error
}
