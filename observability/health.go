package observability

// HealthStatus is the state reported by /healthz.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

func (s HealthStatus) rank() int {
	switch s {
	case HealthStatusDown:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// Health is the state of one component, e.g. the mock backend's store.
type Health struct {
	Name    string         `json:"name"`
	Status  HealthStatus   `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ServiceHealth is the body served by /healthz.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Version    string       `json:"version,omitempty"`
	Status     HealthStatus `json:"status"`
	Components []Health     `json:"components,omitempty"`
}

// Aggregate builds a ServiceHealth whose status is the worst of its components.
// No components means up.
func Aggregate(service, version string, components ...Health) ServiceHealth {
	sh := ServiceHealth{Service: service, Version: version, Status: HealthStatusUp, Components: components}
	for _, c := range components {
		if c.Status.rank() > sh.Status.rank() {
			sh.Status = c.Status
		}
	}
	return sh
}
