package instrumentation

// Config holds configuration for the instrumentation provider.
type Config struct {
	// Enabled determines whether metrics are collected at all.
	Enabled bool

	// ServiceName identifies this service in exported metrics.
	ServiceName string

	// ServiceVersion is the build version attached to the resource.
	ServiceVersion string
}

// DefaultConfig returns a disabled configuration with standard service
// identity.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "calendar-availability",
		ServiceVersion: "dev",
	}
}
