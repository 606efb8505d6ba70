package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps the request body size in megabytes. Dedupe payloads
	// are whole datasets, so the default is generous.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
}

// BodyLimitBytes returns the request body cap in bytes, falling back to the
// default when the configured value is not positive.
func (c Config) BodyLimitBytes() int {
	mb := c.BodyLimitMB
	if mb <= 0 {
		mb = 64
	}
	return mb * 1024 * 1024
}
