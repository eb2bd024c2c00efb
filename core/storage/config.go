package storage

// Config holds configuration for the report sink.
type Config struct {
	// Endpoint is the URL of the storage service. Empty disables uploads.
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the bucket receiving run reports.
	Bucket string `mapstructure:"bucket" default:"base-janitor"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Enabled reports whether report uploads are configured at all.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}
