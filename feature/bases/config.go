package bases

// Config holds configuration for the retention policy.
type Config struct {
	// Project is the project namespace encoded in the cached names.
	Project string `mapstructure:"project" default:"charmcraft"`
	// ProviderLabel is the provider label segment of the naming convention.
	ProviderLabel string `mapstructure:"provider_label" default:"buildd"`
	// MinVersion is the lowest metadata version for which instances are kept
	// at all; anything below is removed unconditionally.
	MinVersion string `mapstructure:"min_version" default:"3.0"`
}
