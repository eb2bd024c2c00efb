package lxd

// Config holds configuration for the LXD connection.
type Config struct {
	// Binary is the lxc client binary to invoke.
	Binary string `mapstructure:"binary" default:"lxc"`
	// Remote is the LXD remote holding the cached environments.
	Remote string `mapstructure:"remote" default:"local"`
	// Project is the LXD project scoping which images and instances
	// are in-domain for the janitor.
	Project string `mapstructure:"project" default:"default"`
	// Timeout bounds a single lxc invocation, e.g. "2m".
	Timeout string `mapstructure:"timeout" default:"2m"`
}
