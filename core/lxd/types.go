package lxd

import "time"

// Image is a cached build-environment image as reported by the manager.
// Images are identified by content fingerprint; aliases carry the
// human-readable names the janitor classifies.
type Image struct {
	Fingerprint string       `json:"fingerprint"`
	Aliases     []ImageAlias `json:"aliases"`
}

// ImageAlias is a single human-readable name attached to an image.
type ImageAlias struct {
	Name string `json:"name"`
}

// Instance is a container or VM derived from a cached image.
type Instance struct {
	Name           string            `json:"name"`
	CreatedAt      time.Time         `json:"created_at"`
	ExpandedConfig map[string]string `json:"expanded_config"`
}

// ImageDescription returns the description of the image this instance was
// created from, or the empty string when the config key is absent.
func (i Instance) ImageDescription() string {
	return i.ExpandedConfig["image.description"]
}
