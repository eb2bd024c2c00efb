package bases

import (
	"fmt"
	"regexp"
)

// Slot identifies a logical "latest build base". Two entities belong to the
// same slot iff all four fields are equal; at most one instance per slot is
// retained after a pass.
type Slot struct {
	// Version is the metadata version encoded in the name, e.g. "3.0".
	Version string
	// Provider identifies the image provider, e.g. "craft-com.ubuntu.cloud".
	Provider string
	// OS is the OS family token, e.g. "buildd".
	OS string
	// OSVersion is the OS version token, e.g. "core22".
	OSVersion string
}

// BelowMinimum reports whether the slot's metadata version is below the
// configured minimum. Versions compare as plain strings; all published base
// versions share the single-digit major.minor form, so lexicographic order
// coincides with numeric order.
func (s Slot) BelowMinimum(min string) bool {
	return s.Version < min
}

// String renders the slot as the version-tuple suffix of a base name.
func (s Slot) String() string {
	return fmt.Sprintf("v%s-%s-%s-%s", s.Version, s.Provider, s.OS, s.OSVersion)
}

// Convention is the naming grammar for one project's cached environments.
// It is compiled once per run from the project and provider label and is the
// single place the name formats live.
type Convention struct {
	supported *regexp.Regexp
	obsolete  []*regexp.Regexp
}

// NewConvention compiles the naming patterns for the given project namespace
// and provider label.
//
// The supported format encodes a full version tuple:
//
//	base-instance-<project>-<label>-base-v<version>-<provider>-<os>-<osVersion>
//
// Two older generations are recognized as obsolete: the legacy snapshot
// scheme, which carries no extractable version at all, and the prior
// base-instance scheme, which lacks the provider/os/osVersion breakdown.
func NewConvention(project, providerLabel string) *Convention {
	p := regexp.QuoteMeta(project)
	l := regexp.QuoteMeta(providerLabel)

	return &Convention{
		// The provider segment may itself contain dots and hyphens, so it is
		// matched greedily and the trailing os/osVersion word tokens anchor it.
		supported: regexp.MustCompile(
			`^base-instance-` + p + `-` + l + `-base-v(\d+(?:\.\d+)+)-([\w][\w.-]*)-(\w+)-(\w+)$`),
		obsolete: []*regexp.Regexp{
			regexp.MustCompile(`^snapshot-craft-[\w][\w.-]*-` + p + `-` + l + `-base-v[\w.]+$`),
			regexp.MustCompile(`^base-instance-` + p + `-` + l + `-base-v[\w.]+-[\w][\w.-]*$`),
		},
	}
}

// ParseSupported extracts the version tuple from a name following the current
// convention. The whole input must conform; partial matches are not matches.
// A name whose version segment is not dotted numeric fails the parse and is
// left to the obsolete check.
func (c *Convention) ParseSupported(name string) (Slot, bool) {
	m := c.supported.FindStringSubmatch(name)
	if m == nil {
		return Slot{}, false
	}
	return Slot{
		Version:   m[1],
		Provider:  m[2],
		OS:        m[3],
		OSVersion: m[4],
	}, true
}

// Obsolete reports whether the name full-matches any deprecated naming
// scheme. Obsolete names are always eligible for removal regardless of
// version or recency.
func (c *Convention) Obsolete(name string) bool {
	for _, re := range c.obsolete {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
