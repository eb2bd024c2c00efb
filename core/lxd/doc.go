// Package lxd provides an abstraction layer for the LXD virtualization manager.
//
// It wraps the lxc command-line client rather than the REST API: the build
// tooling this janitor cleans up after already requires a configured lxc
// binary, so shelling out inherits its remotes, credentials and trust store
// for free. All listing commands use --format json and the output is decoded
// into the snapshot types in types.go.
//
// # Client Interface
//
// The Client interface abstracts the underlying manager, making it easy to
// mock inventory interactions for unit testing (see core/lxd/mocks).
//
// # Operations
//
//   - ListImages: snapshot of images (fingerprint + aliases).
//   - ListInstances: snapshot of instances (name, created_at, expanded config).
//   - DeleteImage: remove an image by fingerprint.
//   - DeleteInstance: force-remove an instance by name.
//
// The janitor never creates or renames entities; the interface is
// deliberately list-and-delete only.
package lxd
