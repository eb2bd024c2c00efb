// Package storage provides the optional object-storage sink for run reports.
//
// It wraps the MinIO Go client to upload the JSON report of each
// reconciliation run, letting a fleet of build machines collect janitor
// activity in one bucket. The sink supports both AWS S3 and self-hosted
// MinIO instances and is disabled entirely when no endpoint is configured.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock uploads for unit testing (see core/storage/mocks).
package storage
