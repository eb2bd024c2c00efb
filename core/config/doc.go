// Package config provides configuration management for the janitor.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file next to the binary.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided into
// subsections:
//   - LXD: lxc binary, remote, project scope, per-call timeout
//   - Bases: retention policy (project namespace, provider label, minimum version)
//   - History: audit database (sqlite file or mysql connection)
//   - Report: optional S3/MinIO report sink
//   - Server: status HTTP server (port, API key)
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.LXD.Project)
package config
