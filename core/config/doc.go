// Package config provides configuration management for the record resolver.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Database: MySQL connection details for the audit archive
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Resolver: batch-processing knobs (progress interval, record cap)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
