// Package database handles the audit archive database connection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// Connect establishes the connection with pooling and timeouts applied. The
// archive is strictly optional: a failed connection is reported once as a
// warning and resolution proceeds without persistence.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Audit archive unavailable", zap.Error(err))
//	}
package database
