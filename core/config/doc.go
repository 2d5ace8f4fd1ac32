// Package config provides configuration management for pos2cmine.
//
// Values come from, in order of precedence: command line flags, environment
// variables and a .env file in the working directory. Defaults are declared on
// the partial configuration structs with `default` tags.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Pos: source API base URL (POS_URL)
//   - Cmine: target API base URL, admin credentials, OAuth client and owner (CMINE_*)
//   - Mapping: fixed venture values (logo, default company, location)
//   - HTTP: transport timeouts and user agent
//   - Log: logging level and format
//   - Storage, Report: optional run report upload to S3/MinIO
//   - Database: optional MySQL run journal
//
// # Usage
//
//	cfg, err := config.LoadConfig(".", cmd.Flags())
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
