// Package config provides configuration loading and validation for the
// webpage server.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (WEBPAGE_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with WEBPAGE_ prefix:
//   - server.port → WEBPAGE_SERVER_PORT
//   - templates.dir → WEBPAGE_TEMPLATES_DIR
//   - log.level → WEBPAGE_LOG_LEVEL
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port and read/write/idle timeouts
//   - Templates: directory, extension, reload mode, error template
//   - Static: static file directory and URL route
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Template extension must start with a dot
//   - Static route must start with a slash
//   - Log level must be debug, info, warn, or error
package config
