// Package config handles configuration for the server component.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables, parsed with caarlos0/env.
//  4. Command-line flags, which override earlier values.
//
// # Environment
//
//	PORT                     bare port, becomes ":PORT"
//	AUTHGATE_HTTP_ADDR       HTTP listen address
//	AUTHGATE_GRPC_ADDR       gRPC listen address
//	AUTHGATE_DB_DRIVER       "pgx" or "sqlite"
//	DATABASE_URL             database DSN
//	JWT_SECRET               token signing secret (required)
//	JWT_EXPIRES_IN           token lifetime, e.g. "7d"
//	NODE_ENV, AUTHGATE_ENV   "production" or "development"
//	CORS_ORIGIN              allowed CORS origin
//	AUTHGATE_LOG_LEVEL       debug|info|warn|error
//	AUTHGATE_MAX_BODY_BYTES  request body limit
//
// # Flags
//
//	-a  HTTP address      -g  gRPC address
//	-D  database driver   -d  database DSN
//	-s  signing secret    -t  token lifetime
//	-e  environment       -o  CORS origin
//	-l  log level
//
// Validate reports ErrMissingSecret when no secret was supplied. The server
// refuses to start in that case.
package config
