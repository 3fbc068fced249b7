// Package config loads runtime configuration for the authctl client.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables AUTHCTL_SERVER and AUTHCTL_TIMEOUT.
//  4. Command-line flags, which override earlier values.
//
// # Flags
//
//	-a string   address:port of the authgate gRPC endpoint
//	-t duration per-call timeout (e.g. 5s, 1m)
//
// # JSON schema
//
// Durations use timex.Duration, so values may be strings like "5s" or "1d":
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s"
//	}
package config
