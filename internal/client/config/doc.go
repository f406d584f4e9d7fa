// Package config loads runtime configuration for the evidence vault client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the remote evidence store
//	-t string   device access token
//	-collection string  remote collection id
//	-db string  path of the local vault database
//	-key string path of the master key file
//	-inbox string  capture inbox directory
//	-audit string  audit log path
//	-i int      online status check interval (seconds)
//	-s int      periodic sync interval (seconds)
//	-m string   metrics listen address (empty disables)
//	-log string log level
//
// # JSON schema
//
// Intervals use timex.Duration, so they may be strings like "30s" or integer
// nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "db_path": "vault.db",
//	  "sync_interval": "5m",
//	  "retry_base_delay": "30s",
//	  "max_retries": 3
//	}
package config
