// Package config loads runtime configuration for the Tickit CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   path to the local SQLite database
//	-l string   path to the log file
//
// # JSON schema
//
//	{
//	  "database_path": "/home/user/.tickit/tickit.db",
//	  "log_file": "/home/user/.tickit/tickit.log"
//	}
//
// The sync server address, token and interval are not process configuration;
// they live in the database and are managed with the `config` REPL command.
package config
