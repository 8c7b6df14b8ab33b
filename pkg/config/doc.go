// Package config provides environment-driven configuration for the disease-sync CLI.
//
// Every setting has a default matching a standard single-server HOSxP install,
// so the binary runs with no configuration at all. Operators override settings
// through the environment or a .env file next to the binary:
//
//	DB_SRC_HOST / DB_SRC_PORT / DB_SRC_USER / DB_SRC_PASS   source endpoint
//	DB_DST_HOST / DB_DST_PORT / DB_DST_USER / DB_DST_PASS   destination endpoint
//	SRC_DATABASE                                            source schema (hos)
//	DST_DATABASE                                            destination schema (hos_ai)
//	BATCH_SIZE / ROW_LIMIT / MAX_WORKERS / LOG_LEVEL        tuning
//
// Load reads the environment exactly once and returns an immutable Config;
// the .env file itself is loaded by main before Load runs.
package config
