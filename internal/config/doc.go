// Package config loads and merges devbin configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (DEVBIN_DEFAULT_OWNER, DEVBIN_LLM__MODEL, ...),
//     including any set by a .env file
//  3. Config file ($XDG_CONFIG_HOME/devbin/config.toml)
//  4. Built-in defaults
//
// Environment keys drop the DEVBIN_ prefix, are lowercased, and use a double
// underscore as the section separator.
package config
