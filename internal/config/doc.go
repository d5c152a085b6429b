// Package config loads and merges ccw configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (OLLAMA_HOST, CCW_MODEL, CCW_TIMEOUT, ...)
//  3. A .env file in the working directory
//  4. Config file ($XDG_CONFIG_HOME/ccw/config.json)
//  5. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Config.Validate] before use, and
// [SetField] with [Save] to update a single key in the config file.
package config
