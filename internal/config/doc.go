// Package config loads, normalizes, and validates castpipe configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and pipeline services need; services receive it explicitly at
// construction time rather than reading the environment themselves.
package config
