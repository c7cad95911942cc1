// Package constants centralizes configuration defaults shared across the CLI.
//
// Per-check deadlines, body size limits, and TLS warning windows live here so
// cmd/ and internal/ agree on them without importing each other.
package constants
