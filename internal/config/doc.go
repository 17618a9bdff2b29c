// Package config provides JSON-file settings for flacsync.
//
// Settings are loaded from a JSON file with CLI flags layered on top. A
// missing file yields defaults; a malformed file is an error.
package config
