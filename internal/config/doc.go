// Package config loads roomstudio's startup configuration.
//
// Configuration is a small TOML file at ~/.config/roomstudio/config.toml:
//
//	api_url = "http://127.0.0.1:8000"
//	log_file = "~/.local/share/roomstudio/roomstudio.log"
//	log_level = "info"
//	brush_px = 30
//
// Every field has a default and the file may be absent entirely. The
// ROOMSTUDIO_API_URL environment variable overrides api_url, which is
// the one knob most setups touch: where the design service lives.
package config
