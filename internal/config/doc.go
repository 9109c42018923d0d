// Package config handles loading quill's configuration.
//
// # Overview
//
// quill reads a small TOML file that says where the edited document lives,
// how often to reload it, how long commits take, and where to log. Every
// field is optional and every field can be overridden from the environment.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. Start from Default()
//  2. If a path is explicitly provided, read it; otherwise read
//     ~/.config/quill/config.toml
//  3. A missing file is not an error; empty fields keep their defaults
//  4. QUILL_* environment variables override whatever the file said
//
// LoadDotenv can be called first to populate the environment from .env
// files; Load itself never touches .env.
//
// # Default Values
//
//   - Config file: ~/.config/quill/config.toml
//   - Document: ~/.local/share/quill/document.toml
//   - Poll interval: 2s
//   - Commit delay: 500ms (0 makes commits synchronous)
//   - Log file: ~/.local/state/quill/quill.log
//   - Log level / format: info / text
//
// # TOML Format
//
//	document_path = "~/notes/profile.toml"
//	poll_interval = "5s"
//	commit_delay = "0s"
//	log_path = "~/.local/state/quill/quill.log"
//	log_level = "debug"
//	log_format = "json"
//
// Durations use time.ParseDuration syntax. Tilde expansion is performed for
// both paths.
//
// # Environment Overrides
//
//	QUILL_DOCUMENT, QUILL_POLL_INTERVAL, QUILL_COMMIT_DELAY,
//	QUILL_LOG_PATH, QUILL_LOG_LEVEL, QUILL_LOG_FORMAT
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and malformed durations
//   - Malformed environment values
//
// A non-positive poll interval falls back to the default and a negative
// commit delay is clamped to zero.
package config
