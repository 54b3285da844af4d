// Package config serves the named maze presets kept as JSON files in one
// directory. A preset's name is its file name without .json:
//
//	configs/
//	  classic.json   10x10, the default
//	  easy.json      5x5
//	  large.json     30x40
//	  daily.json     15x15 with a fixed seed, the same maze for everyone
//
// Files are validated with engine.ValidateGameConfig when read and re-read
// when their modification time changes, so edits apply to new sessions
// without a restart. Invalid files are skipped by ListConfigs.
//
// The default is classic when present, else the first valid preset, else a
// built-in configuration.
package config
