// Package config loads gapstorm settings.
//
// Settings come from three layers, later ones winning: built-in defaults,
// a TOML or YAML file, and GAPSTORM_* environment variables. The file
// format is chosen by extension.
//
//	cfg, err := config.NewLoader().Load("gapstorm.toml")
//
// Example file:
//
//	[engine]
//	initial_capacity = 4096
//	tab_width = 4
//	line_ending = "lf"
//	max_undo = 1000
//
//	[logging]
//	level = "debug"
//	file = "/tmp/gapstorm.log"
//
//	[script]
//	timeout = "5s"
//	call_stack_size = 256
//
//	[ui]
//	show_gap = true
//	show_status = true
//
// Environment variables use GAPSTORM_<SECTION>_<KEY>, for example
// GAPSTORM_ENGINE_TAB_WIDTH=2. GAPSTORM_LOG_LEVEL, GAPSTORM_LOG_FILE,
// GAPSTORM_TAB_WIDTH and GAPSTORM_LINE_ENDING are accepted as shorthands.
//
// The watcher subpackage reloads the file when it changes on disk.
package config
