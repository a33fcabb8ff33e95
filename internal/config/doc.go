// Package config provides typed configuration for the text engine.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. TEXTCORE_* environment variables
//
// Every setting has a dot-separated path, the same in files and in Set:
//
//	[editor]
//	thread_safe = true
//	indexer_cache = true
//	indexer_cache_capacity = 100
//	line_ending = "lf"
//
//	[measure]
//	tab_width = 4
//	tab_as_whitespace = true
//	max_offset = false
//
//	[logging]
//	level = "info"
//
// # Basic Usage
//
//	cfg, err := config.LoadFile("textcore.toml")
//	if err != nil {
//	    var perr *config.ParseError
//	    if errors.As(err, &perr) {
//	        log.Printf("line %d: %s", perr.Line, perr.Message)
//	    }
//	}
//
// A missing file is not an error; the defaults (plus environment) apply.
//
// The watcher sub-package reloads the file on change.
package config
