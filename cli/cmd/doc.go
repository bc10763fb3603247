// Package cmd implements the fala subcommands: parse, check, lower, run,
// repl and init.
//
// Every command reads one program from its source files, concatenated in
// the order given. "-", or no file at all, reads standard input.
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file written by init.
	ConfigIdentifier = "config"
)
