// Package cli contains the command line interface for fala.
//
// # Usage
//
//	fala [flags] <command> [file ...]
//
// Commands read one program from the files named, concatenated in order.
// "-", or no file at all, reads standard input. Running a file is the
// default command:
//
//	fala programa.fala
//	fala run --watch programa.fala
//	fala check --strict programa.fala
//	fala parse --format=yaml programa.fala
//	fala lower programa.fala
//	fala repl
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (for example ~/.config/fala). The YAML file may
// nest flag names by their hyphenated prefix:
//
//	log:
//	  level: debug
//	  pretty: false
//
// Command line flags override both files. "fala init" writes config.yaml
// from the current flag values.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: text or json
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, ...)
//   - --log-caller: include the caller
//   - --log-pretty: colorized text, indented JSON
//
// # Profiling Options
//
// Available only when built with the pprof tag:
//
//	go build -tags pprof -o fala .
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread or trace
//   - --pprof-dir: profile output directory (default ~/.cache/fala/pprof)
package cli
