// Package log wraps [log/slog] with the small configuration surface used by
// the fala tools.
//
// A [Logger] is a value type. Its zero value discards everything, so every
// compiler stage can hold one unconditionally and callers opt in with a
// WithLogger option:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText))
//	logger.TraceContext(ctx, "parse complete", slog.Int("stmts", n))
//
// # Levels
//
// In addition to the four [slog] levels the package defines [LevelTrace],
// which the compiler stages use for per-node progress.
//
// # Pretty output
//
// With [WithPretty] enabled the text format is colorized through lipgloss
// and the JSON format is indented. Both are meant for terminals.
//
// # Package-level logger
//
// [Config] reconfigures a process-wide default logger used by the package
// functions [Debug], [Info], [Warn] and [Error].
package log
