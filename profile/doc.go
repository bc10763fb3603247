// Package profile provides optional runtime profiling for fala.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof -o fala .
//
// Without the tag, [Start] always returns a no-op profiler and [Modes] is
// empty.
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. Output is written to the directory given with
// [WithPath], one file per mode (for example cpu.pprof).
//
// Importing the package with the tag also registers the net/http/pprof
// handlers on [net/http.DefaultServeMux].
package profile
