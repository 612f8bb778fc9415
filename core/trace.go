package core

import "fmt"

// TraceWriter is a function type for writing trace lines. Backends and the
// Device emit one line per hardware transaction so register traffic can be
// inspected without attaching a debugger.
type TraceWriter func(string)

// SetTraceWriter redirects the device trace output. Tracing is a no-op
// until a writer is set.
func (d *Device) SetTraceWriter(w TraceWriter) {
	if w == nil {
		w = func(string) {}
	}
	d.trace = w
}

func (d *Device) tracef(format string, args ...interface{}) {
	d.trace(fmt.Sprintf(format, args...))
}
