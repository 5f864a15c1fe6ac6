// Package trace instruments solves: a Recorder plugs into the engine as a
// simplex.Observer, collects one record per pivot, and can render the
// objective convergence as a chart.
//
// # Usage
//
//	rec := trace.NewRecorder()
//	opts := simplex.DefaultOptions()
//	opts.Observer = rec
//	// ... New / Init / Solve ...
//	err := rec.Plot("convergence.png")
//
// The Recorder is safe for use by one engine at a time and may be reused
// across solves via Reset.
package trace
