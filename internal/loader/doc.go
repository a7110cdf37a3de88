// Package loader contains render failures so one broken view cannot take
// down the whole terminal UI.
//
// A Loader owns a primary view producer and a fallback. Render tries the
// primary; the first error or panic moves the loader into StateFailed, a
// CapturedFailure is handed to the diagnostic Sink off the render path, and
// the fallback is shown from then on. Only Reset (a re-mount) brings the
// primary back.
//
// Component layout:
//
//	loader.go    Loader, State, Render/Reset
//	failure.go   RenderFailure error and CapturedFailure record
//	sink.go      Sink interface and fire-and-forget emission
//	boundary.go  tea.Model adapter that mounts a child behind a Loader
package loader
