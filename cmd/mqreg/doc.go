// Package main hosts the mqreg CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds the registry and the
// kernel queue facility, and hands each invocation to the ops service. Output
// is rendered as tables on a terminal, as the traditional tab-separated
// layout when piped, or as JSON on request.
package main
