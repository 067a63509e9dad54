// Package preflight provides readiness checks for the filesystem paths and
// kernel limits mqreg depends on.
//
// The CLI "config validate" command runs RunAll and prints one line per
// check. Checks never modify anything.
package preflight
