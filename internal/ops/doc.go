// Package ops implements the mqreg commands on top of the registry and the
// queue facility.
//
// Every operation keeps the registry consistent with the queues that exist:
// creations append the queue name, deletions rewrite the registry and only
// drop names whose unlink succeeded, and Prune drops names whose queue is
// gone. Per-queue failures are returned in the results for the caller to
// report; only failures to read or rewrite the registry are returned as
// errors.
package ops
