// Package mqueue wraps the POSIX message queue primitives mqreg needs:
// exclusive creation, unlinking, and attribute queries.
//
// On Linux the Kernel facility talks to the mq_open, mq_unlink and
// mq_getsetattr system calls directly. Errors are classified into
// ErrExists, ErrNotFound, ErrPermission and ErrInvalidName while still
// wrapping the underlying errno so callers can print the OS text.
package mqueue
