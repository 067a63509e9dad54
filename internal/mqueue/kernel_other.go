//go:build !linux

package mqueue

import (
	"errors"
	"os"
)

// DefaultMode is the access mode given to created queues.
const DefaultMode os.FileMode = 0o666

// Kernel reports errors.ErrUnsupported on platforms without the Linux mq
// system calls.
type Kernel struct {
	mode os.FileMode
}

// NewKernel returns a Kernel placeholder.
func NewKernel(mode os.FileMode) *Kernel {
	return &Kernel{mode: mode.Perm()}
}

// Mode returns the configured access mode.
func (k *Kernel) Mode() os.FileMode {
	return k.mode
}

// Create implements Facility.
func (*Kernel) Create(string, Limits) error {
	return errors.ErrUnsupported
}

// Unlink implements Facility.
func (*Kernel) Unlink(string) error {
	return errors.ErrUnsupported
}

// Attributes implements Facility.
func (*Kernel) Attributes(string) (Attributes, error) {
	return Attributes{}, errors.ErrUnsupported
}
