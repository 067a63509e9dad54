//go:build linux

package mqueue

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DefaultMode is the access mode given to created queues.
const DefaultMode os.FileMode = 0o666

// mqAttr matches the kernel struct mq_attr layout. Go int has the width of
// C long on every Linux port.
type mqAttr struct {
	Flags    int
	Maxmsg   int
	Msgsize  int
	Curmsgs  int
	reserved [4]int
}

// Kernel implements Facility with the Linux mq system calls.
type Kernel struct {
	mode os.FileMode
}

// NewKernel returns a Kernel that creates queues with exactly mode.
func NewKernel(mode os.FileMode) *Kernel {
	return &Kernel{mode: mode.Perm()}
}

// Mode returns the access mode given to created queues.
func (k *Kernel) Mode() os.FileMode {
	return k.mode
}

// Create implements Facility. The process umask is cleared for the duration
// of the call so the queue receives exactly the configured mode.
func (k *Kernel) Create(name string, limits Limits) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	var attr *mqAttr
	if limits.Explicit() {
		attr = &mqAttr{Maxmsg: limits.MaxMessages, Msgsize: limits.MessageSize}
	}
	var fd int
	err := withUmask(0, func() error {
		var openErr error
		fd, openErr = mqOpen(name, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL, uint32(k.mode), attr)
		return openErr
	})
	if err != nil {
		return classifyCreate(name, attr != nil, err)
	}
	return unix.Close(fd)
}

// Unlink implements Facility.
func (k *Kernel) Unlink(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	p, err := unix.BytePtrFromString(name[1:])
	if err != nil {
		return classify("unlink", name, err)
	}
	if _, _, errno := unix.Syscall(unix.SYS_MQ_UNLINK, uintptr(unsafe.Pointer(p)), 0, 0); errno != 0 {
		return classify("unlink", name, errno)
	}
	return nil
}

// Attributes implements Facility.
func (k *Kernel) Attributes(name string) (Attributes, error) {
	if err := ValidateName(name); err != nil {
		return Attributes{}, err
	}
	fd, err := mqOpen(name, unix.O_RDONLY, 0, nil)
	if err != nil {
		return Attributes{}, classify("open", name, err)
	}
	defer unix.Close(fd)

	var attr mqAttr
	if _, _, errno := unix.Syscall(unix.SYS_MQ_GETSETATTR, uintptr(fd), 0, uintptr(unsafe.Pointer(&attr))); errno != 0 {
		return Attributes{}, classify("getattr", name, errno)
	}
	return Attributes{
		MaxMessages:     int64(attr.Maxmsg),
		MessageSize:     int64(attr.Msgsize),
		CurrentMessages: int64(attr.Curmsgs),
		NonBlocking:     attr.Flags&unix.O_NONBLOCK != 0,
	}, nil
}

// mqOpen follows glibc: the leading slash is stripped before the call and
// the descriptor is close-on-exec.
func mqOpen(name string, flags int, mode uint32, attr *mqAttr) (int, error) {
	p, err := unix.BytePtrFromString(name[1:])
	if err != nil {
		return -1, err
	}
	fd, _, errno := unix.Syscall6(
		unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(p)),
		uintptr(flags|unix.O_CLOEXEC),
		uintptr(mode),
		uintptr(unsafe.Pointer(attr)),
		0, 0,
	)
	if errno != 0 {
		return -1, errno
	}
	return int(fd), nil
}

// withUmask runs fn with the process file-creation mask set to mask and
// restores the previous mask on return.
func withUmask(mask int, fn func() error) error {
	previous := unix.Umask(mask)
	defer unix.Umask(previous)
	return fn()
}
