// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package shm

import (
	"os"
	"unsafe"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/internal/allocator"
	"github.com/nxgtw/go-sysvipc/internal/common"

	"github.com/pkg/errors"
)

// shmat flags.
const (
	ShmRdonly = 010000  /* read-only access */
	ShmRnd    = 020000  /* round attach address to SHMLBA boundary */
	ShmRemap  = 040000  /* take-over region on attach */
	ShmExec   = 0100000 /* execution access */
)

// Memory is a handle of a System V shared memory object.
type Memory struct {
	id     int
	kernel ipc.Kernel
}

// Get returns a handle of the shared memory object for the key, as shmget(2) does.
// size is the size of a new object. For an existing one it must not exceed its size.
func Get(key ipc.Key, size, flags int, opts ...ipc.Option) (*Memory, error) {
	o := ipc.ApplyOptions(opts)
	id, err := ipc.Check("shmget", o.Kernel.Shmget(key, size, flags))
	if err != nil {
		return nil, err
	}
	return &Memory{id: id, kernel: o.Kernel}, nil
}

// Open returns a handle of the shared memory object for the name.
//	flag - a combination of os.O_CREATE and os.O_EXCL.
//	perm - permissions of a new object.
func Open(name string, size int, flag int, perm os.FileMode, opts ...ipc.Option) (*Memory, error) {
	flags, err := common.IpcFlags(flag, perm)
	if err != nil {
		return nil, errors.Wrap(err, "invalid open flags")
	}
	k, err := ipc.KeyForName(name, 'm')
	if err != nil {
		return nil, err
	}
	return Get(k, size, flags, opts...)
}

// Destroy marks the object with the given name for removal, if it exists.
func Destroy(name string, opts ...ipc.Option) error {
	m, err := Open(name, 0, 0, 0, opts...)
	if err != nil {
		if ipc.IsNotExist(err) {
			return ipc.RemoveKeyFile(name)
		}
		return errors.Wrap(err, "failed to open shared memory object")
	}
	if err = m.Remove(); err != nil {
		return errors.Wrap(err, "shmctl failed")
	}
	return ipc.RemoveKeyFile(name)
}

// ID returns the object identifier.
func (m *Memory) ID() int {
	return m.id
}

// Size returns the size of the object in bytes.
func (m *Memory) Size() (int, error) {
	ds, err := m.Stat()
	if err != nil {
		return 0, err
	}
	return int(ds.Segsz), nil
}

// Stat returns a copy of the object's control block.
func (m *Memory) Stat() (*ShmidDS, error) {
	var ds ShmidDS
	ptr := unsafe.Pointer(&ds)
	_, err := ipc.Check("shmctl", m.kernel.Shmctl(m.id, ipc.IpcStat, ptr))
	allocator.Use(ptr)
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// Set writes the control block back to the kernel.
func (m *Memory) Set(ds *ShmidDS) error {
	if ds == nil {
		return &ipc.ArgumentError{Op: "shmctl", Reason: "nil control block"}
	}
	ptr := unsafe.Pointer(ds)
	_, err := ipc.Check("shmctl", m.kernel.Shmctl(m.id, ipc.IpcSet, ptr))
	allocator.Use(ptr)
	return err
}

// Remove marks the object for destruction. The kernel destroys it after the last detach.
// Until then existing attachments stay valid.
func (m *Memory) Remove() error {
	_, err := ipc.Check("shmctl", m.kernel.Shmctl(m.id, ipc.IpcRmid, nil))
	return err
}

// Attach maps the object into the address space of the process.
//	addr - desired address, or 0 to let the system choose one.
//	flags - a combination of ShmRdonly, ShmRnd, ShmRemap and ShmExec.
func (m *Memory) Attach(addr uintptr, flags int) (*Segment, error) {
	at, err := ipc.CheckPtr("shmat", m.kernel.Shmat(m.id, addr, flags))
	if err != nil {
		return nil, err
	}
	ds, err := m.Stat()
	if err != nil {
		m.kernel.Shmdt(at)
		return nil, errors.Wrap(err, "failed to get attached segment size")
	}
	return &Segment{
		kernel:   m.kernel,
		addr:     at,
		data:     allocator.ByteSliceFromAddress(at, int(ds.Segsz)),
		readOnly: flags&ShmRdonly != 0,
	}, nil
}

// Detach unmaps the segment. It is the same as seg.Detach().
func (m *Memory) Detach(seg *Segment) error {
	if seg == nil {
		return &ipc.ArgumentError{Op: "shmdt", Reason: "nil segment"}
	}
	return seg.Detach()
}

// WithAttached attaches the object, calls f with the segment and detaches it.
// If f fails, its error is returned, otherwise the error of the detach.
func (m *Memory) WithAttached(addr uintptr, flags int, f func(seg *Segment) error) error {
	seg, err := m.Attach(addr, flags)
	if err != nil {
		return err
	}
	err = f(seg)
	if detachErr := seg.Detach(); err == nil {
		err = detachErr
	}
	return err
}
