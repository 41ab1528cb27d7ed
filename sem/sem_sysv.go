// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package sem

import (
	"fmt"
	"math"
	"os"
	"unsafe"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/internal/allocator"
	"github.com/nxgtw/go-sysvipc/internal/common"

	"github.com/pkg/errors"
)

// semctl commands.
const (
	cmdGetPid  = 11 /* get sempid */
	cmdGetVal  = 12 /* get semval */
	cmdGetAll  = 13 /* get all semval's */
	cmdGetNcnt = 14 /* get semncnt */
	cmdGetZcnt = 15 /* get semzcnt */
	cmdSetVal  = 16 /* set semval */
	cmdSetAll  = 17 /* set all semval's */
)

const (
	// SemUndo makes the kernel revert the operation, when the process exits.
	SemUndo = 0x1000

	// MaxValue is the maximum semaphore value (SEMVMX).
	MaxValue = 32767
)

// Op is one operation of a batch passed to Apply.
type Op struct {
	// Index is the semaphore number in the set.
	Index int
	// Delta is added to the semaphore value.
	// A negative delta waits until the value is large enough,
	// zero waits until the value becomes zero.
	Delta int
	// Flags is a combination of ipc.IpcNoWait and SemUndo.
	Flags int
}

func (op Op) sembuf() (ipc.Sembuf, bool) {
	if op.Index < 0 || op.Index > math.MaxUint16 ||
		op.Delta < math.MinInt16 || op.Delta > math.MaxInt16 ||
		op.Flags < math.MinInt16 || op.Flags > math.MaxInt16 {
		return ipc.Sembuf{}, false
	}
	return ipc.Sembuf{Num: uint16(op.Index), Op: int16(op.Delta), Flg: int16(op.Flags)}, true
}

// checkArg returns an error, if v does not fit the kernel's int argument.
func checkArg(op, name string, v int) error {
	if v < 0 || v > math.MaxInt32 {
		return &ipc.ArgumentError{Op: op, Reason: fmt.Sprintf("%s %d is out of range", name, v)}
	}
	return nil
}

// Set is a handle of a System V semaphore set.
type Set struct {
	id     int
	nsems  int
	kernel ipc.Kernel
}

// Get returns a handle of the semaphore set for the key, as semget(2) does.
//	key - ipc.Private, or a key from ipc.Ftok, ipc.KeyForName or elsewhere.
//	nsems - number of semaphores. It may be 0, if the set exists.
//	flags - ipc.IpcCreat, ipc.IpcExcl and the permission bits of a new set.
func Get(key ipc.Key, nsems, flags int, opts ...ipc.Option) (*Set, error) {
	if err := checkArg("semget", "nsems", nsems); err != nil {
		return nil, err
	}
	o := ipc.ApplyOptions(opts)
	id, err := ipc.Check("semget", o.Kernel.Semget(key, nsems, flags))
	if err != nil {
		return nil, err
	}
	return &Set{id: id, nsems: nsems, kernel: o.Kernel}, nil
}

// Open returns a handle of the semaphore set for the name.
// It generates a key from the name, and then calls Get.
//	flag - a combination of os.O_CREATE and os.O_EXCL.
//	perm - permissions of a new set.
func Open(name string, nsems int, flag int, perm os.FileMode, opts ...ipc.Option) (*Set, error) {
	flags, err := common.IpcFlags(flag, perm)
	if err != nil {
		return nil, errors.Wrap(err, "invalid open flags")
	}
	k, err := ipc.KeyForName(name, 's')
	if err != nil {
		return nil, err
	}
	return Get(k, nsems, flags, opts...)
}

// Destroy permanently removes the semaphore set with the given name, if it exists.
func Destroy(name string, opts ...ipc.Option) error {
	s, err := Open(name, 0, 0, 0, opts...)
	if err != nil {
		if ipc.IsNotExist(err) {
			return ipc.RemoveKeyFile(name)
		}
		return errors.Wrap(err, "failed to open semaphore set")
	}
	if err = s.Remove(); err != nil {
		return errors.Wrap(err, "semctl failed")
	}
	return ipc.RemoveKeyFile(name)
}

// ID returns the set identifier.
func (s *Set) ID() int {
	return s.id
}

// Count returns the number of semaphores declared when the handle was acquired.
func (s *Set) Count() int {
	return s.nsems
}

// Size returns the number of semaphores in the set, as the kernel reports it.
func (s *Set) Size() (int, error) {
	ds, err := s.Stat()
	if err != nil {
		return 0, err
	}
	return int(ds.Nsems), nil
}

// SetAll sets the values of the semaphores in one call.
// values must not be longer than Count(). Semaphores past len(values) are set to zero.
// The set is stat'ed first to learn its size, so the caller needs read permission as well as alter.
func (s *Set) SetAll(values []int) error {
	if len(values) > s.nsems {
		return &ipc.ArgumentError{
			Op:     "setall",
			Reason: fmt.Sprintf("too many values (%d) for semaphore set (%d)", len(values), s.nsems),
		}
	}
	for i, v := range values {
		if v < 0 || v > math.MaxUint16 {
			return &ipc.ArgumentError{Op: "setall", Reason: fmt.Sprintf("value %d at %d is out of range", v, i)}
		}
	}
	size, err := s.Size()
	if err != nil {
		return err
	}
	if size < len(values) {
		size = len(values)
	}
	array := make([]uint16, size)
	for i, v := range values {
		array[i] = uint16(v)
	}
	ptr := allocator.Uint16SliceData(array)
	_, err = ipc.Check("semctl", s.kernel.Semctl(s.id, 0, cmdSetAll, 0, ptr))
	allocator.Use(ptr)
	return err
}

// GetAll returns the values of all the semaphores of the set, read in one call.
func (s *Set) GetAll() ([]int, error) {
	size, err := s.Size()
	if err != nil {
		return nil, err
	}
	array := make([]uint16, size)
	ptr := allocator.Uint16SliceData(array)
	_, err = ipc.Check("semctl", s.kernel.Semctl(s.id, 0, cmdGetAll, 0, ptr))
	allocator.Use(ptr)
	if err != nil {
		return nil, err
	}
	result := make([]int, size)
	for i, v := range array {
		result[i] = int(v)
	}
	return result, nil
}

// SetValue sets the value of one semaphore.
func (s *Set) SetValue(index, value int) error {
	if err := checkArg("setval", "index", index); err != nil {
		return err
	}
	if err := checkArg("setval", "value", value); err != nil {
		return err
	}
	_, err := ipc.Check("semctl", s.kernel.Semctl(s.id, index, cmdSetVal, value, nil))
	return err
}

// Value returns the value of one semaphore.
func (s *Set) Value(index int) (int, error) {
	return s.get("getval", index, cmdGetVal)
}

// Pid returns the pid of the process, which was the last to operate on the semaphore.
func (s *Set) Pid(index int) (int, error) {
	return s.get("getpid", index, cmdGetPid)
}

// ZeroWaiters returns the number of processes waiting for the semaphore to become zero.
func (s *Set) ZeroWaiters(index int) (int, error) {
	return s.get("getzcnt", index, cmdGetZcnt)
}

// IncreaseWaiters returns the number of processes waiting for the semaphore value to increase.
func (s *Set) IncreaseWaiters(index int) (int, error) {
	return s.get("getncnt", index, cmdGetNcnt)
}

func (s *Set) get(op string, index, cmd int) (int, error) {
	if err := checkArg(op, "index", index); err != nil {
		return 0, err
	}
	return ipc.Check("semctl", s.kernel.Semctl(s.id, index, cmd, 0, nil))
}

// Apply performs the operations as one semop(2) call.
// Either all of them take effect, or none does.
func (s *Set) Apply(ops ...Op) error {
	bufs := make([]ipc.Sembuf, len(ops))
	for i, op := range ops {
		b, ok := op.sembuf()
		if !ok {
			return &ipc.ArgumentError{Op: "semop", Reason: fmt.Sprintf("operation %d is out of range", i)}
		}
		bufs[i] = b
	}
	_, err := ipc.Check("semop", s.kernel.Semop(s.id, bufs))
	return err
}

// Stat returns a copy of the set's control block.
func (s *Set) Stat() (*SemidDS, error) {
	var ds SemidDS
	ptr := unsafe.Pointer(&ds)
	_, err := ipc.Check("semctl", s.kernel.Semctl(s.id, 0, ipc.IpcStat, 0, ptr))
	allocator.Use(ptr)
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// Set writes the control block back to the kernel.
// The kernel applies owner uid and gid and permission bits, other fields are ignored.
func (s *Set) Set(ds *SemidDS) error {
	if ds == nil {
		return &ipc.ArgumentError{Op: "semctl", Reason: "nil control block"}
	}
	ptr := unsafe.Pointer(ds)
	_, err := ipc.Check("semctl", s.kernel.Semctl(s.id, 0, ipc.IpcSet, 0, ptr))
	allocator.Use(ptr)
	return err
}

// Remove destroys the set. Waiting processes fail with EIDRM,
// and any later call through a handle of this set fails.
func (s *Set) Remove() error {
	_, err := ipc.Check("semctl", s.kernel.Semctl(s.id, 0, ipc.IpcRmid, 0, nil))
	return err
}
