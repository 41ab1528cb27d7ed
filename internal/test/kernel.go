// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package ipc_testing contains kernels and helpers for the tests of the handle packages.
package ipc_testing

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/nxgtw/go-sysvipc"

	"golang.org/x/sys/unix"
)

// CountingKernel passes every call to the inner kernel and counts them.
// The inner kernel may be nil, if the test expects no calls at all.
type CountingKernel struct {
	inner ipc.Kernel
	total int64
	mu    sync.Mutex
	byOp  map[string]int
}

// NewCountingKernel returns a counting kernel, which wraps inner.
func NewCountingKernel(inner ipc.Kernel) *CountingKernel {
	return &CountingKernel{inner: inner, byOp: make(map[string]int)}
}

// Calls returns the total number of calls made.
func (k *CountingKernel) Calls() int {
	return int(atomic.LoadInt64(&k.total))
}

// CallsOf returns the number of calls of the given op, ex. "semctl".
func (k *CountingKernel) CallsOf(op string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.byOp[op]
}

func (k *CountingKernel) count(op string) ipc.Kernel {
	atomic.AddInt64(&k.total, 1)
	k.mu.Lock()
	k.byOp[op]++
	k.mu.Unlock()
	return k.inner
}

func (k *CountingKernel) Msgget(key ipc.Key, flags int) ipc.Result {
	return k.count("msgget").Msgget(key, flags)
}

func (k *CountingKernel) Msgctl(id, cmd int, buf unsafe.Pointer) ipc.Result {
	return k.count("msgctl").Msgctl(id, cmd, buf)
}

func (k *CountingKernel) Msgsnd(id int, msgp unsafe.Pointer, size int, flags int) ipc.Result {
	return k.count("msgsnd").Msgsnd(id, msgp, size, flags)
}

func (k *CountingKernel) Msgrcv(id int, msgp unsafe.Pointer, size int, typ int64, flags int) ipc.Result {
	return k.count("msgrcv").Msgrcv(id, msgp, size, typ, flags)
}

func (k *CountingKernel) Semget(key ipc.Key, nsems, flags int) ipc.Result {
	return k.count("semget").Semget(key, nsems, flags)
}

func (k *CountingKernel) Semctl(id, num, cmd, val int, buf unsafe.Pointer) ipc.Result {
	return k.count("semctl").Semctl(id, num, cmd, val, buf)
}

func (k *CountingKernel) Semop(id int, ops []ipc.Sembuf) ipc.Result {
	return k.count("semop").Semop(id, ops)
}

func (k *CountingKernel) Shmget(key ipc.Key, size int, flags int) ipc.Result {
	return k.count("shmget").Shmget(key, size, flags)
}

func (k *CountingKernel) Shmctl(id, cmd int, buf unsafe.Pointer) ipc.Result {
	return k.count("shmctl").Shmctl(id, cmd, buf)
}

func (k *CountingKernel) Shmat(id int, addr uintptr, flags int) ipc.Result {
	return k.count("shmat").Shmat(id, addr, flags)
}

func (k *CountingKernel) Shmdt(addr uintptr) ipc.Result {
	return k.count("shmdt").Shmdt(addr)
}

// Call is a call recorded by ScriptedKernel.
type Call struct {
	Op   string
	Args []interface{}
}

// Handler produces the result of a scripted call. It receives the call arguments
// in the order of the Kernel method, so it can fill the buffers passed by pointer.
type Handler func(args ...interface{}) ipc.Result

// ScriptedKernel is a Kernel, whose calls return what the test told them to.
// An op without a handler fails with ENOSYS.
type ScriptedKernel struct {
	mu       sync.Mutex
	calls    []Call
	handlers map[string]Handler
}

// NewScriptedKernel returns a kernel with no handlers.
func NewScriptedKernel() *ScriptedKernel {
	return &ScriptedKernel{handlers: make(map[string]Handler)}
}

// Handle sets the handler for op.
func (k *ScriptedKernel) Handle(op string, h Handler) *ScriptedKernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.handlers[op] = h
	return k
}

// Return makes op return the given results one by one. The last one is repeated.
func (k *ScriptedKernel) Return(op string, results ...ipc.Result) *ScriptedKernel {
	var idx int
	return k.Handle(op, func(args ...interface{}) ipc.Result {
		r := results[idx]
		if idx < len(results)-1 {
			idx++
		}
		return r
	})
}

// Calls returns the calls recorded so far.
func (k *ScriptedKernel) Calls() []Call {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]Call(nil), k.calls...)
}

// Ops returns the names of the calls recorded so far.
func (k *ScriptedKernel) Ops() []string {
	var result []string
	for _, c := range k.Calls() {
		result = append(result, c.Op)
	}
	return result
}

func (k *ScriptedKernel) call(op string, args ...interface{}) ipc.Result {
	k.mu.Lock()
	k.calls = append(k.calls, Call{Op: op, Args: args})
	h := k.handlers[op]
	k.mu.Unlock()
	if h == nil {
		return ipc.Fail(unix.ENOSYS)
	}
	return h(args...)
}

func (k *ScriptedKernel) Msgget(key ipc.Key, flags int) ipc.Result {
	return k.call("msgget", key, flags)
}

func (k *ScriptedKernel) Msgctl(id, cmd int, buf unsafe.Pointer) ipc.Result {
	return k.call("msgctl", id, cmd, buf)
}

func (k *ScriptedKernel) Msgsnd(id int, msgp unsafe.Pointer, size int, flags int) ipc.Result {
	return k.call("msgsnd", id, msgp, size, flags)
}

func (k *ScriptedKernel) Msgrcv(id int, msgp unsafe.Pointer, size int, typ int64, flags int) ipc.Result {
	return k.call("msgrcv", id, msgp, size, typ, flags)
}

func (k *ScriptedKernel) Semget(key ipc.Key, nsems, flags int) ipc.Result {
	return k.call("semget", key, nsems, flags)
}

func (k *ScriptedKernel) Semctl(id, num, cmd, val int, buf unsafe.Pointer) ipc.Result {
	return k.call("semctl", id, num, cmd, val, buf)
}

func (k *ScriptedKernel) Semop(id int, ops []ipc.Sembuf) ipc.Result {
	return k.call("semop", id, ops)
}

func (k *ScriptedKernel) Shmget(key ipc.Key, size int, flags int) ipc.Result {
	return k.call("shmget", key, size, flags)
}

func (k *ScriptedKernel) Shmctl(id, cmd int, buf unsafe.Pointer) ipc.Result {
	return k.call("shmctl", id, cmd, buf)
}

func (k *ScriptedKernel) Shmat(id int, addr uintptr, flags int) ipc.Result {
	return k.call("shmat", id, addr, flags)
}

func (k *ScriptedKernel) Shmdt(addr uintptr) ipc.Result {
	return k.call("shmdt", addr)
}

var (
	_ ipc.Kernel = (*CountingKernel)(nil)
	_ ipc.Kernel = (*ScriptedKernel)(nil)
)
