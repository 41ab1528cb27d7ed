// Copyright 2016 Aleksandr Demakin. All rights reserved.

package instrument

import (
	"time"
	"unsafe"

	"github.com/nxgtw/go-sysvipc"

	"go.uber.org/zap"
)

// Logging is a kernel, which logs the calls of the inner kernel.
// Successful calls are logged at debug level, failures at warn level.
type Logging struct {
	inner  ipc.Kernel
	logger *zap.Logger
}

// NewLogging returns a logging kernel, wrapping inner. A nil logger logs nothing.
func NewLogging(inner ipc.Kernel, logger *zap.Logger) *Logging {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logging{inner: inner, logger: logger.Named("kernel")}
}

func (l *Logging) observe(op string, start time.Time, r ipc.Result, fields ...zap.Field) ipc.Result {
	fields = append(fields,
		zap.String("op", op),
		zap.Duration("duration", time.Since(start)),
	)
	if r.Failed() {
		fields = append(fields, zap.String("errno", ErrnoName(r.Errno)), zap.Error(r.Errno))
		l.logger.Warn("system call failed", fields...)
	} else {
		fields = append(fields, zap.Uint64("result", uint64(r.Val)))
		l.logger.Debug("system call", fields...)
	}
	return r
}

func (l *Logging) Msgget(key ipc.Key, flags int) ipc.Result {
	return l.observe("msgget", time.Now(), l.inner.Msgget(key, flags),
		zap.Stringer("key", key), zap.Int("flags", flags))
}

func (l *Logging) Msgctl(id, cmd int, buf unsafe.Pointer) ipc.Result {
	return l.observe("msgctl", time.Now(), l.inner.Msgctl(id, cmd, buf),
		zap.Int("id", id), zap.Int("cmd", cmd))
}

func (l *Logging) Msgsnd(id int, msgp unsafe.Pointer, size int, flags int) ipc.Result {
	return l.observe("msgsnd", time.Now(), l.inner.Msgsnd(id, msgp, size, flags),
		zap.Int("id", id), zap.Int("size", size), zap.Int("flags", flags))
}

func (l *Logging) Msgrcv(id int, msgp unsafe.Pointer, size int, typ int64, flags int) ipc.Result {
	return l.observe("msgrcv", time.Now(), l.inner.Msgrcv(id, msgp, size, typ, flags),
		zap.Int("id", id), zap.Int("size", size), zap.Int64("type", typ), zap.Int("flags", flags))
}

func (l *Logging) Semget(key ipc.Key, nsems, flags int) ipc.Result {
	return l.observe("semget", time.Now(), l.inner.Semget(key, nsems, flags),
		zap.Stringer("key", key), zap.Int("nsems", nsems), zap.Int("flags", flags))
}

func (l *Logging) Semctl(id, num, cmd, val int, buf unsafe.Pointer) ipc.Result {
	return l.observe("semctl", time.Now(), l.inner.Semctl(id, num, cmd, val, buf),
		zap.Int("id", id), zap.Int("num", num), zap.Int("cmd", cmd))
}

func (l *Logging) Semop(id int, ops []ipc.Sembuf) ipc.Result {
	return l.observe("semop", time.Now(), l.inner.Semop(id, ops),
		zap.Int("id", id), zap.Int("nsops", len(ops)))
}

func (l *Logging) Shmget(key ipc.Key, size int, flags int) ipc.Result {
	return l.observe("shmget", time.Now(), l.inner.Shmget(key, size, flags),
		zap.Stringer("key", key), zap.Int("size", size), zap.Int("flags", flags))
}

func (l *Logging) Shmctl(id, cmd int, buf unsafe.Pointer) ipc.Result {
	return l.observe("shmctl", time.Now(), l.inner.Shmctl(id, cmd, buf),
		zap.Int("id", id), zap.Int("cmd", cmd))
}

func (l *Logging) Shmat(id int, addr uintptr, flags int) ipc.Result {
	return l.observe("shmat", time.Now(), l.inner.Shmat(id, addr, flags),
		zap.Int("id", id), zap.Uintptr("addr", addr), zap.Int("flags", flags))
}

func (l *Logging) Shmdt(addr uintptr) ipc.Result {
	return l.observe("shmdt", time.Now(), l.inner.Shmdt(addr),
		zap.Uintptr("addr", addr))
}

var (
	_ ipc.Kernel = (*Logging)(nil)
	_ ipc.Kernel = (*Metrics)(nil)
)
