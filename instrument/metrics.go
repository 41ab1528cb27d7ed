// Copyright 2016 Aleksandr Demakin. All rights reserved.

package instrument

import (
	"time"
	"unsafe"

	"github.com/nxgtw/go-sysvipc"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a kernel, which counts and times the calls of the inner kernel.
type Metrics struct {
	inner    ipc.Kernel
	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics returns a metrics kernel, wrapping inner.
// The collectors are registered with reg, if it is not nil.
func NewMetrics(inner ipc.Kernel, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		inner: inner,
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sysvipc_kernel_calls_total",
				Help: "Total number of System V IPC system calls",
			},
			[]string{"op"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sysvipc_kernel_failures_total",
				Help: "Total number of failed System V IPC system calls",
			},
			[]string{"op", "errno"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sysvipc_kernel_call_duration_seconds",
				Help:    "System V IPC system call duration in seconds",
				Buckets: []float64{.00001, .0001, .001, .01, .1, 1, 10},
			},
			[]string{"op"},
		),
	}
}

func (m *Metrics) observe(op string, start time.Time, r ipc.Result) ipc.Result {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.calls.WithLabelValues(op).Inc()
	if r.Failed() {
		m.failures.WithLabelValues(op, ErrnoName(r.Errno)).Inc()
	}
	return r
}

func (m *Metrics) Msgget(key ipc.Key, flags int) ipc.Result {
	return m.observe("msgget", time.Now(), m.inner.Msgget(key, flags))
}

func (m *Metrics) Msgctl(id, cmd int, buf unsafe.Pointer) ipc.Result {
	return m.observe("msgctl", time.Now(), m.inner.Msgctl(id, cmd, buf))
}

func (m *Metrics) Msgsnd(id int, msgp unsafe.Pointer, size int, flags int) ipc.Result {
	return m.observe("msgsnd", time.Now(), m.inner.Msgsnd(id, msgp, size, flags))
}

func (m *Metrics) Msgrcv(id int, msgp unsafe.Pointer, size int, typ int64, flags int) ipc.Result {
	return m.observe("msgrcv", time.Now(), m.inner.Msgrcv(id, msgp, size, typ, flags))
}

func (m *Metrics) Semget(key ipc.Key, nsems, flags int) ipc.Result {
	return m.observe("semget", time.Now(), m.inner.Semget(key, nsems, flags))
}

func (m *Metrics) Semctl(id, num, cmd, val int, buf unsafe.Pointer) ipc.Result {
	return m.observe("semctl", time.Now(), m.inner.Semctl(id, num, cmd, val, buf))
}

func (m *Metrics) Semop(id int, ops []ipc.Sembuf) ipc.Result {
	return m.observe("semop", time.Now(), m.inner.Semop(id, ops))
}

func (m *Metrics) Shmget(key ipc.Key, size int, flags int) ipc.Result {
	return m.observe("shmget", time.Now(), m.inner.Shmget(key, size, flags))
}

func (m *Metrics) Shmctl(id, cmd int, buf unsafe.Pointer) ipc.Result {
	return m.observe("shmctl", time.Now(), m.inner.Shmctl(id, cmd, buf))
}

func (m *Metrics) Shmat(id int, addr uintptr, flags int) ipc.Result {
	return m.observe("shmat", time.Now(), m.inner.Shmat(id, addr, flags))
}

func (m *Metrics) Shmdt(addr uintptr) ipc.Result {
	return m.observe("shmdt", time.Now(), m.inner.Shmdt(addr))
}
