// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"syscall"
	"time"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/mq"
	"github.com/nxgtw/go-sysvipc/sem"
	"github.com/nxgtw/go-sysvipc/shm"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// watcher periodically samples the state of one object and exports it as gauges.
type watcher struct {
	logger *zap.Logger
	sample func() (interface{}, error)
	last   interface{}
}

func (a *app) newWatcher(kind string, key ipc.Key) (*watcher, error) {
	factory := promauto.With(a.registry)
	w := &watcher{logger: a.logger.With(zap.String("kind", kind), zap.Stringer("key", key))}
	switch kind {
	case "mq":
		q, err := mq.Get(key, 0, a.opts()...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get message queue")
		}
		messages := factory.NewGauge(prometheus.GaugeOpts{
			Name: "sysvipc_mq_messages",
			Help: "Number of messages in the queue",
		})
		bytes := factory.NewGauge(prometheus.GaugeOpts{
			Name: "sysvipc_mq_bytes",
			Help: "Number of bytes in the queue",
		})
		w.sample = func() (interface{}, error) {
			ds, err := q.Stat()
			if err != nil {
				return nil, err
			}
			messages.Set(float64(ds.Qnum))
			bytes.Set(float64(ds.Cbytes))
			return newMqView(q.ID(), ds), nil
		}
	case "sem":
		set, err := sem.Get(key, 0, 0, a.opts()...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get semaphore set")
		}
		values := factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sysvipc_sem_value",
			Help: "Semaphore values",
		}, []string{"index"})
		w.sample = func() (interface{}, error) {
			ds, err := set.Stat()
			if err != nil {
				return nil, err
			}
			all, err := set.GetAll()
			if err != nil {
				return nil, err
			}
			for i, v := range all {
				values.WithLabelValues(strconv.Itoa(i)).Set(float64(v))
			}
			return newSemView(set.ID(), ds, all), nil
		}
	case "shm":
		mem, err := shm.Get(key, 0, 0, a.opts()...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get shared memory object")
		}
		attached := factory.NewGauge(prometheus.GaugeOpts{
			Name: "sysvipc_shm_attached",
			Help: "Number of attachments of the shared memory object",
		})
		w.sample = func() (interface{}, error) {
			ds, err := mem.Stat()
			if err != nil {
				return nil, err
			}
			attached.Set(float64(ds.Nattch))
			return newShmView(mem.ID(), ds), nil
		}
	default:
		return nil, errors.Errorf("watch: unknown kind %q", kind)
	}
	return w, nil
}

// poll samples the object and logs the state, if it has changed.
func (w *watcher) poll() (interface{}, error) {
	state, err := w.sample()
	if err != nil {
		w.logger.Warn("failed to sample object", zap.Error(err))
		return nil, err
	}
	if !reflect.DeepEqual(state, w.last) {
		w.logger.Info("object changed", zap.Any("state", state))
		w.last = state
	}
	return state, nil
}

// run polls the object until ctx is done, or the object is removed.
func (w *watcher) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := w.poll(); err != nil && ipc.IsRemoved(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *app) watch(args []string) error {
	fs, of := a.newFlagSet("watch")
	kind := fs.String("kind", "", "object kind: mq, sem or shm")
	once := fs.Bool("once", false, "print the state once and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := a.newWatcher(*kind, of.key.key())
	if err != nil {
		return err
	}
	if *once {
		state, err := w.poll()
		if err != nil {
			return err
		}
		return a.printYAML(state)
	}
	if a.cfg.WatchInterval <= 0 {
		return errors.Errorf("invalid watch interval %v", a.cfg.WatchInterval)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()
	a.logger.Info("serving metrics", zap.String("addr", a.cfg.MetricsAddr))

	runErr := make(chan error, 1)
	go func() {
		runErr <- w.run(ctx, a.cfg.WatchInterval)
	}()

	select {
	case err = <-serveErr:
		stop()
		<-runErr
		return errors.Wrap(err, "metrics server failed")
	case err = <-runErr:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		a.logger.Warn("failed to stop metrics server", zap.Error(shutdownErr))
	}
	return err
}
