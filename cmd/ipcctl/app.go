// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/instrument"
	"github.com/nxgtw/go-sysvipc/internal/common"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type app struct {
	cfg      *Config
	logger   *zap.Logger
	registry *prometheus.Registry
	kernel   ipc.Kernel
	out      io.Writer
}

// newApp returns an app, which makes calls through k, decorated with metrics and logging.
func newApp(cfg *Config, logger *zap.Logger, k ipc.Kernel, out io.Writer) *app {
	reg := prometheus.NewRegistry()
	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		kernel:   instrument.NewLogging(instrument.NewMetrics(k, reg), logger),
		out:      out,
	}
}

func (a *app) opts() []ipc.Option {
	return []ipc.Option{ipc.WithKernel(a.kernel)}
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		return errors.New("command expected")
	}
	switch args[0] {
	case "key":
		return a.key(args[1:])
	case "mq":
		return a.mq(args[1:])
	case "sem":
		return a.sem(args[1:])
	case "shm":
		return a.shm(args[1:])
	case "watch":
		return a.watch(args[1:])
	default:
		return errors.Errorf("unknown command %q", args[0])
	}
}

func (a *app) key(args []string) error {
	if len(args) != 2 {
		return errors.New("key: must provide a path and a project id")
	}
	proj, err := parseProjID(args[1])
	if err != nil {
		return err
	}
	k, err := ipc.Ftok(args[0], proj)
	if err != nil {
		return err
	}
	return a.printf("%s\n", k)
}

// parseProjID accepts a number or a single character.
func parseProjID(s string) (int, error) {
	if v, err := strconv.ParseInt(s, 0, 32); err == nil {
		return int(v), nil
	}
	if len(s) == 1 {
		return int(s[0]), nil
	}
	return 0, errors.Errorf("invalid project id %q", s)
}

func (a *app) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(a.out, format, args...)
	return err
}

func (a *app) printYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	_, err = a.out.Write(data)
	return err
}

// objectFlags are the flags, which select an object and build the flags of its get call.
type objectFlags struct {
	key    keyValue
	create bool
	excl   bool
	perm   permValue
	nowait bool
}

func (a *app) newFlagSet(name string) (*flag.FlagSet, *objectFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	of := &objectFlags{perm: a.cfg.Perm}
	fs.Var(&of.key, "key", "object key")
	fs.BoolVar(&of.create, "create", false, "create the object if it does not exist")
	fs.BoolVar(&of.excl, "excl", false, "fail if the object exists")
	fs.Var(&of.perm, "perm", "permissions of a new object, octal")
	fs.BoolVar(&of.nowait, "nowait", false, "fail instead of blocking")
	return fs, of
}

func (of *objectFlags) getFlags() int {
	flags := int(of.perm)
	if of.create {
		flags |= ipc.IpcCreat
	}
	if of.excl {
		flags |= ipc.IpcExcl
	}
	return flags
}

// acquire calls get with the flags built from the command line, and returns whether
// the object was created. With -create and without -excl the object is first created
// exclusively, and then opened, if it exists.
func (of *objectFlags) acquire(get func(flags int) error) (bool, error) {
	if !of.create || of.excl {
		err := get(of.getFlags())
		return err == nil && of.create, err
	}
	return common.OpenOrCreate(func(create bool) error {
		flags := int(of.perm)
		if create {
			flags |= ipc.IpcCreat | ipc.IpcExcl
		}
		return get(flags)
	})
}

type acquireView struct {
	ID      int  `yaml:"id"`
	Created bool `yaml:"created"`
}

func (of *objectFlags) waitFlags() int {
	if of.nowait {
		return ipc.IpcNoWait
	}
	return 0
}

// keyValue is a flag.Value for ipc keys.
type keyValue ipc.Key

func (k *keyValue) String() string {
	return ipc.Key(*k).String()
}

func (k *keyValue) key() ipc.Key {
	return ipc.Key(*k)
}

func (k *keyValue) Set(s string) error {
	v, err := ipc.ParseKey(s)
	if err != nil {
		return err
	}
	*k = keyValue(v)
	return nil
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	var result bool
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			result = true
		}
	})
	return result
}

func parseInts(args []string) ([]int, error) {
	result := make([]int, len(args))
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value at %d", i)
		}
		result[i] = v
	}
	return result, nil
}
