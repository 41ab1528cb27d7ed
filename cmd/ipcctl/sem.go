// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package main

import (
	"strconv"
	"strings"

	"github.com/nxgtw/go-sysvipc/sem"

	"github.com/pkg/errors"
)

func (a *app) sem(args []string) error {
	if len(args) == 0 {
		return errors.New("sem: command expected: get, stat, rm, getall, setall, getval, setval, pid, ncnt, zcnt, op")
	}
	fs, of := a.newFlagSet("sem " + args[0])
	n := fs.Int("n", 0, "number of semaphores. 0 uses the size of an existing set")
	undo := fs.Bool("undo", false, "undo operations when the process exits")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	var set *sem.Set
	created, err := of.acquire(func(flags int) (err error) {
		set, err = sem.Get(of.key.key(), *n, flags, a.opts()...)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "failed to get semaphore set")
	}
	if *n == 0 && args[0] == "setall" {
		size, err := set.Size()
		if err != nil {
			return err
		}
		if set, err = sem.Get(of.key.key(), size, 0, a.opts()...); err != nil {
			return errors.Wrap(err, "failed to get semaphore set")
		}
	}
	switch args[0] {
	case "get":
		return a.printYAML(acquireView{ID: set.ID(), Created: created})
	case "stat":
		ds, err := set.Stat()
		if err != nil {
			return err
		}
		values, err := set.GetAll()
		if err != nil {
			return err
		}
		return a.printYAML(newSemView(set.ID(), ds, values))
	case "rm":
		return set.Remove()
	case "getall":
		values, err := set.GetAll()
		if err != nil {
			return err
		}
		return a.printf("%s\n", joinInts(values))
	case "setall":
		values, err := parseInts(fs.Args())
		if err != nil {
			return err
		}
		return set.SetAll(values)
	case "getval", "pid", "ncnt", "zcnt":
		if fs.NArg() != 1 {
			return errors.Errorf("sem %s: must provide exactly one index", args[0])
		}
		index, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return errors.Wrap(err, "invalid index")
		}
		read := map[string]func(int) (int, error){
			"getval": set.Value,
			"pid":    set.Pid,
			"ncnt":   set.IncreaseWaiters,
			"zcnt":   set.ZeroWaiters,
		}[args[0]]
		v, err := read(index)
		if err != nil {
			return err
		}
		return a.printf("%d\n", v)
	case "setval":
		values, err := parseInts(fs.Args())
		if err != nil {
			return err
		}
		if len(values) != 2 {
			return errors.New("sem setval: must provide an index and a value")
		}
		return set.SetValue(values[0], values[1])
	case "op":
		flags := of.waitFlags()
		if *undo {
			flags |= sem.SemUndo
		}
		ops, err := parseOps(fs.Args(), flags)
		if err != nil {
			return err
		}
		return set.Apply(ops...)
	default:
		return errors.Errorf("sem: unknown command %q", args[0])
	}
}

// parseOps parses operations in "index:delta" form.
func parseOps(args []string, flags int) ([]sem.Op, error) {
	if len(args) == 0 {
		return nil, errors.New("sem op: must provide at least one index:delta operation")
	}
	ops := make([]sem.Op, len(args))
	for i, arg := range args {
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("invalid operation %q", arg)
		}
		values, err := parseInts(parts)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid operation %q", arg)
		}
		ops[i] = sem.Op{Index: values[0], Delta: values[1], Flags: flags}
	}
	return ops, nil
}

func joinInts(values []int) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, " ")
}
