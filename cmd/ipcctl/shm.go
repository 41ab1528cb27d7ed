// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package main

import (
	"encoding/hex"

	"github.com/nxgtw/go-sysvipc/shm"

	"github.com/pkg/errors"
)

func (a *app) shm(args []string) error {
	if len(args) == 0 {
		return errors.New("shm: command expected: get, stat, rm, read, write")
	}
	fs, of := a.newFlagSet("shm " + args[0])
	size := fs.Int("size", 0, "size of a new object")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	var mem *shm.Memory
	created, err := of.acquire(func(flags int) (err error) {
		mem, err = shm.Get(of.key.key(), *size, flags, a.opts()...)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "failed to get shared memory object")
	}
	switch args[0] {
	case "get":
		return a.printYAML(acquireView{ID: mem.ID(), Created: created})
	case "stat":
		ds, err := mem.Stat()
		if err != nil {
			return err
		}
		return a.printYAML(newShmView(mem.ID(), ds))
	case "rm":
		return mem.Remove()
	case "read":
		values, err := parseInts(fs.Args())
		if err != nil {
			return err
		}
		if len(values) != 2 {
			return errors.New("shm read: must provide an offset and a length")
		}
		return mem.WithAttached(0, shm.ShmRdonly, func(seg *shm.Segment) error {
			data, err := seg.Read(values[1], values[0])
			if err != nil {
				return errors.Wrapf(err, "read %d bytes at %d of %d", values[1], values[0], seg.Len())
			}
			return a.printf("%s\n", hex.EncodeToString(data))
		})
	case "write":
		if fs.NArg() != 2 {
			return errors.New("shm write: must provide an offset and hex data")
		}
		offset, err := parseInts(fs.Args()[:1])
		if err != nil {
			return err
		}
		data, err := hex.DecodeString(fs.Arg(1))
		if err != nil {
			return errors.Wrap(err, "invalid hex data")
		}
		return mem.WithAttached(0, 0, func(seg *shm.Segment) error {
			if err := seg.Write(data, offset[0]); err != nil {
				return errors.Wrapf(err, "write %d bytes at %d of %d", len(data), offset[0], seg.Len())
			}
			return nil
		})
	default:
		return errors.Errorf("shm: unknown command %q", args[0])
	}
}
