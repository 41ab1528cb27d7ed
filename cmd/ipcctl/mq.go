// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package main

import (
	"encoding/hex"

	"github.com/nxgtw/go-sysvipc/mq"

	"github.com/pkg/errors"
)

func (a *app) mq(args []string) error {
	if len(args) == 0 {
		return errors.New("mq: command expected: get, stat, rm, send, recv")
	}
	fs, of := a.newFlagSet("mq " + args[0])
	typ := fs.Int64("type", 1, "message type. for recv it is 0 (any message) by default")
	size := fs.Int("size", 8192, "max size of a received message")
	noerror := fs.Bool("noerror", false, "truncate long messages instead of failing")
	except := fs.Bool("except", false, "receive the first message of a type other than -type")
	useHex := fs.Bool("hex", false, "message data is hex encoded")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	var q *mq.MessageQueue
	created, err := of.acquire(func(flags int) (err error) {
		q, err = mq.Get(of.key.key(), flags, a.opts()...)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "failed to get message queue")
	}
	switch args[0] {
	case "get":
		return a.printYAML(acquireView{ID: q.ID(), Created: created})
	case "stat":
		ds, err := q.Stat()
		if err != nil {
			return err
		}
		return a.printYAML(newMqView(q.ID(), ds))
	case "rm":
		return q.Remove()
	case "send":
		if fs.NArg() != 1 {
			return errors.New("mq send: must provide exactly one data argument")
		}
		data := []byte(fs.Arg(0))
		if *useHex {
			if data, err = hex.DecodeString(fs.Arg(0)); err != nil {
				return errors.Wrap(err, "invalid hex data")
			}
		}
		return q.Send(*typ, data, of.waitFlags())
	case "recv":
		flags := of.waitFlags()
		if *noerror {
			flags |= mq.MsgNoError
		}
		if *except {
			flags |= mq.MsgExcept
		}
		if !isFlagSet(fs, "type") {
			*typ = mq.AnyMessage
		}
		msg, err := q.ReceiveMessage(*typ, *size, flags)
		if err != nil {
			return err
		}
		view := messageView{Type: msg.Type, Size: len(msg.Data), Data: string(msg.Data)}
		if *useHex {
			view.Data = hex.EncodeToString(msg.Data)
		}
		return a.printYAML(view)
	default:
		return errors.Errorf("mq: unknown command %q", args[0])
	}
}
