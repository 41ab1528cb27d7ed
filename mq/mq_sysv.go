// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package mq

import (
	"encoding/binary"
	"os"
	"unsafe"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/internal/allocator"
	"github.com/nxgtw/go-sysvipc/internal/common"

	"github.com/pkg/errors"
)

const (
	// AnyMessage makes Receive take the first message of any type.
	AnyMessage = 0

	// MsgNoError makes Receive truncate a message longer than maxSize instead of failing with E2BIG.
	MsgNoError = 010000
	// MsgExcept makes Receive take the first message, whose type is not equal to the requested one.
	MsgExcept = 020000

	// size of 'long mtype', which precedes the message text.
	typeDataSize = int(unsafe.Sizeof(int64(0)))
)

// Message is a received message with its type.
type Message struct {
	Type int64
	Data []byte
}

// MessageQueue is a handle of a System V message queue.
type MessageQueue struct {
	id     int
	kernel ipc.Kernel
}

// Get returns a handle of the queue for the key, as msgget(2) does.
//	key - ipc.Private, or a key from ipc.Ftok, ipc.KeyForName or elsewhere.
//	flags - ipc.IpcCreat, ipc.IpcExcl and the permission bits of a new queue.
func Get(key ipc.Key, flags int, opts ...ipc.Option) (*MessageQueue, error) {
	o := ipc.ApplyOptions(opts)
	id, err := ipc.Check("msgget", o.Kernel.Msgget(key, flags))
	if err != nil {
		return nil, err
	}
	return &MessageQueue{id: id, kernel: o.Kernel}, nil
}

// Open returns a handle of the queue for the name.
// It generates a key from the name, and then calls Get.
//	flag - a combination of os.O_CREATE and os.O_EXCL.
//	perm - permissions of a new queue.
func Open(name string, flag int, perm os.FileMode, opts ...ipc.Option) (*MessageQueue, error) {
	flags, err := common.IpcFlags(flag, perm)
	if err != nil {
		return nil, errors.Wrap(err, "invalid open flags")
	}
	k, err := ipc.KeyForName(name, 'q')
	if err != nil {
		return nil, err
	}
	return Get(k, flags, opts...)
}

// Destroy permanently removes the queue with the given name, if it exists.
func Destroy(name string, opts ...ipc.Option) error {
	mq, err := Open(name, 0, 0, opts...)
	if err != nil {
		if ipc.IsNotExist(err) {
			return ipc.RemoveKeyFile(name)
		}
		return errors.Wrap(err, "failed to open the queue")
	}
	if err = mq.Remove(); err != nil {
		return errors.Wrap(err, "failed to remove the queue")
	}
	return ipc.RemoveKeyFile(name)
}

// ID returns the queue identifier.
func (mq *MessageQueue) ID() int {
	return mq.id
}

// Send puts a message into the queue.
//	typ - message type, must be positive.
//	data - message text.
//	flags - 0 or ipc.IpcNoWait. Without it Send blocks while the queue is full.
func (mq *MessageQueue) Send(typ int64, data []byte, flags int) error {
	message := make([]byte, typeDataSize+len(data))
	binary.NativeEndian.PutUint64(message, uint64(typ))
	copy(message[typeDataSize:], data)
	_, err := ipc.Check("msgsnd", mq.kernel.Msgsnd(mq.id, allocator.ByteSliceData(message), len(data), flags))
	return err
}

// Receive takes a message from the queue and returns its text.
//	typ - AnyMessage, a positive type to receive that type only,
//	or a negative value to receive the lowest type less than or equal to -typ.
//	maxSize - the maximum text size. A longer message fails with E2BIG, unless MsgNoError is set.
//	flags - a combination of ipc.IpcNoWait, MsgNoError and MsgExcept.
func (mq *MessageQueue) Receive(typ int64, maxSize int, flags int) ([]byte, error) {
	msg, err := mq.ReceiveMessage(typ, maxSize, flags)
	if err != nil {
		return nil, err
	}
	return msg.Data, nil
}

// ReceiveMessage is Receive, which also returns the type of the received message.
func (mq *MessageQueue) ReceiveMessage(typ int64, maxSize int, flags int) (Message, error) {
	if maxSize < 0 {
		return Message{}, &ipc.ArgumentError{Op: "msgrcv", Reason: "negative message size"}
	}
	message := make([]byte, typeDataSize+maxSize)
	n, err := ipc.Check("msgrcv", mq.kernel.Msgrcv(mq.id, allocator.ByteSliceData(message), maxSize, typ, flags))
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type: int64(binary.NativeEndian.Uint64(message)),
		Data: message[typeDataSize : typeDataSize+n],
	}, nil
}

// Stat returns a copy of the queue's control block.
func (mq *MessageQueue) Stat() (*MsqidDS, error) {
	var ds MsqidDS
	if _, err := ipc.Check("msgctl", mq.kernel.Msgctl(mq.id, ipc.IpcStat, unsafe.Pointer(&ds))); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Set writes the control block back to the kernel.
// The kernel applies owner uid and gid, permission bits and Qbytes, other fields are ignored.
func (mq *MessageQueue) Set(ds *MsqidDS) error {
	if ds == nil {
		return &ipc.ArgumentError{Op: "msgctl", Reason: "nil control block"}
	}
	_, err := ipc.Check("msgctl", mq.kernel.Msgctl(mq.id, ipc.IpcSet, unsafe.Pointer(ds)))
	return err
}

// Len returns the number of messages in the queue.
func (mq *MessageQueue) Len() (int, error) {
	ds, err := mq.Stat()
	if err != nil {
		return 0, err
	}
	return int(ds.Qnum), nil
}

// Remove destroys the queue. Waiting senders and receivers fail with EIDRM,
// and any later call through a handle of this queue fails.
func (mq *MessageQueue) Remove() error {
	_, err := ipc.Check("msgctl", mq.kernel.Msgctl(mq.id, ipc.IpcRmid, nil))
	return err
}
