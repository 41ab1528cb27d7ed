// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"unsafe"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/internal/allocator"
	testutil "github.com/nxgtw/go-sysvipc/internal/test"
	"github.com/nxgtw/go-sysvipc/mq"
	"github.com/nxgtw/go-sysvipc/sem"
	"github.com/nxgtw/go-sysvipc/shm"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

func newTestApp(k ipc.Kernel) (*app, *bytes.Buffer) {
	out := new(bytes.Buffer)
	cfg := &Config{LogLevel: "info", Perm: 0600, MetricsAddr: "127.0.0.1:0", WatchInterval: 1}
	return newApp(cfg, zap.NewNop(), k, out), out
}

func TestUnknownCommand(t *testing.T) {
	a, _ := newTestApp(testutil.NewScriptedKernel())
	assert.Error(t, a.run([]string{"msg"}))
	assert.Error(t, a.run(nil))
	assert.Error(t, a.run([]string{"mq"}))
	assert.Error(t, a.run([]string{"watch", "-kind", "fifo"}))
}

func TestKeyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, nil, 0600))
	expected, err := ipc.Ftok(path, 'a')
	require.NoError(t, err)

	a, out := newTestApp(testutil.NewScriptedKernel())
	require.NoError(t, a.run([]string{"key", path, "a"}))
	assert.Equal(t, expected.String()+"\n", out.String())
	out.Reset()
	require.NoError(t, a.run([]string{"key", path, "97"}))
	assert.Equal(t, expected.String()+"\n", out.String())

	assert.Error(t, a.run([]string{"key", path, "abc"}))
	assert.Error(t, a.run([]string{"key", path}))
}

func TestMqSend(t *testing.T) {
	a := assert.New(t)
	k := testutil.NewScriptedKernel().Return("msgget", ipc.Ok(4))
	var typ int64
	var data []byte
	var flags int
	k.Handle("msgsnd", func(args ...interface{}) ipc.Result {
		size := args[2].(int)
		raw := allocator.ByteSliceFromAddress(uintptr(args[1].(unsafe.Pointer)), 8+size)
		typ = int64(binary.NativeEndian.Uint64(raw))
		data = append([]byte(nil), raw[8:]...)
		flags = args[3].(int)
		return ipc.Ok(0)
	})
	app, _ := newTestApp(k)
	require.NoError(t, app.run([]string{"mq", "send", "-key", "0x10", "-type", "3", "-nowait", "hello"}))
	a.Equal(int64(3), typ)
	a.Equal([]byte("hello"), data)
	a.Equal(ipc.IpcNoWait, flags)
	a.Equal([]interface{}{ipc.Key(0x10), 0600}, k.Calls()[0].Args)

	require.NoError(t, app.run([]string{"mq", "send", "-key", "0x10", "-hex", "00ff"}))
	a.Equal(int64(1), typ)
	a.Equal([]byte{0, 0xff}, data)
	a.Equal(0, flags)
	a.Error(app.run([]string{"mq", "send", "-key", "0x10", "-hex", "0g"}))
}

func TestMqRecvAnyType(t *testing.T) {
	a := assert.New(t)
	k := testutil.NewScriptedKernel().Return("msgget", ipc.Ok(4))
	k.Handle("msgrcv", func(args ...interface{}) ipc.Result {
		a.Equal(int64(mq.AnyMessage), args[3])
		a.Equal(mq.MsgNoError, args[4])
		raw := allocator.ByteSliceFromAddress(uintptr(args[1].(unsafe.Pointer)), 8+args[2].(int))
		binary.NativeEndian.PutUint64(raw, 2)
		copy(raw[8:], "abc")
		return ipc.Ok(3)
	})
	app, out := newTestApp(k)
	require.NoError(t, app.run([]string{"mq", "recv", "-key", "0x10", "-noerror"}))
	var msg messageView
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &msg))
	a.Equal(messageView{Type: 2, Size: 3, Data: "abc"}, msg)
}

func TestMqStat(t *testing.T) {
	a := assert.New(t)
	k := testutil.NewScriptedKernel().Return("msgget", ipc.Ok(4))
	k.Handle("msgctl", func(args ...interface{}) ipc.Result {
		ds := (*mq.MsqidDS)(args[2].(unsafe.Pointer))
		ds.Qnum = 2
		ds.Cbytes = 10
		ds.Perm.Mode = 0640
		ds.Perm.Key = 0x10
		return ipc.Ok(0)
	})
	app, out := newTestApp(k)
	require.NoError(t, app.run([]string{"mq", "stat", "-key", "16"}))
	var view mqView
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &view))
	a.Equal(4, view.ID)
	a.Equal(uint64(2), view.Messages)
	a.Equal(uint64(10), view.Bytes)
	a.Equal("0640", view.Perm.Mode)
	a.Equal("0x10", view.Perm.Key)
	a.Empty(view.SendTime)
}

func TestSemSetAllTooManyValues(t *testing.T) {
	k := testutil.NewScriptedKernel().Return("semget", ipc.Ok(9))
	app, _ := newTestApp(k)
	err := app.run([]string{"sem", "setall", "-key", "0x10", "-n", "2", "1", "2", "3"})
	assert.True(t, ipc.IsArgumentError(err))
	assert.Equal(t, []string{"semget"}, k.Ops())
}

func TestSemOp(t *testing.T) {
	a := assert.New(t)
	k := testutil.NewScriptedKernel().Return("semget", ipc.Ok(9))
	var ops []ipc.Sembuf
	k.Handle("semop", func(args ...interface{}) ipc.Result {
		ops = args[1].([]ipc.Sembuf)
		return ipc.Ok(0)
	})
	app, _ := newTestApp(k)
	require.NoError(t, app.run([]string{"sem", "op", "-key", "0x10", "-nowait", "-undo", "0:-1", "2:1"}))
	flags := int16(ipc.IpcNoWait | sem.SemUndo)
	a.Equal([]ipc.Sembuf{{Num: 0, Op: -1, Flg: flags}, {Num: 2, Op: 1, Flg: flags}}, ops)

	a.Error(app.run([]string{"sem", "op", "-key", "0x10"}))
	a.Error(app.run([]string{"sem", "op", "-key", "0x10", "1"}))
	a.Error(app.run([]string{"sem", "op", "-key", "0x10", "1:x"}))
}

func TestSemGetVal(t *testing.T) {
	k := testutil.NewScriptedKernel().Return("semget", ipc.Ok(9))
	k.Handle("semctl", func(args ...interface{}) ipc.Result {
		return ipc.Ok(uintptr(args[1].(int) + 40))
	})
	app, out := newTestApp(k)
	require.NoError(t, app.run([]string{"sem", "getval", "-key", "0x10", "2"}))
	assert.Equal(t, "42\n", out.String())
	assert.Error(t, app.run([]string{"sem", "pid", "-key", "0x10"}))
}

func TestShmWriteRead(t *testing.T) {
	a := assert.New(t)
	buf := make([]byte, 16)
	k := testutil.NewScriptedKernel().
		Return("shmget", ipc.Ok(5)).
		Return("shmat", ipc.Ok(allocator.SliceAddress(buf))).
		Return("shmdt", ipc.Ok(0))
	k.Handle("shmctl", func(args ...interface{}) ipc.Result {
		if args[1].(int) == ipc.IpcStat {
			(*shm.ShmidDS)(args[2].(unsafe.Pointer)).Segsz = uint64(len(buf))
		}
		return ipc.Ok(0)
	})
	app, out := newTestApp(k)
	require.NoError(t, app.run([]string{"shm", "write", "-key", "0x10", "2", "0a0b"}))
	a.Equal([]byte{0xa, 0xb}, buf[2:4])
	require.NoError(t, app.run([]string{"shm", "read", "-key", "0x10", "2", "2"}))
	a.Equal("0a0b\n", out.String())

	a.Error(app.run([]string{"shm", "read", "-key", "0x10", "15", "2"}))
	a.Error(app.run([]string{"shm", "write", "-key", "0x10", "0", "zz"}))
	runtime.KeepAlive(buf)
}

func TestGetReportsCreation(t *testing.T) {
	a := assert.New(t)
	k := testutil.NewScriptedKernel().Return("msgget", ipc.Fail(unix.EEXIST), ipc.Ok(4))
	app, out := newTestApp(k)
	require.NoError(t, app.run([]string{"mq", "get", "-key", "0x10", "-create"}))
	var view acquireView
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &view))
	a.Equal(acquireView{ID: 4, Created: false}, view)
	a.Equal([]interface{}{ipc.Key(0x10), ipc.IpcCreat | ipc.IpcExcl | 0600}, k.Calls()[0].Args)
	a.Equal([]interface{}{ipc.Key(0x10), 0600}, k.Calls()[1].Args)

	k = testutil.NewScriptedKernel().Return("shmget", ipc.Ok(8))
	app, out = newTestApp(k)
	require.NoError(t, app.run([]string{"shm", "get", "-key", "0x10", "-size", "64", "-create", "-perm", "640"}))
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &view))
	a.Equal(acquireView{ID: 8, Created: true}, view)
	a.Equal([]interface{}{ipc.Key(0x10), 64, ipc.IpcCreat | ipc.IpcExcl | 0640}, k.Calls()[0].Args)
}
