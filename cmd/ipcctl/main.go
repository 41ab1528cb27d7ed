// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

// Command ipcctl inspects and manipulates System V IPC objects.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/internal/logging"
)

const usage = `ipcctl - System V IPC tool.
usage: ipcctl [global flags] command [flags] [args]
available commands:
  key path proj
  mq get|stat|rm
  mq send [-type T] [-hex] data
  mq recv [-type T] [-size N] [-noerror] [-except] [-hex]
  sem get|stat|rm|getall -n N
  sem setall v1 v2 ...
  sem getval|pid|ncnt|zcnt index
  sem setval index value
  sem op [-undo] index:delta ...
  shm get|stat|rm -size N
  shm read offset length
  shm write offset hexdata
  watch -kind mq|sem|shm [-once]
objects are selected with -key (decimal, 0x hex or 0 octal, 0 is IPC_PRIVATE).
-create, -excl and -perm are used to create objects, -nowait makes blocking calls fail instead.
global flags:
`

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	logger := logging.NewOrNop(logging.Config{Level: cfg.LogLevel, Development: cfg.LogDev})
	defer logger.Sync()
	a := newApp(cfg, logger, ipc.DefaultKernel(), os.Stdout)
	if err := a.run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}
