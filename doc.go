// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package ipc provides handles for System V inter-process communication objects.
// The handles live in the subpackages:
//	mq  - message queues (msgget, msgctl, msgsnd, msgrcv)
//	sem - semaphore sets (semget, semctl, semop)
//	shm - shared memory segments (shmget, shmctl, shmat, shmdt)
// This package holds what they share: keys, creation flags, the ipc_perm
// control block, the Kernel interface every system call goes through,
// and the two error kinds the handles return.
//
// A kernel failure is returned as *os.SyscallError, whose Err field is the
// syscall.Errno captured by the failing call. A caller-side precondition
// violation is returned as *ArgumentError, and in that case no system call
// has been made.
//
// The handles never retry. A call interrupted by a signal fails with EINTR
// (see IsInterrupted), and a non-blocking call which would block fails with
// EAGAIN or ENOMSG (see IsWouldBlock).
package ipc
