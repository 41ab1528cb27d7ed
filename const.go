// Copyright 2016 Aleksandr Demakin. All rights reserved.

package ipc

import "golang.org/x/sys/unix"

// Private is the IPC_PRIVATE key. Acquiring an object with it always creates a new one.
const Private Key = unix.IPC_PRIVATE

// flags for msgget, semget and shmget.
// the low 9 bits of the flags are the permission bits of a created object.
const (
	IpcCreat = unix.IPC_CREAT /* create if key is nonexistent */
	IpcExcl  = unix.IPC_EXCL  /* fail if key exists */
)

// IpcNoWait makes msgsnd, msgrcv and semop fail instead of blocking.
const IpcNoWait = unix.IPC_NOWAIT

// control commands shared by msgctl, semctl and shmctl.
const (
	IpcRmid = unix.IPC_RMID /* remove resource */
	IpcSet  = unix.IPC_SET  /* set ipc_perm options */
	IpcStat = unix.IPC_STAT /* get ipc_perm options */
)

// PermMask selects the permission bits of a mode or a flags value.
const PermMask = 0777
