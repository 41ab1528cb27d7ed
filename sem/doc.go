// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package sem provides handles for System V semaphore sets.
//
// A Set is acquired with Get (or Open) for a declared number of semaphores.
// Bulk reads and writes (GetAll, SetAll) and operation batches (Apply)
// are single semctl(2) or semop(2) calls, so they are atomic in the kernel.
// Apply blocks while any operation of the batch cannot proceed,
// unless that operation has ipc.IpcNoWait in its flags.
package sem
