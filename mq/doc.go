// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package mq provides handles for System V message queues.
//
// A MessageQueue is acquired with Get (or Open, which derives the key from a name)
// and owns nothing but the queue identifier. Queue contents, sizes and
// counters live in the kernel and are fetched with Stat.
// Send and Receive block as msgsnd(2) and msgrcv(2) do, unless ipc.IpcNoWait is passed.
package mq
