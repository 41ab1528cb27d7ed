// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package shm provides handles for System V shared memory segments.
//
// Memory is a handle of the kernel object. Attach maps it into the address space
// of the process and returns a Segment. Segments are never detached implicitly:
// the same object may be attached several times, and each attachment lives until
// Detach is called for it. WithAttached is a scoped alternative.
package shm
