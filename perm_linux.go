// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package ipc

import "os"

// Perm is struct ipc64_perm, the ownership and permission part of every control block.
// Set calls apply Uid, Gid and the permission bits of Mode, the kernel ignores the rest.
type Perm struct {
	Key  Key
	Uid  uint32
	Gid  uint32
	Cuid uint32
	Cgid uint32
	Mode uint32
	Seq  uint16
	_    uint16
	_    uint64
	_    uint64
}

// FileMode returns the permission bits of the object.
func (p *Perm) FileMode() os.FileMode {
	return os.FileMode(p.Mode & PermMask)
}

// SetFileMode replaces the permission bits of the object, keeping the other mode bits.
func (p *Perm) SetFileMode(perm os.FileMode) {
	p.Mode = p.Mode&^PermMask | uint32(perm)&PermMask
}
