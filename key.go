// Copyright 2016 Aleksandr Demakin. All rights reserved.

package ipc

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Key identifies a System V IPC object, as key_t does.
type Key int32

// String returns the key in the hex form ipcs(1) prints.
func (k Key) String() string {
	return "0x" + strconv.FormatUint(uint64(uint32(k)), 16)
}

// ParseKey parses a key in decimal, hex (0x) or octal (0) notation.
func ParseKey(s string) (Key, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid key %q", s)
	}
	if v < -1<<31 || v > 1<<32-1 {
		return 0, errors.Errorf("key %q is out of range", s)
	}
	return Key(int32(uint32(v))), nil
}

// Ftok converts a path name and a project identifier to a key, as ftok(3) does.
// The file must exist. Only the low 8 bits of projID are used, and they must not be all zero.
func Ftok(path string, projID int) (Key, error) {
	if projID&0xff == 0 {
		return 0, &ArgumentError{Op: "ftok", Reason: "project id must be nonzero"}
	}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, &os.PathError{Op: "ftok", Path: path, Err: err}
	}
	k := uint32(st.Ino&0xffff) | uint32(st.Dev&0xff)<<16 | uint32(projID&0xff)<<24
	return Key(int32(k)), nil
}

// KeyForName returns a key for a name, which is not a path.
// It creates a file with that name in the temp directory (if it does not exist)
// and calls Ftok on it. RemoveKeyFile deletes the file.
func KeyForName(name string, projID int) (Key, error) {
	path := TmpFilename(name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create a file for the key")
	}
	file.Close()
	k, err := Ftok(path, projID)
	if err != nil {
		os.Remove(path)
		return 0, errors.Wrap(err, "failed to generate a key for the name")
	}
	return k, nil
}

// RemoveKeyFile removes the file KeyForName created for the name.
func RemoveKeyFile(name string) error {
	if err := os.Remove(TmpFilename(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove key file")
	}
	return nil
}

// TmpFilename returns a path in the temp directory for a key name.
func TmpFilename(name string) string {
	return filepath.Join(os.TempDir(), name)
}
